package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/busmap/busmap-go/pkg/specparse"
)

func main() {
	defPath := flag.String("def", "", "Path to the device definition YAML")
	sharedPath := flag.String("shared", "", "Path to shared types YAML")
	goOutput := flag.String("go-out", "", "Output directory for the generated Go file")
	pkg := flag.String("package", "", "Package name of the generated Go file (default: derived from the device name)")
	verilogOutput := flag.String("verilog-out", "", "Output directory for the generated Verilog header")
	flag.Parse()

	if *defPath == "" || (*goOutput == "" && *verilogOutput == "") {
		fmt.Fprintln(os.Stderr, "Usage: busmap-gen -def <path> [-shared <path>] [-go-out <dir>] [-package <name>] [-verilog-out <dir>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*defPath, *sharedPath, *goOutput, *pkg, *verilogOutput); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(defPath, sharedPath, goOutput, pkg, verilogOutput string) error {
	def, err := specparse.LoadDeviceDef(defPath)
	if err != nil {
		return fmt.Errorf("loading device definition: %w", err)
	}
	if sharedPath != "" {
		shared, err := specparse.LoadSharedTypes(sharedPath)
		if err != nil {
			return fmt.Errorf("loading shared types: %w", err)
		}
		def = def.WithShared(shared)
	}

	ep, err := Elaborate(def)
	if err != nil {
		return err
	}

	if goOutput != "" {
		code, err := GenerateGo(def, ep, pkg)
		if err != nil {
			return fmt.Errorf("generating Go: %w", err)
		}
		if err := os.MkdirAll(goOutput, 0o755); err != nil {
			return fmt.Errorf("creating Go output dir: %w", err)
		}
		outPath := filepath.Join(goOutput, goFileName(def.Name))
		if err := writeFormatted(outPath, code); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(outPath), err)
		}
		fmt.Printf("  generated %s\n", outPath)
	}

	if verilogOutput != "" {
		code, err := GenerateVerilog(def, ep)
		if err != nil {
			return fmt.Errorf("generating Verilog: %w", err)
		}
		if err := os.MkdirAll(verilogOutput, 0o755); err != nil {
			return fmt.Errorf("creating Verilog output dir: %w", err)
		}
		outPath := filepath.Join(verilogOutput, specparse.FileName(def.Name)+".vh")
		if err := os.WriteFile(outPath, []byte(code), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(outPath), err)
		}
		fmt.Printf("  generated %s\n", outPath)
	}

	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}

// goFileName converts "RegBank" to "reg_bank_gen.go".
func goFileName(name string) string {
	return strings.ReplaceAll(specparse.FileName(name), "-", "_") + "_gen.go"
}
