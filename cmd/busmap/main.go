// busmap elaborates device definitions into bus address maps.
//
// Usage:
//
//	busmap <command> [options] <file>
//
// Commands:
//
//	map      Print the address map of a device definition
//	remap    List the remap regions and translate addresses
//	decode   Print the generated address decode expressions
//	probe    Look up addresses interactively
//	log      Display events from an elaboration log
//	stats    Show statistics about an elaboration log
//
// Examples:
//
//	busmap map regs.yaml
//	busmap map -format yaml -shared shared.yaml regs.yaml
//	busmap remap -hdl swap.yaml 0x1 0x3
//	busmap map -event-log regs.blog regs.yaml
//	busmap log -stage bind regs.blog
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/busmap/busmap-go/cmd/busmap/commands"
	"github.com/busmap/busmap-go/pkg/endpoint"
	"github.com/busmap/busmap-go/pkg/log"
)

const usage = `busmap - Bus address map elaboration tool

Usage:
  busmap <command> [options] <file>

Commands:
  map      Print the address map of a device definition
  remap    List the remap regions and translate addresses
  decode   Print the generated address decode expressions
  probe    Look up addresses interactively
  log      Display events from an elaboration log
  stats    Show statistics about an elaboration log

Run 'busmap <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "map":
		runMap(args)
	case "remap":
		runRemap(args)
	case "decode":
		runDecode(args)
	case "probe":
		runProbe(args)
	case "log":
		runLog(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// elabFlags are the flags shared by every command that elaborates a
// definition.
type elabFlags struct {
	shared   *string
	logLevel *string
	eventLog *string
}

func addElabFlags(fs *flag.FlagSet) elabFlags {
	return elabFlags{
		shared:   fs.String("shared", "", "Shared types file"),
		logLevel: fs.String("log-level", "", "Log elaboration events to stderr (debug, info, warn, error)"),
		eventLog: fs.String("event-log", "", "Append elaboration events to a log file"),
	}
}

// load elaborates the definition at path. The returned function closes the
// event log.
func (f elabFlags) load(path string) (*endpoint.Endpoint, func(), error) {
	var loggers []log.Logger
	closeFn := func() {}

	if *f.logLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(*f.logLevel)); err != nil {
			return nil, closeFn, fmt.Errorf("invalid log level %q", *f.logLevel)
		}
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(h)))
	}
	if *f.eventLog != "" {
		fl, err := log.NewFileLogger(*f.eventLog)
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = func() { fl.Close() }
		loggers = append(loggers, fl)
	}

	opts := commands.LoadOptions{DefPath: path, SharedPath: *f.shared}
	if len(loggers) > 0 {
		opts.Logger = log.NewMultiLogger(loggers...)
	}
	_, ep, err := commands.Load(opts)
	if err != nil {
		return nil, closeFn, err
	}
	return ep, closeFn, nil
}

func mustLoad(fs *flag.FlagSet, f elabFlags) (*endpoint.Endpoint, func()) {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: definition file path required")
		fs.Usage()
		os.Exit(1)
	}
	ep, closeFn, err := f.load(fs.Arg(0))
	if err != nil {
		closeFn()
		fatal(err)
	}
	return ep, closeFn
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func setUsage(fs *flag.FlagSet, text string) {
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, text)
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
	}
}

func runMap(args []string) {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	setUsage(fs, `busmap map - Print the address map of a device definition

Usage:
  busmap map [options] <device.yaml>

`)
	format := fs.String("format", "text", "Output format (text, json, yaml)")
	output := fs.String("o", "", "Output file (default: stdout)")
	ef := addElabFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	ep, closeFn := mustLoad(fs, ef)
	defer closeFn()

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatal(fmt.Errorf("failed to create output file: %w", err))
		}
		defer f.Close()
		w = f
	}

	if err := commands.RunMap(ep, *format, w); err != nil {
		fatal(err)
	}
}

func runRemap(args []string) {
	fs := flag.NewFlagSet("remap", flag.ExitOnError)
	setUsage(fs, `busmap remap - List the remap regions and translate addresses

Usage:
  busmap remap [options] <device.yaml> [addr...]

`)
	showHDL := fs.Bool("hdl", false, "Print the generated address dispatch")
	ef := addElabFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	ep, closeFn := mustLoad(fs, ef)
	defer closeFn()

	opts := commands.RemapOptions{Addrs: fs.Args()[1:], HDL: *showHDL}
	if err := commands.RunRemap(ep, opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	setUsage(fs, `busmap decode - Print the generated address decode expressions

Usage:
  busmap decode [options] <device.yaml>

`)
	ef := addElabFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	ep, closeFn := mustLoad(fs, ef)
	defer closeFn()

	if err := commands.RunDecode(ep, os.Stdout); err != nil {
		fatal(err)
	}
}

func runProbe(args []string) {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	setUsage(fs, `busmap probe - Look up addresses interactively

Usage:
  busmap probe [options] <device.yaml>

`)
	ef := addElabFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	ep, closeFn := mustLoad(fs, ef)
	defer closeFn()

	if err := commands.RunProbe(ep); err != nil {
		fatal(err)
	}
}

func runLog(args []string) {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	setUsage(fs, `busmap log - Display events from an elaboration log

Usage:
  busmap log [options] <file.blog>

`)
	stage := fs.String("stage", "", "Filter by stage (layout, bind, remap, connect)")
	category := fs.String("category", "", "Filter by category (field, region, summary, connection, error)")
	elabID := fs.String("elab-id", "", "Filter by elaboration ID")
	subject := fs.String("subject", "", "Filter by subject")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter := log.Filter{ElaborationID: *elabID, Subject: *subject}
	var err error
	if filter.Stage, err = commands.ParseStageFlag(strings.TrimSpace(*stage)); err != nil {
		fatal(err)
	}
	if filter.Category, err = commands.ParseCategoryFlag(strings.TrimSpace(*category)); err != nil {
		fatal(err)
	}

	if err := commands.RunLogView(fs.Arg(0), filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `busmap stats - Show statistics about an elaboration log

Usage:
  busmap stats <file.blog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunLogStats(fs.Arg(0), os.Stdout); err != nil {
		fatal(err)
	}
}
