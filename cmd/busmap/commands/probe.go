package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/busmap/busmap-go/pkg/endpoint"
	"github.com/busmap/busmap-go/pkg/hdl"
)

// Prober answers address queries against an elaborated endpoint.
type Prober struct {
	ep *endpoint.Endpoint
}

// NewProber returns a prober for ep.
func NewProber(ep *endpoint.Endpoint) *Prober {
	return &Prober{ep: ep}
}

// Exec runs one probe command and writes its answer to w. It reports false
// when the session should end.
func (p *Prober) Exec(line string, w io.Writer) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	switch cmd := strings.ToLower(parts[0]); cmd {
	case "help", "?":
		printProbeHelp(w)
	case "quit", "exit", "q":
		return false
	case "map", "m":
		formatMapText(w, NewMapReport(p.ep))
	case "eval", "e":
		p.cmdEval(parts[1:], w)
	default:
		// A bare address is a lookup.
		p.cmdLookup(parts, w)
	}
	return true
}

func (p *Prober) cmdLookup(args []string, w io.Writer) {
	if len(args) > 0 && (args[0] == "lookup" || args[0] == "l") {
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintln(w, "usage: lookup <addr>...")
		return
	}
	for _, s := range args {
		a, err := ParseAddr(s)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		e, word, ok := p.ep.Lookup(a)
		if !ok {
			fmt.Fprintf(w, "%#x: unmapped\n", a)
			continue
		}
		switch e.Class {
		case endpoint.ClassBlockMemory:
			fmt.Fprintf(w, "%#x: %s[%d] (%s, %s)\n", a, e.Field.Path, word, e.Intf.Kind(), e.Access)
		default:
			fmt.Fprintf(w, "%#x: %s (%s, %s)\n", a, e.Field.Path, e.Intf.Kind(), e.Access)
		}
	}
}

// cmdEval evaluates the generated decode logic for an address, which must
// agree with lookup.
func (p *Prober) cmdEval(args []string, w io.Writer) {
	if len(args) != 1 {
		fmt.Fprintln(w, "usage: eval <addr>")
		return
	}
	a, err := ParseAddr(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	addr := hdl.NewSignal("addr", p.ep.Config().Bus.AddrWidth)
	if a > hdl.Mask(addr.Width()) {
		fmt.Fprintf(w, "Error: %#x does not fit in %d address bits\n", a, addr.Width())
		return
	}
	src, err := p.ep.RemapAddress(addr)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	decodes, err := p.ep.Decoders(src)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	env := hdl.Env{"addr": a}
	in, err := hdl.Eval(p.ep.IsInRange(src), env)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "in_range = %d\n", in)
	for _, d := range decodes {
		hit, err := hdl.Eval(d.Hit, env)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return
		}
		if hit == 0 {
			continue
		}
		local, err := hdl.Eval(d.Local, env)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(w, "hit %s local=%#x\n", d.Entry.Field.Path, local)
	}
}

func printProbeHelp(w io.Writer) {
	fmt.Fprint(w, `Commands:
  <addr>...          Look up raw bus addresses (remapped first)
  lookup, l <addr>   Same as a bare address
  eval, e <addr>     Evaluate the generated decode logic for an address
  map, m             Print the address map
  help, ?            Show this help
  quit, q            Leave
`)
}

// RunProbe starts an interactive probe session on the terminal.
func RunProbe(ep *endpoint.Endpoint) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "busmap> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	p := NewProber(ep)
	printProbeHelp(rl.Stdout())
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if !p.Exec(line, rl.Stdout()) {
			return nil
		}
	}
}
