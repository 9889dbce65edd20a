// cmd/axionvm is the Axion VM's command-line front end: a flat
// os.Args dispatch table in the shape of the teacher project's
// cmd/sentra/main.go, not a cobra/urfave framework.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"axion/internal/disasm"
	"axion/internal/events"
	"axion/internal/store"
	"axion/pkg/axionvm"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "run":
		if err := runCommand(rest); err != nil {
			log.Fatalf("axionvm run: %v", err)
		}
	case "disasm":
		if err := disasmCommand(rest); err != nil {
			log.Fatalf("axionvm disasm: %v", err)
		}
	case "serve":
		if err := serveCommand(rest); err != nil {
			log.Fatalf("axionvm serve: %v", err)
		}
	case "runmany":
		if err := runManyCommand(rest); err != nil {
			log.Fatalf("axionvm runmany: %v", err)
		}
	case "--help", "-h", "help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "axionvm: unknown command %q\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`axionvm - a recursive, symbolic ternary virtual machine

Usage:
  axionvm run [--journal <dsn>] <file.axc>
                                     execute a bytecode file to completion,
                                     optionally journaling events to a SQL
                                     store (e.g. --journal sqlite://run.db)
  axionvm disasm <file.axc>         print a disassembly listing
  axionvm serve <addr>              serve a WebSocket event feed at /events
  axionvm runmany <file.axc>...     execute several programs concurrently
  axionvm help                      show this message`)
}

func runCommand(args []string) error {
	file, journalDSN, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	code, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var journal *store.Store
	if journalDSN != "" {
		journal, err = store.Open(journalDSN)
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer journal.Close()
	}

	return executeToHalt(code, os.Stdout, journal)
}

// parseRunArgs pulls the optional --journal <dsn> flag out of run's
// argument list, leaving the bytecode file path as the sole positional
// argument. Kept as flat manual parsing, matching the rest of this
// command's dispatch, rather than reaching for the flag package.
func parseRunArgs(args []string) (file, journalDSN string, err error) {
	usage := "usage: axionvm run [--journal <dsn>] <file.axc>"
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--journal":
			if i+1 >= len(args) {
				return "", "", fmt.Errorf("%s", usage)
			}
			journalDSN = args[i+1]
			i++
		default:
			if file != "" {
				return "", "", fmt.Errorf("%s", usage)
			}
			file = args[i]
		}
	}
	if file == "" {
		return "", "", fmt.Errorf("%s", usage)
	}
	return file, journalDSN, nil
}

// multiCallback fans one Event out to several Callbacks, letting run
// journal to a Store and print to the terminal from a single
// SetEventCallback slot.
type multiCallback []events.Callback

func (m multiCallback) OnEvent(e events.Event) {
	for _, cb := range m {
		cb.OnEvent(e)
	}
}

func executeToHalt(code []byte, out io.Writer, journal *store.Store) error {
	v, err := axionvm.New(axionvm.DefaultConfig())
	if err != nil {
		return err
	}
	defer v.Close()

	printer := axionvm.EventCallbackFunc(func(e axionvm.Event) {
		if e.Kind == events.OpcodeExecuted {
			return
		}
		fmt.Fprintf(out, "[%s] %+v\n", e.Kind, e)
	})

	var cb axionvm.EventCallback = printer
	if journal != nil {
		cb = multiCallback{printer, journal}
	}
	if err := v.SetEventCallback(cb); err != nil {
		return err
	}

	if err := v.Load(code); err != nil {
		return err
	}

	for !v.Halted() {
		steps, err := v.Execute(context.Background(), 4096)
		if err != nil {
			return err
		}
		if steps == 0 {
			break
		}
	}

	top, err := v.Peek()
	if err == nil {
		fmt.Fprintf(out, "top of stack: %+v\n", top)
	}
	fmt.Fprintf(out, "tier=%s depth=%d halted=%v\n", v.Tier(), v.Depth(), v.Halted())
	return nil
}

func disasmCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: axionvm disasm <file.axc>")
	}
	code, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	listing, err := disasm.Disassemble(code)
	fmt.Print(listing.String())
	return err
}

func serveCommand(args []string) error {
	addr := ":8743"
	if len(args) == 1 {
		addr = args[0]
	}
	sink := events.NewWebSocketSink()
	mux := http.NewServeMux()
	mux.Handle("/events", sink)
	fmt.Printf("axionvm: serving event feed on %s/events\n", addr)
	return http.ListenAndServe(addr, mux)
}

// runManyCommand executes several independent programs concurrently,
// one VM per file, joined with an errgroup — the host-side
// synchronization spec.md requires callers to add themselves, since
// the core never locks internally.
func runManyCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: axionvm runmany <file.axc>...")
	}
	var g errgroup.Group
	for _, path := range args {
		path := path
		g.Go(func() error {
			code, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			v, err := axionvm.New(axionvm.DefaultConfig())
			if err != nil {
				return err
			}
			defer v.Close()
			if err := v.Load(code); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for !v.Halted() {
				steps, err := v.Execute(context.Background(), 4096)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if steps == 0 {
					break
				}
			}
			fmt.Printf("%s: tier=%s depth=%d halted=%v\n", path, v.Tier(), v.Depth(), v.Halted())
			return nil
		})
	}
	return g.Wait()
}
