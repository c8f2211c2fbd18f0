// cmd/stackvm/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"stackvm/internal/debugger"
	"stackvm/internal/diagnostics"
	"stackvm/internal/engine"
	"stackvm/internal/program"
)

const version = "1.0.0"

func main() {
	programFile := flag.String("program", "", "compiled program file to load (binary container format)")
	demoName := flag.String("demo", "", "run an embedded demo program instead of -program (see -list-demos)")
	listDemos := flag.Bool("list-demos", false, "list embedded demo program names and exit")
	stackSize := flag.Int("stack-size", 0, "override the operand stack capacity (0 keeps the default)")
	timeout := flag.Duration("timeout", 0, "cancel execution after this long (0 disables the timeout)")
	debug := flag.Bool("debug", false, "attach the interactive debugger, paused at the first instruction")
	printStack := flag.Bool("print-stack", false, "print the operand stack after execution")
	printGlobals := flag.Bool("print-globals", false, "print non-nil globals after execution")
	printStats := flag.Bool("print-stats", false, "print collector/arena stats after execution")
	statsDriver := flag.String("stats-driver", "", "SQL driver for periodic stats persistence (sqlite, postgres, mysql, mssql)")
	statsDSN := flag.String("stats-dsn", "", "DSN for -stats-driver; enables the stats sink when set")
	statsListen := flag.String("stats-listen", "", "address (host:port) to serve the live diagnostics websocket stream on")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("stackvm", version)
		return
	}
	if *listDemos {
		for _, name := range demoNames() {
			fmt.Println(name)
		}
		return
	}

	prog, err := loadProgram(*programFile, *demoName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "stackvm:", err)
		os.Exit(1)
	}
	if err := prog.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "stackvm: invalid program:", err)
		os.Exit(1)
	}

	opts := engine.Options{StackSize: *stackSize, Stdin: os.Stdin, Stdout: os.Stdout}

	var dbg *debugger.Debugger
	if *debug {
		dbg = debugger.NewDebugger()
		dbg.SetState(debugger.Paused)
		opts.Hook = debugger.NewEngineDebugHook(dbg)
	}

	e := engine.NewFromOptions(opts, prog)
	defer e.Close()

	var sink *diagnostics.Sink
	var stream *diagnostics.Stream
	if *statsDSN != "" {
		sink, err = diagnostics.Open(*statsDriver, *statsDSN)
		if err != nil {
			fmt.Fprintln(os.Stderr, "stackvm: diagnostics sink:", err)
			os.Exit(1)
		}
		defer sink.Close()
	}
	if *statsListen != "" {
		stream = diagnostics.NewStream()
		go func() {
			if err := stream.ListenAndServe(*statsListen, "/diagnostics"); err != nil {
				fmt.Fprintln(os.Stderr, "stackvm: diagnostics stream:", err)
			}
		}()
	}
	if sink != nil || stream != nil {
		stopTicker := publishStats(e, sink, stream)
		defer stopTicker()
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	vmErr, _ := e.Execute(ctx)

	if *printStack {
		e.PrintStack(os.Stdout)
	}
	if *printGlobals {
		e.PrintGlobals(os.Stdout)
	}
	if *printStats {
		e.PrintMemoryStats(os.Stdout)
	}

	if vmErr != nil {
		fmt.Fprintln(os.Stderr, "stackvm:", vmErr.Error())
		os.Exit(1)
	}
}

// loadProgram resolves -program and -demo into a program.Program. Exactly
// one of the two is expected; -demo wins if both are set, since it is the
// more specific request.
func loadProgram(path, demo string) (*program.Program, error) {
	if demo != "" {
		p, ok := demoByName(demo)
		if !ok {
			return nil, fmt.Errorf("unknown demo %q (see -list-demos)", demo)
		}
		return p, nil
	}
	if path == "" {
		return nil, fmt.Errorf("one of -program or -demo is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	p, err := program.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

// publishStats periodically hands the engine's live stats to whichever of
// sink/stream is configured. Both only ever read a snapshot the engine
// computes at a safe point between instructions (spec §5) — neither goroutine
// touches engine internals.
func publishStats(e *engine.Engine, sink *diagnostics.Sink, stream *diagnostics.Stream) func() {
	ticker := time.NewTicker(500 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				stats := e.Stats()
				if sink != nil {
					if snap, err := sink.RecordAndSnapshot(stats); err == nil && stream != nil {
						stream.Broadcast(snap)
					}
				} else if stream != nil {
					stream.Broadcast(diagnostics.SnapshotFrom("", 0, time.Now().UTC(), stats))
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	return func() { close(done) }
}
