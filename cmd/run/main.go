package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/js-runtime/engine"
	"github.com/wippyai/js-runtime/runtime"
)

func main() {
	var (
		scriptFile  = flag.String("script", "", "Path to a JavaScript file to run")
		expr        = flag.String("expr", "", "JavaScript expression to evaluate")
		timeout     = flag.Duration("timeout", 0, "Interrupt execution after this duration (e.g. 2s)")
		jsonOut     = flag.Bool("json", false, "Print the result as JSON")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive REPL")
	)
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *scriptFile == "" && *expr == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -script <file.js> [-timeout 2s] [-json]")
		fmt.Fprintln(os.Stderr, "       run -expr '1 + 2'")
		fmt.Fprintln(os.Stderr, "       run -i  (interactive REPL)")
		os.Exit(1)
	}

	if err := run(log, *scriptFile, *expr, *timeout, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(log *zap.Logger, scriptFile, expr string, timeout time.Duration, jsonOut bool) error {
	origin := "expr.js"
	source := expr
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		origin = filepath.Base(scriptFile)
		source = string(data)
	}

	platform := engine.NewPlatform(engine.WithLogger(log))
	rt := runtime.New(runtime.WithPlatform(platform), runtime.WithLogger(log))
	defer rt.Close()

	ctx := rt.NewContext(1)

	if timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			ctx.Interrupt(fmt.Sprintf("timeout after %s", timeout))
		})
		defer timer.Stop()
	}

	// One scope bounds the whole invocation; everything the script hands
	// back is released on pop.
	scope := ctx.PushScope()
	defer ctx.PopScope(scope)

	result, err := ctx.RunScript(origin, source)
	if err != nil {
		return err
	}

	if jsonOut {
		out, err := ctx.JSONStringify(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Println(ctx.String(result))

	if diags := rt.Diagnostics().Drain(); len(diags) > 0 {
		fmt.Fprintf(os.Stderr, "%d obsolete reference(s) resolved during execution\n", len(diags))
	}
	return nil
}
