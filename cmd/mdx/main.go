package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args, DefaultEnv()))
}

// run dispatches to a command and returns the process exit code.
// Arguments that do not name a command are compile arguments, so
// "mdx docs/" and "mdx compile docs/" are the same.
func run(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "compile":
		return runCompileCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdx %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	}

	if isCommandLike(cmd) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
	return runCompileCmd(args[1:], env)
}

// isCommandLike reports whether arg looks like a mistyped command rather
// than a flag or an input path.
func isCommandLike(arg string) bool {
	if arg == "" || arg[0] == '-' {
		return false
	}
	if looksLikeDocument(arg) {
		return false
	}
	_, err := os.Stat(arg)
	return err != nil
}

// configureMaxProcs sets GOMAXPROCS from the container quota, logging
// the decision to w when verbose.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func configureMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// notifyContext returns a context canceled by the first stop signal.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, stopSignals...)
}
