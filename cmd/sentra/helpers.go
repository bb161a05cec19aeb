package main

// ---------------------------------------------------------------------------
// helpers.go — TTY detection, color, error helpers, usage text
// ---------------------------------------------------------------------------

import (
	"fmt"
	"io"
	"os"
)

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY(os.Stderr)
}

func ansi(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return code + s + "\033[0m"
}

func red(s string) string  { return ansi("\033[91m", s) }
func dim(s string) string  { return ansi("\033[90m", s) }
func bold(s string) string { return ansi("\033[1m", s) }

func errorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, red("error: ")+format+"\n", args...)
	os.Exit(1)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "sentra %s (commit %s, built %s)\n", version, commit, buildDate)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "%s — threat detection and SIEM feed simulator\n\n", bold("sentra"))
	fmt.Fprintln(w, "Usage: sentra <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run      Start the engine, feeds, and API server")
	fmt.Fprintln(w, "  scan     Check a payload against the signature set offline")
	fmt.Fprintln(w, "  demo     Replay the scripted attack scenario to stdout")
	fmt.Fprintln(w, "  version  Print version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, dim("Run 'sentra <command> -h' for command flags."))
}
