package main

// ---------------------------------------------------------------------------
// cmd_scan.go — check a payload against the signature set offline
// ---------------------------------------------------------------------------

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/core"
	"github.com/sentra-project/sentra/internal/detect"
)

func cmdScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	source := fs.String("source", "CLI", "Source label attributed to the input")
	inputFile := fs.String("input", "-", "Read payload from file (- for stdin)")
	jsonOut := fs.Bool("json", false, "Output JSON instead of text")
	fs.Parse(args)

	var payload string
	if rest := fs.Args(); len(rest) > 0 {
		payload = strings.Join(rest, " ")
	} else {
		var reader io.Reader = os.Stdin
		if *inputFile != "-" && *inputFile != "" {
			f, err := os.Open(*inputFile)
			if err != nil {
				errorf("opening input: %v", err)
			}
			defer f.Close()
			reader = f
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			errorf("reading payload: %v", err)
		}
		payload = string(data)
	}

	// Offline: in-memory store and threat state, quiet logger.
	store := core.NewLogStore(core.DefaultLogCapacity)
	threat := core.NewThreatState(zerolog.Nop(), core.DefaultDwell)
	defer threat.Stop()
	detector := detect.New(zerolog.Nop(), store, threat)

	detected := detector.Detect(payload, *source)

	if *jsonOut {
		out := map[string]any{
			"detected": detected,
			"entries":  store.Snapshot(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	} else if detected {
		for _, e := range store.Snapshot() {
			fmt.Printf("%s  %s\n  %s\n", red("BLOCKED"), e.Type, dim(e.Details))
		}
	} else {
		fmt.Println("clean: no signature matched")
	}

	if detected {
		os.Exit(2)
	}
}
