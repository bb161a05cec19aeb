package main

// ---------------------------------------------------------------------------
// cmd_demo.go — replay the scripted attack scenario to stdout
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/core"
	"github.com/sentra-project/sentra/internal/demo"
	"github.com/sentra-project/sentra/internal/feed"
)

func cmdDemo(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Emit entries as JSON lines")
	fs.Parse(args)

	cfg := core.DefaultConfig()
	logFeed := feed.NewLogFeed(zerolog.Nop(), cfg.Feeds.SIEM)
	unsub := logFeed.Subscribe(func(entry *feed.LogEntry) {
		if *jsonOut {
			data, _ := json.Marshal(entry)
			fmt.Println(string(data))
			return
		}
		fmt.Printf("%s  [%s] %s/%s  %s\n",
			entry.Timestamp.Format("15:04:05"), entry.Severity, entry.Source, entry.EventID, entry.Message)
	})
	defer unsub()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := demo.NewRunner(zerolog.Nop(), logFeed)
	runner.Run(ctx, demo.DefaultTimeline())

	if ctx.Err() != nil {
		os.Exit(130)
	}
}
