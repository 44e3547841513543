package main

import (
	"context"
	"fmt"

	"fin-analyst-be/pkg/events"
	pktNats "fin-analyst-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// watchTracesCmd tails QUERY_TRACED events published by the API
var watchTracesCmd = &cobra.Command{
	Use:   "watch-traces",
	Short: "Follow traces published to NATS by running API instances",
	RunE:  runWatchTraces,
}

func runWatchTraces(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)
	log := cliLogger(cfg)
	defer log.Sync()

	if cfg.App.NatsURL == "" {
		return fail("NATS_URL is not set")
	}
	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, log)
	if err != nil {
		return err
	}
	defer sub.Close()

	err = sub.Subscribe(ctx, events.QueryTraced, "", func(ctx context.Context, e events.Event) error {
		p := e.Payload()
		line := fmt.Sprintf("%s %-4v %-4v %v", e.Timestamp().Format("15:04:05"), p["route"], p["source"], p["question"])
		if msg, ok := p["error"]; ok && msg != "" {
			color.Red("%s  error at %v: %v", line, p["stage"], msg)
			return nil
		}
		color.Green(line)
		return nil
	})
	if err != nil {
		return err
	}

	color.Cyan("Watching traces on %s (Ctrl-C to stop)", cfg.App.NatsURL)
	<-ctx.Done()
	return nil
}
