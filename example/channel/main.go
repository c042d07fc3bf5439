package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/uforiaio/network-share-test-helper/pkg/shareanalyzer"
)

func main() {
	flow, err := shareanalyzer.Conf("./config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	sink, reports, closeSink := shareanalyzer.NewChannelSink("reports", 4)
	defer closeSink()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for r := range reports {
			fmt.Printf("report for %s: avg rtt %.1fms, %d issues, %d recommendations\n",
				r.SharePath,
				r.Metrics.RTT.Avg,
				len(r.Issues),
				len(r.Recommendations),
			)
			if r.Prediction != nil && r.Prediction.Prediction != "" {
				fmt.Printf("  forecast: %s\n", r.Prediction.Prediction)
			}
		}
	}()

	if err := flow.Run(ctx, shareanalyzer.StreamOutSink(sink)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
