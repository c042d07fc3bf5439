package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	shareanalyzer "github.com/uforiaio/network-share-test-helper"
)

func main() {
	flow, err := shareanalyzer.Conf("./config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := flow.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("analyzer exited: %v", err)
	}
}
