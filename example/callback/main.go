package main

import (
	"context"
	"fmt"
	"log"

	"github.com/uforiaio/network-share-test-helper/pkg/shareanalyzer"
)

func main() {
	flow, err := shareanalyzer.Conf("./config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	callback := func(r *shareanalyzer.Report) error {
		fmt.Printf("%s share=%s packets=%d issues=%d anomalies=%d\n",
			r.Timestamp.Format("15:04:05"),
			r.SharePath,
			r.Metrics.TotalPackets,
			len(r.Issues),
			len(r.Anomalies),
		)
		for _, issue := range r.Issues {
			fmt.Printf("  [%s] %s\n", issue.Severity, issue.Message)
		}
		return nil
	}

	if err := flow.Run(ctx, shareanalyzer.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
