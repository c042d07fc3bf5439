package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/uforiaio/network-share-test-helper/pkg/shareanalyzer"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "analyze":
		err = analyzeCommand(os.Args[2:])
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("share-analyzer %s: %v", cmd, err)
	}
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file")
	share := fs.String("share", "", "Share path override (//server/share or host:/export)")
	iface := fs.String("interface", "", "Capture interface override")
	filter := fs.String("filter", "", "BPF filter override, e.g. \"tcp port 445\"")
	duration := fs.Duration("duration", 0, "Capture window override")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := shareanalyzer.LoadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *share != "" {
		cfg.SharePath = *share
	}
	if *iface != "" {
		cfg.Capture.Interface = *iface
	}
	if *filter != "" {
		cfg.Capture.Filter = *filter
	}

	rt, err := shareanalyzer.NewRuntime(cfg)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := rt.Analyze(ctx, *duration)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow, err := shareanalyzer.Conf(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return flow.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := shareanalyzer.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"shareanalyzer_packets_captured_total":   0,
		"shareanalyzer_issues_detected_total":    0,
		"shareanalyzer_anomalies_detected_total": 0,
		"shareanalyzer_retransmission_rate":      0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] packets=%.0f issues=%.0f anomalies=%.0f retrans_rate=%.2f%%\n",
		time.Now().Format(time.RFC3339),
		targets["shareanalyzer_packets_captured_total"],
		targets["shareanalyzer_issues_detected_total"],
		targets["shareanalyzer_anomalies_detected_total"],
		targets["shareanalyzer_retransmission_rate"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`share-analyzer

Usage:
  share-analyzer <command> [flags]

Commands:
  analyze    Run one capture window and print the report as JSON
  run        Start the periodic analyzer using the provided config
  validate   Load and validate a config file without starting anything
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  share-analyzer analyze -config ./config.yaml -share //server/share -duration 30s
  share-analyzer run -config ./config.yaml
  share-analyzer validate -config ./config.yaml
  share-analyzer stats -url http://localhost:9100/metrics -interval 1s
`)
}
