package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/christocomm/homebridge-ecowitt"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "passkey":
		err = passkeyCommand(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("ecowitt-bridge %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to bridge configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow, err := ecowitt.Conf(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return flow.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := ecowitt.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	fmt.Printf("config %s looks good (station %s, sink %s)\n", *cfgPath, cfg.Station.MAC, cfg.Sink.Kind)
	fmt.Printf("configure the station's custom server with PASSKEY %s\n", ecowitt.Passkey(cfg.Station.MAC))
	return nil
}

func passkeyCommand(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("passkey", flag.ExitOnError)
	mac := fs.String("mac", "", "Station MAC address, e.g. AA:BB:CC:DD:EE:FF")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*mac) == "" {
		return fmt.Errorf("-mac is required")
	}
	_, err := fmt.Fprintln(w, ecowitt.Passkey(strings.TrimSpace(*mac)))
	return err
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

var statKeys = []string{
	"ecowitt_reports_accepted_total",
	"ecowitt_reports_rejected_total",
	"ecowitt_inventory_size",
	"ecowitt_readings_published_total",
	"ecowitt_queue_length",
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

	targets, err := scanMetrics(resp.Body, statKeys)
	if err != nil {
		return err
	}

	fmt.Printf("[%s] accepted=%.0f rejected=%.0f sensors=%.0f published=%.0f queue=%.0f\n",
		time.Now().Format(time.RFC3339),
		targets["ecowitt_reports_accepted_total"],
		targets["ecowitt_reports_rejected_total"],
		targets["ecowitt_inventory_size"],
		targets["ecowitt_readings_published_total"],
		targets["ecowitt_queue_length"],
	)
	return nil
}

// scanMetrics picks unlabelled sample values for keys out of a text exposition.
func scanMetrics(r io.Reader, keys []string) (map[string]float64, error) {
	targets := make(map[string]float64, len(keys))
	for _, k := range keys {
		targets[k] = 0
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %g", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	return targets, scanner.Err()
}

func printUsage() {
	fmt.Printf(`Ecowitt bridge CLI

Usage:
  ecowitt-bridge <command> [flags]

Commands:
  run        Start the bridge using the provided config
  validate   Load and validate a config file without starting the bridge
  stats      Poll the Prometheus metrics endpoint and print live counters
  passkey    Print the PASSKEY a station with the given MAC sends

Examples:
  ecowitt-bridge run -config ./data/config.yaml
  ecowitt-bridge validate -config ./data/config.yaml
  ecowitt-bridge stats -url http://localhost:9100/metrics -interval 1s
  ecowitt-bridge passkey -mac AA:BB:CC:DD:EE:FF
`)
}
