package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/christocomm/homebridge-ecowitt"
)

// Feeds the bridge in-process instead of over HTTP and fans readings out over a channel.
func main() {
	cfg := &ecowitt.Config{
		Station: ecowitt.StationConfig{MAC: "AA:BB:CC:DD:EE:FF"},
		Metrics: ecowitt.MetricsConfig{Addr: "127.0.0.1:0"},
	}

	sink, batches, closeBatches := ecowitt.NewChannelSink("fanout", 32)
	defer closeBatches()

	bridge, err := ecowitt.NewBridge(cfg, ecowitt.WithSink(sink), ecowitt.WithReceiver(idleReceiver{}))
	if err != nil {
		log.Fatalf("new bridge: %v", err)
	}
	if err := bridge.Start(); err != nil {
		log.Fatalf("start: %v", err)
	}

	go fanoutWorker("console", batches)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	report := map[string]any{
		"PASSKEY":     ecowitt.Passkey(cfg.Station.MAC),
		"dateutc":     "now",
		"stationtype": "GW1000A_V1.6.8",
		"model":       "GW1000A_V1.6.8",
		"tempinf":     "71.6",
		"humidityin":  "41",
		"baromrelin":  "29.92",
		"batt1":       "0",
		"temp1f":      "48.2",
		"humidity1":   "77",
	}
	if err := bridge.Submit(ctx, report); err != nil {
		log.Fatalf("submit: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if err := bridge.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}

func fanoutWorker(name string, batches <-chan []ecowitt.Reading) {
	for batch := range batches {
		fmt.Printf("[%s] forwarding %d readings at %s\n", name, len(batch), time.Now().Format(time.RFC3339))
		for _, r := range batch {
			fmt.Printf("  %s seq=%d %v\n", ecowitt.Descriptor{Type: r.SensorType, Channel: r.Channel}, r.Seq, r.Values)
		}
	}
}

// idleReceiver leaves the bridge without a network listener; reports come from Submit.
type idleReceiver struct{}

func (idleReceiver) Start(chan<- *ecowitt.Submission) error { return nil }
func (idleReceiver) Stop() error                            { return nil }
