package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/christocomm/homebridge-ecowitt/pkg/ecowitt"
)

func main() {
	flow, err := ecowitt.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callback := func(batch []ecowitt.Reading) error {
		for _, r := range batch {
			keys := make([]string, 0, len(r.Values))
			for k := range r.Values {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			fmt.Printf("%s %s", r.Timestamp.Format(time.RFC3339), ecowitt.Descriptor{Type: r.SensorType, Channel: r.Channel})
			for _, k := range keys {
				fmt.Printf(" %s=%g", k, r.Values[k])
			}
			fmt.Println()
		}
		return nil
	}

	if err := flow.Run(ctx, ecowitt.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("bridge error: %v", err)
	}
}
