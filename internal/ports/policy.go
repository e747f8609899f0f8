package ports

import "time"

type Policy struct {
	MaxQueueLen  int           `yaml:"max_queue_len"`
	MaxBatchSize int           `yaml:"max_batch_size"`
	IdleSleep    time.Duration `yaml:"idle_sleep"`

	OnQueueFull string `yaml:"on_queue_full"` // "block", "drop"
}

const (
	// StartupUnregisterAll wipes every cached host entity before the first report.
	StartupUnregisterAll = "unregister_all"
	// StartupReuseCached adopts cached entities that are rediscovered.
	StartupReuseCached = "reuse_cached"
)
