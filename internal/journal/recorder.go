// Package journal keeps a support copy of migration progress events.
package journal

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
	"github.com/goodnatureofminers/walletmigrate-backend/pkg/batcher"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Writer interface {
		InsertMigrationEvents(ctx context.Context, events []model.MigrationEvent) error
	}
)

type Config struct {
	FlushSize     int
	FlushInterval time.Duration
	RPS           int
}

func DefaultConfig() Config {
	return Config{
		FlushSize:     500,
		FlushInterval: 2 * time.Second,
		RPS:           10,
	}
}

// Recorder batches events in memory and writes them in the background.
// Recording never blocks; events are dropped when the buffer is full.
type Recorder struct {
	batcher *batcher.Batcher[model.MigrationEvent]
	logger  *zap.Logger
}

func NewRecorder(writer Writer, logger *zap.Logger, cfg Config) *Recorder {
	def := DefaultConfig()
	if cfg.FlushSize <= 0 {
		cfg.FlushSize = def.FlushSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.RPS <= 0 {
		cfg.RPS = def.RPS
	}

	logger = logger.Named("journal")
	return &Recorder{
		batcher: batcher.New[model.MigrationEvent](
			logger,
			writer.InsertMigrationEvents,
			cfg.FlushSize,
			cfg.FlushInterval,
			cfg.RPS,
		),
		logger: logger,
	}
}

// Start begins background writes.
func (r *Recorder) Start(ctx context.Context) {
	r.batcher.Start(ctx)
}

// Stop writes queued events and stops the background loop.
func (r *Recorder) Stop() {
	r.batcher.Stop()
}

// Record queues an event for writing.
func (r *Recorder) Record(_ context.Context, event model.MigrationEvent) {
	if err := r.batcher.TryAdd(event); err != nil {
		r.logger.Warn("migration event dropped",
			zap.String("attempt_id", event.AttemptID.String()),
			zap.String("kind", string(event.Kind)),
			zap.Error(err),
		)
	}
}
