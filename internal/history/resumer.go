package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
	"github.com/goodnatureofminers/walletmigrate-backend/pkg/workerpool"
)

// ResumerConfig tunes the background resume job.
type ResumerConfig struct {
	Interval    time.Duration
	Concurrency int
	BatchSize   int
	// MaxPages bounds a single run per wallet; nil imports until done.
	MaxPages *int
}

// DefaultResumerConfig returns the resume job defaults.
func DefaultResumerConfig() ResumerConfig {
	return ResumerConfig{
		Interval:    time.Minute,
		Concurrency: 4,
		BatchSize:   100,
	}
}

// Resumer finishes history imports that a foreground migration left
// incomplete.
type Resumer struct {
	runner  Runner
	store   Store
	journal Journal
	logger  *zap.Logger
	cfg     ResumerConfig
}

// NewResumer constructs a Resumer. journal may be nil.
func NewResumer(runner Runner, store Store, journal Journal, logger *zap.Logger, cfg ResumerConfig) *Resumer {
	def := DefaultResumerConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	return &Resumer{
		runner:  runner,
		store:   store,
		journal: journal,
		logger:  logger.Named("history_resumer"),
		cfg:     cfg,
	}
}

// Run schedules RunOnce every interval until ctx is done. Runs never overlap.
func (r *Resumer) Run(ctx context.Context) (err error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	defer func() {
		if shutdownErr := scheduler.Shutdown(); shutdownErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown scheduler: %w", shutdownErr))
		}
	}()

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.cfg.Interval),
		gocron.NewTask(func() {
			if runErr := r.RunOnce(ctx); runErr != nil && ctx.Err() == nil {
				r.logger.Error("resume history imports", zap.Error(runErr))
			}
		}),
		gocron.WithName("resume-history-imports"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule resume job: %w", err)
	}

	scheduler.Start()
	r.logger.Info("history resumer started", zap.Duration("interval", r.cfg.Interval))

	<-ctx.Done()
	return nil
}

// RunOnce resumes up to BatchSize incomplete imports concurrently. A failing
// wallet is logged and does not stop the others.
func (r *Resumer) RunOnce(ctx context.Context) error {
	wallets, err := r.store.FindIncompleteImports(ctx, r.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("find incomplete imports: %w", err)
	}
	if len(wallets) == 0 {
		return nil
	}

	r.logger.Debug("resuming history imports", zap.Int("wallets", len(wallets)))

	onResult := func(res workerpool.Result[model.SparkWalletData]) {
		r.finished(ctx, res.Item, res.Err)
	}
	if err := workerpool.Process(ctx, r.cfg.Concurrency, wallets, r.resume, onResult); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func (r *Resumer) resume(ctx context.Context, w model.SparkWalletData) error {
	return r.runner.Import(ctx, w.UserID, w.WalletID, r.cfg.MaxPages)
}

// finished logs a failed resume and journals the outcome. A run cut short by
// ctx is neither.
func (r *Resumer) finished(ctx context.Context, w model.SparkWalletData, err error) {
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		r.logger.Warn("resume history import",
			zap.String("user_id", w.UserID),
			zap.String("wallet_id", string(w.WalletID)),
			zap.Error(err),
		)
	}
	if r.journal == nil {
		return
	}

	event := model.MigrationEvent{
		AttemptID:  uuid.New(),
		UserID:     w.UserID,
		WalletID:   w.WalletID,
		Kind:       model.ProgressCompleted,
		Step:       model.StepImportingHistory,
		OccurredAt: time.Now().UTC(),
	}
	switch {
	case err != nil:
		event.Kind = model.ProgressFailed
		event.Error = err.Error()
	case r.cfg.MaxPages != nil:
		// A bounded run may stop before the end of history.
		return
	}
	r.journal.Record(ctx, event)
}
