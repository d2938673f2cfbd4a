package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
	"github.com/goodnatureofminers/walletmigrate-backend/pkg/safe"
)

const insertMigrationEventsQuery = `
INSERT INTO migration_events (
	attempt_id,
	user_id,
	wallet_id,
	kind,
	step,
	step_name,
	error,
	occurred_at
) VALUES`

// InsertMigrationEvents stores journal rows in ClickHouse.
func (r *Repository) InsertMigrationEvents(ctx context.Context, events []model.MigrationEvent) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_migration_events", len(events), err, start)
	}()

	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertMigrationEventsQuery)
	if err != nil {
		return fmt.Errorf("prepare migration events batch: %w", err)
	}

	for _, event := range events {
		var step uint32
		if step, err = safe.Uint32(event.Step); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("migration event step: %w", err)
		}
		if err = batch.Append(
			event.AttemptID,
			event.UserID,
			string(event.WalletID),
			string(event.Kind),
			step,
			event.Step.String(),
			event.Error,
			event.OccurredAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append migration event: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert migration events: %w", err)
	}
	return nil
}
