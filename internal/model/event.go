package model

import (
	"time"

	"github.com/google/uuid"
)

// MigrationEvent is a journal copy of a progress report.
type MigrationEvent struct {
	AttemptID  uuid.UUID
	UserID     string
	WalletID   WalletID
	Kind       ProgressKind
	Step       MigrationStep
	Error      string
	OccurredAt time.Time
}
