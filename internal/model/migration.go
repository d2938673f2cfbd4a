// Package model defines domain models for the custodial to self-custodial wallet migration.
package model

import "fmt"

// MigrationStep is one stage of a wallet migration. Steps are ordered and a
// single attempt only ever moves forward through them.
type MigrationStep int

const (
	StepCreatingWallet MigrationStep = iota + 1
	StepRegisteringWallet
	StepCheckingBalance
	StepCreatingInvoice
	StepTransferringFunds
	StepAwaitingConfirmation
	StepFinalizingWallet
	StepImportingHistory
)

// MigrationSteps lists every step in execution order.
var MigrationSteps = []MigrationStep{
	StepCreatingWallet,
	StepRegisteringWallet,
	StepCheckingBalance,
	StepCreatingInvoice,
	StepTransferringFunds,
	StepAwaitingConfirmation,
	StepFinalizingWallet,
	StepImportingHistory,
}

func (s MigrationStep) String() string {
	switch s {
	case StepCreatingWallet:
		return "creating_wallet"
	case StepRegisteringWallet:
		return "registering_wallet"
	case StepCheckingBalance:
		return "checking_balance"
	case StepCreatingInvoice:
		return "creating_invoice"
	case StepTransferringFunds:
		return "transferring_funds"
	case StepAwaitingConfirmation:
		return "awaiting_confirmation"
	case StepFinalizingWallet:
		return "finalizing_wallet"
	case StepImportingHistory:
		return "importing_history"
	default:
		return fmt.Sprintf("unknown_step(%d)", int(s))
	}
}

// Valid reports whether s is a known step.
func (s MigrationStep) Valid() bool {
	return s >= StepCreatingWallet && s <= StepImportingHistory
}

// ProgressKind names the variant of a MigrationProgress value.
type ProgressKind string

const (
	ProgressInProgress ProgressKind = "in_progress"
	ProgressCompleted  ProgressKind = "completed"
	ProgressFailed     ProgressKind = "failed"
)

// MigrationProgress is reported to the progress sink while a migration runs.
// The concrete types are InProgress, Completed and Failed.
type MigrationProgress interface {
	Kind() ProgressKind
	isMigrationProgress()
}

// InProgress is emitted right before a step starts executing.
type InProgress struct {
	Step MigrationStep
}

// Completed is emitted once funds are in the new wallet and it is active.
type Completed struct{}

// Failed is emitted when a step fails for good.
type Failed struct {
	Step  MigrationStep
	Cause error
}

func (InProgress) Kind() ProgressKind { return ProgressInProgress }
func (Completed) Kind() ProgressKind  { return ProgressCompleted }
func (Failed) Kind() ProgressKind     { return ProgressFailed }

func (InProgress) isMigrationProgress() {}
func (Completed) isMigrationProgress()  {}
func (Failed) isMigrationProgress()     {}

// ProgressFunc receives migration progress. Implementations must not block.
type ProgressFunc func(MigrationProgress)
