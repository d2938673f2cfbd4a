package migration

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
)

// ErrInvoiceAmountMismatch is returned when the invoice created on the new
// wallet does not decode to the custodial balance.
var ErrInvoiceAmountMismatch = errors.New("invoice amount does not match balance")

// StepError reports the step a migration failed at.
type StepError struct {
	Step model.MigrationStep
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("migration failed at %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step carried by a *StepError in err's chain.
func FailedStep(err error) (model.MigrationStep, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step, true
	}
	return 0, false
}
