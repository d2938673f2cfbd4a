// Package migration moves a user's funds and history from the custodial
// wallet to a self-custodial one.
package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
	"github.com/goodnatureofminers/walletmigrate-backend/internal/utils"
	"github.com/goodnatureofminers/walletmigrate-backend/pkg/retry"
)

const (
	// DefaultConfirmationTimeout bounds the wait for the invoice to be paid.
	DefaultConfirmationTimeout = 45 * time.Second
	// DefaultHistoryPages is the number of history pages imported in the foreground.
	DefaultHistoryPages = 3
	// DefaultRollbackTimeout bounds unregistering the wallet after a failure.
	DefaultRollbackTimeout = 30 * time.Second
)

// Config tunes the orchestrator.
type Config struct {
	Retry               retry.Policy
	ConfirmationTimeout time.Duration
	// HistoryPages bounds the foreground history import, the rest is left to
	// the background resumer.
	HistoryPages    int
	RollbackTimeout time.Duration
	InvoiceComment  string
	WithdrawNote    string
}

// DefaultConfig returns the orchestrator defaults.
func DefaultConfig() Config {
	return Config{
		Retry:               retry.DefaultPolicy(),
		ConfirmationTimeout: DefaultConfirmationTimeout,
		HistoryPages:        DefaultHistoryPages,
		RollbackTimeout:     DefaultRollbackTimeout,
		InvoiceComment:      "Primal wallet migration",
		WithdrawNote:        "Migration to self-custodial wallet",
	}
}

// Orchestrator runs the migration saga. One saga runs at a time per process.
type Orchestrator struct {
	registry WalletAccountRegistry
	ledger   CustodialLedger
	wallet   SelfCustodialWallet
	decoder  InvoiceDecoder
	importer HistoryImporter
	imports  ImportStateStore
	journal  Journal
	metrics  Metrics
	logger   *zap.Logger
	cfg      Config

	lock  chan struct{}
	newID func() uuid.UUID
}

// NewOrchestrator wires the saga collaborators. journal may be nil.
func NewOrchestrator(
	registry WalletAccountRegistry,
	ledger CustodialLedger,
	wallet SelfCustodialWallet,
	decoder InvoiceDecoder,
	importer HistoryImporter,
	imports ImportStateStore,
	journal Journal,
	metrics Metrics,
	logger *zap.Logger,
	cfg Config,
) *Orchestrator {
	def := DefaultConfig()
	if cfg.Retry.Attempts <= 0 {
		cfg.Retry = def.Retry
	}
	if cfg.ConfirmationTimeout <= 0 {
		cfg.ConfirmationTimeout = def.ConfirmationTimeout
	}
	if cfg.HistoryPages <= 0 {
		cfg.HistoryPages = def.HistoryPages
	}
	if cfg.RollbackTimeout <= 0 {
		cfg.RollbackTimeout = def.RollbackTimeout
	}

	return &Orchestrator{
		registry: registry,
		ledger:   ledger,
		wallet:   wallet,
		decoder:  decoder,
		importer: importer,
		imports:  imports,
		journal:  journal,
		metrics:  metrics,
		logger:   logger.Named("migration"),
		cfg:      cfg,
		lock:     make(chan struct{}, 1),
		newID:    uuid.New,
	}
}

// saga is the state of one migration attempt.
type saga struct {
	attemptID  uuid.UUID
	userID     string
	onProgress model.ProgressFunc
	logger     *zap.Logger

	step               model.MigrationStep
	walletID           model.WalletID
	registeredWalletID model.WalletID
	balance            decimal.Decimal
	invoice            model.Invoice
	fundsTransferred   bool
	withdrawErr        error
}

// Invoke migrates userID and reports progress through onProgress. Calls are
// serialized; a caller waiting for the lock returns when ctx ends. The
// returned error is a *StepError.
func (o *Orchestrator) Invoke(ctx context.Context, userID string, onProgress model.ProgressFunc) error {
	select {
	case o.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() {
		<-o.lock
	}()

	s := &saga{
		attemptID:  o.newID(),
		userID:     userID,
		onProgress: onProgress,
	}
	s.logger = o.logger.With(
		zap.String("user_id", userID),
		zap.String("attempt_id", s.attemptID.String()),
	)

	started := time.Now()
	s.logger.Info("migration started")

	err := o.run(ctx, s)
	o.metrics.ObserveMigration(s.step, err, started)
	if err != nil {
		o.rollback(ctx, s)
		s.logger.Error("migration failed", zap.Stringer("step", s.step), zap.Error(err))
		o.report(ctx, s, model.Failed{Step: s.step, Cause: errors.Unwrap(err)})
		return err
	}

	s.logger.Info("migration completed",
		zap.String("wallet_id", string(s.walletID)),
		zap.Duration("took", time.Since(started)),
	)
	o.report(ctx, s, model.Completed{})
	return nil
}

func (o *Orchestrator) run(ctx context.Context, s *saga) error {
	if err := o.step(ctx, s, model.StepCreatingWallet, o.createWallet); err != nil {
		return err
	}
	if err := o.step(ctx, s, model.StepRegisteringWallet, o.registerWallet); err != nil {
		return err
	}
	if err := o.step(ctx, s, model.StepCheckingBalance, o.checkBalance); err != nil {
		return err
	}

	if s.balance.IsPositive() {
		if err := o.step(ctx, s, model.StepCreatingInvoice, o.createInvoice); err != nil {
			return err
		}
		if err := o.step(ctx, s, model.StepTransferringFunds, o.transferFunds); err != nil {
			return err
		}
		if err := o.step(ctx, s, model.StepAwaitingConfirmation, o.awaitConfirmation); err != nil {
			return err
		}
	} else {
		s.logger.Info("nothing to transfer", zap.Stringer("balance_btc", s.balance))
	}

	if err := o.step(ctx, s, model.StepFinalizingWallet, o.finalizeWallet); err != nil {
		return err
	}
	return o.step(ctx, s, model.StepImportingHistory, o.importHistory)
}

func (o *Orchestrator) step(ctx context.Context, s *saga, step model.MigrationStep, fn func(context.Context, *saga) error) error {
	s.step = step
	s.logger.Info("migration step", zap.Stringer("step", step))
	o.report(ctx, s, model.InProgress{Step: step})

	started := time.Now()
	err := fn(ctx, s)
	o.metrics.ObserveStep(step, err, started)
	if err != nil {
		return &StepError{Step: step, Err: err}
	}
	return nil
}

func (o *Orchestrator) createWallet(ctx context.Context, s *saga) error {
	walletID, err := retry.Do(ctx, o.cfg.Retry, func(ctx context.Context) (model.WalletID, error) {
		return o.registry.EnsureSelfCustodialWalletExists(ctx, s.userID, false)
	}, o.observer(s, "ensure_wallet"))
	if err != nil {
		return fmt.Errorf("ensure self-custodial wallet: %w", err)
	}
	if walletID == "" {
		return errors.New("ensure self-custodial wallet: empty wallet id")
	}
	s.walletID = walletID
	s.logger = s.logger.With(zap.String("wallet_id", string(walletID)))
	return nil
}

func (o *Orchestrator) registerWallet(ctx context.Context, s *saga) error {
	err := retry.DoErr(ctx, o.cfg.Retry, func(ctx context.Context) error {
		return o.registry.RegisterWallet(ctx, s.userID, s.walletID)
	}, o.observer(s, "register_wallet"))
	if err != nil {
		return fmt.Errorf("register wallet: %w", err)
	}
	s.registeredWalletID = s.walletID
	return nil
}

func (o *Orchestrator) checkBalance(ctx context.Context, s *saga) error {
	balance, err := retry.Do(ctx, o.cfg.Retry, func(ctx context.Context) (decimal.Decimal, error) {
		return o.ledger.GetBalance(ctx, s.userID)
	}, o.observer(s, "get_balance"))
	if err != nil {
		return fmt.Errorf("get custodial balance: %w", err)
	}
	s.balance = balance
	return nil
}

func (o *Orchestrator) createInvoice(ctx context.Context, s *saga) error {
	expected, err := utils.BtcToSatoshis(s.balance)
	if err != nil {
		return fmt.Errorf("convert balance %s: %w", s.balance, err)
	}

	paymentRequest, err := retry.Do(ctx, o.cfg.Retry, func(ctx context.Context) (string, error) {
		return o.wallet.CreateInvoice(ctx, s.walletID, s.balance, o.cfg.InvoiceComment)
	}, o.observer(s, "create_invoice"))
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}

	decoded, err := o.decoder.DecodeAmount(paymentRequest)
	if err != nil {
		return fmt.Errorf("decode invoice: %w", err)
	}
	if decoded != expected {
		return fmt.Errorf("%w: invoice for %s BTC, balance %s BTC", ErrInvoiceAmountMismatch, utils.SatoshisToBtc(decoded), s.balance)
	}

	s.invoice = model.Invoice{PaymentRequest: paymentRequest, AmountSats: int64(decoded)}
	return nil
}

// transferFunds never fails the saga: whether the money moved is decided by
// awaitConfirmation.
func (o *Orchestrator) transferFunds(ctx context.Context, s *saga) error {
	s.fundsTransferred = true

	err := retry.DoErr(ctx, o.cfg.Retry, func(ctx context.Context) error {
		return o.ledger.Withdraw(ctx, s.userID, model.WithdrawRequest{
			SubAccount: model.SubAccountOpen,
			Invoice:    s.invoice.PaymentRequest,
			Note:       o.cfg.WithdrawNote,
		})
	}, o.observer(s, "withdraw"))
	if err != nil {
		s.withdrawErr = fmt.Errorf("withdraw: %w", err)
		s.logger.Warn("withdraw failed, waiting for payment anyway", zap.Error(err))
	}
	return nil
}

func (o *Orchestrator) awaitConfirmation(ctx context.Context, s *saga) error {
	waitCtx, cancel := context.WithTimeout(ctx, o.cfg.ConfirmationTimeout)
	err := o.wallet.AwaitInvoicePayment(waitCtx, s.walletID, s.invoice.PaymentRequest, o.cfg.ConfirmationTimeout)
	cancel()
	if err == nil {
		return nil
	}

	s.logger.Warn("invoice payment not confirmed, checking wallet balance", zap.Error(err))
	confirmErr := fmt.Errorf("await invoice payment: %w", err)

	if refreshErr := o.wallet.FetchBalance(ctx, s.walletID); refreshErr != nil {
		s.logger.Warn("refresh wallet balance", zap.Error(refreshErr))
	}
	w, getErr := o.wallet.GetWalletByID(ctx, s.walletID)
	if getErr != nil {
		return errors.Join(confirmErr, fmt.Errorf("read wallet balance: %w", getErr), s.withdrawErr)
	}
	if !w.BalanceBTC.IsPositive() {
		return errors.Join(confirmErr, s.withdrawErr)
	}

	s.logger.Info("funds arrived without payment confirmation", zap.Stringer("balance_btc", w.BalanceBTC))
	return nil
}

func (o *Orchestrator) finalizeWallet(ctx context.Context, s *saga) error {
	if err := o.registry.FetchWalletAccountInfo(ctx, s.userID, s.walletID); err != nil {
		s.logger.Warn("fetch wallet account info", zap.Error(err))
	}
	// The custodial wallet row is keyed by the user id.
	if err := o.wallet.DeleteWalletByID(ctx, model.WalletID(s.userID)); err != nil {
		s.logger.Warn("delete custodial wallet record", zap.Error(err))
	}

	err := retry.DoErr(ctx, o.cfg.Retry, func(ctx context.Context) error {
		return o.registry.SetActiveWallet(ctx, s.userID, s.walletID)
	}, o.observer(s, "set_active_wallet"))
	if err != nil {
		return fmt.Errorf("set active wallet: %w", err)
	}
	return nil
}

func (o *Orchestrator) importHistory(ctx context.Context, s *saga) error {
	err := retry.DoErr(ctx, o.cfg.Retry, func(ctx context.Context) error {
		return o.imports.UpdateImportComplete(ctx, s.walletID, false)
	}, o.observer(s, "mark_import_incomplete"))
	if err != nil {
		return fmt.Errorf("mark history import incomplete: %w", err)
	}

	pages := o.cfg.HistoryPages
	err = retry.DoErr(ctx, o.cfg.Retry, func(ctx context.Context) error {
		return o.importer.Import(ctx, s.userID, s.walletID, &pages)
	}, o.observer(s, "import_history"))
	if err != nil {
		return fmt.Errorf("import history: %w", err)
	}
	return nil
}

// rollback unregisters the new wallet unless funds may already be on it.
func (o *Orchestrator) rollback(ctx context.Context, s *saga) {
	if s.registeredWalletID == "" || s.fundsTransferred {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.RollbackTimeout)
	defer cancel()

	err := retry.DoErr(ctx, o.cfg.Retry, func(ctx context.Context) error {
		return o.registry.UnregisterWallet(ctx, s.userID, s.registeredWalletID)
	}, o.observer(s, "unregister_wallet"))
	o.metrics.ObserveRollback(err)
	if err != nil {
		s.logger.Error("rollback wallet registration", zap.Error(err))
		return
	}
	s.logger.Info("wallet registration rolled back")
}

func (o *Orchestrator) observer(s *saga, operation string) retry.Observer {
	return func(attempt int, delay time.Duration, err error) {
		s.logger.Warn("retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}
}

func (o *Orchestrator) report(ctx context.Context, s *saga, progress model.MigrationProgress) {
	if s.onProgress != nil {
		s.onProgress(progress)
	}
	if o.journal == nil {
		return
	}

	event := model.MigrationEvent{
		AttemptID:  s.attemptID,
		UserID:     s.userID,
		WalletID:   s.walletID,
		Kind:       progress.Kind(),
		OccurredAt: time.Now().UTC(),
	}
	switch p := progress.(type) {
	case model.InProgress:
		event.Step = p.Step
	case model.Failed:
		event.Step = p.Step
		if p.Cause != nil {
			event.Error = p.Cause.Error()
		}
	case model.Completed:
		event.Step = s.step
	}
	o.journal.Record(context.WithoutCancel(ctx), event)
}
