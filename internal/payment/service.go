package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=payment
type Repository interface {
	CreatePayment(ctx context.Context, p *Payment, tx *Transaction) error
	GetPayment(ctx context.Context, id int64) (*Payment, error)
	OpenTransaction(ctx context.Context, paymentID int64) (*Transaction, error)
	FindTransactionByTrackingID(ctx context.Context, trackingID string) (*Transaction, error)
	SavePayment(ctx context.Context, p *Payment) error
	SaveTransaction(ctx context.Context, tx *Transaction) error
	SaveInstruction(ctx context.Context, instruction *Instruction) error
}

// Plugin is the gateway adapter driving one transaction through the external
// protocol. A nil return means the transaction completed; the typed errors
// defined by the adapter signal redirect-required, awaiting-notification and
// financial failure.
type Plugin interface {
	ApproveAndDeposit(ctx context.Context, tx *Transaction, retry bool) error
}

// ResultStatus is the outcome of one approval pass, mirroring the payment
// framework's plugin-controller result statuses.
type ResultStatus int

const (
	StatusUnknown ResultStatus = iota
	StatusFailed
	StatusPending
	StatusSuccess
)

func (s ResultStatus) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Result reports what one ApproveAndDeposit pass achieved.
type Result struct {
	Status      ResultStatus
	Transaction *Transaction
	RedirectURL string
}

// Service plays the plugin-controller role: it owns the persistence
// bookkeeping around the gateway adapter and exposes the approval hook the
// notification handler delegates to.
type Service struct {
	repo   Repository
	plugin Plugin
	log    *slog.Logger
}

// NewService creates a payment service. A nil logger disables logging.
func NewService(repo Repository, plugin Plugin, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		repo:   repo,
		plugin: plugin,
		log:    log,
	}
}

type CreateParams struct {
	Amount       int64 // Amount in grosz
	Currency     string
	ExtendedData ExtendedData
}

// Create opens a new instruction/payment/transaction set and runs the first
// approval pass. The returned URL is the hosted payment page the customer
// must be redirected to.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Payment, string, error) {
	instruction := &Instruction{
		Currency: params.Currency,
		Amount:   params.Amount,
		State:    InstructionStateValid,
	}

	pay := &Payment{
		Instruction:  instruction,
		TargetAmount: params.Amount,
		State:        StateNew,
	}

	tx := &Transaction{
		Payment:         pay,
		State:           TransactionStateNew,
		RequestedAmount: params.Amount,
		ExtendedData:    params.ExtendedData,
	}

	if err := s.repo.CreatePayment(ctx, pay, tx); err != nil {
		return nil, "", fmt.Errorf("creating payment: %w", err)
	}

	err := s.plugin.ApproveAndDeposit(ctx, tx, false)

	var redirect *RedirectRequiredError
	if !errors.As(err, &redirect) {
		if err == nil {
			return nil, "", fmt.Errorf("payment %d: expected redirect, got none", pay.ID)
		}

		return nil, "", fmt.Errorf("approving payment %d: %w", pay.ID, err)
	}

	pay.State = StateApproving
	tx.State = TransactionStatePending

	if err := s.repo.SavePayment(ctx, pay); err != nil {
		return nil, "", fmt.Errorf("saving payment: %w", err)
	}

	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		return nil, "", fmt.Errorf("saving transaction: %w", err)
	}

	s.log.Info("payment created", "payment_id", pay.ID, "amount", params.Amount, "currency", params.Currency)

	return pay, redirect.URL, nil
}

// ApproveAndDeposit is the approval hook. It loads the payment's open
// transaction, lets the adapter advance it and persists whatever state the
// adapter set. Control-flow signals from the adapter become result statuses;
// anything else is an error.
func (s *Service) ApproveAndDeposit(ctx context.Context, paymentID, amount int64) (*Result, error) {
	tx, err := s.repo.OpenTransaction(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("loading transaction for payment %d: %w", paymentID, err)
	}

	if tx.RequestedAmount != amount {
		return nil, fmt.Errorf("payment %d: requested amount %d does not match transaction amount %d",
			paymentID, amount, tx.RequestedAmount)
	}

	err = s.plugin.ApproveAndDeposit(ctx, tx, false)
	if err == nil {
		if err := s.repo.SavePayment(ctx, tx.Payment); err != nil {
			return nil, fmt.Errorf("saving payment: %w", err)
		}

		if err := s.repo.SaveTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("saving transaction: %w", err)
		}

		return &Result{Status: StatusSuccess, Transaction: tx}, nil
	}

	var redirect *RedirectRequiredError
	if errors.As(err, &redirect) {
		if err := s.repo.SaveTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("saving transaction: %w", err)
		}

		return &Result{Status: StatusPending, Transaction: tx, RedirectURL: redirect.URL}, nil
	}

	if errors.Is(err, ErrAwaitingNotification) {
		return &Result{Status: StatusPending, Transaction: tx}, nil
	}

	var financial *FinancialError
	if errors.As(err, &financial) {
		if err := s.repo.SaveTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("saving transaction: %w", err)
		}

		s.log.Info("payment declined", "payment_id", paymentID)

		return &Result{Status: StatusFailed, Transaction: tx}, nil
	}

	return nil, fmt.Errorf("approving payment %d: %w", paymentID, err)
}

// ClosePaymentInstruction marks the instruction closed so no further
// payments can be opened against it.
func (s *Service) ClosePaymentInstruction(ctx context.Context, instruction *Instruction) error {
	instruction.State = InstructionStateClosed

	if err := s.repo.SaveInstruction(ctx, instruction); err != nil {
		return fmt.Errorf("closing instruction %d: %w", instruction.ID, err)
	}

	return nil
}

// Get returns the payment with its instruction loaded.
func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.GetPayment(ctx, id)
}
