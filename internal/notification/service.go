// Package notification verifies and finalizes the asynchronous payment
// notifications Przelewy24 delivers after a customer pays.
package notification

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/MrJamesThe3rd/p24gate/internal/payment"
	"github.com/MrJamesThe3rd/p24gate/internal/session"
)

// Form fields the gateway posts to the webhook.
const (
	FieldSessionID = "p24_session_id"
	FieldOrderID   = "p24_order_id"
	FieldSign      = "p24_sign"
	FieldAmount    = "p24_amount"
	FieldCurrency  = "p24_currency"
)

// Response bodies the gateway expects.
const (
	bodyOK          = "OK"
	bodyFailed      = "[failed]"
	bodyNoSessionID = "Failed: No session id"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=notification
type Repository interface {
	FindTransactionByTrackingID(ctx context.Context, trackingID string) (*payment.Transaction, error)
	SavePayment(ctx context.Context, p *payment.Payment) error
	SaveTransaction(ctx context.Context, tx *payment.Transaction) error
}

// Approver is the framework hook that runs the gateway adapter for a payment
// and closes instructions once they are settled.
type Approver interface {
	ApproveAndDeposit(ctx context.Context, paymentID, amount int64) (*payment.Result, error)
	ClosePaymentInstruction(ctx context.Context, instruction *payment.Instruction) error
}

// Service processes one webhook call at a time. It is stateless apart from
// the persisted entities it mutates.
type Service struct {
	repo     Repository
	approver Approver
	crc      string
	log      *slog.Logger
}

// NewService creates a notification service. crc is the shared signing
// secret agreed with the gateway. A nil logger disables logging.
func NewService(repo Repository, approver Approver, crc string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		repo:     repo,
		approver: approver,
		crc:      crc,
		log:      log,
	}
}

// Process authenticates and applies one notification. It always answers with
// a status and body for the gateway: 200 when the payment completed and the
// instruction was closed, 201 when the notification is acknowledged but the
// payment is still pending, 4xx/5xx per the failure taxonomy.
func (s *Service) Process(ctx context.Context, form url.Values) (int, string) {
	s.log.Debug("notification received", "form", form.Encode())

	if !form.Has(FieldSessionID) {
		s.log.Error("webhook called without " + FieldSessionID)
		return http.StatusBadRequest, bodyNoSessionID
	}

	sessionID := form.Get(FieldSessionID)
	trackingID := session.TrackingID(sessionID)
	referenceNumber := form.Get(FieldOrderID)

	if !s.signatureCorrect(
		form.Get(FieldSign),
		trackingID,
		referenceNumber,
		form.Get(FieldAmount),
		form.Get(FieldCurrency),
	) {
		s.log.Error("given signature is not correct", "tracking_id", trackingID)
		return http.StatusBadRequest, bodyFailed
	}

	tx, err := s.repo.FindTransactionByTrackingID(ctx, trackingID)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			s.log.Error("transaction not available", "tracking_id", trackingID)
			return http.StatusNotFound, bodyFailed
		}

		s.log.Error("loading transaction", "tracking_id", trackingID, "error", err)

		return http.StatusInternalServerError, bodyFailed
	}

	pay := tx.Payment

	if pay.State != payment.StateApproving {
		s.log.Error("payment state is not approving", "payment_id", pay.ID, "state", pay.State)
		return http.StatusInternalServerError, bodyFailed
	}

	tx.ReferenceNumber = &referenceNumber

	if err := s.repo.SavePayment(ctx, pay); err != nil {
		s.log.Error("saving payment", "payment_id", pay.ID, "error", err)
		return http.StatusInternalServerError, bodyFailed
	}

	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		s.log.Error("saving transaction", "payment_id", pay.ID, "error", err)
		return http.StatusInternalServerError, bodyFailed
	}

	result, err := s.approver.ApproveAndDeposit(ctx, pay.ID, tx.RequestedAmount)
	if err != nil {
		s.log.Error("approve and deposit", "payment_id", pay.ID, "error", err)
		return http.StatusInternalServerError, bodyFailed
	}

	s.log.Debug("approval result", "payment_id", pay.ID, "status", result.Status.String())

	if result.Status != payment.StatusSuccess {
		return http.StatusCreated, bodyOK
	}

	if err := s.approver.ClosePaymentInstruction(ctx, pay.Instruction); err != nil {
		s.log.Error("closing payment instruction", "payment_id", pay.ID, "error", err)
		return http.StatusInternalServerError, bodyFailed
	}

	s.log.Debug("payment instruction closed", "payment_id", pay.ID)

	return http.StatusOK, bodyOK
}

// signatureCorrect recomputes the notification checksum and compares it to
// the submitted one. The checksum is md5 over the pipe-joined tracking id,
// order id, amount, currency and the shared secret.
func (s *Service) signatureCorrect(signature, trackingID, referenceNumber, amount, currency string) bool {
	payload := fmt.Sprintf("%s|%s|%s|%s|%s", trackingID, referenceNumber, amount, currency, s.crc)
	calculated := fmt.Sprintf("%x", md5.Sum([]byte(payload)))

	return calculated == signature
}
