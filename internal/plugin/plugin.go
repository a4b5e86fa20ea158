// Package plugin adapts the payment framework's approval hook onto the
// Przelewy24 purchase / complete-purchase protocol.
package plugin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/MrJamesThe3rd/p24gate/internal/payment"
	"github.com/MrJamesThe3rd/p24gate/internal/przelewy24"
	"github.com/MrJamesThe3rd/p24gate/internal/session"
)

// Gateway is the subset of the Przelewy24 client the plugin needs.
//
//go:generate mockgen -source=plugin.go -destination=gateway_mock.go -package=plugin
type Gateway interface {
	Purchase(ctx context.Context, req przelewy24.PurchaseRequest) (*przelewy24.PurchaseResponse, error)
	CompletePurchase(ctx context.Context, req przelewy24.CompletePurchaseRequest) (*przelewy24.CompletePurchaseResponse, error)
}

// ptr returns a pointer to a copy of v.
func ptr[T any](v T) *T { return &v }

// Plugin drives a financial transaction through the Przelewy24 protocol.
type Plugin struct {
	gateway   Gateway
	reportURL string
	log       *slog.Logger
}

// New creates a plugin. The report URL is where the gateway will POST its
// payment notifications. A nil logger disables logging.
func New(gateway Gateway, reportURL string, log *slog.Logger) *Plugin {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Plugin{
		gateway:   gateway,
		reportURL: reportURL,
		log:       log,
	}
}

// ApproveAndDeposit advances the transaction one step.
//
// A transaction in the new state registers a purchase and returns
// RedirectRequiredError. A transaction without a tracking id is not ours to
// act on yet and returns nil. One without a reference number is still waiting
// for the webhook and returns ErrAwaitingNotification. Otherwise the purchase
// is completed against the gateway and the transaction reaches success or
// failed.
//
// The retry flag is accepted for hook compatibility and not consulted; the
// surrounding framework re-invokes the hook on its own schedule.
func (p *Plugin) ApproveAndDeposit(ctx context.Context, tx *payment.Transaction, retry bool) error {
	if tx.State == payment.TransactionStateNew {
		return p.redirectAction(ctx, tx)
	}

	if tx.TrackingID == nil {
		return nil
	}

	if tx.ReferenceNumber == nil {
		p.log.Info("waiting for notification from Przelewy24", "tracking_id", *tx.TrackingID)
		return payment.ErrAwaitingNotification
	}

	pay := tx.Payment
	instruction := pay.Instruction

	resp, err := p.gateway.CompletePurchase(ctx, przelewy24.CompletePurchaseRequest{
		SessionID:     session.ID(*tx.TrackingID, tx.CreatedAt),
		TransactionID: *tx.ReferenceNumber,
		Amount:        pay.TargetAmount,
		Currency:      instruction.Currency,
	})
	if err != nil {
		return fmt.Errorf("completing purchase: %w", err)
	}

	p.log.Info("completing payment", "tracking_id", *tx.TrackingID, "code", resp.Code)

	if !resp.Successful() {
		tx.State = payment.TransactionStateFailed
		tx.ResponseCode = ptr(payment.CodeFailed)
		tx.ReasonCode = ptr(payment.CodeFailed)

		p.log.Info("payment failed", "tracking_id", *tx.TrackingID)

		return &payment.FinancialError{Transaction: tx}
	}

	pay.State = payment.StateApproved
	tx.State = payment.TransactionStateSuccess
	tx.ResponseCode = ptr(payment.ResponseCodeSuccess)
	tx.ReasonCode = ptr(payment.ReasonCodeSuccess)

	p.log.Info("payment successful", "tracking_id", *tx.TrackingID)

	return nil
}

// redirectAction registers a purchase for a fresh transaction and wraps the
// hosted payment page URL in a RedirectRequiredError.
func (p *Plugin) redirectAction(ctx context.Context, tx *payment.Transaction) error {
	resp, err := p.gateway.Purchase(ctx, p.purchaseParameters(tx))
	if err != nil {
		return fmt.Errorf("registering purchase: %w", err)
	}

	if !resp.Successful() {
		p.log.Error("purchase registration failed", "code", resp.Code, "message", resp.Message)
		return &payment.FinancialError{Transaction: tx}
	}

	if resp.RedirectURL == "" {
		return &payment.FinancialError{Transaction: tx}
	}

	p.log.Info("redirecting to hosted payment page", "token", resp.Token)

	return &payment.RedirectRequiredError{Transaction: tx, URL: resp.RedirectURL}
}

// purchaseParameters builds the trnRegister request for a transaction. The
// tracking id is the payment id, so repeated calls assign the same value.
func (p *Plugin) purchaseParameters(tx *payment.Transaction) przelewy24.PurchaseRequest {
	pay := tx.Payment
	instruction := pay.Instruction
	data := tx.ExtendedData

	tx.TrackingID = ptr(strconv.FormatInt(pay.ID, 10))

	description := "Transaction " + strconv.FormatInt(pay.ID, 10)
	if data.Has("description") {
		description = data.Get("description")
	}

	return przelewy24.PurchaseRequest{
		SessionID:   session.ID(*tx.TrackingID, tx.CreatedAt),
		Amount:      pay.TargetAmount,
		Currency:    instruction.Currency,
		Description: description,
		Email:       data.Get("email"),
		Country:     data.Get("country"),
		NotifyURL:   p.reportURL,
		CancelURL:   data.Get("cancel_url"),
		ReturnURL:   data.Get("return_url"),
	}
}
