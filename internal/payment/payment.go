package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a payment or transaction does not exist.
var ErrNotFound = errors.New("payment: not found")

// TransactionState represents the lifecycle state of a financial transaction.
// The values mirror the payment framework's transaction contract.
type TransactionState string

const (
	TransactionStateNew      TransactionState = "new"
	TransactionStatePending  TransactionState = "pending"
	TransactionStateCanceled TransactionState = "canceled"
	TransactionStateFailed   TransactionState = "failed"
	TransactionStateSuccess  TransactionState = "success"
)

// State represents the approval state of a payment. Distinct from the
// transaction state machine.
type State string

const (
	StateNew        State = "new"
	StateApproving  State = "approving"
	StateApproved   State = "approved"
	StateCanceled   State = "canceled"
	StateExpired    State = "expired"
	StateFailed     State = "failed"
	StateDepositing State = "depositing"
	StateDeposited  State = "deposited"
)

// InstructionState represents the lifecycle state of a payment instruction.
type InstructionState string

const (
	InstructionStateNew     InstructionState = "new"
	InstructionStateValid   InstructionState = "valid"
	InstructionStateInvalid InstructionState = "invalid"
	InstructionStateClosed  InstructionState = "closed"
)

// Canonical response and reason codes recorded on transactions.
const (
	ResponseCodeSuccess = "success"
	ReasonCodeSuccess   = "none"
	CodeFailed          = "FAILED"
)

// Instruction groups the payments of one checkout and fixes their currency.
type Instruction struct {
	ID        int64
	Currency  string
	Amount    int64 // Amount in grosz
	State     InstructionState
	CreatedAt time.Time
}

// Payment is one logical attempt to collect an instruction's amount.
type Payment struct {
	ID            int64
	InstructionID int64
	Instruction   *Instruction
	TargetAmount  int64 // Amount in grosz
	State         State
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Transaction is a single money movement attempted for a payment. The
// tracking id correlates it with the gateway; the reference number is
// assigned by the gateway once it confirms.
type Transaction struct {
	ID              uuid.UUID
	PaymentID       int64
	Payment         *Payment
	TrackingID      *string
	ReferenceNumber *string
	State           TransactionState
	RequestedAmount int64 // Amount in grosz
	ResponseCode    *string
	ReasonCode      *string
	ExtendedData    ExtendedData
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// ExtendedData carries free-form checkout attributes (email, country,
// description, cancel/return URLs).
type ExtendedData map[string]string

// Get returns the value for key, or empty string when absent.
func (d ExtendedData) Get(key string) string {
	if d == nil {
		return ""
	}

	return d[key]
}

// Has reports whether key is present.
func (d ExtendedData) Has(key string) bool {
	if d == nil {
		return false
	}

	_, ok := d[key]

	return ok
}
