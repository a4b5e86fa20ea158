package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MrJamesThe3rd/p24gate/internal/payment"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.payment_id, t.tracking_id, t.reference_number, t.state,
	t.requested_amount, t.response_code, t.reason_code, t.extended_data,
	t.created_at, t.updated_at,
	p.id, p.instruction_id, p.target_amount, p.state, p.created_at, p.updated_at,
	i.id, i.currency, i.amount, i.state, i.created_at
`

// scanTransaction reads a transaction row joined with its payment and
// instruction, in the column order of selectTransactionColumns.
func scanTransaction(s scanner) (*payment.Transaction, error) {
	var (
		tx          payment.Transaction
		pay         payment.Payment
		instruction payment.Instruction

		txState, payState, instrState string
		extendedData                  []byte
	)

	if err := s.Scan(
		&tx.ID, &tx.PaymentID, &tx.TrackingID, &tx.ReferenceNumber, &txState,
		&tx.RequestedAmount, &tx.ResponseCode, &tx.ReasonCode, &extendedData,
		&tx.CreatedAt, &tx.UpdatedAt,
		&pay.ID, &pay.InstructionID, &pay.TargetAmount, &payState, &pay.CreatedAt, &pay.UpdatedAt,
		&instruction.ID, &instruction.Currency, &instruction.Amount, &instrState, &instruction.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.State = payment.TransactionState(txState)
	pay.State = payment.State(payState)
	instruction.State = payment.InstructionState(instrState)

	if len(extendedData) > 0 {
		if err := json.Unmarshal(extendedData, &tx.ExtendedData); err != nil {
			return nil, fmt.Errorf("decoding extended data: %w", err)
		}
	}

	pay.Instruction = &instruction
	tx.Payment = &pay

	return &tx, nil
}

// CreatePayment persists a new instruction, payment and transaction in one
// database transaction and fills in the generated ids and timestamps.
func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment, tx *payment.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	instruction := p.Instruction

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO payment_instructions (currency, amount, state, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`,
		instruction.Currency, instruction.Amount, instruction.State,
	).Scan(&instruction.ID, &instruction.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating instruction: %w", err)
	}

	p.InstructionID = instruction.ID

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO payments (instruction_id, target_amount, state, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`,
		p.InstructionID, p.TargetAmount, p.State,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	tx.PaymentID = p.ID

	extendedData, err := json.Marshal(tx.ExtendedData)
	if err != nil {
		return fmt.Errorf("encoding extended data: %w", err)
	}

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO transactions (payment_id, tracking_id, reference_number, state, requested_amount, extended_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`,
		tx.PaymentID, tx.TrackingID, tx.ReferenceNumber, tx.State, tx.RequestedAmount, extendedData,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

func (s *Store) GetPayment(ctx context.Context, id int64) (*payment.Payment, error) {
	query := `
		SELECT p.id, p.instruction_id, p.target_amount, p.state, p.created_at, p.updated_at,
			i.id, i.currency, i.amount, i.state, i.created_at
		FROM payments p
		JOIN payment_instructions i ON p.instruction_id = i.id
		WHERE p.id = $1`

	var (
		pay         payment.Payment
		instruction payment.Instruction

		payState, instrState string
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&pay.ID, &pay.InstructionID, &pay.TargetAmount, &payState, &pay.CreatedAt, &pay.UpdatedAt,
		&instruction.ID, &instruction.Currency, &instruction.Amount, &instrState, &instruction.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	pay.State = payment.State(payState)
	instruction.State = payment.InstructionState(instrState)
	pay.Instruction = &instruction

	return &pay, nil
}

// OpenTransaction returns the payment's most recent non-terminal
// transaction with its payment and instruction loaded.
func (s *Store) OpenTransaction(ctx context.Context, paymentID int64) (*payment.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		JOIN payments p ON t.payment_id = p.id
		JOIN payment_instructions i ON p.instruction_id = i.id
		WHERE t.payment_id = $1 AND t.state NOT IN ($2, $3, $4)
		ORDER BY t.created_at DESC
		LIMIT 1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, paymentID,
		payment.TransactionStateSuccess, payment.TransactionStateFailed, payment.TransactionStateCanceled))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting open transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) FindTransactionByTrackingID(ctx context.Context, trackingID string) (*payment.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		JOIN payments p ON t.payment_id = p.id
		JOIN payment_instructions i ON p.instruction_id = i.id
		WHERE t.tracking_id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, trackingID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("finding transaction by tracking id: %w", err)
	}

	return tx, nil
}

func (s *Store) SavePayment(ctx context.Context, p *payment.Payment) error {
	query := `
		UPDATE payments
		SET state = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at`

	if err := s.db.QueryRowContext(ctx, query, p.State, p.ID).Scan(&p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return payment.ErrNotFound
		}

		return fmt.Errorf("saving payment: %w", err)
	}

	return nil
}

func (s *Store) SaveTransaction(ctx context.Context, tx *payment.Transaction) error {
	query := `
		UPDATE transactions
		SET tracking_id = $1, reference_number = $2, state = $3,
			response_code = $4, reason_code = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := s.db.QueryRowContext(ctx, query,
		tx.TrackingID, tx.ReferenceNumber, tx.State, tx.ResponseCode, tx.ReasonCode, tx.ID,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return payment.ErrNotFound
		}

		return fmt.Errorf("saving transaction: %w", err)
	}

	return nil
}

func (s *Store) SaveInstruction(ctx context.Context, instruction *payment.Instruction) error {
	query := `
		UPDATE payment_instructions
		SET state = $1
		WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, instruction.State, instruction.ID)
	if err != nil {
		return fmt.Errorf("saving instruction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return payment.ErrNotFound
	}

	return nil
}
