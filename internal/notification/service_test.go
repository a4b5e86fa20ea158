package notification_test

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/p24gate/internal/notification"
	"github.com/MrJamesThe3rd/p24gate/internal/payment"
)

const testCRC = "secret-crc"

func sign(trackingID, orderID, amount, currency string) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%s", trackingID, orderID, amount, currency, testCRC)
	return fmt.Sprintf("%x", md5.Sum([]byte(payload)))
}

// validForm builds a correctly signed notification for tracking id 12345.
func validForm() url.Values {
	form := url.Values{}
	form.Set("p24_session_id", "12345-160302-154316")
	form.Set("p24_order_id", "987654")
	form.Set("p24_amount", "2500")
	form.Set("p24_currency", "PLN")
	form.Set("p24_sign", sign("12345", "987654", "2500", "PLN"))

	return form
}

func approvingTransaction() *payment.Transaction {
	instruction := &payment.Instruction{
		ID:       7,
		Currency: "PLN",
		Amount:   2500,
		State:    payment.InstructionStateValid,
	}

	pay := &payment.Payment{
		ID:            12345,
		InstructionID: instruction.ID,
		Instruction:   instruction,
		TargetAmount:  2500,
		State:         payment.StateApproving,
	}

	trackingID := "12345"

	return &payment.Transaction{
		ID:              uuid.New(),
		PaymentID:       pay.ID,
		Payment:         pay,
		TrackingID:      &trackingID,
		State:           payment.TransactionStatePending,
		RequestedAmount: 2500,
		CreatedAt:       time.Date(2016, 3, 2, 15, 43, 16, 0, time.UTC),
	}
}

func TestService_Process(t *testing.T) {
	type testCase struct {
		name       string
		form       url.Values
		setupMocks func(repo *notification.MockRepository, approver *notification.MockApprover)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:       "MissingSessionID",
			form:       url.Values{"p24_order_id": {"987654"}},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Failed: No session id",
		},
		{
			name: "BadSignature",
			form: func() url.Values {
				form := validForm()
				form.Set("p24_sign", "deadbeefdeadbeefdeadbeefdeadbeef")
				return form
			}(),
			wantStatus: http.StatusBadRequest,
			wantBody:   "[failed]",
		},
		{
			name: "SignatureOverWrongAmount",
			form: func() url.Values {
				form := validForm()
				form.Set("p24_amount", "9999")
				return form
			}(),
			wantStatus: http.StatusBadRequest,
			wantBody:   "[failed]",
		},
		{
			name: "UnknownTrackingID",
			form: validForm(),
			setupMocks: func(repo *notification.MockRepository, _ *notification.MockApprover) {
				repo.EXPECT().
					FindTransactionByTrackingID(gomock.Any(), "12345").
					Return(nil, payment.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "[failed]",
		},
		{
			name: "LookupError",
			form: validForm(),
			setupMocks: func(repo *notification.MockRepository, _ *notification.MockApprover) {
				repo.EXPECT().
					FindTransactionByTrackingID(gomock.Any(), "12345").
					Return(nil, errors.New("db error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "[failed]",
		},
		{
			name: "PaymentNotApproving",
			form: validForm(),
			setupMocks: func(repo *notification.MockRepository, _ *notification.MockApprover) {
				tx := approvingTransaction()
				tx.Payment.State = payment.StateNew

				repo.EXPECT().
					FindTransactionByTrackingID(gomock.Any(), "12345").
					Return(tx, nil)
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "[failed]",
		},
		{
			name: "ApproverError",
			form: validForm(),
			setupMocks: func(repo *notification.MockRepository, approver *notification.MockApprover) {
				repo.EXPECT().
					FindTransactionByTrackingID(gomock.Any(), "12345").
					Return(approvingTransaction(), nil)
				repo.EXPECT().SavePayment(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().SaveTransaction(gomock.Any(), gomock.Any()).Return(nil)

				approver.EXPECT().
					ApproveAndDeposit(gomock.Any(), int64(12345), int64(2500)).
					Return(nil, errors.New("gateway unreachable"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "[failed]",
		},
		{
			name: "PendingResult",
			form: validForm(),
			setupMocks: func(repo *notification.MockRepository, approver *notification.MockApprover) {
				tx := approvingTransaction()

				repo.EXPECT().
					FindTransactionByTrackingID(gomock.Any(), "12345").
					Return(tx, nil)
				repo.EXPECT().SavePayment(gomock.Any(), tx.Payment).Return(nil)
				repo.EXPECT().
					SaveTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, saved *payment.Transaction) error {
						require.NotNil(t, saved.ReferenceNumber)
						assert.Equal(t, "987654", *saved.ReferenceNumber)
						return nil
					})

				approver.EXPECT().
					ApproveAndDeposit(gomock.Any(), int64(12345), int64(2500)).
					Return(&payment.Result{Status: payment.StatusPending, Transaction: tx}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   "OK",
		},
		{
			name: "SuccessClosesInstruction",
			form: validForm(),
			setupMocks: func(repo *notification.MockRepository, approver *notification.MockApprover) {
				tx := approvingTransaction()

				repo.EXPECT().
					FindTransactionByTrackingID(gomock.Any(), "12345").
					Return(tx, nil)
				repo.EXPECT().SavePayment(gomock.Any(), tx.Payment).Return(nil)
				repo.EXPECT().SaveTransaction(gomock.Any(), tx).Return(nil)

				approver.EXPECT().
					ApproveAndDeposit(gomock.Any(), int64(12345), int64(2500)).
					Return(&payment.Result{Status: payment.StatusSuccess, Transaction: tx}, nil)
				approver.EXPECT().
					ClosePaymentInstruction(gomock.Any(), tx.Payment.Instruction).
					Return(nil).
					Times(1)
			},
			wantStatus: http.StatusOK,
			wantBody:   "OK",
		},
		{
			name: "SavePaymentError",
			form: validForm(),
			setupMocks: func(repo *notification.MockRepository, _ *notification.MockApprover) {
				repo.EXPECT().
					FindTransactionByTrackingID(gomock.Any(), "12345").
					Return(approvingTransaction(), nil)
				repo.EXPECT().SavePayment(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "[failed]",
		},
		{
			name: "CloseInstructionError",
			form: validForm(),
			setupMocks: func(repo *notification.MockRepository, approver *notification.MockApprover) {
				tx := approvingTransaction()

				repo.EXPECT().
					FindTransactionByTrackingID(gomock.Any(), "12345").
					Return(tx, nil)
				repo.EXPECT().SavePayment(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().SaveTransaction(gomock.Any(), gomock.Any()).Return(nil)

				approver.EXPECT().
					ApproveAndDeposit(gomock.Any(), int64(12345), int64(2500)).
					Return(&payment.Result{Status: payment.StatusSuccess, Transaction: tx}, nil)
				approver.EXPECT().
					ClosePaymentInstruction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "[failed]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := notification.NewMockRepository(ctrl)
			approver := notification.NewMockApprover(ctrl)

			if tt.setupMocks != nil {
				tt.setupMocks(repo, approver)
			}

			svc := notification.NewService(repo, approver, testCRC, nil)

			status, body := svc.Process(context.Background(), tt.form)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

// Changing any single signed field must flip the signature outcome: the
// untouched form passes the check (and proceeds to lookup), every mutated
// variant is rejected before any lookup happens.
func TestSignatureNonDegeneracy(t *testing.T) {
	mutations := map[string]string{
		"p24_session_id": "12346-160302-154316",
		"p24_order_id":   "987655",
		"p24_amount":     "2501",
		"p24_currency":   "EUR",
	}

	for field, value := range mutations {
		t.Run(field, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := notification.NewService(
				notification.NewMockRepository(ctrl),
				notification.NewMockApprover(ctrl),
				testCRC,
				nil,
			)

			form := validForm()
			form.Set(field, value)

			status, body := svc.Process(context.Background(), form)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "[failed]", body)
		})
	}

	t.Run("Unchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := notification.NewMockRepository(ctrl)
		repo.EXPECT().
			FindTransactionByTrackingID(gomock.Any(), "12345").
			Return(nil, payment.ErrNotFound)

		svc := notification.NewService(repo, notification.NewMockApprover(ctrl), testCRC, nil)

		status, _ := svc.Process(context.Background(), validForm())

		assert.Equal(t, http.StatusNotFound, status)
	})
}
