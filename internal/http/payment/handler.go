package payment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/p24gate/internal/payment"
)

type Handler struct {
	svc *payment.Service
}

func NewHandler(svc *payment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
}

type createPaymentRequest struct {
	Amount      int64  `json:"amount"` // Amount in grosz
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Description string `json:"description,omitempty"`
	CancelURL   string `json:"cancel_url,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
}

type createPaymentResponse struct {
	PaymentID   int64  `json:"payment_id"`
	RedirectURL string `json:"redirect_url"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Amount <= 0 || req.Currency == "" {
		http.Error(w, "amount and currency are required", http.StatusBadRequest)
		return
	}

	data := payment.ExtendedData{
		"email":   req.Email,
		"country": req.Country,
	}

	if req.Description != "" {
		data["description"] = req.Description
	}

	if req.CancelURL != "" {
		data["cancel_url"] = req.CancelURL
	}

	if req.ReturnURL != "" {
		data["return_url"] = req.ReturnURL
	}

	pay, redirectURL, err := h.svc.Create(r.Context(), payment.CreateParams{
		Amount:       req.Amount,
		Currency:     req.Currency,
		ExtendedData: data,
	})
	if err != nil {
		var financial *payment.FinancialError
		if errors.As(err, &financial) {
			http.Error(w, "payment rejected by gateway", http.StatusBadGateway)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(createPaymentResponse{
		PaymentID:   pay.ID,
		RedirectURL: redirectURL,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type paymentResponse struct {
	ID           int64  `json:"id"`
	State        string `json:"state"`
	TargetAmount int64  `json:"target_amount"`
	Currency     string `json:"currency"`
	Instruction  string `json:"instruction_state"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	pay, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			http.Error(w, "payment not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(paymentResponse{
		ID:           pay.ID,
		State:        string(pay.State),
		TargetAmount: pay.TargetAmount,
		Currency:     pay.Instruction.Currency,
		Instruction:  string(pay.Instruction.State),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
