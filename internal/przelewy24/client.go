// Package przelewy24 implements the legacy Przelewy24 transaction API
// (trnRegister / trnVerify, API version 3.2).
package przelewy24

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

const (
	productionURL = "https://secure.przelewy24.pl"
	sandboxURL    = "https://sandbox.przelewy24.pl"

	apiVersion = "3.2"
)

// Config carries the merchant credentials for one point of sale.
type Config struct {
	MerchantID int
	PosID      int
	CRC        string
	Sandbox    bool
}

// Client talks to the Przelewy24 transaction endpoints.
type Client struct {
	cfg     Config
	baseURL string
	client  *http.Client
}

// NewClient creates a gateway client. The sandbox flag in cfg selects the
// test environment.
func NewClient(cfg Config) *Client {
	base := productionURL
	if cfg.Sandbox {
		base = sandboxURL
	}

	return &Client{
		cfg:     cfg,
		baseURL: base,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// PurchaseRequest registers a new transaction with the gateway.
type PurchaseRequest struct {
	SessionID   string
	Amount      int64 // Amount in grosz
	Currency    string
	Description string
	Email       string
	Country     string
	ReturnURL   string
	CancelURL   string
	NotifyURL   string
}

// PurchaseResponse is the outcome of a trnRegister call.
type PurchaseResponse struct {
	Code        string
	Message     string
	Token       string
	RedirectURL string
}

// Successful reports whether the gateway accepted the registration.
func (r *PurchaseResponse) Successful() bool {
	return r.Code == "0"
}

// CompletePurchaseRequest verifies a notified transaction with the gateway.
type CompletePurchaseRequest struct {
	SessionID     string
	TransactionID string // gateway order id
	Amount        int64  // Amount in grosz
	Currency      string
}

// CompletePurchaseResponse is the outcome of a trnVerify call.
type CompletePurchaseResponse struct {
	Code    string
	Message string
}

// Successful reports whether the gateway confirmed the transaction.
func (r *CompletePurchaseResponse) Successful() bool {
	return r.Code == "0"
}

// Purchase registers the transaction and resolves the hosted payment page
// the customer must be sent to.
func (c *Client) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResponse, error) {
	if _, err := currency.ParseISO(req.Currency); err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", req.Currency, err)
	}

	amount := strconv.FormatInt(req.Amount, 10)

	form := url.Values{}
	form.Set("p24_api_version", apiVersion)
	form.Set("p24_merchant_id", strconv.Itoa(c.cfg.MerchantID))
	form.Set("p24_pos_id", strconv.Itoa(c.cfg.PosID))
	form.Set("p24_session_id", req.SessionID)
	form.Set("p24_amount", amount)
	form.Set("p24_currency", req.Currency)
	form.Set("p24_description", req.Description)
	form.Set("p24_email", req.Email)
	form.Set("p24_country", req.Country)
	form.Set("p24_url_return", req.ReturnURL)
	form.Set("p24_url_status", req.NotifyURL)

	if req.CancelURL != "" {
		form.Set("p24_url_cancel", req.CancelURL)
	}

	form.Set("p24_sign", c.sign(req.SessionID, strconv.Itoa(c.cfg.MerchantID), amount, req.Currency))

	values, err := c.post(ctx, "/trnRegister", form)
	if err != nil {
		return nil, err
	}

	resp := &PurchaseResponse{
		Code:    values.Get("error"),
		Message: values.Get("errorMessage"),
		Token:   values.Get("token"),
	}

	if resp.Successful() && resp.Token != "" {
		resp.RedirectURL = c.baseURL + "/trnRequest/" + resp.Token
	}

	return resp, nil
}

// CompletePurchase asks the gateway to verify a transaction it notified us
// about. Only after a successful verify is the money actually booked.
func (c *Client) CompletePurchase(ctx context.Context, req CompletePurchaseRequest) (*CompletePurchaseResponse, error) {
	if _, err := currency.ParseISO(req.Currency); err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", req.Currency, err)
	}

	amount := strconv.FormatInt(req.Amount, 10)

	form := url.Values{}
	form.Set("p24_merchant_id", strconv.Itoa(c.cfg.MerchantID))
	form.Set("p24_pos_id", strconv.Itoa(c.cfg.PosID))
	form.Set("p24_session_id", req.SessionID)
	form.Set("p24_order_id", req.TransactionID)
	form.Set("p24_amount", amount)
	form.Set("p24_currency", req.Currency)
	form.Set("p24_sign", c.sign(req.SessionID, req.TransactionID, amount, req.Currency))

	values, err := c.post(ctx, "/trnVerify", form)
	if err != nil {
		return nil, err
	}

	return &CompletePurchaseResponse{
		Code:    values.Get("error"),
		Message: values.Get("errorMessage"),
	}, nil
}

// sign computes the p24_sign checksum: md5 over the given fields plus the
// CRC secret, pipe-joined.
func (c *Client) sign(fields ...string) string {
	payload := strings.Join(append(fields, c.cfg.CRC), "|")
	return fmt.Sprintf("%x", md5.Sum([]byte(payload)))
}

// post submits a form and parses the query-string response body the legacy
// API answers with.
func (c *Client) post(ctx context.Context, path string, form url.Values) (url.Values, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return values, nil
}
