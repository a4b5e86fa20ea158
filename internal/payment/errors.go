package payment

import "errors"

// ErrAwaitingNotification signals that a transaction cannot move forward
// until the gateway delivers its notification. The caller should retry on
// its next cycle; nothing was mutated.
var ErrAwaitingNotification = errors.New("payment: awaiting notification from gateway")

// RedirectRequiredError instructs the caller to send the customer to the
// gateway's hosted payment page. It is control flow, not a failure.
type RedirectRequiredError struct {
	Transaction *Transaction
	URL         string
}

func (e *RedirectRequiredError) Error() string {
	return "payment: redirect the user to the gateway"
}

// FinancialError reports that the gateway declined the payment or answered
// with an unusable response.
type FinancialError struct {
	Transaction *Transaction
}

func (e *FinancialError) Error() string {
	return "payment: payment failed"
}
