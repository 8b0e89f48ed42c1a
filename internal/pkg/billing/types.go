package billing

// OrderRequest is what the payment provider needs to open an order.
// Amount is expressed in the currency's smallest unit (paise for INR).
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the provider's view of a created order.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// OrderResult is returned to the client to open the checkout widget.
// When AlreadyUpgraded is set every other field is empty.
type OrderResult struct {
	AlreadyUpgraded bool   `json:"alreadyPro,omitempty"`
	OrderID         string `json:"orderId,omitempty"`
	Amount          int64  `json:"amount,omitempty"`
	Currency        string `json:"currency,omitempty"`
	KeyID           string `json:"keyId,omitempty"`
}

// VerifyInput carries the three values the checkout widget hands back.
type VerifyInput struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyResult reports the account plan after a successful verification.
type VerifyResult struct {
	Plan    string `json:"plan"`
	Changed bool   `json:"-"`
}
