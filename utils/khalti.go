package utils

import (
	"fmt"
	"math"
	"thulobazaar/config"

	"github.com/go-resty/resty/v2"
)

// Khalti's ePayment API speaks paisa. Conversion to and from rupees
// happens in this file only; the rest of the service stores rupees.

// KhaltiInitiateResult is the session created by the initiate call.
type KhaltiInitiateResult struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

// KhaltiVerifyResult is the lookup response for a pidx.
type KhaltiVerifyResult struct {
	Pidx          string  `json:"pidx"`
	TotalAmount   int64   `json:"total_amount"` // paisa
	Status        string  `json:"status"`       // Completed, Pending, Expired, User canceled, Refunded
	TransactionID string  `json:"transaction_id"`
	Fee           int64   `json:"fee"`
	Refunded      bool    `json:"refunded"`
	Detail        string  `json:"detail"` // set on error responses
	raw           []byte
}

// AmountRupees converts the lookup amount back to rupees.
func (r *KhaltiVerifyResult) AmountRupees() float64 {
	return float64(r.TotalAmount) / 100.0
}

// Raw returns the unparsed response body for audit storage.
func (r *KhaltiVerifyResult) Raw() []byte { return r.raw }

type khaltiInitiateRequest struct {
	ReturnURL         string `json:"return_url"`
	WebsiteURL        string `json:"website_url"`
	Amount            int64  `json:"amount"` // paisa
	PurchaseOrderID   string `json:"purchase_order_id"`
	PurchaseOrderName string `json:"purchase_order_name"`
}

// RupeesToPaisa converts an NPR rupee amount to Khalti's paisa unit.
func RupeesToPaisa(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateKhaltiSession opens a Khalti payment session and returns the
// hosted payment URL plus the gateway's pidx.
func CreateKhaltiSession(orderID, orderName string, amountRupees float64, returnURL string) (*KhaltiInitiateResult, error) {
	cfg := config.AppConfig

	result := &KhaltiInitiateResult{}
	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", fmt.Sprintf("key %s", cfg.KhaltiSecretKey)).
		SetHeader("Content-Type", "application/json").
		SetBody(khaltiInitiateRequest{
			ReturnURL:         returnURL,
			WebsiteURL:        cfg.FrontendURL,
			Amount:            RupeesToPaisa(amountRupees),
			PurchaseOrderID:   orderID,
			PurchaseOrderName: orderName,
		}).
		SetResult(result).
		Post(cfg.KhaltiApiURL + "/epayment/initiate/")
	if err != nil {
		return nil, fmt.Errorf("khalti initiate request failed: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("khalti initiate error: %s", resp.String())
	}
	if result.Pidx == "" || result.PaymentURL == "" {
		return nil, fmt.Errorf("khalti initiate: incomplete response: %s", resp.String())
	}

	return result, nil
}

// LookupKhalti fetches the authoritative state of a payment by pidx.
func LookupKhalti(pidx string) (*KhaltiVerifyResult, error) {
	cfg := config.AppConfig

	result := &KhaltiVerifyResult{}
	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", fmt.Sprintf("key %s", cfg.KhaltiSecretKey)).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"pidx": pidx}).
		SetResult(result).
		Post(cfg.KhaltiApiURL + "/epayment/lookup/")
	if err != nil {
		return nil, fmt.Errorf("khalti lookup request failed: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("khalti lookup error: %s", resp.String())
	}

	result.raw = resp.Body()
	return result, nil
}
