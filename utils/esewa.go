package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"thulobazaar/config"

	"github.com/go-resty/resty/v2"
)

// EsewaInitiateResult carries the hosted form URL plus the signed fields
// the client must POST to it.
type EsewaInitiateResult struct {
	PaymentURL      string            `json:"payment_url"`
	Fields          map[string]string `json:"fields"`
	TransactionUUID string            `json:"transaction_uuid"`
}

// EsewaCallbackData is the base64 JSON blob eSewa appends to the success
// redirect as ?data=...
type EsewaCallbackData struct {
	TransactionCode  string      `json:"transaction_code"`
	Status           string      `json:"status"` // COMPLETE, PENDING, CANCELED
	TotalAmount      interface{} `json:"total_amount"`
	TransactionUUID  string      `json:"transaction_uuid"`
	ProductCode      string      `json:"product_code"`
	SignedFieldNames string      `json:"signed_field_names"`
	Signature        string      `json:"signature"`
}

// EsewaVerifyResult is the transaction status API response.
type EsewaVerifyResult struct {
	ProductCode     string      `json:"product_code"`
	TransactionUUID string      `json:"transaction_uuid"`
	TotalAmount     interface{} `json:"total_amount"`
	Status          string      `json:"status"` // COMPLETE, PENDING, CANCELED, NOT_FOUND, FULL_REFUND
	RefID           string      `json:"ref_id"`
	raw             []byte
}

// Raw returns the unparsed response body for audit storage.
func (r *EsewaVerifyResult) Raw() []byte { return r.raw }

// AmountRupees normalizes eSewa's amount field, which arrives either as
// a number or as a comma-grouped string ("1,000.0").
func (r *EsewaVerifyResult) AmountRupees() float64 {
	return parseEsewaAmount(r.TotalAmount)
}

// AmountRupees on callback data, same normalization.
func (d *EsewaCallbackData) AmountRupees() float64 {
	return parseEsewaAmount(d.TotalAmount)
}

func parseEsewaAmount(v interface{}) float64 {
	switch a := v.(type) {
	case float64:
		return a
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(a, ",", ""), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// EsewaSignature computes the HMAC-SHA256 signature over the signed
// field triple, base64 encoded, as eSewa's v2 form API requires.
func EsewaSignature(totalAmount, transactionUUID, productCode string) string {
	message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, productCode)
	mac := hmac.New(sha256.New, []byte(config.AppConfig.EsewaSecretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// CreateEsewaSession prepares the signed form parameters for eSewa's
// hosted payment page. eSewa has no server-side session call; the
// signature is the session.
func CreateEsewaSession(orderID string, amountRupees float64, successURL, failureURL string) (*EsewaInitiateResult, error) {
	cfg := config.AppConfig

	total := strconv.FormatFloat(amountRupees, 'f', -1, 64)
	fields := map[string]string{
		"amount":                  total,
		"tax_amount":              "0",
		"total_amount":            total,
		"transaction_uuid":        orderID,
		"product_code":            cfg.EsewaProductCode,
		"product_service_charge":  "0",
		"product_delivery_charge": "0",
		"success_url":             successURL,
		"failure_url":             failureURL,
		"signed_field_names":      "total_amount,transaction_uuid,product_code",
	}
	fields["signature"] = EsewaSignature(total, orderID, cfg.EsewaProductCode)

	return &EsewaInitiateResult{
		PaymentURL:      cfg.EsewaEpayURL,
		Fields:          fields,
		TransactionUUID: orderID,
	}, nil
}

// DecodeEsewaCallback decodes the base64 JSON blob from the redirect.
func DecodeEsewaCallback(data string) (*EsewaCallbackData, error) {
	if data == "" {
		return nil, fmt.Errorf("missing data parameter")
	}
	// Some callers hand us the still-escaped query value. Unescaping an
	// already-decoded blob would turn base64 '+' into a space, so only
	// unescape when percent escapes are actually present.
	if strings.Contains(data, "%") {
		if unescaped, err := url.QueryUnescape(data); err == nil {
			data = unescaped
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 payload: %v", err)
		}
	}

	var callback EsewaCallbackData
	if err := json.Unmarshal(decoded, &callback); err != nil {
		return nil, fmt.Errorf("invalid callback JSON: %v", err)
	}
	if callback.TransactionUUID == "" {
		return nil, fmt.Errorf("callback missing transaction_uuid")
	}
	return &callback, nil
}

// CheckEsewaStatus polls eSewa's transaction status API. This is the
// authoritative check; the redirect blob alone is never trusted.
func CheckEsewaStatus(orderID string, amountRupees float64) (*EsewaVerifyResult, error) {
	cfg := config.AppConfig

	result := &EsewaVerifyResult{}
	client := resty.New()
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"product_code":     cfg.EsewaProductCode,
			"total_amount":     strconv.FormatFloat(amountRupees, 'f', -1, 64),
			"transaction_uuid": orderID,
		}).
		SetResult(result).
		Get(cfg.EsewaApiURL + "/api/epay/transaction/status/")
	if err != nil {
		return nil, fmt.Errorf("esewa status request failed: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("esewa status error: %s", resp.String())
	}

	result.raw = resp.Body()
	return result, nil
}
