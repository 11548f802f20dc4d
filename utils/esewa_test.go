package utils

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"testing"
	"thulobazaar/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.AppConfig = &config.Config{
		EsewaEpayURL:     "https://rc-epay.esewa.com.np/api/epay/main/v2/form",
		EsewaProductCode: "EPAYTEST",
		EsewaSecretKey:   "8gBm/:&EnhH.1/q",
	}
}

func encodeCallback(t *testing.T, data EsewaCallbackData) string {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecodeEsewaCallback(t *testing.T) {
	blob := encodeCallback(t, EsewaCallbackData{
		TransactionCode: "000AWEO",
		Status:          "COMPLETE",
		TotalAmount:     "1,000.0",
		TransactionUUID: "TBZ-1693000000-ab12cd34",
		ProductCode:     "EPAYTEST",
	})

	callback, err := DecodeEsewaCallback(blob)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETE", callback.Status)
	assert.Equal(t, "TBZ-1693000000-ab12cd34", callback.TransactionUUID)
	assert.Equal(t, 1000.0, callback.AmountRupees())
}

func TestDecodeEsewaCallbackURLEncoded(t *testing.T) {
	blob := encodeCallback(t, EsewaCallbackData{
		Status:          "PENDING",
		TotalAmount:     550.5,
		TransactionUUID: "TBZ-1-x",
	})

	callback, err := DecodeEsewaCallback(url.QueryEscape(blob))
	require.NoError(t, err)
	assert.Equal(t, "PENDING", callback.Status)
	assert.Equal(t, 550.5, callback.AmountRupees())
}

func TestDecodeEsewaCallbackRejectsGarbage(t *testing.T) {
	_, err := DecodeEsewaCallback("")
	assert.Error(t, err)

	_, err = DecodeEsewaCallback("not base64 at all!!!")
	assert.Error(t, err)

	// Valid base64, valid JSON, but no transaction_uuid to reconcile on.
	blob := encodeCallback(t, EsewaCallbackData{Status: "COMPLETE"})
	_, err = DecodeEsewaCallback(blob)
	assert.Error(t, err)
}

func TestParseEsewaAmount(t *testing.T) {
	assert.Equal(t, 1000.0, parseEsewaAmount("1,000.0"))
	assert.Equal(t, 1000.0, parseEsewaAmount(1000.0))
	assert.Equal(t, 99.99, parseEsewaAmount("99.99"))
	assert.Equal(t, 0.0, parseEsewaAmount(nil))
	assert.Equal(t, 0.0, parseEsewaAmount("abc"))
}

func TestEsewaSignatureIsDeterministic(t *testing.T) {
	first := EsewaSignature("100", "TBZ-1-a", "EPAYTEST")
	second := EsewaSignature("100", "TBZ-1-a", "EPAYTEST")
	assert.Equal(t, first, second)

	_, err := base64.StdEncoding.DecodeString(first)
	assert.NoError(t, err)

	// Any change to the signed triple changes the signature.
	assert.NotEqual(t, first, EsewaSignature("101", "TBZ-1-a", "EPAYTEST"))
	assert.NotEqual(t, first, EsewaSignature("100", "TBZ-1-b", "EPAYTEST"))
}

func TestCreateEsewaSessionSignsFields(t *testing.T) {
	result, err := CreateEsewaSession("TBZ-1-a", 250, "https://tbz/success", "https://tbz/failure")
	require.NoError(t, err)

	assert.Equal(t, config.AppConfig.EsewaEpayURL, result.PaymentURL)
	assert.Equal(t, "TBZ-1-a", result.TransactionUUID)
	assert.Equal(t, "250", result.Fields["total_amount"])
	assert.Equal(t, "EPAYTEST", result.Fields["product_code"])
	assert.Equal(t, "total_amount,transaction_uuid,product_code", result.Fields["signed_field_names"])
	assert.Equal(t, EsewaSignature("250", "TBZ-1-a", "EPAYTEST"), result.Fields["signature"])
}

func TestRupeesToPaisa(t *testing.T) {
	assert.Equal(t, int64(10000), RupeesToPaisa(100))
	assert.Equal(t, int64(9999), RupeesToPaisa(99.99))
	// Float noise must round, not truncate.
	assert.Equal(t, int64(1005), RupeesToPaisa(10.05))
}

func TestGeneratedIdentifiers(t *testing.T) {
	order := GenerateOrderID()
	assert.Contains(t, order, "TBZ-")
	assert.NotEqual(t, order, GenerateOrderID())

	ticket := GenerateTicketNumber()
	assert.Contains(t, ticket, "TKT-")
	assert.NotEqual(t, ticket, GenerateTicketNumber())
}
