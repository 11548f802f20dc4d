package paymentValidators

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initiateApp() *fiber.App {
	app := fiber.New()
	app.Post("/payments/initiate", Initiate(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func postInitiate(t *testing.T, app *fiber.App, body fiber.Map) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/payments/initiate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestInitiateRejectsBelowMinimumAmount(t *testing.T) {
	app := initiateApp()

	resp := postInitiate(t, app, fiber.Map{
		"gateway":     "KHALTI",
		"amount":      9.99,
		"paymentType": "INDIVIDUAL_VERIFICATION",
		"relatedId":   1,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// NPR 10 exactly is the boundary and is allowed.
	resp = postInitiate(t, app, fiber.Map{
		"gateway":     "KHALTI",
		"amount":      10,
		"paymentType": "INDIVIDUAL_VERIFICATION",
		"relatedId":   1,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestInitiateRejectsUnknownGateway(t *testing.T) {
	app := initiateApp()

	resp := postInitiate(t, app, fiber.Map{
		"gateway":     "FONEPAY",
		"amount":      100,
		"paymentType": "INDIVIDUAL_VERIFICATION",
		"relatedId":   1,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestInitiateRequiresPromotionFields(t *testing.T) {
	app := initiateApp()

	// AD_PROMOTION without a promotion type or duration.
	resp := postInitiate(t, app, fiber.Map{
		"gateway":     "ESEWA",
		"amount":      500,
		"paymentType": "AD_PROMOTION",
		"relatedId":   3,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = postInitiate(t, app, fiber.Map{
		"gateway":       "esewa",
		"amount":        500,
		"paymentType":   "ad_promotion",
		"relatedId":     3,
		"promotionType": "featured",
		"durationDays":  7,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Duration past the 90 day cap.
	resp = postInitiate(t, app, fiber.Map{
		"gateway":       "ESEWA",
		"amount":        500,
		"paymentType":   "AD_PROMOTION",
		"relatedId":     3,
		"promotionType": "FEATURED",
		"durationDays":  91,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
