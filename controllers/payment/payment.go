package paymentController

import (
	"fmt"
	"thulobazaar/config"
	"thulobazaar/database"
	"thulobazaar/middleware"
	"thulobazaar/models"
	"thulobazaar/utils"

	"github.com/gofiber/fiber/v2"
)

// InitiatePayment creates a PENDING transaction and opens a gateway
// session, returning the hosted payment URL to the client.
func InitiatePayment(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedInitiate").(*InitiateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// The paid-for entity must exist before money moves.
	orderName, err := describeRelated(reqData.PaymentType, reqData.RelatedID, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	}

	metadataJSON, err := reqData.MetadataJSON()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid metadata!", nil)
	}

	transaction := models.PaymentTransaction{
		UserID:      userId,
		OrderID:     utils.GenerateOrderID(),
		Gateway:     reqData.Gateway,
		Amount:      reqData.Amount,
		PaymentType: reqData.PaymentType,
		RelatedID:   reqData.RelatedID,
		Status:      models.TransactionStatusPending,
		Metadata:    metadataJSON,
	}

	if err := db.Create(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create transaction!", nil)
	}

	callbackURL := fmt.Sprintf("%s/payment/callback?order_id=%s", config.AppConfig.FrontendURL, transaction.OrderID)
	failureURL := fmt.Sprintf("%s/payment/failure?order_id=%s", config.AppConfig.FrontendURL, transaction.OrderID)

	var paymentURL string
	var referenceID string
	var fields map[string]string

	switch transaction.Gateway {
	case models.GatewayKhalti:
		session, err := utils.CreateKhaltiSession(transaction.OrderID, orderName, transaction.Amount, callbackURL)
		if err != nil {
			markInitiationFailed(&transaction)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway unavailable. Please try again.", fiber.Map{
				"orderId": transaction.OrderID,
			})
		}
		paymentURL = session.PaymentURL
		referenceID = session.Pidx
	case models.GatewayEsewa:
		session, err := utils.CreateEsewaSession(transaction.OrderID, transaction.Amount, callbackURL, failureURL)
		if err != nil {
			markInitiationFailed(&transaction)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway unavailable. Please try again.", fiber.Map{
				"orderId": transaction.OrderID,
			})
		}
		paymentURL = session.PaymentURL
		referenceID = session.TransactionUUID
		fields = session.Fields
	}

	if err := db.Model(&transaction).Updates(map[string]interface{}{
		"payment_url":  paymentURL,
		"reference_id": referenceID,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store payment session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment initiated!", fiber.Map{
		"orderId":    transaction.OrderID,
		"gateway":    transaction.Gateway,
		"amount":     transaction.Amount,
		"paymentUrl": paymentURL,
		"fields":     fields, // eSewa form fields, nil for Khalti
	})
}

func markInitiationFailed(transaction *models.PaymentTransaction) {
	database.Database.Db.Model(transaction).Update("status", models.TransactionStatusFailed)
}

// PaymentCallback handles the browser redirect from the gateway. The
// redirect parameters are never trusted on their own; the gateway's
// verify API decides the final status.
func PaymentCallback(c *fiber.Ctx) error {
	gateway := c.Params("gateway")

	var orderID string
	switch gateway {
	case "khalti":
		orderID = c.Query("purchase_order_id")
		if orderID == "" {
			orderID = c.Query("order_id")
		}
	case "esewa":
		callback, err := utils.DecodeEsewaCallback(c.Query("data"))
		if err != nil {
			return redirectFailure(c, "", "invalid_callback")
		}
		orderID = callback.TransactionUUID
	default:
		return redirectFailure(c, "", "unknown_gateway")
	}

	if orderID == "" {
		return redirectFailure(c, "", "missing_order")
	}

	transaction, err := reconcile(orderID)
	if err != nil {
		return redirectFailure(c, orderID, "gateway_error")
	}

	if transaction.Status == models.TransactionStatusVerified {
		return c.Redirect(fmt.Sprintf("%s/payment/success?order_id=%s", config.AppConfig.FrontendURL, orderID))
	}
	return redirectFailure(c, orderID, "payment_"+transaction.Status)
}

func redirectFailure(c *fiber.Ctx, orderID, code string) error {
	return c.Redirect(fmt.Sprintf("%s/payment/failure?order_id=%s&code=%s", config.AppConfig.FrontendURL, orderID, code))
}

// VerifyPayment is the JSON variant of the callback path, used when the
// client polls instead of riding the redirect.
func VerifyPayment(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedVerify").(*struct {
		OrderID string `json:"orderId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var transaction models.PaymentTransaction
	if err := database.Database.Db.Where("order_id = ? AND user_id = ?", reqData.OrderID, userId).First(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	}

	updated, err := reconcile(transaction.OrderID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Gateway verification failed. Please retry.", fiber.Map{
			"orderId": transaction.OrderID,
			"status":  transaction.Status,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction reconciled!", fiber.Map{
		"orderId":     updated.OrderID,
		"status":      updated.Status,
		"referenceId": updated.ReferenceID,
		"verifiedAt":  updated.VerifiedAt,
	})
}

// reconcile asks the gateway for the authoritative state of an order and
// finalizes the local transaction. Safe to call any number of times.
func reconcile(orderID string) (*models.PaymentTransaction, error) {
	db := database.Database.Db

	var transaction models.PaymentTransaction
	if err := db.Where("order_id = ?", orderID).First(&transaction).Error; err != nil {
		return nil, fmt.Errorf("transaction not found")
	}

	// Already settled; verification side effects never re-run.
	if transaction.Status == models.TransactionStatusVerified {
		return &transaction, nil
	}

	var newStatus, referenceID string
	var raw []byte

	switch transaction.Gateway {
	case models.GatewayKhalti:
		result, err := utils.LookupKhalti(transaction.ReferenceID)
		if err != nil {
			return nil, err
		}
		newStatus = statusFromKhalti(result)
		referenceID = result.Pidx
		raw = result.Raw()
		if newStatus == models.TransactionStatusVerified && result.AmountRupees() != transaction.Amount {
			newStatus = models.TransactionStatusFailed
		}
	case models.GatewayEsewa:
		result, err := utils.CheckEsewaStatus(transaction.OrderID, transaction.Amount)
		if err != nil {
			return nil, err
		}
		newStatus = statusFromEsewa(result)
		referenceID = result.RefID
		raw = result.Raw()
	default:
		return nil, fmt.Errorf("unknown gateway %q", transaction.Gateway)
	}

	return FinalizeTransaction(db, transaction.OrderID, newStatus, referenceID, raw)
}

// statusFromKhalti maps Khalti lookup states onto the transaction state
// machine. Anything not explicitly terminal stays PENDING.
func statusFromKhalti(result *utils.KhaltiVerifyResult) string {
	switch result.Status {
	case "Completed":
		return models.TransactionStatusVerified
	case "User canceled":
		return models.TransactionStatusCanceled
	case "Expired", "Refunded", "Partially Refunded":
		return models.TransactionStatusFailed
	}
	return models.TransactionStatusPending
}

// statusFromEsewa maps eSewa status-check states.
func statusFromEsewa(result *utils.EsewaVerifyResult) string {
	switch result.Status {
	case "COMPLETE":
		return models.TransactionStatusVerified
	case "CANCELED":
		return models.TransactionStatusCanceled
	case "NOT_FOUND", "FULL_REFUND", "PARTIAL_REFUND":
		return models.TransactionStatusFailed
	}
	return models.TransactionStatusPending
}

// PaymentStatus returns one transaction, for its owner or staff.
func PaymentStatus(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	var transaction models.PaymentTransaction
	query := database.Database.Db.Where("order_id = ?", c.Params("orderId"))
	if !user.IsStaff() {
		query = query.Where("user_id = ?", userId)
	}
	if err := query.First(&transaction).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction fetched!", transaction)
}

// PaymentHistory returns the caller's transactions, newest first.
func PaymentHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.PaymentTransaction{}).Where("user_id = ?", userId)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var transactions []models.PaymentTransaction
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment history fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// describeRelated verifies the paid-for entity exists and belongs to the
// payer, and returns a human-readable order name for the gateway page.
func describeRelated(paymentType string, relatedID, userID uint) (string, error) {
	db := database.Database.Db

	switch paymentType {
	case models.PaymentTypeAdPromotion:
		var ad models.Ad
		if err := db.Where("id = ? AND seller_id = ? AND is_deleted = false", relatedID, userID).First(&ad).Error; err != nil {
			return "", fmt.Errorf("Ad not found!")
		}
		return "Ad promotion: " + ad.Title, nil
	case models.PaymentTypeIndividualVerification, models.PaymentTypeBusinessVerification:
		var request models.VerificationRequest
		if err := db.Where("id = ? AND user_id = ? AND is_deleted = false", relatedID, userID).First(&request).Error; err != nil {
			return "", fmt.Errorf("Verification request not found!")
		}
		return "Account verification", nil
	}
	return "", fmt.Errorf("Unknown payment type!")
}
