package paymentValidators

import (
	"strings"
	paymentController "thulobazaar/controllers/payment"
	"thulobazaar/middleware"
	"thulobazaar/models"

	"github.com/gofiber/fiber/v2"
)

func Initiate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(paymentController.InitiateRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Gateway = strings.ToUpper(strings.TrimSpace(reqData.Gateway))
		if reqData.Gateway != models.GatewayKhalti && reqData.Gateway != models.GatewayEsewa {
			errors["gateway"] = "Invalid gateway! Allowed: KHALTI, ESEWA"
		}

		if reqData.Amount < paymentController.MinimumAmount {
			errors["amount"] = "Amount must be at least NPR 10!"
		}

		reqData.PaymentType = strings.ToUpper(strings.TrimSpace(reqData.PaymentType))
		validType := map[string]bool{
			models.PaymentTypeAdPromotion:            true,
			models.PaymentTypeIndividualVerification: true,
			models.PaymentTypeBusinessVerification:   true,
		}
		if !validType[reqData.PaymentType] {
			errors["paymentType"] = "Invalid payment type! Allowed: AD_PROMOTION, INDIVIDUAL_VERIFICATION, BUSINESS_VERIFICATION"
		}

		if reqData.RelatedID == 0 {
			errors["relatedId"] = "Related ID is required!"
		}

		if reqData.PaymentType == models.PaymentTypeAdPromotion {
			reqData.PromotionType = strings.ToUpper(strings.TrimSpace(reqData.PromotionType))
			validPromotion := map[string]bool{
				models.PromotionFeatured: true,
				models.PromotionUrgent:   true,
				models.PromotionSticky:   true,
				models.PromotionBumpUp:   true,
			}
			if !validPromotion[reqData.PromotionType] {
				errors["promotionType"] = "Invalid promotion type! Allowed: FEATURED, URGENT, STICKY, BUMP_UP"
			}
			if reqData.DurationDays < 1 || reqData.DurationDays > 90 {
				errors["durationDays"] = "Duration must be between 1 and 90 days!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedInitiate", reqData)
		return c.Next()
	}
}

func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OrderID string `json:"orderId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.OrderID = strings.TrimSpace(reqData.OrderID)
		if reqData.OrderID == "" {
			errors["orderId"] = "Order ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerify", reqData)
		return c.Next()
	}
}
