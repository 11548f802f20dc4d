package verificationController

import (
	"strings"
	"thulobazaar/database"
	"thulobazaar/middleware"
	"thulobazaar/models"
	"thulobazaar/utils"

	"github.com/gofiber/fiber/v2"
)

// SubmitRequest opens a verification request in PENDING_PAYMENT. The
// payment callback moves it to PENDING_REVIEW; staff take it from there.
func SubmitRequest(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedVerification").(*struct {
		Kind         string `json:"kind"`
		DocumentURL  string `json:"documentUrl"`
		BusinessName string `json:"businessName"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	kind := strings.ToUpper(reqData.Kind)

	db := database.Database.Db

	// One live request per kind per user.
	var existing models.VerificationRequest
	if err := db.Where("user_id = ? AND kind = ? AND status IN ? AND is_deleted = false",
		userId, kind,
		[]string{models.VerificationStatusPendingPayment, models.VerificationStatusPendingReview}).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A verification request is already in progress!", existing)
	}

	request := models.VerificationRequest{
		UserID:       userId,
		Kind:         kind,
		DocumentURL:  reqData.DocumentURL,
		BusinessName: reqData.BusinessName,
		Status:       models.VerificationStatusPendingPayment,
	}

	if err := db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create verification request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification request created. Complete the payment to submit it for review.", request)
}

func MyRequests(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var requests []models.VerificationRequest
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = false", userId).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification requests fetched!", requests)
}

// PendingRequests lists the staff review queue.
func PendingRequests(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.VerificationRequest{}).
		Where("status = ? AND is_deleted = false", models.VerificationStatusPendingReview)

	var total int64
	db.Count(&total)

	var requests []models.VerificationRequest
	if err := db.Order("created_at ASC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending requests fetched!", fiber.Map{
		"requests": requests,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ReviewRequest approves or rejects a PENDING_REVIEW request. Approval
// flips the matching trust badge on the user.
func ReviewRequest(c *fiber.Ctx) error {
	reviewerId, _ := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedReview").(*struct {
		RequestID uint   `json:"requestId"`
		Approve   bool   `json:"approve"`
		Note      string `json:"note"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var request models.VerificationRequest
	if err := db.Where("id = ? AND is_deleted = false", reqData.RequestID).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Verification request not found!", nil)
	}

	if request.Status != models.VerificationStatusPendingReview {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Request is not awaiting review!", nil)
	}

	newStatus := models.VerificationStatusRejected
	if reqData.Approve {
		newStatus = models.VerificationStatusApproved
	}

	tx := db.Begin()

	if err := tx.Model(&request).Updates(map[string]interface{}{
		"status":      newStatus,
		"reviewer_id": reviewerId,
		"review_note": reqData.Note,
	}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update request!", nil)
	}

	if reqData.Approve {
		badge := "is_verified"
		if request.Kind == models.VerificationKindBusiness {
			badge = "is_business_verified"
		}
		if err := tx.Model(&models.User{}).Where("id = ?", request.UserID).Update(badge, true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user badge!", nil)
		}
	}

	tx.Commit()

	var owner models.User
	if err := db.Where("id = ?", request.UserID).First(&owner).Error; err == nil {
		utils.SendVerificationDecisionEmail(owner.Email, owner.Name, request.Kind, newStatus, reqData.Note)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review recorded!", fiber.Map{
		"requestId": request.ID,
		"status":    newStatus,
	})
}
