package adController

import (
	"strings"
	"thulobazaar/database"
	"thulobazaar/middleware"
	"thulobazaar/models"

	"github.com/gofiber/fiber/v2"
)

func CreateAd(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedAd").(*struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		Subcategory string  `json:"subcategory"`
		Location    string  `json:"location"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ad := models.Ad{
		SellerID:    userId,
		Title:       reqData.Title,
		Description: reqData.Description,
		Price:       reqData.Price,
		Category:    strings.ToLower(reqData.Category),
		Subcategory: strings.ToLower(reqData.Subcategory),
		Location:    reqData.Location,
		Status:      "ACTIVE",
	}

	if err := database.Database.Db.Create(&ad).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create ad!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ad posted successfully!", ad)
}

// AdList is public. Promoted ads surface first: sticky, then featured,
// then recency (bump refreshes recency).
func AdList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Ad{}).Where("status = ? AND is_deleted = false", "ACTIVE")

	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", strings.ToLower(category))
	}
	if location := c.Query("location"); location != "" {
		db = db.Where("location = ?", location)
	}
	if search := c.Query("q"); search != "" {
		db = db.Where("title LIKE ?", "%"+search+"%")
	}

	var total int64
	db.Count(&total)

	var ads []models.Ad
	if err := db.
		Order("is_sticky DESC, is_featured DESC, COALESCE(bumped_at, created_at) DESC").
		Offset(offset).Limit(limit).Find(&ads).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ads!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ads fetched successfully!", fiber.Map{
		"ads": ads,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetAd(c *fiber.Ctx) error {
	adId, err := c.ParamsInt("id")
	if err != nil || adId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ad id!", nil)
	}

	var ad models.Ad
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", adId).First(&ad).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ad not found!", nil)
	}

	// Sold or removed ads are visible to their seller and staff only.
	// The route uses the optional JWT, so anonymous viewers get a 404.
	if ad.Status != "ACTIVE" {
		userId, _ := c.Locals("userId").(uint)
		role, _ := c.Locals("role").(string)
		if userId != ad.SellerID && role != "EDITOR" && role != "ADMIN" && role != "SUPER-ADMIN" {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ad not found!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ad fetched successfully!", ad)
}
