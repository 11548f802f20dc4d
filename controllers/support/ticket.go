package supportControllers

import (
	"strings"
	"thulobazaar/database"
	"thulobazaar/middleware"
	"thulobazaar/models"
	"thulobazaar/utils"
	"thulobazaar/ws"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

func CreateSupportTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedSupportTicket").(*struct {
		Subject  string  `json:"subject"`
		Message  string  `json:"message"`
		Priority *string `json:"priority"`
		Category *string `json:"category"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ticket := models.SupportTicket{
		TicketNumber: utils.GenerateTicketNumber(),
		UserID:       userId,
		Subject:      reqData.Subject,
		Status:       models.TicketStatusOpen,
		Priority:     models.TicketPriorityNormal,
		Category:     "GENERAL",
	}
	if reqData.Priority != nil {
		ticket.Priority = strings.ToUpper(*reqData.Priority)
	}
	if reqData.Category != nil {
		ticket.Category = strings.ToUpper(*reqData.Category)
	}

	db := database.Database.Db
	if err := db.Create(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create support ticket!", nil)
	}

	firstMessage := models.TicketMessage{
		TicketID:   ticket.ID,
		SenderID:   userId,
		SenderName: user.Name,
		IsStaff:    false,
		IsInternal: false,
		Content:    reqData.Message,
	}
	if err := db.Create(&firstMessage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save first message!", nil)
	}

	ticket.Messages = []models.TicketMessage{firstMessage}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Support ticket created successfully!", ticket)
}

func TicketList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
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

	db := database.Database.Db.Model(&models.SupportTicket{}).Where("user_id = ? AND is_deleted = false", userId)

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", strings.ToUpper(status))
	}

	var total int64
	db.Count(&total)

	var tickets []models.SupportTicket
	if err := db.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&tickets).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", fiber.Map{
		"tickets": tickets,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func AdminTicketList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdminList").(*struct {
		Page       *int    `query:"page"`
		Limit      *int    `query:"limit"`
		Status     *string `query:"status"`
		Priority   *string `query:"priority"`
		Category   *string `query:"category"`
		AssignedTo *uint   `query:"assignedTo"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := 1
	limit := 10
	if reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.SupportTicket{}).Where("is_deleted = false")

	if reqData.Status != nil {
		db = db.Where("status = ?", strings.ToUpper(*reqData.Status))
	}
	if reqData.Priority != nil {
		db = db.Where("priority = ?", strings.ToUpper(*reqData.Priority))
	}
	if reqData.Category != nil {
		db = db.Where("category = ?", strings.ToUpper(*reqData.Category))
	}
	if reqData.AssignedTo != nil {
		db = db.Where("assigned_to = ?", *reqData.AssignedTo)
	}

	var total int64
	db.Count(&total)

	var tickets []models.SupportTicket
	if err := db.Offset(offset).Limit(limit).Order("updated_at DESC").Find(&tickets).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", fiber.Map{
		"tickets": tickets,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetTicket returns one ticket with its messages. Internal notes are
// stripped here, before the payload leaves the server, for non-staff
// callers.
func GetTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	ticketId, err := c.ParamsInt("id")
	if err != nil || ticketId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	query := database.Database.Db.Preload("Messages").Where("id = ? AND is_deleted = false", ticketId)
	if !user.IsStaff() {
		query = query.Where("user_id = ?", userId)
	}

	var ticket models.SupportTicket
	if err := query.First(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	ticket.Messages = ticket.VisibleMessages(user.IsStaff())
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket fetched successfully!", ticket)
}

// PostMessage appends one chat line and fans it out to the ticket room.
// A closed ticket rejects customer messages; staff can still write.
func PostMessage(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	ticketId, err := c.ParamsInt("id")
	if err != nil || ticketId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	reqData, ok := c.Locals("validatedMessage").(*struct {
		Content    string `json:"content"`
		IsInternal bool   `json:"isInternal"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	isStaff := user.IsStaff()
	if reqData.IsInternal && !isStaff {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only staff can post internal notes!", nil)
	}

	db := database.Database.Db

	query := db.Where("id = ? AND is_deleted = false", ticketId)
	if !isStaff {
		query = query.Where("user_id = ?", userId)
	}

	var ticket models.SupportTicket
	if err := query.First(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	// Closed is terminal for the customer side of the conversation.
	if ticket.Status == models.TicketStatusClosed && !isStaff {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Ticket is closed. Open a new ticket to continue.", nil)
	}

	message := models.TicketMessage{
		TicketID:   ticket.ID,
		SenderID:   userId,
		SenderName: user.Name,
		IsStaff:    isStaff,
		IsInternal: reqData.IsInternal,
		Content:    reqData.Content,
	}
	if err := db.Create(&message).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save message!", nil)
	}

	// A customer reply while we wait on them puts the ticket back in
	// progress.
	statusChanged := false
	if !isStaff && ticket.Status == models.TicketStatusWaitingOnUser {
		if err := db.Model(&ticket).Update("status", models.TicketStatusInProgress).Error; err == nil {
			ticket.Status = models.TicketStatusInProgress
			statusChanged = true
		}
	}

	// Push to connected room members; internal notes reach staff only.
	ws.MainHub.Broadcast(ticket.ID, "message:new", message, message.IsInternal)
	if statusChanged {
		ws.MainHub.Broadcast(ticket.ID, "ticket:updated", fiber.Map{"status": ticket.Status}, false)
	}

	// Staff replies notify the customer by mail too.
	if isStaff && !reqData.IsInternal {
		var owner models.User
		if err := db.Where("id = ?", ticket.UserID).First(&owner).Error; err == nil {
			utils.SendTicketReplyEmail(owner.Email, owner.Name, ticket.TicketNumber, reqData.Content)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message posted!", fiber.Map{
		"message":      message,
		"ticketStatus": ticket.Status,
	})
}

// UpdateTicket is the staff-only partial update of status, priority and
// assignment. The applied diff is broadcast to the room.
func UpdateTicket(c *fiber.Ctx) error {
	userId, _ := c.Locals("userId").(uint)

	ticketId, err := c.ParamsInt("id")
	if err != nil || ticketId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	reqData, ok := c.Locals("validatedTicketUpdate").(*struct {
		Status     *string `json:"status"`
		Priority   *string `json:"priority"`
		AssignedTo *uint   `json:"assignedTo"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var ticket models.SupportTicket
	if err := db.Where("id = ? AND is_deleted = false", ticketId).First(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	updates := map[string]interface{}{}
	diff := fiber.Map{}
	if reqData.Status != nil {
		status := strings.ToUpper(*reqData.Status)
		updates["status"] = status
		diff["status"] = status
	}
	if reqData.Priority != nil {
		priority := strings.ToUpper(*reqData.Priority)
		updates["priority"] = priority
		diff["priority"] = priority
	}
	if reqData.AssignedTo != nil {
		var staff models.User
		if err := db.Where("id = ? AND is_deleted = false", *reqData.AssignedTo).First(&staff).Error; err != nil || !staff.IsStaff() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Assignee must be a staff member!", nil)
		}
		updates["assigned_to"] = *reqData.AssignedTo
		diff["assigned_to"] = *reqData.AssignedTo
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&ticket).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update ticket!", nil)
	}

	diff["updated_by"] = userId
	ws.MainHub.Broadcast(ticket.ID, "ticket:updated", diff, false)

	if newStatus, ok := updates["status"].(string); ok && newStatus == models.TicketStatusResolved {
		var owner models.User
		if err := db.Where("id = ?", ticket.UserID).First(&owner).Error; err == nil {
			utils.SendTicketResolvedEmail(owner.Email, owner.Name, ticket.TicketNumber)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket updated successfully!", diff)
}

// AdminSupportStats summarizes the queue for the staff dashboard.
func AdminSupportStats(c *fiber.Ctx) error {
	db := database.Database.Db

	statuses := []string{
		models.TicketStatusOpen,
		models.TicketStatusInProgress,
		models.TicketStatusWaitingOnUser,
		models.TicketStatusResolved,
		models.TicketStatusClosed,
	}
	byStatus := fiber.Map{}
	for _, status := range statuses {
		var count int64
		db.Model(&models.SupportTicket{}).Where("status = ? AND is_deleted = false", status).Count(&count)
		byStatus[status] = count
	}

	var today int64
	db.Model(&models.SupportTicket{}).
		Where("created_at >= ? AND is_deleted = false", now.With(time.Now()).BeginningOfDay()).
		Count(&today)

	var urgent int64
	db.Model(&models.SupportTicket{}).
		Where("priority = ? AND status NOT IN ? AND is_deleted = false",
			models.TicketPriorityUrgent,
			[]string{models.TicketStatusResolved, models.TicketStatusClosed}).
		Count(&urgent)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Support stats fetched!", fiber.Map{
		"byStatus":    byStatus,
		"openedToday": today,
		"urgentOpen":  urgent,
	})
}
