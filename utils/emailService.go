package utils

import (
	"fmt"
	"net/smtp"
	"strings"
	"thulobazaar/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Thulobazaar <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all notification mails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #DC1E4A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #333333; line-height: 1.6; }
			.content h2 { color: #333333; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #FDECEF; padding: 15px; border-radius: 4px; border-left: 4px solid #DC1E4A; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>THULOBAZAAR</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Thulobazaar. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Thulobazaar"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Thulobazaar</strong>! Your account has been created.</p>
		<p>You can now post ads, browse listings and message sellers.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Payment receipt once a transaction verifies
func SendPaymentReceiptEmail(email, name, orderID string, amount float64, purpose string) {
	subject := "Payment Received: " + orderID
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>NPR %.2f</strong>.</p>
		<div class="info-box">
			<strong>Order:</strong> %s<br>
			<strong>For:</strong> %s
		</div>
		<p>Keep this email as your receipt.</p>
	`, name, amount, orderID, purpose)

	go SendEmail([]string{email}, subject, getEmailTemplate("Payment Confirmed", body))
}

// 3. Staff replied on a support ticket
func SendTicketReplyEmail(email, name, ticketNumber, reply string) {
	subject := "New Reply on " + ticketNumber
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Our support team replied on your ticket <strong>%s</strong>:</p>
		<div class="info-box"><em>"%s"</em></div>
		<p>Login and open the ticket to continue the conversation.</p>
	`, name, ticketNumber, reply)

	go SendEmail([]string{email}, subject, getEmailTemplate("Support Update", body))
}

// 4. Ticket resolved
func SendTicketResolvedEmail(email, name, ticketNumber string) {
	subject := "Ticket Resolved: " + ticketNumber
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your support ticket <strong>%s</strong> has been marked resolved.</p>
		<p>If the issue persists, reply on the ticket and it will reopen.</p>
	`, name, ticketNumber)

	go SendEmail([]string{email}, subject, getEmailTemplate("Ticket Resolved", body))
}

// 5. Verification decision
func SendVerificationDecisionEmail(email, name, kind, status, note string) {
	subject := "Verification Update: " + status
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your %s verification request has been <strong>%s</strong>.</p>
	`, name, strings.ToLower(kind), strings.ToLower(status))
	if note != "" {
		body += fmt.Sprintf(`<div class="info-box">Reviewer note: %s</div>`, note)
	}

	go SendEmail([]string{email}, subject, getEmailTemplate("Verification Update", body))
}

// 6. Promotion activated on an ad
func SendPromotionActivatedEmail(email, name, adTitle, promotionType string, days int) {
	subject := "Promotion Active: " + adTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your ad <strong>%s</strong> is now promoted as <strong>%s</strong> for %d days.</p>
	`, name, adTitle, promotionType, days)

	go SendEmail([]string{email}, subject, getEmailTemplate("Promotion Activated", body))
}
