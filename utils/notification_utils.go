// utils/notification_utils.go
package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

// SendEmail delivers a plain-text email through the configured SMTP relay.
// When SMTP_HOST is unset the mail is skipped, so notification mail stays
// optional in development.
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		return nil
	}

	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// NotifyPayoutRequested mails the studio admin that a payout request is
// waiting for review. Failures are logged, never surfaced: mail is a
// courtesy, not part of the ledger transaction.
func NotifyPayoutRequested(staffName string, amount int64) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return
	}

	subject := "New payout request"
	body := fmt.Sprintf("%s requested a payout of %d. Review it on the payments page.", staffName, amount)
	if err := SendEmail(adminEmail, subject, body); err != nil {
		log.Printf("Failed to send payout notification email: %v", err)
	}
}
