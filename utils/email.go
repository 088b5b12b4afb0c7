// utils/email.go
package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"

	"modehaus/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(toEmail, token string) error {
	subject := "Verify Your Email - Modehaus"
	verificationLink := fmt.Sprintf("http://localhost:%s/verify?token=%s", os.Getenv("PORT"), token)
	htmlContent := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		verificationLink,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

type statusTemplate struct {
	subject string
	body    string // format arg: order id
}

// One template per status the customer is notified about, per locale.
var statusTemplates = map[string]map[models.PaymentStatus]statusTemplate{
	"de": {
		models.StatusProcessing: {
			subject: "Zahlungsbeleg erhalten - Modehaus",
			body:    "Vielen Dank! Wir haben Ihren Zahlungsbeleg zur Bestellung %s erhalten und prüfen ihn so schnell wie möglich.",
		},
		models.StatusCompleted: {
			subject: "Bestellung bestätigt - Modehaus",
			body:    "Ihre Zahlung zur Bestellung %s wurde bestätigt. Ihre Bestellung wird nun versandt.",
		},
		models.StatusRejected: {
			subject: "Bestellung abgelehnt - Modehaus",
			body:    "Leider konnten wir Ihre Zahlung zur Bestellung %s nicht bestätigen. Bitte kontaktieren Sie uns.",
		},
	},
	"fr": {
		models.StatusProcessing: {
			subject: "Justificatif de paiement reçu - Modehaus",
			body:    "Merci ! Nous avons bien reçu votre justificatif de paiement pour la commande %s et le vérifions au plus vite.",
		},
		models.StatusCompleted: {
			subject: "Commande confirmée - Modehaus",
			body:    "Votre paiement pour la commande %s a été confirmé. Votre commande sera expédiée prochainement.",
		},
		models.StatusRejected: {
			subject: "Commande refusée - Modehaus",
			body:    "Nous n'avons malheureusement pas pu confirmer votre paiement pour la commande %s. Veuillez nous contacter.",
		},
	},
	"en": {
		models.StatusProcessing: {
			subject: "Payment Receipt Received - Modehaus",
			body:    "Thank you! We have received your payment receipt for order %s and will review it as soon as possible.",
		},
		models.StatusCompleted: {
			subject: "Order Confirmed - Modehaus",
			body:    "Your payment for order %s has been confirmed. Your order will be shipped shortly.",
		},
		models.StatusRejected: {
			subject: "Order Rejected - Modehaus",
			body:    "Unfortunately we could not confirm your payment for order %s. Please contact us.",
		},
	},
}

// SendOrderStatusEmail sends the localized notification for a status change.
// Statuses without a template (pending) are silently skipped.
func (es *EmailService) SendOrderStatusEmail(toEmail, locale, orderID string, status models.PaymentStatus) error {
	templates, ok := statusTemplates[locale]
	if !ok {
		templates = statusTemplates["de"]
	}
	tpl, ok := templates[status]
	if !ok {
		return nil
	}

	return es.SendEmail(toEmail, tpl.subject, fmt.Sprintf(tpl.body, orderID))
}
