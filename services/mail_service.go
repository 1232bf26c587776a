package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	appConfig "github.com/tasmeem-studio/tasmeem-api/config"
)

// MailInterface defines the interface for outbound mail
type MailInterface interface {
	SendEngineerInvitation(toEmail, inviteLink string) error
}

// MailService sends transactional mail through SendGrid
type MailService struct {
	client *sendgrid.Client
	from   string
}

var mailServiceInstance MailInterface

// InitMailService initializes the mail service
func InitMailService() MailInterface {
	cfg := appConfig.GetConfig()
	mailServiceInstance = &MailService{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   cfg.MailFrom,
	}
	return mailServiceInstance
}

// GetMailService returns the initialized mail service instance
func GetMailService() MailInterface {
	return mailServiceInstance
}

// SetMailService sets the mail service instance (primarily for testing)
func SetMailService(service MailInterface) {
	mailServiceInstance = service
}

// SendEngineerInvitation emails an engineer-application invite link.
func (s *MailService) SendEngineerInvitation(toEmail, inviteLink string) error {
	from := mail.NewEmail("Tasmeem", s.from)
	to := mail.NewEmail("", toEmail)
	subject := "دعوة للانضمام كمهندس تصميم"
	plain := fmt.Sprintf("تمت دعوتك للانضمام إلى منصة تصميم كمهندس. لإكمال طلبك: %s", inviteLink)
	html := fmt.Sprintf(`<p>تمت دعوتك للانضمام إلى منصة تصميم كمهندس.</p><p><a href="%s">إكمال الطلب</a></p>`, inviteLink)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}
