// services/delivery_service.go
package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"reminderpro-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/mail.v2"
)

// MessageSender wraps the two automated transports behind one
// capability. SendSMS returns the provider-assigned message SID used
// later to match the delivery status webhook.
type MessageSender interface {
	SendEmail(n *models.Notification, to string) error
	SendSMS(n *models.Notification, to string) (string, error)
}

// TwilioSMTPSender sends SMS through Twilio and email through a plain
// SMTP relay, both configured from the environment.
type TwilioSMTPSender struct {
	client    *twilio.RestClient
	smsFrom   string
	dialer    *mail.Dialer
	emailFrom string
}

func NewTwilioSMTPSender() *TwilioSMTPSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	client.Client.SetTimeout(15 * time.Second)

	smtpPort := 587
	if env := os.Getenv("SMTP_PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			smtpPort = p
		}
	}
	dialer := mail.NewDialer(
		os.Getenv("SMTP_HOST"),
		smtpPort,
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
	)
	dialer.Timeout = 15 * time.Second

	return &TwilioSMTPSender{
		client:    client,
		smsFrom:   os.Getenv("TWILIO_PHONE_NUMBER"),
		dialer:    dialer,
		emailFrom: os.Getenv("EMAIL_FROM"),
	}
}

// reminderBody renders the plain-text reminder for a notification.
// Template rendering beyond this belongs to the email subsystem.
func reminderBody(n *models.Notification) string {
	body := fmt.Sprintf("Reminder: '%s' is coming up on %s.",
		n.Event.Name, n.Event.EventDate.Format("Monday, 2 January 2006"))
	if n.Event.Notes != "" {
		body += "\n\n" + n.Event.Notes
	}
	return body
}

func (s *TwilioSMTPSender) SendEmail(n *models.Notification, to string) error {
	message := mail.NewMessage()
	message.SetHeader("From", s.emailFrom)
	message.SetHeader("To", to)
	message.SetHeader("Subject", fmt.Sprintf("Reminder: %s", n.Event.Name))
	message.SetBody("text/plain", reminderBody(n))

	return s.dialer.DialAndSend(message)
}

func (s *TwilioSMTPSender) SendSMS(n *models.Notification, to string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.smsFrom)
	params.SetBody(reminderBody(n))
	if callback := os.Getenv("TWILIO_STATUS_CALLBACK_URL"); callback != "" {
		params.SetStatusCallback(callback)
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil || *resp.Sid == "" {
		return "", errors.New("twilio returned no message SID")
	}
	return *resp.Sid, nil
}
