package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"optivolt/internal/entities"
)

// SenderService delivers booking notifications by email and SMS. Sends run in
// goroutines; a delivery failure is logged and never fails the booking
// operation that triggered it.
type SenderService struct {
	log *zap.Logger
}

func NewSenderService(log *zap.Logger) *SenderService {
	return &SenderService{log: log}
}

func (s *SenderService) SendBookingEmail(data entities.BookingEmailData, toEmail string) {
	if toEmail == "" {
		return
	}
	subject := fmt.Sprintf("Your OptiVolt booking #%d is %s", data.BookingID, data.Status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour OptiVolt booking is %s.\n\n"+
			"Booking Details:\n"+
			"Booking: #%d\n"+
			"Appointment: %s at %s\n"+
			"Total: %.2f MAD\n\n"+
			"Thank you for choosing OptiVolt.",
		data.ClientName, data.Status, data.BookingID, data.Date, data.Hour, data.TotalPrice,
	)

	go func() {
		if err := sendEmailWithSendGrid(toEmail, data.ClientName, subject, body, body); err != nil {
			s.log.Warn("booking email failed",
				zap.Int("booking_id", data.BookingID), zap.Error(err))
		}
	}()
}

func (s *SenderService) SendBookingSMS(data entities.BookingEmailData, toPhone string) {
	if toPhone == "" {
		return
	}
	message := fmt.Sprintf("OptiVolt: booking #%d is %s!\nAppointment: %s at %s.\nMore details in your email.",
		data.BookingID, data.Status, data.Date, data.Hour)

	go func() {
		if err := sendSMS(toPhone, message); err != nil {
			s.log.Warn("booking SMS failed",
				zap.Int("booking_id", data.BookingID), zap.Error(err))
		}
	}()
}

func sendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not configured")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL is not configured")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "OptiVolt"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func sendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("twilio credentials are not fully configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		return fmt.Errorf("destination number %q is not in E.164 format", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send SMS via Twilio: %w", err)
	}
	return nil
}
