// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"crmpro-backend/models"
	"crmpro-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService sweeps sent invoices past their due date, marks them
// overdue and notifies the client by SMS. Sending is skipped when Twilio is
// not configured; the sweep itself still runs.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	cron   *cron.Cron
}

func NewReminderService(db *gorm.DB) *ReminderService {
	s := &ReminderService{db: db, cron: cron.New()}

	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if accountSid != "" && authToken != "" {
		s.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
	}

	return s
}

func (s *ReminderService) StartScheduler() {
	// Run every day at 9 AM
	s.cron.AddFunc("0 9 * * *", s.ProcessOverdueInvoices)
	s.cron.Start()
	log.Println("[REMINDER] Overdue invoice scheduler started")
}

func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
}

// ProcessOverdueInvoices flips every sent invoice with a due date before
// today to overdue and sends one reminder per newly-overdue invoice.
func (s *ReminderService) ProcessOverdueInvoices() {
	log.Println("[REMINDER] Starting overdue invoice sweep...")

	today := utils.BeginningOfDay(time.Now())

	var invoices []models.Invoice
	if err := s.db.Preload("Client").
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", models.InvoiceStatusSent, today).
		Find(&invoices).Error; err != nil {
		log.Printf("[REMINDER] Failed to fetch overdue candidates: %v", err)
		return
	}

	for _, invoice := range invoices {
		// Conditional update so a concurrent payment is not overwritten.
		result := s.db.Model(&models.Invoice{}).
			Where("id = ? AND status = ?", invoice.ID, models.InvoiceStatusSent).
			Update("status", models.InvoiceStatusOverdue)
		if result.Error != nil {
			log.Printf("[REMINDER] Failed to mark invoice %s overdue: %v", invoice.InvoiceNumber, result.Error)
			continue
		}
		if result.RowsAffected == 0 {
			continue
		}

		s.sendReminder(invoice)
	}

	log.Printf("[REMINDER] Overdue invoice sweep completed (%d candidates)", len(invoices))
}

func (s *ReminderService) sendReminder(invoice models.Invoice) {
	if invoice.Client == nil {
		return
	}

	message := fmt.Sprintf("Invoice %s for %.2f is overdue. Please arrange payment.",
		invoice.InvoiceNumber, invoice.Total)

	status := "skipped"
	errorMsg := ""

	if s.client != nil && invoice.Client.Phone != "" {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(invoice.Client.Phone)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
		params.SetBody(message)

		resp, err := s.client.Api.CreateMessage(params)
		if err != nil {
			log.Printf("[REMINDER] Failed to send reminder for %s: %v", invoice.InvoiceNumber, err)
			status = "failed"
			errorMsg = err.Error()
		} else {
			status = "sent"
			if resp.Sid != nil {
				log.Printf("[REMINDER] Reminder sent for %s, SID: %s", invoice.InvoiceNumber, *resp.Sid)
			}
		}
	}

	notification := models.NotificationLog{
		InvoiceID:    invoice.ID,
		ClientID:     invoice.ClientID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      "sms",
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("[REMINDER] Failed to log reminder for invoice %s: %v", invoice.InvoiceNumber, err)
	}
}
