package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"optivolt/internal/entities"
	"optivolt/internal/repository"
)

// JobService hosts the scheduled background work. Right now that is a daily
// reminder for every client with a confirmed booking the next day.
type JobService struct {
	Repo   *repository.JobRepository
	sender *SenderService
	log    *zap.Logger
}

func NewJobService(repo *repository.JobRepository, sender *SenderService, log *zap.Logger) *JobService {
	return &JobService{Repo: repo, sender: sender, log: log}
}

func (s *JobService) SendUpcomingReminders() error {
	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	s.log.Info("reminder job: checking confirmed bookings", zap.String("date", date))

	reminders, err := s.Repo.ConfirmedBookingsOn(date)
	if err != nil {
		return fmt.Errorf("reminder job: %w", err)
	}
	if len(reminders) == 0 {
		s.log.Info("reminder job: nothing to send", zap.String("date", date))
		return nil
	}

	for _, rb := range reminders {
		data := entities.BookingEmailData{
			BookingID:  rb.BookingID,
			ClientName: rb.ClientName,
			Date:       rb.Date,
			Hour:       rb.Hour,
			TotalPrice: rb.TotalPrice,
			Status:     "CONFIRMED (reminder)",
		}
		s.sender.SendBookingEmail(data, rb.ClientEmail)
		s.sender.SendBookingSMS(data, rb.ClientPhone)
	}
	s.log.Info("reminder job: reminders sent", zap.Int("count", len(reminders)), zap.String("date", date))
	return nil
}
