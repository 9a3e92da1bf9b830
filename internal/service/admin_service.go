package service

import (
	"go.uber.org/zap"

	"optivolt/internal/entities"
	"optivolt/internal/repository"
)

// AdminService backs the admin dashboard: platform-wide booking views,
// provider verification and user moderation.
type AdminService struct {
	bookings  repository.BookingRepository
	providers repository.ProviderRepository
	users     repository.UserRepository
	log       *zap.Logger
}

func NewAdminService(
	bookings repository.BookingRepository,
	providers repository.ProviderRepository,
	users repository.UserRepository,
	log *zap.Logger,
) *AdminService {
	return &AdminService{bookings: bookings, providers: providers, users: users, log: log}
}

func (s *AdminService) ListAllBookings() ([]entities.BookingSummary, error) {
	return s.bookings.ListAll()
}

func (s *AdminService) GetStats() (*entities.BookingStats, error) {
	return s.bookings.Stats()
}

func (s *AdminService) VerifyProvider(providerID int) (bool, error) {
	changed, err := s.providers.SetVerified(providerID, true)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info("provider verified", zap.Int("provider_id", providerID))
	}
	return changed, nil
}

func (s *AdminService) SetUserBanned(userID int, banned bool) (bool, error) {
	changed, err := s.users.SetBanned(userID, banned)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info("user ban flag updated", zap.Int("user_id", userID), zap.Bool("banned", banned))
	}
	return changed, nil
}
