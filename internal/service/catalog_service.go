package service

import (
	"fmt"

	"go.uber.org/zap"

	"optivolt/internal/db"
	"optivolt/internal/entities"
	apperrors "optivolt/internal/errors"
	"optivolt/internal/repository"
)

// CatalogService covers catalog browsing for clients and catalog/schedule
// management for providers.
type CatalogService struct {
	providers repository.ProviderRepository
	log       *zap.Logger
}

func NewCatalogService(providers repository.ProviderRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{providers: providers, log: log}
}

func (s *CatalogService) GetServiceTypes() ([]db.ServiceType, error) {
	return s.providers.GetServiceTypes()
}

func (s *CatalogService) ListProvidersForService(serviceTypeID int, city string) ([]db.Provider, error) {
	list, err := s.providers.ListVerifiedByService(serviceTypeID, city)
	if err != nil {
		return nil, err
	}
	s.log.Debug("providers for service",
		zap.Int("service_type_id", serviceTypeID),
		zap.String("city", city),
		zap.Int("count", len(list)))
	return list, nil
}

func (s *CatalogService) GetProviderCatalog(providerID int) ([]entities.CatalogOffer, error) {
	return s.providers.GetCatalog(providerID)
}

// ProviderForUser resolves the provider profile behind an authenticated user.
func (s *CatalogService) ProviderForUser(userID int) (*db.Provider, error) {
	return s.providers.GetByUserID(userID)
}

func (s *CatalogService) AddCatalogItem(providerID int, req *entities.CatalogItemRequest) (*entities.CatalogOffer, error) {
	if req.ServiceTypeID <= 0 {
		return nil, fmt.Errorf("service_type_id is required: %w", apperrors.ErrInvalidInput)
	}
	if req.BasePrice < 0 || req.PricePerUnit < 0 {
		return nil, fmt.Errorf("prices cannot be negative: %w", apperrors.ErrInvalidInput)
	}
	unit := req.UnitName
	if unit == "" {
		unit = "unit"
	}
	item := &db.CatalogItem{
		ProviderID:        providerID,
		ServiceTypeID:     req.ServiceTypeID,
		BasePrice:         req.BasePrice,
		PricePerUnit:      req.PricePerUnit,
		UnitName:          unit,
		Description:       req.Description,
		IncludedProducts:  req.IncludedProducts,
		EstimatedDuration: req.EstimatedDuration,
	}
	if err := s.providers.AddCatalogItem(item); err != nil {
		return nil, err
	}
	s.log.Info("catalog item added",
		zap.Int("provider_id", providerID),
		zap.Int("catalog_id", item.ID),
		zap.Int("service_type_id", item.ServiceTypeID))
	return &entities.CatalogOffer{
		ID:                item.ID,
		ServiceTypeID:     item.ServiceTypeID,
		BasePrice:         item.BasePrice,
		PricePerUnit:      item.PricePerUnit,
		UnitName:          item.UnitName,
		Description:       item.Description,
		IncludedProducts:  item.IncludedProducts,
		EstimatedDuration: item.EstimatedDuration,
	}, nil
}

func (s *CatalogService) RemoveCatalogItem(providerID, catalogID int) (bool, error) {
	return s.providers.RemoveCatalogItem(catalogID, providerID)
}

func (s *CatalogService) UpdateProfile(providerID int, req *entities.ProfileRequest) (bool, error) {
	if req.Name == "" {
		return false, fmt.Errorf("name is required: %w", apperrors.ErrInvalidInput)
	}
	return s.providers.UpdateProfile(providerID,
		req.Name, req.Description, req.City, req.ContactPhone, req.ContactEmail)
}

// UpdateSchedule validates the new working hours through the slot engine's
// parser before persisting, so a provider can never store a schedule the slot
// calendar cannot read back.
func (s *CatalogService) UpdateSchedule(providerID int, req *entities.ScheduleRequest) (bool, error) {
	if _, err := ParseWorkSchedule(req.StartHour, req.EndHour, req.WorkingDays); err != nil {
		return false, err
	}
	return s.providers.UpdateSchedule(providerID, req.StartHour, req.EndHour, req.WorkingDays)
}
