package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"optivolt/internal/db"
	"optivolt/internal/entities"
	apperrors "optivolt/internal/errors"
)

type ProviderRepository interface {
	Create(p *db.Provider) error
	GetByID(id int) (*db.Provider, error)
	GetByUserID(userID int) (*db.Provider, error)
	GetSchedule(providerID int) (*db.ProviderSchedule, error)
	UpdateSchedule(providerID int, startHour, endHour, workingDays string) (bool, error)
	UpdateProfile(providerID int, name, description, city, contactPhone, contactEmail string) (bool, error)
	SetVerified(providerID int, verified bool) (bool, error)
	ListVerifiedByService(serviceTypeID int, city string) ([]db.Provider, error)
	GetServiceTypes() ([]db.ServiceType, error)
	GetCatalog(providerID int) ([]entities.CatalogOffer, error)
	GetCatalogItem(catalogID int) (*db.CatalogItem, error)
	AddCatalogItem(item *db.CatalogItem) error
	RemoveCatalogItem(catalogID, providerID int) (bool, error)
}

type providerRepository struct {
	db *sql.DB
}

func NewProviderRepository(database *sql.DB) ProviderRepository {
	return &providerRepository{db: database}
}

func (r *providerRepository) Create(p *db.Provider) error {
	query := `
		INSERT INTO providers
		(user_id, name, description, city, contact_phone, contact_email,
		 start_hour, end_hour, working_days, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.db.QueryRow(query,
		p.UserID, p.Name, p.Description, p.City, p.ContactPhone, p.ContactEmail,
		p.StartHour, p.EndHour, p.WorkingDays, p.IsVerified,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	return nil
}

const providerSelect = `
	SELECT id, user_id, name, COALESCE(description, ''), COALESCE(city, ''),
	       COALESCE(contact_phone, ''), COALESCE(contact_email, ''),
	       start_hour, end_hour, working_days, is_verified
	FROM providers`

func (r *providerRepository) GetByID(id int) (*db.Provider, error) {
	return r.getProvider(providerSelect+` WHERE id = $1`, id)
}

func (r *providerRepository) GetByUserID(userID int) (*db.Provider, error) {
	return r.getProvider(providerSelect+` WHERE user_id = $1`, userID)
}

func (r *providerRepository) getProvider(query string, arg interface{}) (*db.Provider, error) {
	var p db.Provider
	err := r.db.QueryRow(query, arg).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.City,
		&p.ContactPhone, &p.ContactEmail,
		&p.StartHour, &p.EndHour, &p.WorkingDays, &p.IsVerified,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("provider: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return &p, nil
}

func (r *providerRepository) GetSchedule(providerID int) (*db.ProviderSchedule, error) {
	var s db.ProviderSchedule
	err := r.db.QueryRow(
		`SELECT start_hour, end_hour, working_days FROM providers WHERE id = $1`,
		providerID,
	).Scan(&s.StartHour, &s.EndHour, &s.WorkingDays)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("provider %d: %w", providerID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get provider schedule: %w", err)
	}
	return &s, nil
}

func (r *providerRepository) UpdateSchedule(providerID int, startHour, endHour, workingDays string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE providers SET start_hour = $1, end_hour = $2, working_days = $3
		WHERE id = $4`,
		startHour, endHour, workingDays, providerID)
	return changedRows(res, err, "update provider schedule")
}

func (r *providerRepository) UpdateProfile(providerID int, name, description, city, contactPhone, contactEmail string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE providers
		SET name = $1, description = $2, city = $3, contact_phone = $4, contact_email = $5
		WHERE id = $6`,
		name, description, city, contactPhone, contactEmail, providerID)
	return changedRows(res, err, "update provider profile")
}

func (r *providerRepository) SetVerified(providerID int, verified bool) (bool, error) {
	res, err := r.db.Exec(`UPDATE providers SET is_verified = $1 WHERE id = $2`, verified, providerID)
	return changedRows(res, err, "set provider verified")
}

// ListVerifiedByService lists verified providers offering a service type,
// optionally filtered by city.
func (r *providerRepository) ListVerifiedByService(serviceTypeID int, city string) ([]db.Provider, error) {
	query := providerSelect + `
		WHERE is_verified = TRUE
		  AND id IN (SELECT provider_id FROM catalog_items WHERE service_type_id = $1)`
	args := []interface{}{serviceTypeID}
	if city != "" {
		query += ` AND LOWER(city) = LOWER($2)`
		args = append(args, city)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query providers by service: %w", err)
	}
	defer rows.Close()

	var providers []db.Provider
	for rows.Next() {
		var p db.Provider
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.City,
			&p.ContactPhone, &p.ContactEmail,
			&p.StartHour, &p.EndHour, &p.WorkingDays, &p.IsVerified); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate providers: %w", err)
	}
	return providers, nil
}

func (r *providerRepository) GetServiceTypes() ([]db.ServiceType, error) {
	rows, err := r.db.Query(
		`SELECT id, name, COALESCE(description, ''), COALESCE(category, '') FROM service_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query service types: %w", err)
	}
	defer rows.Close()

	var types []db.ServiceType
	for rows.Next() {
		var st db.ServiceType
		if err := rows.Scan(&st.ID, &st.Name, &st.Description, &st.Category); err != nil {
			return nil, fmt.Errorf("scan service type: %w", err)
		}
		types = append(types, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service types: %w", err)
	}
	return types, nil
}

func (r *providerRepository) GetCatalog(providerID int) ([]entities.CatalogOffer, error) {
	query := `
		SELECT c.id, c.service_type_id, s.name, COALESCE(s.category, ''),
		       c.base_price, c.price_per_unit, c.unit_name,
		       COALESCE(c.description, ''), COALESCE(c.included_products, ''),
		       COALESCE(c.estimated_duration, '')
		FROM catalog_items c
		JOIN service_types s ON c.service_type_id = s.id
		WHERE c.provider_id = $1
		ORDER BY s.name`
	rows, err := r.db.Query(query, providerID)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var offers []entities.CatalogOffer
	for rows.Next() {
		var o entities.CatalogOffer
		if err := rows.Scan(&o.ID, &o.ServiceTypeID, &o.ServiceName, &o.Category,
			&o.BasePrice, &o.PricePerUnit, &o.UnitName,
			&o.Description, &o.IncludedProducts, &o.EstimatedDuration); err != nil {
			return nil, fmt.Errorf("scan catalog offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog offers: %w", err)
	}
	return offers, nil
}

func (r *providerRepository) GetCatalogItem(catalogID int) (*db.CatalogItem, error) {
	var item db.CatalogItem
	err := r.db.QueryRow(`
		SELECT id, provider_id, service_type_id, base_price, price_per_unit,
		       unit_name, COALESCE(description, ''), COALESCE(included_products, ''),
		       COALESCE(estimated_duration, '')
		FROM catalog_items WHERE id = $1`, catalogID,
	).Scan(&item.ID, &item.ProviderID, &item.ServiceTypeID,
		&item.BasePrice, &item.PricePerUnit, &item.UnitName,
		&item.Description, &item.IncludedProducts, &item.EstimatedDuration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("catalog item %d: %w", catalogID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return &item, nil
}

func (r *providerRepository) AddCatalogItem(item *db.CatalogItem) error {
	query := `
		INSERT INTO catalog_items
		(provider_id, service_type_id, base_price, price_per_unit, unit_name,
		 description, included_products, estimated_duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.db.QueryRow(query,
		item.ProviderID, item.ServiceTypeID, item.BasePrice, item.PricePerUnit,
		item.UnitName, item.Description, item.IncludedProducts, item.EstimatedDuration,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("provider %d already offers service type %d: %w",
				item.ProviderID, item.ServiceTypeID, apperrors.ErrConflict)
		}
		return fmt.Errorf("add catalog item: %w", err)
	}
	return nil
}

func (r *providerRepository) RemoveCatalogItem(catalogID, providerID int) (bool, error) {
	res, err := r.db.Exec(
		`DELETE FROM catalog_items WHERE id = $1 AND provider_id = $2`,
		catalogID, providerID)
	return changedRows(res, err, "remove catalog item")
}
