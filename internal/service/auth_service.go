package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"optivolt/internal/db"
	"optivolt/internal/entities"
	apperrors "optivolt/internal/errors"
	"optivolt/internal/repository"
)

// Default working hours for a freshly registered provider; adjustable later
// through the schedule endpoint.
const (
	defaultStartHour   = "08:00"
	defaultEndHour     = "18:00"
	defaultWorkingDays = "Mon-Sat"
)

type AuthService interface {
	Register(req *entities.RegisterRequest) (*db.User, error)
	Login(email, password string) (*entities.TokenResponse, error)
}

type authService struct {
	users     repository.UserRepository
	providers repository.ProviderRepository
	jwtSecret string
	log       *zap.Logger
}

func NewAuthService(users repository.UserRepository, providers repository.ProviderRepository, jwtSecret string, log *zap.Logger) AuthService {
	return &authService{users: users, providers: providers, jwtSecret: jwtSecret, log: log}
}

// Register creates a client or provider account. Provider accounts also get
// a company profile with the default schedule, unverified until an admin
// approves it.
func (s *authService) Register(req *entities.RegisterRequest) (*db.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", apperrors.ErrInvalidInput)
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != db.RoleClient && role != db.RoleProvider {
		return nil, fmt.Errorf("role must be CLIENT or PROVIDER: %w", apperrors.ErrInvalidInput)
	}

	user := &db.User{
		Name:    req.Name,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   req.Phone,
		City:    req.City,
		Address: req.Address,
		Role:    role,
	}
	if err := s.users.Create(user, req.Password); err != nil {
		return nil, err
	}

	if role == db.RoleProvider {
		companyName := req.CompanyName
		if companyName == "" {
			companyName = req.Name
		}
		provider := &db.Provider{
			UserID:       user.ID,
			Name:         companyName,
			City:         req.City,
			ContactPhone: req.Phone,
			ContactEmail: user.Email,
			StartHour:    defaultStartHour,
			EndHour:      defaultEndHour,
			WorkingDays:  defaultWorkingDays,
			IsVerified:   false,
		}
		if err := s.providers.Create(provider); err != nil {
			return nil, err
		}
		s.log.Info("provider registered",
			zap.Int("user_id", user.ID),
			zap.Int("provider_id", provider.ID),
			zap.String("company", companyName))
	} else {
		s.log.Info("client registered", zap.Int("user_id", user.ID))
	}
	return user, nil
}

func (s *authService) Login(email, password string) (*entities.TokenResponse, error) {
	user, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	if user.IsBanned {
		return nil, fmt.Errorf("account is banned: %w", apperrors.ErrForbidden)
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	s.log.Info("user logged in", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return &entities.TokenResponse{Token: signed, Role: user.Role}, nil
}
