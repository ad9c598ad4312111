package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/logger"
	userrepo "storefront/internal/repository/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicateEmail is returned when an email is already registered.
var ErrDuplicateEmail = fmt.Errorf("email %w", domain.ErrAlreadyExists)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// Service handles accounts, sessions, the address book and per-user preferences.
type Service struct {
	repo        userrepo.Repository
	sessions    *sessionManager
	logger      *zap.Logger
	passwordMin int
	hashCost    int
}

// New creates a Service. A nil cache disables session caching.
func New(repo userrepo.Repository, sessions cache.SessionCache, l *zap.Logger) *Service {
	if sessions == nil {
		sessions = cache.Noop{}
	}
	l = logger.OrNop(l).Named("user_service")
	return &Service{
		repo:        repo,
		sessions:    newSessionManager(repo, sessions, l),
		logger:      l,
		passwordMin: 6,
		hashCost:    bcrypt.DefaultCost,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ProfileUpdate is a partial update; nil or blank fields are left unchanged.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

// Signup registers a new account.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(in.Phone)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	u, err := s.repo.Create(ctx, domain.User{
		Name:             name,
		Email:            email,
		Phone:            phone,
		PasswordHash:     hashed,
		SelectedLocation: domain.DefaultLocation,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("signup", zap.String("user_id", u.ID))
	return u, nil
}

// Login checks credentials and issues a fresh session token, replacing any prior one.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, u)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("login", zap.String("user_id", u.ID))
	return u, token, nil
}

// Logout drops the session bound to token.
func (s *Service) Logout(ctx context.Context, token string) error {
	u, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return err
	}
	return s.sessions.Revoke(ctx, u.ID, token)
}

// LookupByToken returns the user bound to the active session token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	return s.sessions.Resolve(ctx, token)
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile merges the provided fields. An email change keeps the session valid
// server-side; clients are expected to log in again.
func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error) {
	var (
		name, email, phone, hash string
		err                      error
	)
	if v := trimmed(in.Name); v != "" {
		name = v
	}
	if v := trimmed(in.Email); v != "" {
		if email, err = normalizeEmail(v); err != nil {
			return nil, err
		}
	}
	if v := trimmed(in.Phone); v != "" {
		if err := validatePhone(v); err != nil {
			return nil, err
		}
		phone = v
	}
	if v := trimmed(in.Password); v != "" {
		if hash, err = s.hashPassword(v); err != nil {
			return nil, err
		}
	}

	u, err := s.repo.Mutate(ctx, id, func(u *domain.User) error {
		if name != "" {
			u.Name = name
		}
		if email != "" {
			u.Email = email
		}
		if phone != "" {
			u.Phone = phone
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		return nil
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, ErrDuplicateEmail
	}
	return u, err
}

// SetLocation overwrites the selected location preference.
func (s *Service) SetLocation(ctx context.Context, userID, location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("%w: location required", domain.ErrValidation)
	}
	_, err := s.repo.Mutate(ctx, userID, func(u *domain.User) error {
		u.SelectedLocation = location
		return nil
	})
	if err != nil {
		return "", err
	}
	return location, nil
}

func (s *Service) hashPassword(raw string) (string, error) {
	password := strings.TrimSpace(raw)
	if len(password) < s.passwordMin {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, s.passwordMin)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email required", domain.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return email, nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: invalid phone", domain.ErrValidation)
	}
	return nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
