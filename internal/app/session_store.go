package app

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"tracker/internal/domain"
)

var basicEmailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string `json:"name" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,basicemail"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return basicEmailRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// SessionStore manages the single on-device account and its login marker.
// Calls are synchronous; storage errors are returned wrapped.
type SessionStore struct {
	kv       domain.KeyValueStore
	log      zerolog.Logger
	now      func() time.Time
	cost     int
	validate *validator.Validate

	// serialises read-modify-write sequences against kv
	mu sync.Mutex
}

// NewSessionStore creates a SessionStore backed by kv.
func NewSessionStore(kv domain.KeyValueStore, opts ...Option) *SessionStore {
	o := newOptions(opts)
	return &SessionStore{
		kv:       kv,
		log:      o.log.With().Str("store", "session").Logger(),
		now:      o.now,
		cost:     o.passwordCost,
		validate: newFormValidator(),
	}
}

// Register validates the form and stores a new account, replacing any
// previous one. The first failing field is returned as *domain.ValidationError
// and nothing is written in that case.
func (s *SessionStore) Register(ctx context.Context, in RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return toValidationError(verrs[0])
		}
		return fmt.Errorf("validate registration: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword(bcryptInput(in.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writes := []struct{ key, value string }{
		{domain.KeyEmail, in.Email},
		{domain.KeyFullName, in.Name},
		{domain.KeyPassword, string(hash)},
		{domain.KeyRegisteredDate, formatTimestamp(s.now())},
	}
	for _, w := range writes {
		if err := s.kv.SetString(ctx, w.key, w.value); err != nil {
			return fmt.Errorf("register: %w", err)
		}
	}
	if err := s.kv.Remove(ctx, domain.KeyLastLogin); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("email", in.Email).Msg("account registered")
	return nil
}

// bcryptInput digests password so that passwords longer than bcrypt's
// 72-byte input limit are accepted and compared in full.
func bcryptInput(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func toValidationError(fe validator.FieldError) *domain.ValidationError {
	reason := "is invalid"
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min":
		reason = fmt.Sprintf("must be at least %s characters", fe.Param())
	case "basicemail":
		reason = "must be a valid email address"
	case "eqfield":
		reason = "must match password"
	}
	return &domain.ValidationError{Field: fe.Field(), Reason: reason}
}

// account loads the stored account. ok is false when email or password is missing.
func (s *SessionStore) account(ctx context.Context) (domain.Account, bool, error) {
	var a domain.Account
	email, okEmail, err := s.kv.GetString(ctx, domain.KeyEmail)
	if err != nil {
		return a, false, err
	}
	hash, okPassword, err := s.kv.GetString(ctx, domain.KeyPassword)
	if err != nil {
		return a, false, err
	}
	if !okEmail || !okPassword {
		return a, false, nil
	}
	a.Email = email
	a.PasswordHash = hash

	if a.FullName, _, err = s.kv.GetString(ctx, domain.KeyFullName); err != nil {
		return a, false, err
	}
	if a.RegisteredAt, _, err = s.kv.GetString(ctx, domain.KeyRegisteredDate); err != nil {
		return a, false, err
	}
	return a, true, nil
}

// Login checks the credentials against the stored account and records the
// login. The email comparison is exact and case-sensitive.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok, err := s.account(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if !ok {
		return domain.ErrNoAccount
	}
	if !ConstantTimeCompare(a.Email, email) {
		return domain.ErrInvalidCredentials
	}
	if err := s.checkPassword(ctx, a.PasswordHash, password); err != nil {
		return err
	}

	if err := s.kv.SetString(ctx, domain.KeyLastLogin, email); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.log.Info().Str("email", email).Msg("logged in")
	return nil
}

// checkPassword verifies password against the stored value. Accounts written
// by earlier app versions hold the plaintext password; on a match those are
// upgraded to a bcrypt hash.
func (s *SessionStore) checkPassword(ctx context.Context, stored, password string) error {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(stored), bcryptInput(password)) != nil {
			return domain.ErrInvalidCredentials
		}
		return nil
	}

	if !ConstantTimeCompare(stored, password) {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), s.cost)
	if err != nil {
		s.log.Warn().Err(err).Msg("hash legacy password")
		return nil
	}
	if err := s.kv.SetString(ctx, domain.KeyPassword, string(hash)); err != nil {
		s.log.Warn().Err(err).Msg("upgrade legacy password")
		return nil
	}
	s.log.Info().Msg("upgraded plaintext password to bcrypt")
	return nil
}

// LoginVerified records a login for an identity already verified elsewhere
// (an OIDC ID token). The email must belong to the registered account.
func (s *SessionStore) LoginVerified(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok, err := s.account(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if !ok {
		return domain.ErrNoAccount
	}
	if a.Email != email {
		return domain.ErrInvalidCredentials
	}
	if err := s.kv.SetString(ctx, domain.KeyLastLogin, email); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.log.Info().Str("email", email).Msg("logged in via sso")
	return nil
}

// Logout clears the login marker. The account itself is kept.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, domain.KeyLastLogin); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentProfile returns the logged-in profile, or nil when nobody is logged in.
func (s *SessionStore) CurrentProfile(ctx context.Context) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastLogin, ok, err := s.kv.GetString(ctx, domain.KeyLastLogin)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	if !ok {
		return nil, nil
	}

	p := &domain.Profile{LastLogin: lastLogin}
	if p.DisplayName, _, err = s.kv.GetString(ctx, domain.KeyFullName); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	if p.Email, _, err = s.kv.GetString(ctx, domain.KeyEmail); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	if p.RegisteredAt, _, err = s.kv.GetString(ctx, domain.KeyRegisteredDate); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	if p.DisplayName == "" {
		p.DisplayName = lastLogin
	}
	return p, nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
