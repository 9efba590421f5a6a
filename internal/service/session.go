package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkhmelev/storefront/internal/logger"
	"github.com/dkhmelev/storefront/internal/model"
)

// emailPattern is the exact rule the registration form enforces:
// letters/digits/._%+- locally, dash-separated alphanumeric domain
// labels, TLD of two or more letters.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@([A-Za-z0-9]+(-[A-Za-z0-9]+)*)(\.[A-Za-z]{2,})+$`)

const minPasswordLen = 6

// Session manages the locally persisted account set and the single
// active login.
type Session struct {
	kv         model.KV
	logger     *logger.Logger
	bcryptCost int
}

// NewSession creates a Session over the given store. A bcryptCost
// below the bcrypt minimum falls back to the library default.
func NewSession(kv model.KV, l *logger.Logger, bcryptCost int) *Session {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Session{kv: kv, logger: l, bcryptCost: bcryptCost}
}

// Check reports whether a session was left logged in. Only the literal
// marker counts; absence, any other value or a read failure all read
// as logged out.
func (s *Session) Check(ctx context.Context) bool {
	value, ok, err := s.kv.Get(ctx, model.KeyLoggedIn)
	if err != nil {
		s.logger.Error("session check failed, treating as logged out", "error", err.Error())
		return false
	}

	return ok && value == model.LoggedInMarker
}

// Login authenticates against the stored account set. Email matching
// is exact and case-sensitive. On success the logged-in flag and the
// profile snapshot are persisted and the account is returned.
func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to load users: %w", err)
	}

	if len(users) == 0 {
		return model.User{}, model.ErrNotRegistered
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			break
		}

		if err := s.kv.Set(ctx, model.KeyLoggedIn, model.LoggedInMarker); err != nil {
			return model.User{}, fmt.Errorf("failed to persist login flag: %w", err)
		}
		if err := s.saveProfile(ctx, model.ProfileOf(u)); err != nil {
			return model.User{}, fmt.Errorf("failed to persist profile snapshot: %w", err)
		}

		s.logger.Info("user logged in", "email", email)
		return u, nil
	}

	return model.User{}, model.ErrInvalidCredentials
}

// RegisterParams carries registration input. Profile fields other than
// email and password are optional.
type RegisterParams struct {
	Email           string
	Password        string
	PasswordConfirm string
	Name            string
	Phone           string
	Address         string
	Gender          string
}

// Register validates input, rejects duplicate emails and appends the
// new account to the persisted set. It does not log the user in; the
// caller routes to the login screen afterwards.
func (s *Session) Register(ctx context.Context, params RegisterParams) (model.User, error) {
	if !emailPattern.MatchString(params.Email) {
		return model.User{}, model.NewValidationError("email", "not a valid email address")
	}
	if len(params.Password) < minPasswordLen {
		return model.User{}, model.NewValidationError("password", "must be at least 6 characters")
	}
	if params.Password != params.PasswordConfirm {
		return model.User{}, model.NewValidationError("password", "passwords do not match")
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.Email == params.Email {
			return model.User{}, model.ErrAlreadyRegistered
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: string(hash),
		Name:         params.Name,
		Phone:        params.Phone,
		Address:      params.Address,
		Gender:       params.Gender,
		CreatedAt:    time.Now(),
	}

	users = append(users, user)
	if err := s.saveUsers(ctx, users); err != nil {
		return model.User{}, fmt.Errorf("failed to persist users: %w", err)
	}

	s.logger.Info("user registered", "email", params.Email)
	return user, nil
}

// Logout clears the logged-in flag and the cached profile snapshot.
// Storage failures are logged and swallowed: the caller proceeds to
// the logged-out screen regardless.
func (s *Session) Logout(ctx context.Context) {
	if err := s.kv.Delete(ctx, model.KeyLoggedIn); err != nil {
		s.logger.Error("failed to clear login flag", "error", err.Error())
	}
	if err := s.kv.Delete(ctx, model.KeyLoggedInUser); err != nil {
		s.logger.Error("failed to clear profile snapshot", "error", err.Error())
	}

	s.logger.Info("user logged out")
}

// ActiveProfile reads the cached snapshot of the logged-in user.
func (s *Session) ActiveProfile(ctx context.Context) (model.Profile, bool) {
	value, ok, err := s.kv.Get(ctx, model.KeyLoggedInUser)
	if err != nil {
		s.logger.Error("failed to read profile snapshot", "error", err.Error())
		return model.Profile{}, false
	}
	if !ok {
		return model.Profile{}, false
	}

	var p model.Profile
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		s.logger.Error("failed to decode profile snapshot", "error", err.Error())
		return model.Profile{}, false
	}

	return p, true
}

// UserByEmail returns the stored account for email.
func (s *Session) UserByEmail(ctx context.Context, email string) (model.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to load users: %w", err)
	}

	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}

	return model.User{}, model.ErrNotFound
}

func (s *Session) loadUsers(ctx context.Context) ([]model.User, error) {
	value, ok, err := s.kv.Get(ctx, model.KeyUsers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var users []model.User
	if err := json.Unmarshal([]byte(value), &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

func (s *Session) saveUsers(ctx context.Context, users []model.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	return s.kv.Set(ctx, model.KeyUsers, string(data))
}

func (s *Session) saveProfile(ctx context.Context, p model.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	return s.kv.Set(ctx, model.KeyLoggedInUser, string(data))
}
