package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/civil"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPreferencesNotSet  = errors.New("preferences not set")
	ErrMissingAdmin       = errors.New("admin username and password are required to create the first user")
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	GetByID(ctx context.Context, userID int64) (*User, error)
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
	GetPreferences(ctx context.Context, userID int64) (Preferences, error)
	UpdatePreferences(ctx context.Context, userID int64, req PreferencesRequest) (Preferences, error)
}

type service struct {
	repo   Repository
	tokens *auth.Issuer
	now    func() time.Time
	log    *slog.Logger
}

func NewService(repo Repository, tokens *auth.Issuer, now func() time.Time, log *slog.Logger) Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{
		repo:   repo,
		tokens: tokens,
		now:    now,
		log:    log,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, "", "", err
		}
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", "", err
	}

	s.log.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}

	accessToken, err := s.tokens.Sign(user.Identity(), auth.KindAccess)
	if err != nil {
		return "", nil, err
	}
	return accessToken, user, nil
}

func (s *service) GetByID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// EnsureAdmin creates the first administrator when no user exists yet. It
// reports whether a user was created.
func (s *service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return false, ErrMissingAdmin
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	created, err := s.repo.Create(ctx, &User{
		Username:     strings.TrimSpace(username),
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         RoleAdmin,
		CreatedAt:    civil.NewTimestamp(s.now()),
	})
	if err != nil {
		return false, err
	}

	s.log.Info("created initial admin user", "user_id", created.ID, "username", created.Username)
	return true, nil
}

func (s *service) GetPreferences(ctx context.Context, userID int64) (Preferences, error) {
	p, err := s.repo.GetPreferences(ctx, userID)
	if errors.Is(err, ErrPreferencesNotSet) {
		return DefaultPreferences(userID), nil
	}
	if err != nil {
		return Preferences{}, err
	}
	return *p, nil
}

func (s *service) UpdatePreferences(ctx context.Context, userID int64, req PreferencesRequest) (Preferences, error) {
	p := Preferences{UserID: userID, Language: req.Language, Theme: req.Theme}
	if err := s.repo.SavePreferences(ctx, p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}
