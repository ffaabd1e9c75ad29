// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/metaconstrutor/api/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
)

// UserInfo is the slice of a profile that authentication needs.
type UserInfo struct {
	ID             string
	OrganizationID string
	Email          string
	Name           string
	PasswordHash   string
	Roles          []string
	Plan           string
	TokenVersion   int
}

// UserProvider is implemented by the user package over the profiles table.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	// Create registers the first user of a new organization.
	Create(ctx context.Context, email, passwordHash, name string) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	repo    Repository
	jwt     *JWTManager
	users   UserProvider
	revoked *accessBlacklist
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	rdb *redis.Client,
) *Service {
	return &Service{
		repo:    repo,
		jwt:     jwt,
		users:   users,
		revoked: &accessBlacklist{rdb: rdb},
	}
}

// client carries the request metadata stored on each refresh token.
type client struct {
	userAgent string
	ip        string
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	switch {
	case errors.Is(err, core.ErrNotFound):
		//nolint:errcheck // equalizes timing with the found path
		_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, upgraded, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if upgraded != "" {
		//nolint:errcheck // the old hash keeps working
		_ = s.users.UpdatePassword(ctx, user.ID, upgraded)
	}

	return s.issue(ctx, user, client{userAgent, ipAddress}, nil)
}

// Register creates a new organization whose first member is the caller.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, normalizeEmail(req.Email), hash, req.Name)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(ctx, user, client{userAgent, ipAddress}, nil)
}

// Refresh rotates a refresh token. Presenting a token that was already
// rotated revokes its whole family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}

	if err := stored.CheckUsable(time.Now()); err != nil {
		if errors.Is(err, ErrTokenReuse) {
			//nolint:errcheck // the caller is rejected either way
			_ = s.repo.RevokeByFamilyID(ctx, stored.FamilyID)
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.issue(ctx, user, client{userAgent, ipAddress}, stored)
}

// issue signs an access token and stores a refresh token for user. When
// rotating, the new refresh token joins prev's family.
func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	c client,
	prev *RefreshToken,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Roles:          user.Roles,
		Plan:           user.Plan,
		TokenVersion:   user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	family := ""
	if prev != nil {
		family = prev.FamilyID
	}

	refresh, err := s.jwt.CreateRefreshToken(family)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	id := uuid.NewString()

	// Claiming prev before storing the successor makes concurrent rotations
	// of one token lose to the first.
	if prev != nil {
		err := s.repo.MarkAsUsed(ctx, prev.ID, id)
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // the caller is rejected either way
			_ = s.repo.RevokeByFamilyID(ctx, prev.FamilyID)
			return nil, ErrTokenReuse
		}
		if err != nil {
			return nil, fmt.Errorf("rotate refresh token: %w", err)
		}
	}

	record := &RefreshToken{
		ID:        id,
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: c.userAgent,
		IPAddress: c.ip,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	ttl := s.jwt.cfg.AccessTokenExpire

	return &AuthResponse{
		User: newUserResponse(user),
		Tokens: TokenResponse{
			AccessToken:  access,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(ttl.Seconds()),
			ExpiresAt:    time.Now().Add(ttl),
		},
	}, nil
}
