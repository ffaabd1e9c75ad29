// AngelaMos | 2026
// revocation.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/middleware"
)

const blacklistPrefix = "blacklist:"

// accessBlacklist remembers the ids of access tokens revoked at logout
// until they would have expired anyway.
type accessBlacklist struct {
	rdb *redis.Client
}

func (b *accessBlacklist) add(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 || b.rdb == nil {
		return nil
	}
	if err := b.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b *accessBlacklist) contains(ctx context.Context, jti string) (bool, error) {
	if b.rdb == nil || jti == "" {
		return false, nil
	}
	n, err := b.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}

func (s *Service) RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.revoked.add(ctx, jti, expiresAt)
}

// VerifyAccessToken accepts a signed token only while it is not
// blacklisted and its version matches the profile. Organization, roles and
// plan always come from the profile, so changes apply on the next request.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.contains(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if claims.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("verify token: stale version: %w", core.ErrTokenRevoked)
	}

	claims.OrganizationID = user.OrganizationID
	claims.Roles = user.Roles
	claims.Plan = user.Plan
	return claims, nil
}
