// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/metaconstrutor/api/internal/config"
	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/middleware"
)

const (
	claimOrg          = "org"
	claimRoles        = "roles"
	claimPlan         = "plan"
	claimTokenVersion = "token_version"
	claimType         = "type"

	accessTokenType = "access"
)

// JWTManager signs access tokens with the ES256 key from config and
// publishes the matching public key as a JWKS.
type JWTManager struct {
	signing jwk.Key
	verify  jwk.Key
	jwks    jwk.Set
	keyID   string
	cfg     config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	signing, err := loadSigningKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	verify, err := signing.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := verify.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	jwks := jwk.NewSet()
	if err := jwks.AddKey(verify); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}

	var kid string
	if err := signing.Get(jwk.KeyIDKey, &kid); err != nil {
		return nil, fmt.Errorf("read key id: %w", err)
	}

	return &JWTManager{
		signing: signing,
		verify:  verify,
		jwks:    jwks,
		keyID:   kid,
		cfg:     cfg,
	}, nil
}

func (m *JWTManager) KeyID() string {
	return m.keyID
}

// AccessTokenClaims is what a freshly issued access token asserts about its
// subject. Verification re-checks roles and plan against the profile.
type AccessTokenClaims struct {
	UserID         string
	OrganizationID string
	Roles          []string
	Plan           string
	TokenVersion   int
}

func (m *JWTManager) CreateAccessToken(claims AccessTokenClaims) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(m.cfg.Issuer).
		Audience([]string{m.cfg.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(m.cfg.AccessTokenExpire)).
		Claim(claimOrg, claims.OrganizationID).
		Claim(claimRoles, claims.Roles).
		Claim(claimPlan, claims.Plan).
		Claim(claimTokenVersion, claims.TokenVersion).
		Claim(claimType, accessTokenType).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.signing))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.ES256(), m.verify),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
	)
	if err != nil {
		if expired(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	claims, err := readClaims(token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return claims, nil
}

func readClaims(token jwt.Token) (*middleware.AccessTokenClaims, error) {
	invalid := func(what string) error {
		return fmt.Errorf("%s: %w", what, core.ErrTokenInvalid)
	}

	var typ string
	if token.Get(claimType, &typ) != nil || typ != accessTokenType {
		return nil, invalid("not an access token")
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, invalid("missing subject")
	}

	var org, planID string
	if token.Get(claimOrg, &org) != nil || org == "" {
		return nil, invalid("missing org claim")
	}
	if token.Get(claimPlan, &planID) != nil {
		return nil, invalid("missing plan claim")
	}

	var rawRoles []any
	if token.Get(claimRoles, &rawRoles) != nil {
		return nil, invalid("missing roles claim")
	}
	roles := make([]string, 0, len(rawRoles))
	for _, r := range rawRoles {
		s, ok := r.(string)
		if !ok {
			return nil, invalid("malformed roles claim")
		}
		roles = append(roles, s)
	}

	// JSON numbers decode as float64.
	var version float64
	if token.Get(claimTokenVersion, &version) != nil {
		return nil, invalid("missing token_version claim")
	}

	jti, _ := token.JwtID()
	exp, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		UserID:         subject,
		OrganizationID: org,
		Roles:          roles,
		Plan:           planID,
		TokenVersion:   int(version),
		JTI:            jti,
		ExpiresAt:      exp,
	}, nil
}

// expired matches the validation error jwx reports for a past "exp".
func expired(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

func (m *JWTManager) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.jwks); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// RefreshTokenData carries a new opaque refresh token. Only Hash is stored.
type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

// CreateRefreshToken mints a token in familyID, or in a new family when
// familyID is empty.
func (m *JWTManager) CreateRefreshToken(familyID string) (*RefreshTokenData, error) {
	token, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.NewString()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      core.HashToken(token),
		ExpiresAt: time.Now().Add(m.cfg.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}
