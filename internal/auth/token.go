package auth

import (
	"errors"
	"fmt"
	"time"

	"leaveflow/internal/model"
	"leaveflow/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is used when no TTL is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Identity is the verified subject of a request, attached to the request
// context by the authentication middleware and re-checked by the services.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

// Claims is the decoded content of a verified token.
type Claims struct {
	UserID    uuid.UUID
	Role      model.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity converts the claim set to a request identity.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Role: c.Role}
}

// TokenService mints and verifies signed, self-contained bearer tokens.
// Tokens are stateless: there is no revocation list, expiry is the only
// invalidation mechanism.
type TokenService interface {
	Issue(userID uuid.UUID, role model.Role) (string, error)
	Verify(token string) (*Claims, error)
}

type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService signing HS256 tokens with the given
// secret and time-to-live. A zero ttl issues tokens that are already expired.
func NewTokenService(secret []byte, ttl time.Duration) TokenService {
	return &jwtTokenService{secret: secret, ttl: ttl, now: time.Now}
}

func (s *jwtTokenService) Issue(userID uuid.UUID, role model.Role) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *jwtTokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, apperr.ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.ErrTokenInvalid
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", apperr.ErrTokenInvalid)
	}

	roleStr, _ := mapClaims["role"].(string)
	role := model.Role(roleStr)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", apperr.ErrTokenInvalid)
	}

	claims := &Claims{UserID: userID, Role: role}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}
