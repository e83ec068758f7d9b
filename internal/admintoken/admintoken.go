// Package admintoken issues and verifies the bearer tokens of the admin API.
package admintoken

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/middleware/auth"
)

const (
	DefaultIssuer   = "ubersystem"
	DefaultAudience = "ubersystem-admin"
)

// Claims are the JWT claims of an admin session token.
type Claims struct {
	AccountID int64 `json:"account_id"`
	jwt.RegisteredClaims
}

type Service struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

func NewService(signingKey, issuer, audience string) (*Service, error) {
	if signingKey == "" {
		return nil, errors.New("signing key is required")
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}, nil
}

// Issue signs a token for accountID valid for expiresIn.
func (s *Service) Issue(accountID id.AccountID, expiresIn time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID: int64(accountID),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(accountID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// Parse verifies signature, expiry, issuer and audience.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.AccountID <= 0 {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// ValidateToken implements auth.JWTValidator.
func (s *Service) ValidateToken(tokenString string) (*auth.JWTClaims, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	return &auth.JWTClaims{AccountID: id.AccountID(claims.AccountID), JTI: claims.ID}, nil
}
