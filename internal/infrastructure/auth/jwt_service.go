package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// JWTServiceImpl implements domain.TokenService. Platform tokens are only
// inspected for their expiry; admin tokens are HS256 and signed here.
type JWTServiceImpl struct {
	secretKey      []byte
	issuer         string
	accessTokenTTL time.Duration
	parser         *jwt.Parser
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string, issuer string, accessTTL time.Duration) *JWTServiceImpl {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTServiceImpl{
		secretKey:      []byte(secretKey),
		issuer:         issuer,
		accessTokenTTL: accessTTL,
		parser:         jwt.NewParser(opts...),
	}
}

var _ domain.TokenService = (*JWTServiceImpl)(nil)

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GenerateAccessToken signs an admin token for subject with role
func (j *JWTServiceImpl) GenerateAccessToken(subject, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iss":  j.issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(j.accessTokenTTL).Unix(),
		"jti":  j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ExpiresAt reads the exp claim of a platform token. The signature belongs
// to the platform and is not checked. A token without exp yields the zero
// time, which callers treat as "no expiry of its own".
func (j *JWTServiceImpl) ExpiresAt(tokenString string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, domain.ErrTokenMalformed
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, domain.ErrTokenMalformed
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// ValidateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateAccessToken(tokenString string) (*domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	_, err := j.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, domain.ErrTokenMalformed
	case err != nil:
		return nil, domain.ErrTokenInvalid
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, domain.ErrTokenMalformed
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, domain.ErrTokenMalformed
	}

	tokenClaims := &domain.TokenClaims{UserID: sub, Role: role}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		tokenClaims.IssuedAt = iat.Unix()
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tokenClaims.ExpiresAt = exp.Unix()
	}
	return tokenClaims, nil
}
