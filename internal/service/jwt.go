package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/addressbook/config"
	"github.com/Payphone-Digital/addressbook/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded subset of a token the API relies on
type Claims struct {
	UserID uint
	Email  string
	Name   string
}

type JWTService struct {
	secretKey  []byte
	issuer     string
	audience   string
	expiration time.Duration
	now        func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secretKey:  []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		expiration: cfg.ExpirationTime,
		now:        time.Now,
	}
}

// GenerateToken signs an HS256 token carrying the user's email, id and name
func (s *JWTService) GenerateToken(user *model.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"name":  user.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(s.expiration).Unix(),
	}
	if s.issuer != "" {
		claims["iss"] = s.issuer
	}
	if s.audience != "" {
		claims["aud"] = s.audience
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, expiry and, when configured, issuer and
// audience.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	email, _ := mc["email"].(string)
	if email == "" {
		return nil, errors.New("token has no email claim")
	}

	claims := &Claims{Email: email}
	claims.Name, _ = mc["name"].(string)
	if sub, err := mc.GetSubject(); err == nil {
		var id uint
		if _, err := fmt.Sscanf(sub, "%d", &id); err == nil {
			claims.UserID = id
		}
	}
	return claims, nil
}
