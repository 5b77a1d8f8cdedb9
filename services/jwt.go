package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
)

// JWTService issues bearer tokens for admin API clients that cannot carry
// the session cookie. Tokens share the session lifetime so either
// credential expires at the same moment.
type JWTService struct {
	context.DefaultService

	secret   []byte
	tokenTTL time.Duration
}

type AdminClaims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

const JWT_SVC = "jwt_svc"

func (svc JWTService) Id() string {
	return JWT_SVC
}

func (svc *JWTService) Configure(ctx *context.Context) error {
	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is not set")
	}
	svc.secret = []byte(secret)
	svc.tokenTTL = 8 * time.Hour

	return svc.DefaultService.Configure(ctx)
}

func (svc *JWTService) Start() error {
	return nil
}

func (svc *JWTService) GenerateTokenPair(adminID, username string) (*dto.TokenPair, error) {
	now := time.Now()
	claims := AdminClaims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(svc.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(svc.secret)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken: signed,
		ExpiresIn:   int64(svc.tokenTTL.Seconds()),
	}, nil
}

// VerifyJWTToken parses and validates a bearer token, returning the admin
// claims on success.
func (svc *JWTService) VerifyJWTToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return svc.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// ExtractTokenFromHeader strips the Bearer prefix from an Authorization
// header value.
func (svc *JWTService) ExtractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
