package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/burn-ops-service/internal/domain"
	"github.com/burn-ops-service/internal/domain/repository"
	"github.com/golang-jwt/jwt/v5"
)

// UserMetadata - профиль пользователя внутри токена провайдера
type UserMetadata struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Rank      string `json:"rank,omitempty"`
}

// Claims - утверждения токена сессии (формат Supabase: sub, email, user_metadata)
type Claims struct {
	Email        string       `json:"email,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWTVerifier проверяет HS256-токены общим секретом провайдера
type JWTVerifier struct {
	secretKey []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secretKey: []byte(secret)}
}

var _ repository.TokenVerifier = (*JWTVerifier)(nil)

// Verify проверяет подпись и срок действия и возвращает Identity.
// Любая ошибка оборачивает domain.ErrInvalidToken.
func (v *JWTVerifier) Verify(tokenString string) (*domain.Identity, error) {
	if len(v.secretKey) == 0 {
		return nil, fmt.Errorf("%w: verifier has no secret", domain.ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secretKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}

	return &domain.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		FirstName: claims.UserMetadata.FirstName,
		LastName:  claims.UserMetadata.LastName,
		Rank:      claims.UserMetadata.Rank,
	}, nil
}

// IssueToken подписывает токен для identity. Используется в тестах и
// для выдачи локальных токенов разработки.
func (v *JWTVerifier) IssueToken(identity *domain.Identity, ttl time.Duration) (string, error) {
	if identity == nil || identity.UserID == "" {
		return "", errors.New("identity with user id is required")
	}

	now := time.Now()
	claims := Claims{
		Email: identity.Email,
		UserMetadata: UserMetadata{
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			Rank:      identity.Rank,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
