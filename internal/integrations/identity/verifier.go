// Package identity проверяет сессионные токены и определяет, от чьего имени выполняется запрос
package identity

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrMissingToken возвращается, когда токен не передан
	ErrMissingToken = errors.New("identity: missing token")

	// ErrInvalidToken возвращается, когда токен не прошёл проверку
	ErrInvalidToken = errors.New("identity: invalid token")
)

// Claims содержимое сессионного токена
type Claims struct {
	jwt.RegisteredClaims

	Role string `json:"role"`
}

// Verifier проверяет токены, подписанные HS256 общим секретом
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier создает проверяющего. Пустой issuer отключает проверку издателя
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Verify проверяет подпись и срок действия токена и возвращает пользователя из claims sub и role
func (v *Verifier) Verify(tokenString string) (*domain.Actor, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	tok, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
	}

	role := domain.Role(claims.Role)
	switch role {
	case domain.RoleUser, domain.RoleAdmin:
	case "":
		role = domain.RoleUser
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return &domain.Actor{UserID: userID, Role: role}, nil
}

// Issue выпускает токен для пользователя (служебные утилиты и тесты)
func (v *Verifier) Issue(actor domain.Actor, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(actor.UserID, 10),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(actor.Role),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
