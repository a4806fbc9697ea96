package service

import (
	stderrors "errors"
	"time"

	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type JwtCustomClaim struct {
	UserID         uint64         `json:"userId"`
	Role           constants.Role `json:"role"`
	EmployeeID     *uint64        `json:"employeeId,omitempty"`
	CustomerID     *uint64        `json:"customerId,omitempty"`
	IsRefreshToken bool           `json:"isRefreshToken"`
	jwt.RegisteredClaims
}

// TokenSubject: то, что зашивается в оба токена.
type TokenSubject struct {
	UserID     uint64
	Role       constants.Role
	EmployeeID *uint64
	CustomerID *uint64
}

type JWTService interface {
	GenerateTokens(subject TokenSubject) (string, string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type jwtService struct {
	secretKey       string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	logger          *zap.Logger
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration, logger *zap.Logger) JWTService {
	return &jwtService{
		secretKey:       secretKey,
		accessTokenExp:  accessTokenExp,
		refreshTokenExp: refreshTokenExp,
		logger:          logger,
	}
}

func (s *jwtService) GenerateTokens(subject TokenSubject) (string, string, error) {
	now := time.Now()

	accessToken, err := s.sign(subject, false, now.Add(s.accessTokenExp), now)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.sign(subject, true, now.Add(s.refreshTokenExp), now)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *jwtService) sign(subject TokenSubject, refresh bool, expiresAt, issuedAt time.Time) (string, error) {
	claims := &JwtCustomClaim{
		UserID:         subject.UserID,
		Role:           subject.Role,
		EmployeeID:     subject.EmployeeID,
		CustomerID:     subject.CustomerID,
		IsRefreshToken: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(s.secretKey))
}

func (s *jwtService) GetAccessTokenTTL() time.Duration {
	return s.accessTokenExp
}

func (s *jwtService) GetRefreshTokenTTL() time.Duration {
	return s.refreshTokenExp
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidSigningMethod
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		s.logger.Debug("Ошибка парсинга или проверки подписи токена", zap.Error(err))
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		s.logger.Warn("Токен невалиден или не удалось извлечь claims")
		return nil, errors.ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return nil, errors.ErrInvalidToken
	}

	return claims, nil
}
