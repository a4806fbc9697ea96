package services

import (
	"context"
	"errors"
	"fmt"

	"autoshop-system/internal/dto"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/repositories"
	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/service"
	"autoshop-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	RefreshTokens(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.AuthResponseDTO, error)
	RegisterCustomer(ctx context.Context, payload dto.RegisterCustomerDTO) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context) (*entities.User, error)
}

type AuthService struct {
	userRepo     repositories.UserRepositoryInterface
	customerRepo repositories.CustomerRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	txManager    repositories.TxManagerInterface
	jwtService   service.JWTService
	logger       *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	txManager repositories.TxManagerInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		cacheRepo:    cacheRepo,
		txManager:    txManager,
		jwtService:   jwtService,
		logger:       logger,
	}
}

func (s *AuthService) issueTokens(user *entities.User) (*dto.AuthResponseDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(service.TokenSubject{
		UserID:     user.ID,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
		CustomerID: user.CustomerID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponseDTO{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByLogin(ctx, payload.Login)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.checkLockout(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	s.resetLoginAttempts(ctx, user.ID)

	s.logger.Info("Вход выполнен", zap.Uint64("userID", user.ID), zap.String("role", string(user.Role)))
	return s.issueTokens(user)
}

func (s *AuthService) RefreshTokens(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	// Роль могла поменяться с момента выдачи токена.
	user, err := s.userRepo.FindUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *AuthService) RegisterCustomer(ctx context.Context, payload dto.RegisterCustomerDTO) (*dto.AuthResponseDTO, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	customer := &entities.Customer{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     utils.NormalizePhone(payload.Phone),
		Address:   payload.Address,
		Email:     payload.Email,
	}
	user := &entities.User{Login: payload.Login, PasswordHash: hash, Role: constants.RoleCustomer}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.customerRepo.CreateCustomer(ctx, tx, customer); err != nil {
			return fmt.Errorf("клиент: %w", err)
		}
		user.CustomerID = &customer.ID
		return s.userRepo.CreateUser(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Клиент зарегистрирован", zap.Uint64("userID", user.ID), zap.Uint64("customerID", customer.ID))
	return s.issueTokens(user)
}

func (s *AuthService) Me(ctx context.Context) (*entities.User, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindUser(ctx, userID)
}

func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	// Если ключ существует, аккаунт заблокирован
	if _, err := s.cacheRepo.Get(ctx, fmt.Sprintf(constants.CacheKeyLockout, userID)); err == nil {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf(constants.CacheKeyLoginAttempts, userID)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("Не удалось учесть неудачный вход", zap.Uint64("userID", userID), zap.Error(err))
		return
	}
	if attempts == 1 {
		_ = s.cacheRepo.Expire(ctx, attemptsKey, constants.LockoutDuration)
	}
	if attempts >= constants.MaxLoginAttempts {
		_ = s.cacheRepo.Set(ctx, fmt.Sprintf(constants.CacheKeyLockout, userID), "locked", constants.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
		s.logger.Warn("Учётная запись временно заблокирована", zap.Uint64("userID", userID))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	_ = s.cacheRepo.Del(ctx,
		fmt.Sprintf(constants.CacheKeyLoginAttempts, userID),
		fmt.Sprintf(constants.CacheKeyLockout, userID),
	)
}
