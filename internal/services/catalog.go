package services

import (
	"context"
	"fmt"

	"autoshop-system/internal/authz"
	"autoshop-system/internal/dto"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/repositories"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"

	"go.uber.org/zap"
)

type CatalogServiceInterface interface {
	GetServices(ctx context.Context, filter types.Filter) ([]entities.Service, uint64, error)
	FindService(ctx context.Context, id uint64) (*entities.Service, error)
	CreateService(ctx context.Context, createDTO dto.CreateServiceDTO) (*entities.Service, error)
	UpdateService(ctx context.Context, id uint64, updateDTO dto.UpdateServiceDTO) (*entities.Service, error)
	DeleteService(ctx context.Context, id uint64) error
}

type CatalogService struct {
	repo   repositories.ServiceCatalogRepositoryInterface
	logger *zap.Logger
}

func NewCatalogService(repo repositories.ServiceCatalogRepositoryInterface, logger *zap.Logger) CatalogServiceInterface {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) GetServices(ctx context.Context, filter types.Filter) ([]entities.Service, uint64, error) {
	if err := authorize(ctx, authz.CatalogView, nil); err != nil {
		return nil, 0, err
	}
	return s.repo.GetServices(ctx, filter)
}

func (s *CatalogService) FindService(ctx context.Context, id uint64) (*entities.Service, error) {
	if err := authorize(ctx, authz.CatalogView, nil); err != nil {
		return nil, err
	}
	service, err := s.repo.FindService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("услуга %d: %w", id, err)
	}
	return service, nil
}

func (s *CatalogService) CreateService(ctx context.Context, createDTO dto.CreateServiceDTO) (*entities.Service, error) {
	if err := authorize(ctx, authz.CatalogManage, nil); err != nil {
		return nil, err
	}
	if createDTO.Price.IsNegative() {
		return nil, apperrors.NewValidationError(apperrors.KindInvalidInput, "price", "цена не может быть отрицательной")
	}
	service := &entities.Service{
		Name:            createDTO.Name,
		Description:     createDTO.Description,
		Price:           createDTO.Price.Round(2),
		DurationMinutes: createDTO.DurationMinutes,
	}
	if err := s.repo.CreateService(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, id uint64, updateDTO dto.UpdateServiceDTO) (*entities.Service, error) {
	if err := authorize(ctx, authz.CatalogManage, nil); err != nil {
		return nil, err
	}
	service, err := s.repo.FindService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("услуга %d: %w", id, err)
	}

	if updateDTO.Name.Valid {
		service.Name = updateDTO.Name.String
	}
	if updateDTO.Description.Valid {
		service.Description = &updateDTO.Description.String
	}
	if updateDTO.Price.Valid {
		if updateDTO.Price.Decimal.IsNegative() {
			return nil, apperrors.NewValidationError(apperrors.KindInvalidInput, "price", "цена не может быть отрицательной")
		}
		service.Price = updateDTO.Price.Decimal.Round(2)
	}
	if updateDTO.DurationMinutes.Valid {
		service.DurationMinutes = updateDTO.DurationMinutes.Int
	}

	if err := s.repo.UpdateService(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id uint64) error {
	if err := authorize(ctx, authz.CatalogManage, nil); err != nil {
		return err
	}
	return s.repo.DeleteService(ctx, id)
}
