package services

import (
	"context"
	"fmt"

	"autoshop-system/internal/authz"
	"autoshop-system/internal/dto"
	"autoshop-system/internal/entities"
	"autoshop-system/internal/repositories"
	"autoshop-system/pkg/types"
	"autoshop-system/pkg/utils"

	"go.uber.org/zap"
)

type VehicleServiceInterface interface {
	GetVehicles(ctx context.Context, filter types.Filter) ([]entities.Vehicle, uint64, error)
	FindVehicle(ctx context.Context, id uint64) (*entities.Vehicle, error)
	CreateVehicle(ctx context.Context, createDTO dto.CreateVehicleDTO) (*entities.Vehicle, error)
	UpdateVehicle(ctx context.Context, id uint64, updateDTO dto.UpdateVehicleDTO) (*entities.Vehicle, error)
	DeleteVehicle(ctx context.Context, id uint64) error
}

type VehicleService struct {
	repo         repositories.VehicleRepositoryInterface
	customerRepo repositories.CustomerRepositoryInterface
	logger       *zap.Logger
}

func NewVehicleService(
	repo repositories.VehicleRepositoryInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	logger *zap.Logger,
) VehicleServiceInterface {
	return &VehicleService{repo: repo, customerRepo: customerRepo, logger: logger}
}

func (s *VehicleService) GetVehicles(ctx context.Context, filter types.Filter) ([]entities.Vehicle, uint64, error) {
	if err := authorize(ctx, authz.VehiclesView, nil); err != nil {
		return nil, 0, err
	}
	return s.repo.GetVehicles(ctx, scopeToCustomer(ctx, filter))
}

func (s *VehicleService) FindVehicle(ctx context.Context, id uint64) (*entities.Vehicle, error) {
	vehicle, err := s.repo.FindVehicle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("автомобиль %d: %w", id, err)
	}
	if err := authorize(ctx, authz.VehiclesView, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) CreateVehicle(ctx context.Context, createDTO dto.CreateVehicleDTO) (*entities.Vehicle, error) {
	if err := authorize(ctx, authz.VehiclesManage, nil); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.FindCustomer(ctx, createDTO.CustomerID); err != nil {
		return nil, fmt.Errorf("клиент %d: %w", createDTO.CustomerID, err)
	}
	vehicle := &entities.Vehicle{
		CustomerID: createDTO.CustomerID,
		Brand:      createDTO.Brand,
		Model:      createDTO.Model,
		Year:       createDTO.Year,
		Plate:      utils.NormalizePlate(createDTO.Plate),
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) UpdateVehicle(ctx context.Context, id uint64, updateDTO dto.UpdateVehicleDTO) (*entities.Vehicle, error) {
	if err := authorize(ctx, authz.VehiclesManage, nil); err != nil {
		return nil, err
	}
	vehicle, err := s.repo.FindVehicle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("автомобиль %d: %w", id, err)
	}

	if updateDTO.Brand.Valid {
		vehicle.Brand = updateDTO.Brand.String
	}
	if updateDTO.Model.Valid {
		vehicle.Model = updateDTO.Model.String
	}
	if updateDTO.Year.Valid {
		vehicle.Year = updateDTO.Year.Int
	}
	if updateDTO.Plate.Valid {
		vehicle.Plate = utils.NormalizePlate(updateDTO.Plate.String)
	}

	if err := s.repo.UpdateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) DeleteVehicle(ctx context.Context, id uint64) error {
	if err := authorize(ctx, authz.VehiclesManage, nil); err != nil {
		return err
	}
	return s.repo.DeleteVehicle(ctx, id)
}
