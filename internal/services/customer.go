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

type CustomerServiceInterface interface {
	GetCustomers(ctx context.Context, filter types.Filter) ([]entities.Customer, uint64, error)
	FindCustomer(ctx context.Context, id uint64) (*entities.Customer, error)
	CreateCustomer(ctx context.Context, createDTO dto.CreateCustomerDTO) (*entities.Customer, error)
	UpdateCustomer(ctx context.Context, id uint64, updateDTO dto.UpdateCustomerDTO) (*entities.Customer, error)
	DeleteCustomer(ctx context.Context, id uint64) error
}

type CustomerService struct {
	repo   repositories.CustomerRepositoryInterface
	logger *zap.Logger
}

func NewCustomerService(repo repositories.CustomerRepositoryInterface, logger *zap.Logger) CustomerServiceInterface {
	return &CustomerService{repo: repo, logger: logger}
}

func (s *CustomerService) GetCustomers(ctx context.Context, filter types.Filter) ([]entities.Customer, uint64, error) {
	if err := authorize(ctx, authz.CustomersView, nil); err != nil {
		return nil, 0, err
	}
	return s.repo.GetCustomers(ctx, filter)
}

func (s *CustomerService) FindCustomer(ctx context.Context, id uint64) (*entities.Customer, error) {
	customer, err := s.repo.FindCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("клиент %d: %w", id, err)
	}
	if err := authorize(ctx, authz.CustomersView, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, createDTO dto.CreateCustomerDTO) (*entities.Customer, error) {
	if err := authorize(ctx, authz.CustomersManage, nil); err != nil {
		return nil, err
	}
	customer := &entities.Customer{
		FirstName: createDTO.FirstName,
		LastName:  createDTO.LastName,
		Phone:     utils.NormalizePhone(createDTO.Phone),
		Address:   createDTO.Address,
		Email:     createDTO.Email,
	}
	if err := s.repo.CreateCustomer(ctx, nil, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint64, updateDTO dto.UpdateCustomerDTO) (*entities.Customer, error) {
	customer, err := s.repo.FindCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("клиент %d: %w", id, err)
	}
	if err := authorize(ctx, authz.CustomersManage, customer); err != nil {
		return nil, err
	}

	if updateDTO.FirstName.Valid {
		customer.FirstName = updateDTO.FirstName.String
	}
	if updateDTO.LastName.Valid {
		customer.LastName = updateDTO.LastName.String
	}
	if updateDTO.Phone.Valid {
		customer.Phone = utils.NormalizePhone(updateDTO.Phone.String)
	}
	if updateDTO.Address.Valid {
		customer.Address = updateDTO.Address.String
	}
	if updateDTO.Email.Valid {
		customer.Email = updateDTO.Email.String
	}

	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint64) error {
	if err := authorize(ctx, authz.CustomersManage, nil); err != nil {
		return err
	}
	return s.repo.DeleteCustomer(ctx, id)
}
