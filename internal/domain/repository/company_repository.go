package repository

import "github.com/Adrian140/prep-center-api/internal/domain/entity"

// CompanyRepository persistence port for companies.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
}
