package repository

import (
	"context"

	"urlaubsplanner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VacationRepository defines data access for VacationRequest entities.
type VacationRepository interface {
	Create(ctx context.Context, req *model.VacationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.VacationRequest, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.VacationRequest, error)
	ListByEmployee(ctx context.Context, employeeName string) ([]model.VacationRequest, error)
	ListAll(ctx context.Context) ([]model.VacationRequest, error)
	ListByRegion(ctx context.Context, regionID uuid.UUID) ([]model.VacationRequest, error)
	Update(ctx context.Context, req *model.VacationRequest) error
}

type vacationRepository struct {
	db *gorm.DB
}

func NewVacationRepository(db *gorm.DB) VacationRepository {
	return &vacationRepository{db: db}
}

func (r *vacationRepository) Create(ctx context.Context, req *model.VacationRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *vacationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.VacationRequest, error) {
	var req model.VacationRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByIDForUpdate locks the request row for the duration of the
// surrounding transaction, so the PENDING check and the status write
// form one atomic step.
func (r *vacationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.VacationRequest, error) {
	var req model.VacationRequest
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *vacationRepository) ListByEmployee(ctx context.Context, employeeName string) ([]model.VacationRequest, error) {
	var reqs []model.VacationRequest
	if err := GetDB(ctx, r.db).
		Where("employee_name = ?", employeeName).
		Order("created_at").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *vacationRepository) ListAll(ctx context.Context) ([]model.VacationRequest, error) {
	var reqs []model.VacationRequest
	if err := GetDB(ctx, r.db).Order("created_at desc").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListByRegion resolves the employee soft reference through a join on
// username. Requests whose employee no longer exists are not returned.
func (r *vacationRepository) ListByRegion(ctx context.Context, regionID uuid.UUID) ([]model.VacationRequest, error) {
	var reqs []model.VacationRequest
	if err := GetDB(ctx, r.db).
		Joins("JOIN users ON users.username = vacation_requests.employee_name").
		Where("users.region_id = ?", regionID).
		Order("vacation_requests.created_at desc").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *vacationRepository) Update(ctx context.Context, req *model.VacationRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}
