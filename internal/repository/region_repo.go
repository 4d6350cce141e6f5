package repository

import (
	"context"

	"urlaubsplanner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegionRepository defines data access for Region entities.
type RegionRepository interface {
	Create(ctx context.Context, region *model.Region) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Region, error)
	GetByName(ctx context.Context, name string) (*model.Region, error)
	List(ctx context.Context) ([]model.Region, error)
}

type regionRepository struct {
	db *gorm.DB
}

func NewRegionRepository(db *gorm.DB) RegionRepository {
	return &regionRepository{db: db}
}

func (r *regionRepository) Create(ctx context.Context, region *model.Region) error {
	return GetDB(ctx, r.db).Create(region).Error
}

func (r *regionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Region, error) {
	var region model.Region
	if err := GetDB(ctx, r.db).First(&region, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *regionRepository) GetByName(ctx context.Context, name string) (*model.Region, error) {
	var region model.Region
	if err := GetDB(ctx, r.db).First(&region, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *regionRepository) List(ctx context.Context) ([]model.Region, error) {
	var regions []model.Region
	if err := GetDB(ctx, r.db).Order("name").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}
