package service

import (
	"context"
	"time"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/repository"

	"github.com/google/uuid"
)

type CreateRegionDTO struct {
	Name    string `json:"name" binding:"required"`
	City    string `json:"city" binding:"required"`
	Country string `json:"country"`
}

type RegionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type RegionService interface {
	List(ctx context.Context) ([]RegionResponse, error)
	GetByID(ctx context.Context, id string) (RegionResponse, error)
	Create(ctx context.Context, dto CreateRegionDTO) (RegionResponse, error)
}

type regionService struct {
	regions repository.RegionRepository
}

func NewRegionService(regions repository.RegionRepository) RegionService {
	return &regionService{regions: regions}
}

func (s *regionService) List(ctx context.Context) ([]RegionResponse, error) {
	regions, err := s.regions.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]RegionResponse, 0, len(regions))
	for i := range regions {
		result = append(result, toRegionResponse(&regions[i]))
	}
	return result, nil
}

func (s *regionService) GetByID(ctx context.Context, id string) (RegionResponse, error) {
	regionID, err := uuid.Parse(id)
	if err != nil {
		return RegionResponse{}, validationf("invalid region id %q", id)
	}
	region, err := s.regions.GetByID(ctx, regionID)
	if err != nil {
		if isRecordNotFound(err) {
			return RegionResponse{}, notFound("region", id)
		}
		return RegionResponse{}, err
	}
	return toRegionResponse(region), nil
}

func (s *regionService) Create(ctx context.Context, dto CreateRegionDTO) (RegionResponse, error) {
	if existing, err := s.regions.GetByName(ctx, dto.Name); err == nil && existing != nil {
		return RegionResponse{}, conflictf("region already exists: %s", dto.Name)
	} else if err != nil && !isRecordNotFound(err) {
		return RegionResponse{}, err
	}

	region := model.Region{
		Name:    dto.Name,
		City:    dto.City,
		Country: dto.Country,
		Active:  true,
	}
	if err := s.regions.Create(ctx, &region); err != nil {
		return RegionResponse{}, err
	}
	return toRegionResponse(&region), nil
}

func toRegionResponse(region *model.Region) RegionResponse {
	return RegionResponse{
		ID:        region.ID.String(),
		Name:      region.Name,
		City:      region.City,
		Country:   region.Country,
		Active:    region.Active,
		CreatedAt: region.CreatedAt.Format(time.RFC3339),
	}
}
