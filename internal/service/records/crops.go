package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/repository/memory"
)

// CropFilter narrows a crop listing. Zero values match everything.
type CropFilter struct {
	Status models.CropStatus
	FarmID int64
}

// ListCrops returns crops matching filter in insertion order.
func (s *Service) ListCrops(ctx context.Context, filter CropFilter) ([]models.Crop, error) {
	if filter.Status != "" && filter.Status != "all" && !validCropStatus(filter.Status) {
		return nil, invalid("unknown crop status %q", filter.Status)
	}

	crops, err := s.store.ListCrops(ctx)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}

	matched := crops[:0]
	for _, c := range crops {
		if filter.Status != "" && filter.Status != "all" && c.Status != filter.Status {
			continue
		}
		if filter.FarmID != 0 && c.FarmID != filter.FarmID {
			continue
		}
		matched = append(matched, c)
	}
	return matched, nil
}

func (s *Service) GetCrop(ctx context.Context, id int64) (models.Crop, error) {
	return s.store.GetCrop(ctx, id)
}

// CropLifecycle computes growth progress of a crop as of the service clock.
func (s *Service) CropLifecycle(ctx context.Context, id int64) (models.CropLifecycle, error) {
	crop, err := s.store.GetCrop(ctx, id)
	if err != nil {
		return models.CropLifecycle{}, err
	}
	return crop.Lifecycle(s.now()), nil
}

func (s *Service) CreateCrop(ctx context.Context, crop models.Crop) (models.Crop, error) {
	if err := s.validateCrop(ctx, &crop); err != nil {
		return models.Crop{}, err
	}
	created, err := s.store.CreateCrop(ctx, crop)
	if err != nil {
		return models.Crop{}, fmt.Errorf("create crop: %w", err)
	}
	return created, nil
}

func (s *Service) UpdateCrop(ctx context.Context, id int64, crop models.Crop) (models.Crop, error) {
	if err := s.validateCrop(ctx, &crop); err != nil {
		return models.Crop{}, err
	}
	return s.store.UpdateCrop(ctx, id, crop)
}

func (s *Service) DeleteCrop(ctx context.Context, id int64) error {
	return s.store.DeleteCrop(ctx, id)
}

func (s *Service) validateCrop(ctx context.Context, crop *models.Crop) error {
	crop.Name = strings.TrimSpace(crop.Name)
	crop.Field = strings.TrimSpace(crop.Field)
	if crop.Name == "" {
		return invalid("crop name is required")
	}
	if crop.PlantingDate.IsZero() || crop.ExpectedHarvest.IsZero() {
		return invalid("planting and expected harvest dates are required")
	}
	if !crop.ExpectedHarvest.After(crop.PlantingDate) {
		return invalid("expected harvest must be after planting date")
	}
	if crop.Status == "" {
		crop.Status = models.CropGrowing
	}
	if !validCropStatus(crop.Status) {
		return invalid("crop status must be growing, ready or harvested")
	}
	return s.requireFarm(ctx, crop.FarmID)
}

func (s *Service) requireFarm(ctx context.Context, farmID int64) error {
	if farmID == 0 {
		return invalid("farm is required")
	}
	if _, err := s.store.GetFarm(ctx, farmID); err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			return invalid("farm %d does not exist", farmID)
		}
		return fmt.Errorf("lookup farm: %w", err)
	}
	return nil
}

func validCropStatus(status models.CropStatus) bool {
	switch status {
	case models.CropGrowing, models.CropReady, models.CropHarvested:
		return true
	}
	return false
}
