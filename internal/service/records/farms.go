package records

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// ListFarms returns every farm with its count of growing crops.
func (s *Service) ListFarms(ctx context.Context) ([]models.Farm, error) {
	farms, err := s.store.ListFarms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}
	active, err := s.activeCropsByFarm(ctx)
	if err != nil {
		return nil, err
	}
	for i := range farms {
		farms[i].ActiveCrops = active[farms[i].ID]
	}
	return farms, nil
}

// GetFarm returns one farm with its count of growing crops.
func (s *Service) GetFarm(ctx context.Context, id int64) (models.Farm, error) {
	farm, err := s.store.GetFarm(ctx, id)
	if err != nil {
		return models.Farm{}, err
	}
	active, err := s.activeCropsByFarm(ctx)
	if err != nil {
		return models.Farm{}, err
	}
	farm.ActiveCrops = active[farm.ID]
	return farm, nil
}

// CreateFarm validates and stores a new farm.
func (s *Service) CreateFarm(ctx context.Context, farm models.Farm) (models.Farm, error) {
	if err := validateFarm(&farm); err != nil {
		return models.Farm{}, err
	}
	farm.ActiveCrops = 0
	created, err := s.store.CreateFarm(ctx, farm)
	if err != nil {
		return models.Farm{}, fmt.Errorf("create farm: %w", err)
	}
	s.logger.Info("farm created", zap.Int64("farm_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// UpdateFarm replaces the editable fields of a farm.
func (s *Service) UpdateFarm(ctx context.Context, id int64, farm models.Farm) (models.Farm, error) {
	if err := validateFarm(&farm); err != nil {
		return models.Farm{}, err
	}
	updated, err := s.store.UpdateFarm(ctx, id, farm)
	if err != nil {
		return models.Farm{}, err
	}
	return s.GetFarm(ctx, updated.ID)
}

// DeleteFarm removes a farm. Crops, tasks and transactions referencing it are kept.
func (s *Service) DeleteFarm(ctx context.Context, id int64) error {
	if err := s.store.DeleteFarm(ctx, id); err != nil {
		return err
	}
	s.logger.Info("farm deleted", zap.Int64("farm_id", id))
	return nil
}

func (s *Service) activeCropsByFarm(ctx context.Context) (map[int64]int, error) {
	crops, err := s.store.ListCrops(ctx)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	active := make(map[int64]int)
	for _, c := range crops {
		if c.Status == models.CropGrowing {
			active[c.FarmID]++
		}
	}
	return active, nil
}

func validateFarm(farm *models.Farm) error {
	farm.Name = strings.TrimSpace(farm.Name)
	farm.Location = strings.TrimSpace(farm.Location)
	if farm.Name == "" {
		return invalid("farm name is required")
	}
	if farm.Size <= 0 {
		return invalid("farm size must be positive")
	}
	switch farm.Unit {
	case "":
		farm.Unit = models.UnitAcres
	case models.UnitAcres, models.UnitHectares:
	default:
		return invalid("farm unit must be acres or hectares")
	}
	return nil
}
