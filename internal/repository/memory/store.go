// Package memory keeps farms, crops, tasks and transactions in process memory.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// Store holds every record collection of the application.
type Store struct {
	farms        *collection[models.Farm]
	crops        *collection[models.Crop]
	tasks        *collection[models.Task]
	transactions *collection[models.Transaction]
	now          func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		farms: newCollection(
			func(f models.Farm) int64 { return f.ID },
			func(f models.Farm, id int64) models.Farm { f.ID = id; return f },
		),
		crops: newCollection(
			func(c models.Crop) int64 { return c.ID },
			func(c models.Crop, id int64) models.Crop { c.ID = id; return c },
		),
		tasks: newCollection(
			func(t models.Task) int64 { return t.ID },
			func(t models.Task, id int64) models.Task { t.ID = id; return t },
		),
		transactions: newCollection(
			func(t models.Transaction) int64 { return t.ID },
			func(t models.Transaction, id int64) models.Transaction { t.ID = id; return t },
		),
		now: time.Now,
	}
}

// Seed is the JSON layout accepted by LoadSeed.
type Seed struct {
	Farms        []models.Farm        `json:"farms"`
	Crops        []models.Crop        `json:"crops"`
	Tasks        []models.Task        `json:"tasks"`
	Transactions []models.Transaction `json:"transactions"`
}

// LoadSeed fills the store from a JSON file, keeping the identifiers it carries.
func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file %s: %w", path, err)
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}

	s.ApplySeed(seed)
	return nil
}

// ApplySeed inserts the seed records; records without an identifier get a new one.
func (s *Store) ApplySeed(seed Seed) {
	for _, f := range seed.Farms {
		restoreOrCreate(s.farms, f)
	}
	for _, c := range seed.Crops {
		restoreOrCreate(s.crops, c)
	}
	for _, t := range seed.Tasks {
		restoreOrCreate(s.tasks, t)
	}
	for _, t := range seed.Transactions {
		restoreOrCreate(s.transactions, t)
	}
}

func restoreOrCreate[T any](c *collection[T], item T) {
	if c.idOf(item) > 0 {
		c.restore(item)
		return
	}
	c.create(item)
}

// ListTransactions returns a copy of every transaction in insertion order.
func (s *Store) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	return s.transactions.list(), nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (models.Transaction, error) {
	return s.transactions.get(id)
}

func (s *Store) CreateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	tx.CreatedAt = s.now().UTC()
	return s.transactions.create(tx), nil
}

func (s *Store) UpdateTransaction(_ context.Context, id int64, tx models.Transaction) (models.Transaction, error) {
	return s.transactions.update(id, func(current models.Transaction) models.Transaction {
		tx.CreatedAt = current.CreatedAt
		return tx
	})
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	return s.transactions.delete(id)
}

func (s *Store) ListFarms(_ context.Context) ([]models.Farm, error) {
	return s.farms.list(), nil
}

func (s *Store) GetFarm(_ context.Context, id int64) (models.Farm, error) {
	return s.farms.get(id)
}

func (s *Store) CreateFarm(_ context.Context, farm models.Farm) (models.Farm, error) {
	farm.CreatedAt = s.now().UTC()
	return s.farms.create(farm), nil
}

func (s *Store) UpdateFarm(_ context.Context, id int64, farm models.Farm) (models.Farm, error) {
	return s.farms.update(id, func(current models.Farm) models.Farm {
		farm.CreatedAt = current.CreatedAt
		return farm
	})
}

func (s *Store) DeleteFarm(_ context.Context, id int64) error {
	return s.farms.delete(id)
}

func (s *Store) ListCrops(_ context.Context) ([]models.Crop, error) {
	return s.crops.list(), nil
}

func (s *Store) GetCrop(_ context.Context, id int64) (models.Crop, error) {
	return s.crops.get(id)
}

func (s *Store) CreateCrop(_ context.Context, crop models.Crop) (models.Crop, error) {
	crop.CreatedAt = s.now().UTC()
	return s.crops.create(crop), nil
}

func (s *Store) UpdateCrop(_ context.Context, id int64, crop models.Crop) (models.Crop, error) {
	return s.crops.update(id, func(current models.Crop) models.Crop {
		crop.CreatedAt = current.CreatedAt
		return crop
	})
}

func (s *Store) DeleteCrop(_ context.Context, id int64) error {
	return s.crops.delete(id)
}

func (s *Store) ListTasks(_ context.Context) ([]models.Task, error) {
	return s.tasks.list(), nil
}

func (s *Store) GetTask(_ context.Context, id int64) (models.Task, error) {
	return s.tasks.get(id)
}

func (s *Store) CreateTask(_ context.Context, task models.Task) (models.Task, error) {
	task.CreatedAt = s.now().UTC()
	return s.tasks.create(task), nil
}

func (s *Store) UpdateTask(_ context.Context, id int64, task models.Task) (models.Task, error) {
	return s.tasks.update(id, func(current models.Task) models.Task {
		task.CreatedAt = current.CreatedAt
		return task
	})
}

func (s *Store) DeleteTask(_ context.Context, id int64) error {
	return s.tasks.delete(id)
}
