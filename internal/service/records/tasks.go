package records

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/repository/memory"
)

// TaskFilter narrows a task listing. Status is all, pending, completed or overdue.
type TaskFilter struct {
	Status string
	Search string
}

// ListTasks returns tasks matching filter, judged against the service clock.
func (s *Service) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	switch models.TaskStatus(filter.Status) {
	case "", "all", models.TaskPending, models.TaskCompleted, models.TaskOverdue:
	default:
		return nil, invalid("unknown task status %q", filter.Status)
	}

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	now := s.now()
	matched := tasks[:0]
	for _, t := range tasks {
		if filter.Search != "" && !containsFold(t.Title, filter.Search) {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && string(t.Status(now)) != filter.Status {
			continue
		}
		matched = append(matched, t)
	}
	return matched, nil
}

func (s *Service) GetTask(ctx context.Context, id int64) (models.Task, error) {
	return s.store.GetTask(ctx, id)
}

func (s *Service) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if err := s.validateTask(ctx, &task); err != nil {
		return models.Task{}, err
	}
	task.Completed = false
	created, err := s.store.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

func (s *Service) UpdateTask(ctx context.Context, id int64, task models.Task) (models.Task, error) {
	if err := s.validateTask(ctx, &task); err != nil {
		return models.Task{}, err
	}
	return s.store.UpdateTask(ctx, id, task)
}

// ToggleTask flips the completion flag of a task.
func (s *Service) ToggleTask(ctx context.Context, id int64) (models.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	task.Completed = !task.Completed
	return s.store.UpdateTask(ctx, id, task)
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return s.store.DeleteTask(ctx, id)
}

func (s *Service) validateTask(ctx context.Context, task *models.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return invalid("task title is required")
	}
	if task.Type == "" {
		task.Type = models.TaskTypes[0]
	}
	if !slices.Contains(models.TaskTypes, task.Type) {
		return invalid("unknown task type %q", task.Type)
	}
	if task.DueDate.IsZero() {
		return invalid("task due date is required")
	}
	if err := s.requireFarm(ctx, task.FarmID); err != nil {
		return err
	}
	if task.CropID == nil {
		return nil
	}

	crop, err := s.store.GetCrop(ctx, *task.CropID)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			return invalid("crop %d does not exist", *task.CropID)
		}
		return fmt.Errorf("lookup crop: %w", err)
	}
	if crop.FarmID != task.FarmID {
		return invalid("crop %d does not belong to farm %d", crop.ID, task.FarmID)
	}
	return nil
}
