package models

import (
	"math"
	"time"
)

// AreaUnit is the unit a farm size is expressed in.
type AreaUnit string

const (
	UnitAcres    AreaUnit = "acres"
	UnitHectares AreaUnit = "hectares"
)

// Farm is a managed piece of land.
type Farm struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Size        float64   `json:"size"`
	Unit        AreaUnit  `json:"unit"`
	ActiveCrops int       `json:"activeCrops"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CropStatus tracks where a crop is in its season.
type CropStatus string

const (
	CropGrowing   CropStatus = "growing"
	CropReady     CropStatus = "ready"
	CropHarvested CropStatus = "harvested"
)

// Crop is a planting on one field of a farm.
type Crop struct {
	ID              int64      `json:"id"`
	FarmID          int64      `json:"farmId"`
	Name            string     `json:"name"`
	Field           string     `json:"field"`
	PlantingDate    time.Time  `json:"plantingDate"`
	ExpectedHarvest time.Time  `json:"expectedHarvest"`
	Status          CropStatus `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// GrowthStage is a named slice of the crop lifecycle, in percent.
type GrowthStage struct {
	Name string  `json:"name"`
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// GrowthStages lists the lifecycle stages in order.
var GrowthStages = []GrowthStage{
	{Name: "Planted", From: 0, To: 15},
	{Name: "Germination", From: 15, To: 35},
	{Name: "Growing", From: 35, To: 75},
	{Name: "Maturing", From: 75, To: 95},
	{Name: "Ready", From: 95, To: 100},
}

// CropLifecycle describes how far a crop has progressed towards harvest.
type CropLifecycle struct {
	ProgressPercent int         `json:"progressPercent"`
	DaysPassed      int         `json:"daysPassed"`
	DaysRemaining   int         `json:"daysRemaining"`
	TotalDays       int         `json:"totalDays"`
	Stage           GrowthStage `json:"stage"`
}

// Lifecycle computes progress between planting and expected harvest as of now.
func (c Crop) Lifecycle(now time.Time) CropLifecycle {
	total := daysBetween(c.PlantingDate, c.ExpectedHarvest)
	passed := daysBetween(c.PlantingDate, now)
	remaining := daysBetween(now, c.ExpectedHarvest)

	var progress float64
	switch {
	case total > 0:
		progress = float64(passed) / float64(total) * 100
	case passed >= 0:
		progress = 100
	}
	progress = math.Min(math.Max(progress, 0), 100)

	stage := GrowthStages[len(GrowthStages)-1]
	for _, s := range GrowthStages {
		if progress >= s.From && progress <= s.To {
			stage = s
			break
		}
	}

	return CropLifecycle{
		ProgressPercent: int(math.Round(progress)),
		DaysPassed:      passed,
		DaysRemaining:   remaining,
		TotalDays:       total,
		Stage:           stage,
	}
}

// daysBetween counts whole days from a to b, truncating towards zero.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// TaskStatus is derived from completion and due date.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskOverdue   TaskStatus = "overdue"
)

// TaskTypes are the kinds of field work a task can describe.
var TaskTypes = []string{
	"watering",
	"fertilizing",
	"planting",
	"harvesting",
	"weeding",
	"pruning",
	"pest-control",
	"maintenance",
}

// Task is a scheduled piece of work on a farm, optionally tied to a crop.
type Task struct {
	ID        int64     `json:"id"`
	FarmID    int64     `json:"farmId"`
	CropID    *int64    `json:"cropId,omitempty"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	DueDate   time.Time `json:"dueDate"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Status derives the task status as of now.
func (t Task) Status(now time.Time) TaskStatus {
	if t.Completed {
		return TaskCompleted
	}
	if t.DueDate.Before(now) {
		return TaskOverdue
	}
	return TaskPending
}
