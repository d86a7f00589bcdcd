package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/repository/memory"
)

var fixedNow = time.Date(2024, time.March, 25, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(memory.NewStore(), nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustFarm(t *testing.T, svc *Service, name string) models.Farm {
	t.Helper()
	farm, err := svc.CreateFarm(context.Background(), models.Farm{Name: name, Location: "Valley", Size: 12})
	if err != nil {
		t.Fatalf("create farm: %v", err)
	}
	return farm
}

func TestCreateFarmValidation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		farm models.Farm
	}{
		{name: "missing name", farm: models.Farm{Name: "  ", Size: 3}},
		{name: "zero size", farm: models.Farm{Name: "North", Size: 0}},
		{name: "bad unit", farm: models.Farm{Name: "North", Size: 3, Unit: "furlongs"}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateFarm(ctx, tc.farm); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	farm := mustFarm(t, svc, " North ")
	if farm.Name != "North" || farm.Unit != models.UnitAcres {
		t.Fatalf("expected trimmed name and default unit, got %+v", farm)
	}
}

func TestFarmActiveCropsCountsGrowingOnly(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	farm := mustFarm(t, svc, "North")
	other := mustFarm(t, svc, "South")

	for _, c := range []models.Crop{
		{FarmID: farm.ID, Name: "Corn", Status: models.CropGrowing},
		{FarmID: farm.ID, Name: "Wheat", Status: models.CropHarvested},
		{FarmID: farm.ID, Name: "Beans"},
		{FarmID: other.ID, Name: "Rice", Status: models.CropReady},
	} {
		c.PlantingDate = day(2024, time.March, 1)
		c.ExpectedHarvest = day(2024, time.July, 1)
		if _, err := svc.CreateCrop(ctx, c); err != nil {
			t.Fatalf("create crop %s: %v", c.Name, err)
		}
	}

	farms, err := svc.ListFarms(ctx)
	if err != nil {
		t.Fatalf("list farms: %v", err)
	}
	if farms[0].ActiveCrops != 2 || farms[1].ActiveCrops != 0 {
		t.Fatalf("unexpected active crops: %d and %d", farms[0].ActiveCrops, farms[1].ActiveCrops)
	}

	got, err := svc.GetFarm(ctx, farm.ID)
	if err != nil {
		t.Fatalf("get farm: %v", err)
	}
	if got.ActiveCrops != 2 {
		t.Fatalf("expected 2 active crops, got %d", got.ActiveCrops)
	}
}

func TestCreateCropRequiresExistingFarmAndOrderedDates(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	farm := mustFarm(t, svc, "North")

	_, err := svc.CreateCrop(ctx, models.Crop{
		FarmID: 99, Name: "Corn",
		PlantingDate: day(2024, 3, 1), ExpectedHarvest: day(2024, 7, 1),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing farm, got %v", err)
	}

	_, err = svc.CreateCrop(ctx, models.Crop{
		FarmID: farm.ID, Name: "Corn",
		PlantingDate: day(2024, 7, 1), ExpectedHarvest: day(2024, 3, 1),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for reversed dates, got %v", err)
	}
}

func TestCropLifecycleUsesServiceClock(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	farm := mustFarm(t, svc, "North")

	crop, err := svc.CreateCrop(ctx, models.Crop{
		FarmID: farm.ID, Name: "Corn",
		PlantingDate:    day(2024, time.March, 5),
		ExpectedHarvest: day(2024, time.April, 14),
	})
	if err != nil {
		t.Fatalf("create crop: %v", err)
	}

	life, err := svc.CropLifecycle(ctx, crop.ID)
	if err != nil {
		t.Fatalf("lifecycle: %v", err)
	}
	if life.TotalDays != 40 || life.DaysPassed != 20 || life.ProgressPercent != 50 {
		t.Fatalf("unexpected lifecycle: %+v", life)
	}
	if life.Stage.Name != "Growing" {
		t.Fatalf("expected Growing stage, got %s", life.Stage.Name)
	}

	if _, err := svc.CropLifecycle(ctx, 404); !errors.Is(err, memory.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListTasksFiltersByDerivedStatus(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	farm := mustFarm(t, svc, "North")

	mk := func(title string, due time.Time) models.Task {
		task, err := svc.CreateTask(ctx, models.Task{FarmID: farm.ID, Title: title, Type: "watering", DueDate: due})
		if err != nil {
			t.Fatalf("create task %s: %v", title, err)
		}
		return task
	}
	mk("Water corn", day(2024, time.March, 20))
	done := mk("Spread compost", day(2024, time.March, 30))
	mk("Fix fence", day(2024, time.April, 2))

	if _, err := svc.ToggleTask(ctx, done.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	cases := []struct {
		filter TaskFilter
		want   []string
	}{
		{filter: TaskFilter{}, want: []string{"Water corn", "Spread compost", "Fix fence"}},
		{filter: TaskFilter{Status: "overdue"}, want: []string{"Water corn"}},
		{filter: TaskFilter{Status: "completed"}, want: []string{"Spread compost"}},
		{filter: TaskFilter{Status: "pending"}, want: []string{"Fix fence"}},
		{filter: TaskFilter{Search: "CORN"}, want: []string{"Water corn"}},
	}
	for _, tc := range cases {
		tasks, err := svc.ListTasks(ctx, tc.filter)
		if err != nil {
			t.Fatalf("list %+v: %v", tc.filter, err)
		}
		if len(tasks) != len(tc.want) {
			t.Fatalf("filter %+v: expected %d tasks, got %d", tc.filter, len(tc.want), len(tasks))
		}
		for i, title := range tc.want {
			if tasks[i].Title != title {
				t.Fatalf("filter %+v: position %d expected %q, got %q", tc.filter, i, title, tasks[i].Title)
			}
		}
	}

	if _, err := svc.ListTasks(ctx, TaskFilter{Status: "later"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateTaskRejectsCropFromAnotherFarm(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	north := mustFarm(t, svc, "North")
	south := mustFarm(t, svc, "South")

	crop, err := svc.CreateCrop(ctx, models.Crop{
		FarmID: south.ID, Name: "Rice",
		PlantingDate: day(2024, 3, 1), ExpectedHarvest: day(2024, 8, 1),
	})
	if err != nil {
		t.Fatalf("create crop: %v", err)
	}

	_, err = svc.CreateTask(ctx, models.Task{
		FarmID: north.ID, CropID: &crop.ID, Title: "Flood paddy", Type: "watering", DueDate: day(2024, 4, 1),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.CreateTask(ctx, models.Task{FarmID: north.ID, Title: "Dance", Type: "dancing", DueDate: day(2024, 4, 1)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
}

func TestTransactionsValidateAndFilter(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTransaction(ctx, models.Transaction{
		Type: models.TransactionIncome, Category: "crop-sales", Amount: decimal.NewFromInt(-5), Date: day(2024, 3, 1),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for negative amount, got %v", err)
	}

	missing := int64(7)
	_, err = svc.CreateTransaction(ctx, models.Transaction{
		Type: models.TransactionIncome, Category: "crop-sales", Amount: decimal.NewFromInt(5), Date: day(2024, 3, 1), FarmID: &missing,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown farm, got %v", err)
	}

	for _, tx := range []models.Transaction{
		{Type: models.TransactionIncome, Category: "crop-sales", Amount: decimal.NewFromInt(1000), Date: day(2024, 3, 1), Description: "Corn to co-op"},
		{Type: models.TransactionExpense, Category: "feed", Amount: decimal.NewFromInt(200), Date: day(2024, 3, 2), Description: "Hay bales"},
		{Type: models.TransactionExpense, Category: "fuel", Amount: decimal.NewFromInt(80), Date: day(2024, 3, 3)},
	} {
		if _, err := svc.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	expenses, err := svc.ListTransactions(ctx, TransactionFilter{Type: "expense"})
	if err != nil || len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d (%v)", len(expenses), err)
	}

	matched, err := svc.ListTransactions(ctx, TransactionFilter{Search: "corn"})
	if err != nil || len(matched) != 1 || matched[0].Category != "crop-sales" {
		t.Fatalf("expected the corn sale, got %+v (%v)", matched, err)
	}

	byCategory, err := svc.ListTransactions(ctx, TransactionFilter{Search: "FUEL"})
	if err != nil || len(byCategory) != 1 {
		t.Fatalf("expected category search hit, got %+v (%v)", byCategory, err)
	}

	if _, err := svc.ListTransactions(ctx, TransactionFilter{Type: "refund"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateAndDeleteMissingRecords(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateFarm(ctx, 42, models.Farm{Name: "Ghost", Size: 1})
	if !errors.Is(err, memory.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := svc.DeleteTransaction(ctx, 42); !errors.Is(err, memory.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
	if _, err := svc.ToggleTask(ctx, 42); !errors.Is(err, memory.ErrNotFound) {
		t.Fatalf("expected not found on toggle, got %v", err)
	}
}
