package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/repository/memory"
	"github.com/mamadbah2/farmledger/internal/server/handlers"
	"github.com/mamadbah2/farmledger/internal/service/records"
	"github.com/mamadbah2/farmledger/internal/service/reporting"
	"github.com/mamadbah2/farmledger/internal/service/weather"
	whatsappsvc "github.com/mamadbah2/farmledger/internal/service/whatsapp"
)

var fixedNow = time.Date(2024, time.March, 25, 10, 0, 0, 0, time.UTC)

type fakeMessaging struct {
	payloads []models.WebhookPayload
	sent     []models.OutboundMessageRequest
}

func (f *fakeMessaging) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || token != "secret" {
		return "", whatsappsvc.ErrVerification
	}
	return challenge, nil
}

func (f *fakeMessaging) HandleWebhook(_ context.Context, payload models.WebhookPayload) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.sent = append(f.sent, req)
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, messaging whatsappsvc.MessagingService) *gin.Engine {
	t.Helper()
	store := memory.NewStore()
	clock := func() time.Time { return fixedNow }
	recordsSvc := records.NewService(store, nil).WithClock(clock)
	reportingSvc := reporting.NewService(store, nil, nil).WithClock(clock)

	h := Handlers{
		Records: handlers.NewRecordsHandler(recordsSvc, nil),
		Finance: handlers.NewFinanceHandler(reportingSvc, nil),
		Weather: handlers.NewWeatherHandler(weather.NewStaticProvider(), nil),
	}
	if messaging != nil {
		h.Webhook = handlers.NewWebhookHandler(messaging, nil)
	}
	return New(h, nil)
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthzAndRequestID(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, nil)

	rec := do(t, engine, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	out := httptest.NewRecorder()
	engine.ServeHTTP(out, req)
	if got := out.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestFinanceFlow(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, nil)

	for _, body := range []map[string]any{
		{"type": "income", "category": "crop-sales", "amount": "1000", "date": "2024-03-03"},
		{"type": "expense", "category": "feed", "amount": 200, "date": "2024-03-10", "description": "Hay"},
		{"type": "expense", "category": "fuel", "amount": "50.5", "date": "2023-11-02"},
	} {
		rec := do(t, engine, http.MethodPost, "/api/transactions", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create transaction: %d %s", rec.Code, rec.Body.String())
		}
	}

	monthly := decode[[]map[string]any](t, do(t, engine, http.MethodGet, "/api/finance/monthly", nil))
	if len(monthly) != 12 || monthly[2]["month"] != "Mar" || monthly[2]["profit"] != "800" {
		t.Fatalf("unexpected monthly series: %v", monthly[2])
	}

	past := decode[[]map[string]any](t, do(t, engine, http.MethodGet, "/api/finance/monthly?year=2023", nil))
	if past[10]["expense"] != "50.5" {
		t.Fatalf("unexpected November 2023 bucket: %v", past[10])
	}

	yearly := decode[[]map[string]any](t, do(t, engine, http.MethodGet, "/api/finance/yearly", nil))
	if len(yearly) != 2 || yearly[0]["year"] != float64(2023) {
		t.Fatalf("unexpected yearly series: %v", yearly)
	}

	shares := decode[[]map[string]any](t, do(t, engine, http.MethodGet, "/api/finance/categories?type=expense&scope=currentYear", nil))
	if len(shares) != 1 || shares[0]["category"] != "Feed" || shares[0]["percentage"] != float64(100) {
		t.Fatalf("unexpected category shares: %v", shares)
	}

	summary := decode[map[string]any](t, do(t, engine, http.MethodGet, "/api/finance/summary", nil))
	if summary["netProfit"] != "749.5" {
		t.Fatalf("unexpected summary: %v", summary)
	}

	report := decode[map[string]any](t, do(t, engine, http.MethodGet, "/api/finance/report?year=2024", nil))
	if report["year"] != float64(2024) || report["skipped"] != float64(0) {
		t.Fatalf("unexpected report: %v", report)
	}

	list := decode[[]map[string]any](t, do(t, engine, http.MethodGet, "/api/transactions?type=expense&q=hay", nil))
	if len(list) != 1 || list[0]["category"] != "feed" {
		t.Fatalf("unexpected filtered transactions: %v", list)
	}
}

func TestFinanceBadRequests(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, nil)

	for _, path := range []string{
		"/api/finance/monthly?year=abc",
		"/api/finance/categories?type=refund",
		"/api/finance/categories?type=income&scope=lastWeek",
		"/api/transactions?type=refund",
		"/api/tasks?status=someday",
	} {
		rec := do(t, engine, http.MethodGet, path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
		if body := decode[map[string]string](t, rec); body["error"] == "" {
			t.Fatalf("%s: expected error message", path)
		}
	}

	rec := do(t, engine, http.MethodPost, "/api/transactions", map[string]any{"type": "income", "category": "x", "amount": "-1", "date": "2024-01-01"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative amount, got %d", rec.Code)
	}
	rec = do(t, engine, http.MethodPost, "/api/transactions", map[string]any{"type": "income", "category": "x", "amount": "1", "date": "01/02/2024"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}
	if rec := do(t, engine, http.MethodGet, "/api/finance/report/latest", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without an archive, got %d", rec.Code)
	}
}

func TestRecordsCRUD(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, nil)

	rec := do(t, engine, http.MethodPost, "/api/farms", map[string]any{"name": "North", "location": "Valley", "size": 40, "unit": "hectares"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create farm: %d %s", rec.Code, rec.Body.String())
	}
	farm := decode[models.Farm](t, rec)

	rec = do(t, engine, http.MethodPost, "/api/crops", map[string]any{
		"farmId": farm.ID, "name": "Corn", "field": "A1", "plantingDate": "2024-03-05", "expectedHarvest": "2024-04-14",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create crop: %d %s", rec.Code, rec.Body.String())
	}
	crop := decode[models.Crop](t, rec)

	life := decode[models.CropLifecycle](t, do(t, engine, http.MethodGet, "/api/crops/1/lifecycle", nil))
	if life.ProgressPercent != 50 || life.Stage.Name != "Growing" {
		t.Fatalf("unexpected lifecycle: %+v", life)
	}

	rec = do(t, engine, http.MethodPost, "/api/tasks", map[string]any{
		"farmId": farm.ID, "cropId": crop.ID, "title": "Water corn", "type": "watering", "dueDate": "2024-03-20",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: %d %s", rec.Code, rec.Body.String())
	}

	dash := decode[models.Dashboard](t, do(t, engine, http.MethodGet, "/api/dashboard", nil))
	if dash.Farms != 1 || dash.ActiveCrops != 1 || dash.OverdueTasks != 1 {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}

	toggled := decode[models.Task](t, do(t, engine, http.MethodPost, "/api/tasks/1/toggle", nil))
	if !toggled.Completed {
		t.Fatal("expected task completed after toggle")
	}

	got := decode[models.Farm](t, do(t, engine, http.MethodGet, "/api/farms/1", nil))
	if got.ActiveCrops != 1 || got.Unit != models.UnitHectares {
		t.Fatalf("unexpected farm: %+v", got)
	}

	rec = do(t, engine, http.MethodPut, "/api/farms/1", map[string]any{"name": "North Ridge", "size": 42})
	if rec.Code != http.StatusOK || decode[models.Farm](t, rec).Name != "North Ridge" {
		t.Fatalf("update farm: %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, engine, http.MethodDelete, "/api/tasks/1", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete task: %d", rec.Code)
	}
	if rec := do(t, engine, http.MethodGet, "/api/tasks/1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	if rec := do(t, engine, http.MethodGet, "/api/crops/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
	if rec := do(t, engine, http.MethodPost, "/api/farms", map[string]any{"location": "nowhere"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}
}

func TestWeatherRoutes(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, nil)

	w := decode[models.Weather](t, do(t, engine, http.MethodGet, "/api/weather", nil))
	if w.Current.Condition != "Partly Cloudy" || len(w.Forecast) != 5 {
		t.Fatalf("unexpected weather: %+v", w)
	}

	f := decode[map[string][]models.ForecastDay](t, do(t, engine, http.MethodGet, "/api/weather/forecast", nil))
	if len(f["forecast"]) != 10 {
		t.Fatalf("expected 10 forecast days, got %d", len(f["forecast"]))
	}
}

func TestWebhookRoutesOnlyWhenEnabled(t *testing.T) {
	t.Parallel()

	if rec := do(t, newEngine(t, nil), http.MethodGet, "/webhook", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected webhook disabled, got %d", rec.Code)
	}

	messaging := &fakeMessaging{}
	engine := newEngine(t, messaging)

	rec := do(t, engine, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "42" {
		t.Fatalf("verify: %d %q", rec.Code, rec.Body.String())
	}
	rec = do(t, engine, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=42", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodPost, "/webhook", models.WebhookPayload{Object: "whatsapp_business_account"})
	if rec.Code != http.StatusOK || len(messaging.payloads) != 1 {
		t.Fatalf("receive: %d, payloads=%d", rec.Code, len(messaging.payloads))
	}

	rec = do(t, engine, http.MethodPost, "/send-message", map[string]any{"to": "1555", "message": "hello"})
	if rec.Code != http.StatusAccepted || len(messaging.sent) != 1 {
		t.Fatalf("send: %d, sent=%d", rec.Code, len(messaging.sent))
	}
	rec = do(t, engine, http.MethodPost, "/send-message", map[string]any{"to": "1555"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); !strings.Contains(body["error"], "recipient and message are required") {
		t.Fatalf("unexpected error body %v", body)
	}

	rec = do(t, engine, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=challenge-token", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "challenge-token" {
		t.Fatalf("challenge not echoed: %d %q", rec.Code, rec.Body.String())
	}
}
