package worker_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/civicpulse/civicpulse/internal/app/features/worker"
	catmapstore "github.com/civicpulse/civicpulse/internal/app/store/catmap"
	departmentstore "github.com/civicpulse/civicpulse/internal/app/store/departments"
	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	"github.com/civicpulse/civicpulse/internal/app/system/deptrouter"
	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/civicpulse/civicpulse/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	h       *worker.Handler
	engine  *lifecycle.Engine
	db      *mongo.Database
	f       *testutil.Fixtures
	citizen models.User
	worker  models.User
	dept    models.Department
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := deptrouter.New(catmapstore.New(db), departmentstore.New(db), zap.NewNop())
	engine := lifecycle.New(db, nil, router, zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	dept := f.CreateDepartment(ctx, "Roads")
	return &env{
		h:       worker.NewHandler(db, engine, zap.NewNop()),
		engine:  engine,
		db:      db,
		f:       f,
		citizen: f.CreateCitizen(ctx, "Cindy", "cindy@example.com"),
		worker:  f.CreateWorker(ctx, "Wes", "wes@example.com", dept.ID),
		dept:    dept,
	}
}

// assignedReport creates a report and walks it to assigned for e.worker.
func (e *env) assignedReport(t *testing.T) models.Report {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := e.f.CreateAdmin(ctx, "Ada", "ada@example.com")
	r := e.f.CreateReport(ctx, e.citizen.ID, "pothole", "deep hole")
	if _, err := e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
		ReportID:     r.ID,
		ActorID:      admin.ID,
		DepartmentID: e.dept.ID,
		Priority:     models.PriorityMedium,
	}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := e.engine.AssignWorker(ctx, lifecycle.AssignInput{
		ReportID: r.ID,
		ActorID:  admin.ID,
		WorkerID: e.worker.ID,
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	return r
}

func (e *env) workerUser() testutil.TestUser {
	return testutil.TestUser{
		ID:           e.worker.ID.Hex(),
		Role:         "worker",
		DepartmentID: e.dept.ID.Hex(),
	}
}

func TestServeTasks(t *testing.T) {
	e := newEnv(t)
	report := e.assignedReport(t)

	req := testutil.NewAuthenticatedRequest("GET", "/worker/tasks", e.workerUser())
	rec := httptest.NewRecorder()
	e.h.ServeTasks(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("tasks status: got %d, body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), report.ID.Hex()) {
		t.Error("task list missing the assigned report")
	}

	// The completed view starts empty.
	req = testutil.NewAuthenticatedRequest("GET", "/worker/tasks?status=completed", e.workerUser())
	rec = httptest.NewRecorder()
	e.h.ServeTasks(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("completed tasks status: got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("completed view: got %s, want []", rec.Body.String())
	}
}

func TestHandleStartAndComplete(t *testing.T) {
	e := newEnv(t)
	report := e.assignedReport(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewAuthenticatedRequest("POST", "/x", e.workerUser())
	req = testutil.WithChiURLParam(req, "id", report.ID.Hex())
	rec := httptest.NewRecorder()
	e.h.HandleStart(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status: got %d, body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"in-progress"`) {
		t.Errorf("start response: %s", rec.Body.String())
	}

	body := `{"worker_notes":"patched and resurfaced"}`
	req = httptest.NewRequest("POST", "/x", strings.NewReader(body))
	req = testutil.WithUser(req, e.workerUser())
	req = testutil.WithChiURLParam(req, "id", report.ID.Hex())
	rec = httptest.NewRecorder()
	e.h.HandleComplete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status: got %d, body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status      string `json:"status"`
		WorkerNotes string `json:"worker_notes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "completed" || resp.WorkerNotes != "patched and resurfaced" {
		t.Errorf("complete response: status=%q notes=%q", resp.Status, resp.WorkerNotes)
	}

	// Completing credits the reporter and frees the worker.
	users := userstore.New(e.db)
	citizen, err := users.GetByID(ctx, e.citizen.ID)
	if err != nil {
		t.Fatalf("reload citizen: %v", err)
	}
	if citizen.Points != report.Points {
		t.Errorf("citizen points: got %d, want %d", citizen.Points, report.Points)
	}
	freed, err := users.GetByID(ctx, e.worker.ID)
	if err != nil {
		t.Fatalf("reload worker: %v", err)
	}
	if freed.WorkerStatus != models.WorkerAvailable {
		t.Errorf("worker status after complete: got %q", freed.WorkerStatus)
	}
}

func TestHandleStartRejectsOtherWorker(t *testing.T) {
	e := newEnv(t)
	report := e.assignedReport(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	other := e.f.CreateWorker(ctx, "Olive", "olive@example.com", e.dept.ID)

	req := testutil.NewAuthenticatedRequest("POST", "/x", testutil.TestUser{
		ID: other.ID.Hex(), Role: "worker", DepartmentID: e.dept.ID.Hex(),
	})
	req = testutil.WithChiURLParam(req, "id", report.ID.Hex())
	rec := httptest.NewRecorder()
	e.h.HandleStart(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("start by other worker: got %d, want 403", rec.Code)
	}
}

func TestHandleCompleteRequiresInProgress(t *testing.T) {
	e := newEnv(t)
	report := e.assignedReport(t)

	req := httptest.NewRequest("POST", "/x", strings.NewReader(`{}`))
	req = testutil.WithUser(req, e.workerUser())
	req = testutil.WithChiURLParam(req, "id", report.ID.Hex())
	rec := httptest.NewRecorder()
	e.h.HandleComplete(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("complete before start: got %d, want 409", rec.Code)
	}
}

func TestHandleSetStatus(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	body := `{"status":"offline"}`
	req := httptest.NewRequest("PUT", "/worker/status", strings.NewReader(body))
	req = testutil.WithUser(req, e.workerUser())
	rec := httptest.NewRecorder()
	e.h.HandleSetStatus(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("set status: got %d, body=%s", rec.Code, rec.Body.String())
	}

	u, err := userstore.New(e.db).GetByID(ctx, e.worker.ID)
	if err != nil {
		t.Fatalf("reload worker: %v", err)
	}
	if u.WorkerStatus != models.WorkerOffline {
		t.Errorf("worker status: got %q, want offline", u.WorkerStatus)
	}

	// Unknown status value.
	req = httptest.NewRequest("PUT", "/worker/status", strings.NewReader(`{"status":"napping"}`))
	req = testutil.WithUser(req, e.workerUser())
	rec = httptest.NewRecorder()
	e.h.HandleSetStatus(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad status value: got %d, want 400", rec.Code)
	}

	// Citizens are not workers.
	req = httptest.NewRequest("PUT", "/worker/status", strings.NewReader(`{"status":"busy"}`))
	req = testutil.WithUser(req, testutil.TestUser{ID: e.citizen.ID.Hex(), Role: "citizen"})
	rec = httptest.NewRecorder()
	e.h.HandleSetStatus(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("citizen status update: got %d, want 400", rec.Code)
	}
}

func TestHandleAddNote(t *testing.T) {
	e := newEnv(t)
	report := e.assignedReport(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post := func(id, body string, user testutil.TestUser) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/x", strings.NewReader(body))
		req = testutil.WithUser(req, user)
		req = testutil.WithChiURLParam(req, "id", id)
		rec := httptest.NewRecorder()
		e.h.HandleAddNote(rec, req)
		return rec
	}

	rec := post(report.ID.Hex(), `{"notes":"ordered asphalt"}`, e.workerUser())
	if rec.Code != http.StatusOK {
		t.Fatalf("add note: got %d, body=%s", rec.Code, rec.Body.String())
	}
	saved, err := reportstore.New(e.db).GetByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("reload report: %v", err)
	}
	if saved.WorkerNotes != "ordered asphalt" {
		t.Errorf("worker notes: got %q", saved.WorkerNotes)
	}
	if saved.Status != models.StatusAssigned {
		t.Errorf("status after note: got %q, want assigned", saved.Status)
	}

	other := e.f.CreateWorker(ctx, "Olive", "olive@example.com", e.dept.ID)
	rec = post(report.ID.Hex(), `{"notes":"not mine"}`, testutil.TestUser{
		ID: other.ID.Hex(), Role: "worker", DepartmentID: e.dept.ID.Hex(),
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("note by other worker: got %d, want 403", rec.Code)
	}

	if rec = post("64b0c2f4e1a2b3c4d5e6f7a8", `{"notes":"ghost"}`, e.workerUser()); rec.Code != http.StatusNotFound {
		t.Errorf("note on unknown report: got %d, want 404", rec.Code)
	}
	if rec = post(report.ID.Hex(), `{"notes":""}`, e.workerUser()); rec.Code != http.StatusBadRequest {
		t.Errorf("empty note: got %d, want 400", rec.Code)
	}
}

func TestServeStats(t *testing.T) {
	e := newEnv(t)
	report := e.assignedReport(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stats := func() (out struct {
		Assigned   int64 `json:"assigned"`
		InProgress int64 `json:"in_progress"`
		Completed  int64 `json:"completed"`
	}) {
		req := testutil.NewAuthenticatedRequest("GET", "/worker/stats", e.workerUser())
		rec := httptest.NewRecorder()
		e.h.ServeStats(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("stats status: got %d, body=%s", rec.Code, rec.Body.String())
		}
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		return out
	}

	if got := stats(); got.Assigned != 1 || got.InProgress != 0 || got.Completed != 0 {
		t.Errorf("stats after assignment: %+v", got)
	}

	if _, err := e.engine.StartTask(ctx, report.ID, e.worker.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.engine.CompleteTask(ctx, lifecycle.CompleteInput{
		ReportID: report.ID,
		ActorID:  e.worker.ID,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if got := stats(); got.Assigned != 0 || got.Completed != 1 {
		t.Errorf("stats after completion: %+v", got)
	}
}

func TestServeTasksPriorityOrder(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := e.f.CreateAdmin(ctx, "Ada", "ada@example.com")
	assign := func(priority string) models.Report {
		r := e.f.CreateReport(ctx, e.citizen.ID, "pothole", "desc")
		if _, err := e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
			ReportID:     r.ID,
			ActorID:      admin.ID,
			DepartmentID: e.dept.ID,
			Priority:     priority,
		}); err != nil {
			t.Fatalf("approve: %v", err)
		}
		if _, err := e.engine.AssignWorker(ctx, lifecycle.AssignInput{
			ReportID: r.ID,
			ActorID:  admin.ID,
			WorkerID: e.worker.ID,
		}); err != nil {
			t.Fatalf("assign: %v", err)
		}
		return r
	}

	// The urgent task is older; creation order alone would list it last.
	urgent := assign(models.PriorityUrgent)
	low := assign(models.PriorityLow)

	req := testutil.NewAuthenticatedRequest("GET", "/worker/tasks", e.workerUser())
	rec := httptest.NewRecorder()
	e.h.ServeTasks(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("tasks status: got %d, body=%s", rec.Code, rec.Body.String())
	}

	var tasks []struct {
		ID       string `json:"id"`
		Priority string `json:"priority"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&tasks); err != nil {
		t.Fatalf("decode tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks: got %d, want 2", len(tasks))
	}
	if tasks[0].ID != urgent.ID.Hex() || tasks[1].ID != low.ID.Hex() {
		t.Errorf("task order: got %q then %q, want urgent before low",
			tasks[0].Priority, tasks[1].Priority)
	}
}
