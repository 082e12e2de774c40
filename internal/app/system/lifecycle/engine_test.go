package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	catmapstore "github.com/civicpulse/civicpulse/internal/app/store/catmap"
	departmentstore "github.com/civicpulse/civicpulse/internal/app/store/departments"
	historystore "github.com/civicpulse/civicpulse/internal/app/store/history"
	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	"github.com/civicpulse/civicpulse/internal/app/system/deptrouter"
	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/civicpulse/civicpulse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	engine  *lifecycle.Engine
	f       *testutil.Fixtures
	db      *mongo.Database
	citizen models.User
	admin   models.User
	dept    models.Department
	worker  models.User
}

func newEnv(t *testing.T) (*env, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)

	f := testutil.NewFixtures(t, db)
	router := deptrouter.New(catmapstore.New(db), departmentstore.New(db), zap.NewNop())
	engine := lifecycle.New(db, nil, router, zap.NewNop())

	e := &env{
		engine:  engine,
		f:       f,
		db:      db,
		citizen: f.CreateCitizen(ctx, "Cindy Citizen", "cindy@example.com"),
		admin:   f.CreateAdmin(ctx, "Alex Admin", "alex@example.com"),
		dept:    f.CreateDepartment(ctx, "Roads"),
	}
	e.worker = f.CreateWorker(ctx, "Walt Worker", "walt@example.com", e.dept.ID)
	return e, ctx
}

func (e *env) submit(t *testing.T, ctx context.Context) *models.Report {
	t.Helper()
	r, err := e.engine.CreateReport(ctx, lifecycle.CreateReportInput{
		UserID:      e.citizen.ID,
		Category:    "pothole",
		Description: "Deep pothole near the school",
	})
	if err != nil {
		t.Fatalf("CreateReport() error: %v", err)
	}
	return r
}

func (e *env) approve(t *testing.T, ctx context.Context, id primitive.ObjectID) *models.Report {
	t.Helper()
	r, err := e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
		ReportID:     id,
		ActorID:      e.admin.ID,
		DepartmentID: e.dept.ID,
		Priority:     models.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("ApproveReport() error: %v", err)
	}
	return r
}

func (e *env) assign(t *testing.T, ctx context.Context, id primitive.ObjectID) *models.Report {
	t.Helper()
	r, err := e.engine.AssignWorker(ctx, lifecycle.AssignInput{
		ReportID: id,
		ActorID:  e.admin.ID,
		WorkerID: e.worker.ID,
	})
	if err != nil {
		t.Fatalf("AssignWorker() error: %v", err)
	}
	return r
}

func TestCreateReportDefaultsAndSuggestion(t *testing.T) {
	e, ctx := newEnv(t)

	e.f.CreateCategoryMapping(ctx, "pothole", e.dept.ID)

	r := e.submit(t, ctx)
	if r.Status != models.StatusPending {
		t.Errorf("new report status: got %q, want pending", r.Status)
	}
	if r.Points != models.DefaultReportPoints {
		t.Errorf("new report points: got %d, want %d", r.Points, models.DefaultReportPoints)
	}
	if r.SuggestedDepartmentID == nil || *r.SuggestedDepartmentID != e.dept.ID {
		t.Error("suggestion did not bind to the mapped department")
	}

	users := userstore.New(e.db)
	citizen, err := users.GetByID(ctx, e.citizen.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if citizen.ReportsSubmitted != 1 {
		t.Errorf("reports_submitted: got %d, want 1", citizen.ReportsSubmitted)
	}
}

func TestCreateReportValidation(t *testing.T) {
	e, ctx := newEnv(t)

	var vErr *lifecycle.ValidationError
	_, err := e.engine.CreateReport(ctx, lifecycle.CreateReportInput{
		UserID: e.citizen.ID, Category: " ", Description: "desc",
	})
	if !errors.As(err, &vErr) {
		t.Errorf("empty category: got %v, want ValidationError", err)
	}

	_, err = e.engine.CreateReport(ctx, lifecycle.CreateReportInput{
		UserID: e.citizen.ID, Category: "pothole", Description: "d",
		Latitude: 123.0, Longitude: 45.0,
	})
	if !errors.As(err, &vErr) {
		t.Errorf("bad coordinates: got %v, want ValidationError", err)
	}

	var uErr *lifecycle.UnauthorizedError
	_, err = e.engine.CreateReport(ctx, lifecycle.CreateReportInput{
		Category: "pothole", Description: "d",
	})
	if !errors.As(err, &uErr) {
		t.Errorf("missing actor: got %v, want UnauthorizedError", err)
	}
}

func TestApproveBindsDepartmentAndWritesLedger(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)

	approved, err := e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
		ReportID:     r.ID,
		ActorID:      e.admin.ID,
		DepartmentID: e.dept.ID,
		Priority:     models.PriorityUrgent,
		AdminNotes:   "verified by phone",
		BonusPoints:  5,
	})
	if err != nil {
		t.Fatalf("ApproveReport() error: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("status: got %q, want approved", approved.Status)
	}
	if approved.DepartmentID == nil || *approved.DepartmentID != e.dept.ID {
		t.Error("approval did not bind department")
	}
	if approved.Priority != models.PriorityUrgent || approved.BonusPoints != 5 {
		t.Errorf("approval fields: priority=%q bonus=%d", approved.Priority, approved.BonusPoints)
	}
	if approved.ApprovedAt == nil {
		t.Error("approval did not stamp ApprovedAt")
	}

	entries, err := historystore.New(e.db).ListByReport(ctx, r.ID)
	if err != nil {
		t.Fatalf("ListByReport() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ledger entries: got %d, want 1", len(entries))
	}
	h := entries[0]
	if h.Action != models.ActionApproved || h.OldStatus != models.StatusPending || h.NewStatus != models.StatusApproved {
		t.Errorf("ledger entry: %+v", h)
	}
	if h.ChangedBy != e.admin.ID {
		t.Error("ledger entry did not record the admin")
	}
	if h.NewDeptID == nil || *h.NewDeptID != e.dept.ID {
		t.Error("ledger entry did not record the department")
	}
}

func TestApproveValidation(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)

	var vErr *lifecycle.ValidationError
	_, err := e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
		ReportID: r.ID, ActorID: e.admin.ID, DepartmentID: e.dept.ID, Priority: "extreme",
	})
	if !errors.As(err, &vErr) {
		t.Errorf("bad priority: got %v, want ValidationError", err)
	}

	var nfErr *lifecycle.NotFoundError
	_, err = e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
		ReportID: r.ID, ActorID: e.admin.ID,
		DepartmentID: primitive.NewObjectID(), Priority: models.PriorityLow,
	})
	if !errors.As(err, &nfErr) {
		t.Errorf("missing department: got %v, want NotFoundError", err)
	}

	_, err = e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
		ReportID: primitive.NewObjectID(), ActorID: e.admin.ID,
		DepartmentID: e.dept.ID, Priority: models.PriorityLow,
	})
	if !errors.As(err, &nfErr) {
		t.Errorf("missing report: got %v, want NotFoundError", err)
	}
}

func TestApproveTwiceConflicts(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)
	e.approve(t, ctx, r.ID)

	var itErr *lifecycle.InvalidTransitionError
	_, err := e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
		ReportID: r.ID, ActorID: e.admin.ID,
		DepartmentID: e.dept.ID, Priority: models.PriorityLow,
	})
	if !errors.As(err, &itErr) {
		t.Fatalf("second approval: got %v, want InvalidTransitionError", err)
	}
	if itErr.From != models.StatusApproved {
		t.Errorf("conflict From: got %q, want approved", itErr.From)
	}
}

func TestRejectIsTerminalAndWritesNoLedger(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)

	rejected, err := e.engine.RejectReport(ctx, lifecycle.RejectInput{
		ReportID: r.ID, ActorID: e.admin.ID, Reason: "duplicate of an existing report",
	})
	if err != nil {
		t.Fatalf("RejectReport() error: %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Errorf("status: got %q, want rejected", rejected.Status)
	}
	if rejected.AdminNotes != "duplicate of an existing report" {
		t.Errorf("admin notes: got %q", rejected.AdminNotes)
	}

	entries, err := historystore.New(e.db).ListByReport(ctx, r.ID)
	if err != nil {
		t.Fatalf("ListByReport() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejection wrote %d ledger entries, want 0", len(entries))
	}

	// Terminal: nothing moves a rejected report.
	var itErr *lifecycle.InvalidTransitionError
	_, err = e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
		ReportID: r.ID, ActorID: e.admin.ID,
		DepartmentID: e.dept.ID, Priority: models.PriorityLow,
	})
	if !errors.As(err, &itErr) {
		t.Errorf("approve after reject: got %v, want InvalidTransitionError", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)

	var vErr *lifecycle.ValidationError
	_, err := e.engine.RejectReport(ctx, lifecycle.RejectInput{
		ReportID: r.ID, ActorID: e.admin.ID, Reason: "   ",
	})
	if !errors.As(err, &vErr) {
		t.Errorf("empty reason: got %v, want ValidationError", err)
	}
}

func TestAssignWorkerMarksBusyAndWritesLedger(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)
	e.approve(t, ctx, r.ID)

	assigned := e.assign(t, ctx, r.ID)
	if assigned.Status != models.StatusAssigned {
		t.Errorf("status: got %q, want assigned", assigned.Status)
	}
	if assigned.AssignedWorkerID == nil || *assigned.AssignedWorkerID != e.worker.ID {
		t.Error("assignment did not bind the worker")
	}

	users := userstore.New(e.db)
	w, err := users.GetByID(ctx, e.worker.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if w.WorkerStatus != models.WorkerBusy {
		t.Errorf("worker status: got %q, want busy", w.WorkerStatus)
	}

	entries, _ := historystore.New(e.db).ListByReport(ctx, r.ID)
	if len(entries) != 2 {
		t.Fatalf("ledger entries: got %d, want 2", len(entries))
	}
	if entries[0].Action != models.ActionWorkerAssigned {
		t.Errorf("latest ledger action: got %q", entries[0].Action)
	}
	if entries[0].NewWorker == nil || *entries[0].NewWorker != e.worker.ID {
		t.Error("ledger entry did not record the worker")
	}
}

func TestReassignBusyWorkerAllowed(t *testing.T) {
	e, ctx := newEnv(t)
	first := e.submit(t, ctx)
	second := e.submit(t, ctx)
	e.approve(t, ctx, first.ID)
	e.approve(t, ctx, second.ID)

	e.assign(t, ctx, first.ID)
	// Worker is now busy; assigning a second report must still succeed.
	assigned := e.assign(t, ctx, second.ID)
	if assigned.AssignedWorkerID == nil || *assigned.AssignedWorkerID != e.worker.ID {
		t.Error("busy worker could not take a second assignment")
	}

	// Reassignment of an already assigned report is also legal.
	other := e.f.CreateWorker(ctx, "Wendy Worker", "wendy@example.com", e.dept.ID)
	re, err := e.engine.AssignWorker(ctx, lifecycle.AssignInput{
		ReportID: first.ID, ActorID: e.admin.ID, WorkerID: other.ID,
	})
	if err != nil {
		t.Fatalf("reassign error: %v", err)
	}
	if re.AssignedWorkerID == nil || *re.AssignedWorkerID != other.ID {
		t.Error("reassignment did not replace the worker")
	}
}

func TestAssignRejectsNonWorkerAndPending(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)

	var vErr *lifecycle.ValidationError
	_, err := e.engine.AssignWorker(ctx, lifecycle.AssignInput{
		ReportID: r.ID, ActorID: e.admin.ID, WorkerID: e.citizen.ID,
	})
	if !errors.As(err, &vErr) {
		t.Errorf("assigning a citizen: got %v, want ValidationError", err)
	}

	var itErr *lifecycle.InvalidTransitionError
	_, err = e.engine.AssignWorker(ctx, lifecycle.AssignInput{
		ReportID: r.ID, ActorID: e.admin.ID, WorkerID: e.worker.ID,
	})
	if !errors.As(err, &itErr) {
		t.Errorf("assigning a pending report: got %v, want InvalidTransitionError", err)
	}
}

func TestStartTaskOnlyAssignedWorker(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)
	e.approve(t, ctx, r.ID)
	e.assign(t, ctx, r.ID)

	intruder := e.f.CreateWorker(ctx, "Ivy Intruder", "ivy@example.com", e.dept.ID)

	var uErr *lifecycle.UnauthorizedError
	_, err := e.engine.StartTask(ctx, r.ID, intruder.ID)
	if !errors.As(err, &uErr) {
		t.Errorf("wrong worker StartTask(): got %v, want UnauthorizedError", err)
	}

	started, err := e.engine.StartTask(ctx, r.ID, e.worker.ID)
	if err != nil {
		t.Fatalf("StartTask() error: %v", err)
	}
	if started.Status != models.StatusInProgress {
		t.Errorf("status: got %q, want in-progress", started.Status)
	}

	// Starting twice fails: no longer assigned.
	var itErr *lifecycle.InvalidTransitionError
	_, err = e.engine.StartTask(ctx, r.ID, e.worker.ID)
	if !errors.As(err, &itErr) {
		t.Errorf("second StartTask(): got %v, want InvalidTransitionError", err)
	}
}

func TestCompleteTaskAwardsPointsAndFreesWorker(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)

	if _, err := e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
		ReportID: r.ID, ActorID: e.admin.ID,
		DepartmentID: e.dept.ID, Priority: models.PriorityHigh,
		BonusPoints: 7,
	}); err != nil {
		t.Fatalf("ApproveReport() error: %v", err)
	}
	e.assign(t, ctx, r.ID)
	if _, err := e.engine.StartTask(ctx, r.ID, e.worker.ID); err != nil {
		t.Fatalf("StartTask() error: %v", err)
	}

	done, err := e.engine.CompleteTask(ctx, lifecycle.CompleteInput{
		ReportID: r.ID, ActorID: e.worker.ID, WorkerNotes: "patched and sealed",
	})
	if err != nil {
		t.Fatalf("CompleteTask() error: %v", err)
	}
	if done.Status != models.StatusCompleted {
		t.Errorf("status: got %q, want completed", done.Status)
	}
	if done.CompletedAt == nil {
		t.Error("completion did not stamp CompletedAt")
	}
	if done.WorkerNotes != "patched and sealed" {
		t.Errorf("worker notes: got %q", done.WorkerNotes)
	}

	users := userstore.New(e.db)
	citizen, _ := users.GetByID(ctx, e.citizen.ID)
	wantPoints := models.DefaultReportPoints + 7
	if citizen.Points != wantPoints {
		t.Errorf("citizen points: got %d, want %d", citizen.Points, wantPoints)
	}
	w, _ := users.GetByID(ctx, e.worker.ID)
	if w.WorkerStatus != models.WorkerAvailable {
		t.Errorf("worker status after completion: got %q, want available", w.WorkerStatus)
	}

	entries, _ := historystore.New(e.db).ListByReport(ctx, r.ID)
	if len(entries) != 4 {
		t.Fatalf("ledger entries: got %d, want 4", len(entries))
	}
	if entries[0].Action != models.ActionCompleted {
		t.Errorf("latest ledger action: got %q", entries[0].Action)
	}
}

func TestCompleteTaskGuards(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)
	e.approve(t, ctx, r.ID)
	e.assign(t, ctx, r.ID)

	// Not yet started.
	var itErr *lifecycle.InvalidTransitionError
	_, err := e.engine.CompleteTask(ctx, lifecycle.CompleteInput{
		ReportID: r.ID, ActorID: e.worker.ID,
	})
	if !errors.As(err, &itErr) {
		t.Errorf("completing an assigned report: got %v, want InvalidTransitionError", err)
	}

	if _, err := e.engine.StartTask(ctx, r.ID, e.worker.ID); err != nil {
		t.Fatalf("StartTask() error: %v", err)
	}

	var uErr *lifecycle.UnauthorizedError
	_, err = e.engine.CompleteTask(ctx, lifecycle.CompleteInput{
		ReportID: r.ID, ActorID: e.admin.ID,
	})
	if !errors.As(err, &uErr) {
		t.Errorf("admin CompleteTask(): got %v, want UnauthorizedError", err)
	}
}

func TestBadgeProgressionAcrossCompletions(t *testing.T) {
	e, ctx := newEnv(t)

	runOne := func(bonus int) {
		t.Helper()
		r := e.submit(t, ctx)
		if _, err := e.engine.ApproveReport(ctx, lifecycle.ApproveInput{
			ReportID: r.ID, ActorID: e.admin.ID,
			DepartmentID: e.dept.ID, Priority: models.PriorityMedium,
			BonusPoints: bonus,
		}); err != nil {
			t.Fatalf("ApproveReport() error: %v", err)
		}
		e.assign(t, ctx, r.ID)
		if _, err := e.engine.StartTask(ctx, r.ID, e.worker.ID); err != nil {
			t.Fatalf("StartTask() error: %v", err)
		}
		if _, err := e.engine.CompleteTask(ctx, lifecycle.CompleteInput{
			ReportID: r.ID, ActorID: e.worker.ID,
		}); err != nil {
			t.Fatalf("CompleteTask() error: %v", err)
		}
	}

	users := userstore.New(e.db)

	runOne(97) // 3 + 97 = 100
	citizen, _ := users.GetByID(ctx, e.citizen.ID)
	if citizen.Points != 100 || citizen.Badge != "bronze" {
		t.Errorf("after first completion: points=%d badge=%q, want 100/bronze", citizen.Points, citizen.Badge)
	}

	runOne(197) // 100 + 3 + 197 = 300
	citizen, _ = users.GetByID(ctx, e.citizen.ID)
	if citizen.Points != 300 || citizen.Badge != "gold" {
		t.Errorf("after second completion: points=%d badge=%q, want 300/gold", citizen.Points, citizen.Badge)
	}
}

func TestHistoryRequiresExistingReport(t *testing.T) {
	e, ctx := newEnv(t)

	var nfErr *lifecycle.NotFoundError
	_, err := e.engine.History(ctx, primitive.NewObjectID())
	if !errors.As(err, &nfErr) {
		t.Errorf("History() missing report: got %v, want NotFoundError", err)
	}

	r := e.submit(t, ctx)
	entries, err := e.engine.History(ctx, r.ID)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("pending report ledger: got %d entries, want 0", len(entries))
	}
}

func TestStartTaskRefusesAfterReassignment(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)
	e.approve(t, ctx, r.ID)
	e.assign(t, ctx, r.ID)

	// Reassignment leaves the status at assigned, so a status-only check
	// would still let the first worker through.
	other := e.f.CreateWorker(ctx, "Wendy Worker", "wendy@example.com", e.dept.ID)
	if _, err := e.engine.AssignWorker(ctx, lifecycle.AssignInput{
		ReportID: r.ID, ActorID: e.admin.ID, WorkerID: other.ID,
	}); err != nil {
		t.Fatalf("reassign error: %v", err)
	}

	var uErr *lifecycle.UnauthorizedError
	_, err := e.engine.StartTask(ctx, r.ID, e.worker.ID)
	if !errors.As(err, &uErr) {
		t.Fatalf("unassigned worker StartTask(): got %v, want UnauthorizedError", err)
	}

	started, err := e.engine.StartTask(ctx, r.ID, other.ID)
	if err != nil {
		t.Fatalf("StartTask() error: %v", err)
	}
	if started.Status != models.StatusInProgress {
		t.Errorf("status: got %q, want in-progress", started.Status)
	}

	_, err = e.engine.CompleteTask(ctx, lifecycle.CompleteInput{
		ReportID: r.ID, ActorID: e.worker.ID,
	})
	if !errors.As(err, &uErr) {
		t.Errorf("unassigned worker CompleteTask(): got %v, want UnauthorizedError", err)
	}
}

func TestReassignLedgerRecordsAssignedOldStatus(t *testing.T) {
	e, ctx := newEnv(t)
	r := e.submit(t, ctx)
	e.approve(t, ctx, r.ID)
	e.assign(t, ctx, r.ID)

	other := e.f.CreateWorker(ctx, "Wendy Worker", "wendy@example.com", e.dept.ID)
	if _, err := e.engine.AssignWorker(ctx, lifecycle.AssignInput{
		ReportID: r.ID, ActorID: e.admin.ID, WorkerID: other.ID,
	}); err != nil {
		t.Fatalf("reassign error: %v", err)
	}

	entries, err := historystore.New(e.db).ListByReport(ctx, r.ID)
	if err != nil {
		t.Fatalf("ListByReport() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("ledger entries: got %d, want 3", len(entries))
	}
	reassign := entries[0]
	if reassign.OldStatus != models.StatusAssigned || reassign.NewStatus != models.StatusAssigned {
		t.Errorf("reassign ledger statuses: old=%q new=%q, want assigned/assigned",
			reassign.OldStatus, reassign.NewStatus)
	}
	if reassign.NewWorker == nil || *reassign.NewWorker != other.ID {
		t.Error("reassign ledger entry did not record the new worker")
	}
}
