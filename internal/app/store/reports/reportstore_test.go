package reportstore_test

import (
	"errors"
	"testing"

	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/civicpulse/civicpulse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := reportstore.New(db)

	created, err := store.Create(ctx, models.Report{
		UserID:      primitive.NewObjectID(),
		Category:    "pothole",
		Description: "Deep pothole on Main St",
		// Status deliberately set to something else; Create must override.
		Status: models.StatusApproved,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.Status != models.StatusPending {
		t.Errorf("new report status: got %q, want pending", created.Status)
	}
	if created.Points != models.DefaultReportPoints {
		t.Errorf("new report points: got %d, want %d", created.Points, models.DefaultReportPoints)
	}
}

func TestTransitionCAS(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	citizen := f.CreateCitizen(ctx, "Cindy", "cindy@example.com")
	report := f.CreateReport(ctx, citizen.ID, "pothole", "Deep pothole")

	store := reportstore.New(db)

	before, updated, err := store.Transition(ctx, report.ID,
		[]string{models.StatusPending}, nil,
		bson.M{"status": models.StatusApproved, "priority": models.PriorityHigh})
	if err != nil {
		t.Fatalf("Transition() error: %v", err)
	}
	if before.Status != models.StatusPending {
		t.Errorf("Transition() pre-image status: got %q, want pending", before.Status)
	}
	if updated.Status != models.StatusApproved || updated.Priority != models.PriorityHigh {
		t.Errorf("Transition() result: got status=%q priority=%q", updated.Status, updated.Priority)
	}

	// Second approval must lose the race.
	_, _, err = store.Transition(ctx, report.ID,
		[]string{models.StatusPending}, nil,
		bson.M{"status": models.StatusApproved})
	if !errors.Is(err, reportstore.ErrStatusConflict) {
		t.Errorf("repeat Transition(): got %v, want ErrStatusConflict", err)
	}

	_, _, err = store.Transition(ctx, primitive.NewObjectID(),
		[]string{models.StatusPending}, nil,
		bson.M{"status": models.StatusApproved})
	if !errors.Is(err, reportstore.ErrNotFound) {
		t.Errorf("Transition() missing report: got %v, want ErrNotFound", err)
	}
}

func TestTransitionWorkerGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	citizen := f.CreateCitizen(ctx, "Cindy", "cindy@example.com")
	dept := f.CreateDepartment(ctx, "Roads")
	assigned := f.CreateWorker(ctx, "Walt", "walt@example.com", dept.ID)
	other := f.CreateWorker(ctx, "Olive", "olive@example.com", dept.ID)

	store := reportstore.New(db)
	r := f.CreateReport(ctx, citizen.ID, "pothole", "desc")
	if _, _, err := store.Transition(ctx, r.ID,
		[]string{models.StatusPending}, nil,
		bson.M{"status": models.StatusAssigned, "assigned_worker_id": assigned.ID}); err != nil {
		t.Fatalf("Transition() error: %v", err)
	}

	// A guard naming the wrong worker must miss without touching the doc.
	_, _, err := store.Transition(ctx, r.ID,
		[]string{models.StatusAssigned},
		bson.M{"assigned_worker_id": other.ID},
		bson.M{"status": models.StatusInProgress})
	if !errors.Is(err, reportstore.ErrWorkerConflict) {
		t.Fatalf("guarded Transition() wrong worker: got %v, want ErrWorkerConflict", err)
	}
	current, err := store.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if current.Status != models.StatusAssigned {
		t.Errorf("status after guard miss: got %q, want assigned", current.Status)
	}

	before, updated, err := store.Transition(ctx, r.ID,
		[]string{models.StatusAssigned},
		bson.M{"assigned_worker_id": assigned.ID},
		bson.M{"status": models.StatusInProgress})
	if err != nil {
		t.Fatalf("guarded Transition() error: %v", err)
	}
	if before.Status != models.StatusAssigned || updated.Status != models.StatusInProgress {
		t.Errorf("guarded Transition(): before=%q after=%q", before.Status, updated.Status)
	}
}

func TestQueueOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	citizen := f.CreateCitizen(ctx, "Cindy", "cindy@example.com")
	store := reportstore.New(db)

	mk := func(priority string) models.Report {
		r := f.CreateReport(ctx, citizen.ID, "pothole", "desc")
		if priority != "" {
			_, updated, err := store.Transition(ctx, r.ID,
				[]string{models.StatusPending}, nil,
				bson.M{"status": models.StatusApproved, "priority": priority})
			if err != nil {
				t.Fatalf("Transition() error: %v", err)
			}
			return *updated
		}
		return r
	}

	low := mk(models.PriorityLow)
	urgent := mk(models.PriorityUrgent)
	medium := mk(models.PriorityMedium)
	high := mk(models.PriorityHigh)

	queue, err := store.Queue(ctx, bson.M{"status": models.StatusApproved})
	if err != nil {
		t.Fatalf("Queue() error: %v", err)
	}
	if len(queue) != 4 {
		t.Fatalf("Queue(): got %d reports, want 4", len(queue))
	}

	want := []primitive.ObjectID{urgent.ID, high.ID, medium.ID, low.ID}
	for i, id := range want {
		if queue[i].ID != id {
			t.Errorf("queue[%d]: got priority %q, want id of tier %d", i, queue[i].Priority, i+1)
		}
	}
}

func TestQueueTiesNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	citizen := f.CreateCitizen(ctx, "Cindy", "cindy@example.com")

	older := f.CreateReport(ctx, citizen.ID, "pothole", "first")
	newer := f.CreateReport(ctx, citizen.ID, "pothole", "second")

	store := reportstore.New(db)
	queue, err := store.Queue(ctx, bson.M{"status": models.StatusPending})
	if err != nil {
		t.Fatalf("Queue() error: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("Queue(): got %d reports, want 2", len(queue))
	}
	if queue[0].ID != newer.ID || queue[1].ID != older.ID {
		t.Error("Queue() did not order same-tier reports newest first")
	}
}

func TestListByWorker(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	citizen := f.CreateCitizen(ctx, "Cindy", "cindy@example.com")
	dept := f.CreateDepartment(ctx, "Roads")
	worker := f.CreateWorker(ctx, "Walt", "walt@example.com", dept.ID)

	store := reportstore.New(db)

	r := f.CreateReport(ctx, citizen.ID, "pothole", "desc")
	if _, _, err := store.Transition(ctx, r.ID,
		[]string{models.StatusPending}, nil,
		bson.M{"status": models.StatusAssigned, "assigned_worker_id": worker.ID}); err != nil {
		t.Fatalf("Transition() error: %v", err)
	}
	f.CreateReport(ctx, citizen.ID, "pothole", "unassigned")

	tasks, err := store.ListByWorker(ctx, worker.ID)
	if err != nil {
		t.Fatalf("ListByWorker() error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != r.ID {
		t.Errorf("ListByWorker(): got %d tasks", len(tasks))
	}

	none, err := store.ListByWorker(ctx, worker.ID, models.StatusCompleted)
	if err != nil {
		t.Fatalf("ListByWorker(completed) error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListByWorker(completed): got %d tasks, want 0", len(none))
	}
}

func TestCountByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	citizen := f.CreateCitizen(ctx, "Cindy", "cindy@example.com")
	f.CreateReport(ctx, citizen.ID, "pothole", "one")
	f.CreateReport(ctx, citizen.ID, "pothole", "two")
	f.CreateReportWithStatus(ctx, citizen.ID, "garbage", models.StatusCompleted)

	store := reportstore.New(db)
	counts, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus() error: %v", err)
	}
	if counts[models.StatusPending] != 2 || counts[models.StatusCompleted] != 1 {
		t.Errorf("CountByStatus(): got %v", counts)
	}
}
