// Package lifecycle implements the report state machine: who may move a
// report between statuses, what each accepted transition records in the
// history ledger, and what side effects (worker availability, citizen
// points) ride along with it.
package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	departmentstore "github.com/civicpulse/civicpulse/internal/app/store/departments"
	historystore "github.com/civicpulse/civicpulse/internal/app/store/history"
	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	"github.com/civicpulse/civicpulse/internal/app/system/deptrouter"
	"github.com/civicpulse/civicpulse/internal/app/system/geocode"
	"github.com/civicpulse/civicpulse/internal/app/system/txn"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Engine executes lifecycle commands. All writes that span multiple
// documents go through txn.Run; the report store's compare-and-set status
// filters keep racing commands from both winning even without transactions.
type Engine struct {
	client  *mongo.Client
	reports *reportstore.Store
	users   *userstore.Store
	depts   *departmentstore.Store
	history *historystore.Store
	router  *deptrouter.Router
	log     *zap.Logger
}

// New builds an Engine over the given database. client may be nil in
// tests; multi-document writes then apply sequentially.
func New(db *mongo.Database, client *mongo.Client, router *deptrouter.Router, logger *zap.Logger) *Engine {
	return &Engine{
		client:  client,
		reports: reportstore.New(db),
		users:   userstore.New(db),
		depts:   departmentstore.New(db),
		history: historystore.New(db),
		router:  router,
		log:     logger,
	}
}

// CreateReportInput carries a citizen's new report submission.
type CreateReportInput struct {
	UserID       primitive.ObjectID
	Category     string
	Description  string
	LocationText string
	City         string
	State        string
	Country      string
	Latitude     float64
	Longitude    float64
	ImageURL     string
	VideoURL     string
}

// CreateReport validates and stores a new report in pending status, stamps
// the advisory department suggestion, and bumps the citizen's submission
// counter.
func (e *Engine) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if in.UserID.IsZero() {
		return nil, &UnauthorizedError{Msg: "a signed-in citizen is required to submit a report"}
	}
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if in.Category == "" {
		return nil, &ValidationError{Msg: "category is required"}
	}
	if in.Description == "" {
		return nil, &ValidationError{Msg: "description is required"}
	}
	if (in.Latitude != 0 || in.Longitude != 0) && !geocode.ValidCoordinates(in.Latitude, in.Longitude) {
		return nil, &ValidationError{Msg: "latitude/longitude out of range"}
	}

	report := models.Report{
		UserID:       in.UserID,
		Category:     in.Category,
		Description:  in.Description,
		LocationText: strings.TrimSpace(in.LocationText),
		City:         in.City,
		State:        in.State,
		Country:      in.Country,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		ImageURL:     in.ImageURL,
		VideoURL:     in.VideoURL,
	}

	if e.router != nil {
		suggestion, err := e.router.Suggest(ctx, in.Category)
		if err != nil {
			// A routing failure never blocks submission.
			e.log.Warn("department suggestion failed", zap.Error(err))
		} else {
			id := suggestion.DepartmentID
			report.SuggestedDepartmentID = &id
		}
	}

	created, err := e.reports.Create(ctx, report)
	if err != nil {
		return nil, err
	}
	if err := e.users.IncReportsSubmitted(ctx, in.UserID); err != nil {
		e.log.Warn("failed to bump reports_submitted",
			zap.String("user_id", in.UserID.Hex()), zap.Error(err))
	}
	return &created, nil
}

// ApproveInput carries an admin's approval decision.
type ApproveInput struct {
	ReportID     primitive.ObjectID
	ActorID      primitive.ObjectID
	DepartmentID primitive.ObjectID
	Priority     string
	AdminNotes   string
	BonusPoints  int
}

// ApproveReport moves a pending report to approved, binding the department
// and priority the admin chose, and appends the ledger entry.
func (e *Engine) ApproveReport(ctx context.Context, in ApproveInput) (*models.Report, error) {
	if in.ActorID.IsZero() {
		return nil, &UnauthorizedError{Msg: "an admin actor is required to approve"}
	}
	if in.DepartmentID.IsZero() {
		return nil, &ValidationError{Msg: "department_id is required"}
	}
	switch in.Priority {
	case models.PriorityUrgent, models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
	default:
		return nil, &ValidationError{Msg: `priority must be "urgent"|"high"|"medium"|"low"`}
	}
	if in.BonusPoints < 0 {
		return nil, &ValidationError{Msg: "bonus_points cannot be negative"}
	}

	if _, err := e.depts.GetByID(ctx, in.DepartmentID); err != nil {
		if errors.Is(err, departmentstore.ErrNotFound) {
			return nil, &NotFoundError{Kind: "department", ID: in.DepartmentID.Hex()}
		}
		return nil, err
	}

	var updated *models.Report
	err := txn.Run(ctx, e.client, e.log, func(ctx context.Context) error {
		set := bson.M{
			"status":        models.StatusApproved,
			"department_id": in.DepartmentID,
			"priority":      in.Priority,
			"approved_at":   time.Now().UTC(),
		}
		if in.AdminNotes != "" {
			set["admin_notes"] = in.AdminNotes
		}
		if in.BonusPoints > 0 {
			set["bonus_points"] = in.BonusPoints
		}

		pre, r, err := e.transition(ctx, in.ReportID, []string{models.StatusPending}, nil, models.StatusApproved, set)
		if err != nil {
			return err
		}

		deptID := in.DepartmentID
		if _, err := e.history.Append(ctx, models.ReportHistory{
			ReportID:  r.ID,
			ChangedBy: in.ActorID,
			OldStatus: pre.Status,
			NewStatus: models.StatusApproved,
			Action:    models.ActionApproved,
			Notes:     in.AdminNotes,
			NewDeptID: &deptID,
		}); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("report approved",
		zap.String("report_id", in.ReportID.Hex()),
		zap.String("department_id", in.DepartmentID.Hex()),
		zap.String("priority", in.Priority))
	return updated, nil
}

// RejectInput carries an admin's rejection.
type RejectInput struct {
	ReportID primitive.ObjectID
	ActorID  primitive.ObjectID
	Reason   string
}

// RejectReport moves a pending report to rejected, storing the reason in
// admin notes. Rejection is terminal and deliberately writes no ledger
// entry; the ledger records progress, not refusals.
func (e *Engine) RejectReport(ctx context.Context, in RejectInput) (*models.Report, error) {
	if in.ActorID.IsZero() {
		return nil, &UnauthorizedError{Msg: "an admin actor is required to reject"}
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		return nil, &ValidationError{Msg: "a rejection reason is required"}
	}

	_, r, err := e.transition(ctx, in.ReportID, []string{models.StatusPending}, nil, models.StatusRejected, bson.M{
		"status":      models.StatusRejected,
		"admin_notes": in.Reason,
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("report rejected", zap.String("report_id", in.ReportID.Hex()))
	return r, nil
}

// AssignInput carries a worker assignment.
type AssignInput struct {
	ReportID primitive.ObjectID
	ActorID  primitive.ObjectID
	WorkerID primitive.ObjectID
	Notes    string
}

// AssignWorker assigns (or reassigns) a worker to an approved report. The
// worker is marked busy; busy workers remain assignable.
func (e *Engine) AssignWorker(ctx context.Context, in AssignInput) (*models.Report, error) {
	if in.ActorID.IsZero() {
		return nil, &UnauthorizedError{Msg: "an actor is required to assign"}
	}

	worker, err := e.users.GetWorkerByID(ctx, in.WorkerID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, &ValidationError{Msg: "assignee is not a worker"}
		}
		return nil, err
	}

	var updated *models.Report
	err = txn.Run(ctx, e.client, e.log, func(ctx context.Context) error {
		allowed := []string{models.StatusApproved, models.StatusAssigned}
		set := bson.M{
			"status":             models.StatusAssigned,
			"assigned_worker_id": worker.ID,
		}
		if in.Notes != "" {
			set["department_notes"] = in.Notes
		}

		pre, r, err := e.transition(ctx, in.ReportID, allowed, nil, models.StatusAssigned, set)
		if err != nil {
			return err
		}

		if err := e.users.SetWorkerStatus(ctx, worker.ID, models.WorkerBusy); err != nil {
			return err
		}

		workerID := worker.ID
		if _, err := e.history.Append(ctx, models.ReportHistory{
			ReportID:  r.ID,
			ChangedBy: in.ActorID,
			OldStatus: pre.Status,
			NewStatus: models.StatusAssigned,
			Action:    models.ActionWorkerAssigned,
			Notes:     in.Notes,
			NewWorker: &workerID,
		}); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("worker assigned",
		zap.String("report_id", in.ReportID.Hex()),
		zap.String("worker_id", worker.ID.Hex()))
	return updated, nil
}

// StartTask moves an assigned report to in-progress. Only the assigned
// worker may start it.
func (e *Engine) StartTask(ctx context.Context, reportID, actorID primitive.ObjectID) (*models.Report, error) {
	if actorID.IsZero() {
		return nil, &UnauthorizedError{Msg: "an actor is required to start a task"}
	}

	var updated *models.Report
	err := txn.Run(ctx, e.client, e.log, func(ctx context.Context) error {
		// The worker guard rides on the CAS filter so a concurrent
		// reassignment cannot slip between the check and the write.
		guard := bson.M{"assigned_worker_id": actorID}
		pre, r, err := e.transition(ctx, reportID, []string{models.StatusAssigned}, guard, models.StatusInProgress, bson.M{
			"status": models.StatusInProgress,
		})
		if err != nil {
			return err
		}

		if _, err := e.history.Append(ctx, models.ReportHistory{
			ReportID:  r.ID,
			ChangedBy: actorID,
			OldStatus: pre.Status,
			NewStatus: models.StatusInProgress,
			Action:    models.ActionStarted,
		}); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("task started", zap.String("report_id", reportID.Hex()))
	return updated, nil
}

// CompleteInput carries a worker's completion.
type CompleteInput struct {
	ReportID    primitive.ObjectID
	ActorID     primitive.ObjectID
	WorkerNotes string
}

// CompleteTask moves an in-progress report to completed: the worker
// becomes available again and the submitting citizen is awarded the
// report's points plus any bonus, with their badge recomputed in the same
// write.
func (e *Engine) CompleteTask(ctx context.Context, in CompleteInput) (*models.Report, error) {
	if in.ActorID.IsZero() {
		return nil, &UnauthorizedError{Msg: "an actor is required to complete a task"}
	}

	var updated *models.Report
	err := txn.Run(ctx, e.client, e.log, func(ctx context.Context) error {
		set := bson.M{
			"status":       models.StatusCompleted,
			"completed_at": time.Now().UTC(),
		}
		if in.WorkerNotes != "" {
			set["worker_notes"] = in.WorkerNotes
		}

		guard := bson.M{"assigned_worker_id": in.ActorID}
		pre, r, err := e.transition(ctx, in.ReportID, []string{models.StatusInProgress}, guard, models.StatusCompleted, set)
		if err != nil {
			return err
		}

		if err := e.users.SetWorkerStatus(ctx, in.ActorID, models.WorkerAvailable); err != nil {
			return err
		}

		award := r.Points + r.BonusPoints
		citizen, err := e.users.AwardPoints(ctx, r.UserID, award)
		if err != nil {
			return err
		}

		if _, err := e.history.Append(ctx, models.ReportHistory{
			ReportID:  r.ID,
			ChangedBy: in.ActorID,
			OldStatus: pre.Status,
			NewStatus: models.StatusCompleted,
			Action:    models.ActionCompleted,
			Notes:     in.WorkerNotes,
		}); err != nil {
			return err
		}

		e.log.Info("task completed",
			zap.String("report_id", r.ID.Hex()),
			zap.Int("points_awarded", award),
			zap.String("citizen_badge", citizen.Badge))
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// History returns a report's transition ledger, newest first.
func (e *Engine) History(ctx context.Context, reportID primitive.ObjectID) ([]models.ReportHistory, error) {
	if _, err := e.reports.GetByID(ctx, reportID); err != nil {
		return nil, e.mapReportErr(ctx, reportID, "", err)
	}
	return e.history.ListByReport(ctx, reportID)
}

// transition wraps the store CAS and converts its sentinels into the
// engine's typed errors. The pre-image it returns is the document the CAS
// replaced, so ledger rows never record a stale status.
func (e *Engine) transition(ctx context.Context, id primitive.ObjectID, allowedFrom []string, guard bson.M, to string, set bson.M) (before, after *models.Report, err error) {
	pre, post, err := e.reports.Transition(ctx, id, allowedFrom, guard, set)
	if err != nil {
		return nil, nil, e.mapReportErr(ctx, id, to, err)
	}
	return pre, post, nil
}

func (e *Engine) mapReportErr(ctx context.Context, id primitive.ObjectID, to string, err error) error {
	switch {
	case errors.Is(err, reportstore.ErrNotFound):
		return &NotFoundError{Kind: "report", ID: id.Hex()}
	case errors.Is(err, reportstore.ErrWorkerConflict):
		return &UnauthorizedError{Msg: "only the assigned worker can update this task"}
	case errors.Is(err, reportstore.ErrStatusConflict):
		from := "unknown"
		if current, gerr := e.reports.GetByID(ctx, id); gerr == nil {
			from = current.Status
		}
		return &InvalidTransitionError{From: from, To: to}
	default:
		return err
	}
}
