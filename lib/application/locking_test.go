package application

import (
	"sync"
	"testing"

	applicationstore "sabbatical-backend/lib/application/store"
	approvaltaskstore "sabbatical-backend/lib/approval-task/store"
	"sabbatical-backend/lib/notification"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
	applicationapimodels "sabbatical-backend/models/api/application"
	dbmodels "sabbatical-backend/models/db"

	"github.com/stretchr/testify/require"
)

// journal records the store calls made inside transactions.
type journal struct {
	mu  sync.Mutex
	ops []string
}

func (j *journal) add(op string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ops = append(j.ops, op)
}

func (j *journal) take() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	ops := j.ops
	j.ops = nil
	return ops
}

type journaledUnitOfWork struct {
	unitofwork.Provider
	journal *journal
}

func (u journaledUnitOfWork) Transaction(fn func(stores unitofwork.Stores) error) error {
	return u.Provider.Transaction(func(stores unitofwork.Stores) error {
		stores.Applications = journaledApplications{Provider: stores.Applications, journal: u.journal}
		stores.Approvals = journaledApprovals{Provider: stores.Approvals, journal: u.journal}
		return fn(stores)
	})
}

type journaledApplications struct {
	applicationstore.Provider
	journal *journal
}

func (a journaledApplications) GetByID(id string) (*dbmodels.Application, error) {
	a.journal.add("read")
	return a.Provider.GetByID(id)
}

func (a journaledApplications) GetByIDForUpdate(id string) (*dbmodels.Application, error) {
	a.journal.add("lock")
	return a.Provider.GetByIDForUpdate(id)
}

func (a journaledApplications) Transition(id string, expected models.ApplicationStatus, patch applicationstore.Patch) (bool, error) {
	a.journal.add("transition")
	return a.Provider.Transition(id, expected, patch)
}

type journaledApprovals struct {
	approvaltaskstore.Provider
	journal *journal
}

func (a journaledApprovals) Decide(applicationID, id string, st models.ApprovalState, comment string) (bool, error) {
	a.journal.add("decide")
	return a.Provider.Decide(applicationID, id, st, comment)
}

func (a journaledApprovals) List(applicationID string) ([]dbmodels.ApprovalTask, error) {
	a.journal.add("list")
	return a.Provider.List(applicationID)
}

func requireLockedFirst(t *testing.T, ops []string) {
	t.Helper()
	require.NotEmpty(t, ops)
	require.Equal(t, "lock", ops[0], ops)
	require.NotContains(t, ops, "read", ops)
}

func TestTransitionsLockTheApplication(t *testing.T) {
	f := newFixture()
	j := &journal{}
	f.handler.uow = journaledUnitOfWork{Provider: f.db, journal: j}

	app := f.submit(t, jane, "2026-01-05")
	j.take()

	_, err := f.handler.Review(talent, app.ID, applicationapimodels.ReviewRequest{Decision: models.DecisionApproved})
	require.NoError(t, err)
	requireLockedFirst(t, j.take())

	_, err = f.handler.SubmitPlan(jane, app.ID, applicationapimodels.PlanRequest{PlanDetails: "Bob covers my classes"})
	require.NoError(t, err)
	requireLockedFirst(t, j.take())

	tasks := f.tasks(t, app.ID)
	_, err = f.handler.DecideTask(sam, app.ID, tasks[0].ID, applicationapimodels.TaskRequestChanges, applicationapimodels.TaskActionRequest{Comment: "who covers grading?"})
	require.NoError(t, err)
	requireLockedFirst(t, j.take())

	_, err = f.handler.ResubmitPlan(jane, app.ID, applicationapimodels.ResubmitPlanRequest{PlanDetails: "Bob covers grading too"})
	require.NoError(t, err)
	requireLockedFirst(t, j.take())

	approvers := []models.Actor{sam, talent, hr}
	for idx, task := range tasks {
		_, err = f.handler.DecideTask(approvers[idx], app.ID, task.ID, applicationapimodels.TaskApprove, applicationapimodels.TaskActionRequest{})
		require.NoError(t, err)
		ops := j.take()
		requireLockedFirst(t, ops)
		if idx == len(tasks)-1 {
			// the sibling approvals are listed while the application row is held
			require.Equal(t, []string{"lock", "decide", "list", "transition"}, ops)
		}
	}
	require.Equal(t, models.StatusApproved, f.status(t, app.ID))

	other := f.submit(t, carl, "2026-09-01")
	j.take()
	_, err = f.handler.Withdraw(carl, other.ID, applicationapimodels.WithdrawRequest{})
	require.NoError(t, err)
	requireLockedFirst(t, j.take())

	require.NoError(t, f.handler.Delete(admin, other.ID))
	requireLockedFirst(t, j.take())
}

func TestConcurrentFinalApprovalsSignOff(t *testing.T) {
	f := newFixture()
	id := f.toPlanSubmitted(t, jane, "2026-01-05")
	tasks := f.tasks(t, id)
	_, err := f.handler.DecideTask(sam, id, tasks[0].ID, applicationapimodels.TaskApprove, applicationapimodels.TaskActionRequest{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for n, approver := range []models.Actor{talent, hr} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[n] = f.handler.DecideTask(approver, id, tasks[n+1].ID, applicationapimodels.TaskApprove, applicationapimodels.TaskActionRequest{})
		}()
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	require.Equal(t, models.StatusApproved, f.status(t, id))
	history, err := f.db.Stores().History.List(id)
	require.NoError(t, err)
	signOffs := 0
	for _, entry := range history {
		if entry.Action == dbmodels.HistoryPlanSignedOff {
			signOffs++
		}
	}
	require.Equal(t, 1, signOffs)
	require.Equal(t, 1, f.notifier.count(notification.TplPlanApproved))
}

func TestCreateRejectsSecondActiveApplication(t *testing.T) {
	f := newFixture()
	stores := f.db.Stores()
	rec := dbmodels.Application{EmployeeEmail: "jane@example.org", Status: models.StatusSubmitted}
	_, err := stores.Applications.Create(rec)
	require.NoError(t, err)

	rec.EmployeeEmail = " JANE@example.org"
	_, err = stores.Applications.Create(rec)
	require.ErrorIs(t, err, applicationstore.ErrDuplicateActive)
	err = CreateError(err)
	requireKind(t, err, apperrors.KindConflict)
	require.Equal(t, "You already have an active sabbatical application", apperrors.PublicMessage(err))

	rec.Status = models.StatusWithdrawn
	_, err = stores.Applications.Create(rec)
	require.NoError(t, err)
}
