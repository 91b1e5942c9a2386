// Package memory keeps every store in process memory. It backs tests and local demos.
package memory

import (
	historystore "sabbatical-backend/lib/application-history/store"
	applicationstore "sabbatical-backend/lib/application/store"
	approvaltaskstore "sabbatical-backend/lib/approval-task/store"
	datechangestore "sabbatical-backend/lib/date-change/store"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type state struct {
	applications map[string]dbmodels.Application
	tasks        map[string]dbmodels.ApprovalTask
	history      []dbmodels.ApprovalHistory
	dateChanges  map[string]dbmodels.DateChangeRequest
}

func (s *state) clone() *state {
	c := &state{
		applications: make(map[string]dbmodels.Application, len(s.applications)),
		tasks:        make(map[string]dbmodels.ApprovalTask, len(s.tasks)),
		history:      slices.Clone(s.history),
		dateChanges:  make(map[string]dbmodels.DateChangeRequest, len(s.dateChanges)),
	}
	for k, v := range s.applications {
		c.applications[k] = v
	}
	for k, v := range s.tasks {
		c.tasks[k] = v
	}
	for k, v := range s.dateChanges {
		c.dateChanges[k] = v
	}
	return c
}

// DB is an in-memory unit of work.
type DB struct {
	mu     sync.Mutex
	data   *state
	fails  map[string]error
	locked []string
}

func New() *DB {
	return &DB{
		data: &state{
			applications: map[string]dbmodels.Application{},
			tasks:        map[string]dbmodels.ApprovalTask{},
			dateChanges:  map[string]dbmodels.DateChangeRequest{},
		},
		fails: map[string]error{},
	}
}

var _ unitofwork.Provider = (*DB)(nil)

// FailOn makes the named operation ("history.create", "applications.transition", ...) return err.
func (d *DB) FailOn(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.fails, op)
		return
	}
	d.fails[op] = err
}

func (d *DB) Stores() unitofwork.Stores {
	return d.stores(false)
}

func (d *DB) Transaction(fn func(stores unitofwork.Stores) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	snapshot := d.data.clone()
	if err := fn(d.stores(true)); err != nil {
		d.data = snapshot
		return err
	}
	return nil
}

func (d *DB) stores(inTx bool) unitofwork.Stores {
	s := &session{db: d, inTx: inTx}
	return unitofwork.Stores{
		Applications: applications{s},
		Approvals:    approvals{s},
		History:      history{s},
		DateChanges:  dateChanges{s},
	}
}

// LockedKeys lists every advisory key taken so far, in the order they were taken.
func (d *DB) LockedKeys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.locked)
}

// Applications returns a copy of every stored application.
func (d *DB) Applications() []dbmodels.Application {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]dbmodels.Application, 0, len(d.data.applications))
	for _, rec := range d.data.applications {
		list = append(list, rec)
	}
	return list
}

type session struct {
	db   *DB
	inTx bool
}

func (s *session) do(op string, fn func(data *state) error) error {
	if !s.inTx {
		s.db.mu.Lock()
		defer s.db.mu.Unlock()
	}
	if err := s.db.fails[op]; err != nil {
		return err
	}
	return fn(s.db.data)
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

type applications struct{ s *session }

var _ applicationstore.Provider = applications{}

func (a applications) Create(rec dbmodels.Application) (id string, err error) {
	err = a.s.do("applications.create", func(data *state) error {
		if rec.Status.IsActive() {
			for _, other := range data.applications {
				if other.Status.IsActive() && dbmodels.SameEmail(other.EmployeeEmail, rec.EmployeeEmail) {
					return applicationstore.ErrDuplicateActive
				}
			}
		}
		rec.ID = newID(rec.ID)
		now := time.Now()
		rec.CreatedAt, rec.UpdatedAt = now, now
		data.applications[rec.ID] = rec
		id = rec.ID
		return nil
	})
	return id, err
}

func (a applications) GetByID(id string) (rec *dbmodels.Application, err error) {
	err = a.s.do("applications.get", func(data *state) error {
		if found, ok := data.applications[id]; ok {
			rec = &found
		}
		return nil
	})
	return rec, err
}

// GetByIDForUpdate needs no row lock here: a transaction already holds the whole store.
func (a applications) GetByIDForUpdate(id string) (rec *dbmodels.Application, err error) {
	err = a.s.do("applications.get_for_update", func(data *state) error {
		if found, ok := data.applications[id]; ok {
			rec = &found
		}
		return nil
	})
	return rec, err
}

func (a applications) LockKeys(keys ...string) error {
	return a.s.do("applications.lock", func(data *state) error {
		a.s.db.locked = append(a.s.db.locked, applicationstore.SortedKeys(keys)...)
		return nil
	})
}

func (a applications) Transition(id string, expected models.ApplicationStatus, patch applicationstore.Patch) (ok bool, err error) {
	err = a.s.do("applications.transition", func(data *state) error {
		rec, found := data.applications[id]
		if !found || rec.Status != expected {
			return nil
		}
		patch.Apply(&rec)
		data.applications[id] = rec
		ok = true
		return nil
	})
	return ok, err
}

func (a applications) Delete(id string) error {
	return a.s.do("applications.delete", func(data *state) error {
		delete(data.applications, id)
		return nil
	})
}

func (a applications) List(filter applicationstore.Filter) (list []dbmodels.Application, rowCount int64, err error) {
	err = a.s.do("applications.list", func(data *state) error {
		list = []dbmodels.Application{}
		for _, rec := range data.applications {
			if filter.Status != nil && rec.Status != *filter.Status {
				continue
			}
			if filter.VisibleEmails != nil && !containsEmail(filter.VisibleEmails, rec.EmployeeEmail) {
				continue
			}
			list = append(list, rec)
		}
		sort.Slice(list, func(i, j int) bool {
			return list[i].SubmittedAt.After(list[j].SubmittedAt)
		})
		rowCount = int64(len(list))
		if filter.Limit > 0 {
			page := max(filter.Page, 1)
			from := min((page-1)*filter.Limit, len(list))
			to := min(from+filter.Limit, len(list))
			list = list[from:to]
		}
		return nil
	})
	return list, rowCount, err
}

func (a applications) ListActiveByEmail(email string) (list []dbmodels.Application, err error) {
	err = a.s.do("applications.list", func(data *state) error {
		list = []dbmodels.Application{}
		for _, rec := range data.applications {
			if rec.Status.IsActive() && dbmodels.SameEmail(rec.EmployeeEmail, email) {
				list = append(list, rec)
			}
		}
		return nil
	})
	return list, err
}

func (a applications) ListActiveBySite(site string) (list []dbmodels.Application, err error) {
	err = a.s.do("applications.list", func(data *state) error {
		list = []dbmodels.Application{}
		for _, rec := range data.applications {
			if rec.Status.IsActive() && strings.EqualFold(strings.TrimSpace(rec.Site), strings.TrimSpace(site)) {
				list = append(list, rec)
			}
		}
		return nil
	})
	return list, err
}

func containsEmail(list []string, email string) bool {
	for _, item := range list {
		if dbmodels.SameEmail(item, email) {
			return true
		}
	}
	return false
}

type approvals struct{ s *session }

var _ approvaltaskstore.Provider = approvals{}

func (a approvals) Create(rec dbmodels.ApprovalTask) (id string, err error) {
	err = a.s.do("approvals.create", func(data *state) error {
		rec.ID = newID(rec.ID)
		now := time.Now()
		rec.CreatedAt, rec.UpdatedAt = now, now
		data.tasks[rec.ID] = rec
		id = rec.ID
		return nil
	})
	return id, err
}

func (a approvals) GetByID(applicationID, id string) (rec *dbmodels.ApprovalTask, err error) {
	err = a.s.do("approvals.get", func(data *state) error {
		if found, ok := data.tasks[id]; ok && found.ApplicationID == applicationID {
			rec = &found
		}
		return nil
	})
	return rec, err
}

func (a approvals) Decide(applicationID, id string, st models.ApprovalState, comment string) (ok bool, err error) {
	err = a.s.do("approvals.decide", func(data *state) error {
		rec, found := data.tasks[id]
		if !found || rec.ApplicationID != applicationID || rec.State != models.AStatePending {
			return nil
		}
		now := time.Now()
		rec.State, rec.Comment, rec.DecidedAt, rec.UpdatedAt = st, comment, &now, now
		data.tasks[id] = rec
		ok = true
		return nil
	})
	return ok, err
}

func (a approvals) ResetAll(applicationID string) error {
	return a.s.do("approvals.reset", func(data *state) error {
		for id, rec := range data.tasks {
			if rec.ApplicationID != applicationID {
				continue
			}
			rec.State, rec.Comment, rec.DecidedAt, rec.UpdatedAt = models.AStatePending, "", nil, time.Now()
			data.tasks[id] = rec
		}
		return nil
	})
}

func (a approvals) DeleteByApplication(applicationID string) error {
	return a.s.do("approvals.delete", func(data *state) error {
		for id, rec := range data.tasks {
			if rec.ApplicationID == applicationID {
				delete(data.tasks, id)
			}
		}
		return nil
	})
}

func (a approvals) List(applicationID string) (list []dbmodels.ApprovalTask, err error) {
	err = a.s.do("approvals.list", func(data *state) error {
		list = []dbmodels.ApprovalTask{}
		for _, rec := range data.tasks {
			if rec.ApplicationID == applicationID {
				list = append(list, rec)
			}
		}
		sort.Slice(list, func(i, j int) bool {
			return list[i].Position < list[j].Position
		})
		return nil
	})
	return list, err
}

func (a approvals) ListPendingByApprover(email string) (list []dbmodels.ApprovalTask, err error) {
	err = a.s.do("approvals.list", func(data *state) error {
		list = []dbmodels.ApprovalTask{}
		for _, rec := range data.tasks {
			if rec.State != models.AStatePending || !rec.IsApprover(email) {
				continue
			}
			if app, ok := data.applications[rec.ApplicationID]; ok && app.Status == models.StatusPlanSubmitted {
				list = append(list, rec)
			}
		}
		sort.Slice(list, func(i, j int) bool {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
		return nil
	})
	return list, err
}

type history struct{ s *session }

var _ historystore.Provider = history{}

func (h history) Create(rec dbmodels.ApprovalHistory) (id string, err error) {
	err = h.s.do("history.create", func(data *state) error {
		rec.ID = newID(rec.ID)
		now := time.Now()
		rec.CreatedAt, rec.UpdatedAt = now, now
		data.history = append(data.history, rec)
		id = rec.ID
		return nil
	})
	return id, err
}

func (h history) List(applicationID string) (list []dbmodels.ApprovalHistory, err error) {
	err = h.s.do("history.list", func(data *state) error {
		list = []dbmodels.ApprovalHistory{}
		for _, rec := range data.history {
			if rec.ApplicationID == applicationID {
				list = append(list, rec)
			}
		}
		return nil
	})
	return list, err
}

type dateChanges struct{ s *session }

var _ datechangestore.Provider = dateChanges{}

func (d dateChanges) Create(rec dbmodels.DateChangeRequest) (id string, err error) {
	err = d.s.do("date_changes.create", func(data *state) error {
		rec.ID = newID(rec.ID)
		now := time.Now()
		rec.CreatedAt, rec.UpdatedAt = now, now
		data.dateChanges[rec.ID] = rec
		id = rec.ID
		return nil
	})
	return id, err
}

func (d dateChanges) GetByID(applicationID, id string) (rec *dbmodels.DateChangeRequest, err error) {
	err = d.s.do("date_changes.get", func(data *state) error {
		if found, ok := data.dateChanges[id]; ok && found.ApplicationID == applicationID {
			rec = &found
		}
		return nil
	})
	return rec, err
}

func (d dateChanges) GetPending(applicationID string) (rec *dbmodels.DateChangeRequest, err error) {
	err = d.s.do("date_changes.get", func(data *state) error {
		for _, found := range data.dateChanges {
			if found.ApplicationID == applicationID && found.State == models.DCStatePending {
				rec = &found
				return nil
			}
		}
		return nil
	})
	return rec, err
}

func (d dateChanges) Resolve(applicationID, id string, st models.DateChangeState, reviewer, notes string) (ok bool, err error) {
	err = d.s.do("date_changes.resolve", func(data *state) error {
		rec, found := data.dateChanges[id]
		if !found || rec.ApplicationID != applicationID || rec.State != models.DCStatePending {
			return nil
		}
		now := time.Now()
		rec.State, rec.ReviewerEmail, rec.ReviewNotes, rec.ReviewedAt = st, &reviewer, &notes, &now
		data.dateChanges[id] = rec
		ok = true
		return nil
	})
	return ok, err
}

func (d dateChanges) List(applicationID string) (list []dbmodels.DateChangeRequest, err error) {
	err = d.s.do("date_changes.list", func(data *state) error {
		list = []dbmodels.DateChangeRequest{}
		for _, rec := range data.dateChanges {
			if rec.ApplicationID == applicationID {
				list = append(list, rec)
			}
		}
		sort.Slice(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
		return nil
	})
	return list, err
}

func (d dateChanges) DeleteByApplication(applicationID string) error {
	return d.s.do("date_changes.delete", func(data *state) error {
		for id, rec := range data.dateChanges {
			if rec.ApplicationID == applicationID {
				delete(data.dateChanges, id)
			}
		}
		return nil
	})
}
