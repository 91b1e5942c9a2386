package staffdirectory

import (
	"sabbatical-backend/config"
	"sabbatical-backend/db"
	staffstore "sabbatical-backend/lib/staff-directory/store"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/lib/utils/canonical"
	dbmodels "sabbatical-backend/models/db"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Lookup(email string) (*Employee, error)
	Supervisors(email string, depth int) ([]Employee, error)
	DirectReports(email string) ([]Employee, error)
	HasDirectReports(email string) (bool, error)
	Invalidate()
}

var Instance Provider

type Employee struct {
	Email           string     `json:"email"`
	EmployeeNumber  string     `json:"name_key"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	FullName        string     `json:"full_name"`
	HireDate        *time.Time `json:"hire_date"`
	JobTitle        string     `json:"job_title"`
	Department      string     `json:"department"`
	Site            string     `json:"site"`
	SupervisorName  string     `json:"supervisor_name"`
	SupervisorEmail string     `json:"supervisor_email"`
}

func NewHandler() {
	ttl := time.Duration(config.Conf.Directory.CacheTTLSec) * time.Second
	Instance = NewInstance(staffstore.NewInstance(db.DB, config.Conf.Directory.Table), ttl)
}

func NewInstance(store staffstore.Provider, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &impl{
		store: store,
		cache: cache.New(ttl, 2*ttl),
	}
}

type impl struct {
	store staffstore.Provider
	cache *cache.Cache
}

const snapshotKey = "staff"

type snapshot struct {
	list    []Employee
	byEmail map[string]int
	byName  map[string][]int
}

func (i *impl) load() (*snapshot, error) {
	if x, found := i.cache.Get(snapshotKey); found {
		return x.(*snapshot), nil
	}
	records, err := i.store.LoadAll()
	if err != nil {
		log.WithError(err).Error("failed to load staff directory")
		return nil, apperrors.Unavailable(err, "load staff directory")
	}
	snap := &snapshot{
		list:    make([]Employee, 0, len(records)),
		byEmail: map[string]int{},
		byName:  map[string][]int{},
	}
	for _, rec := range records {
		emp := fromRecord(rec)
		if emp.Email == "" {
			continue
		}
		idx := len(snap.list)
		snap.list = append(snap.list, emp)
		snap.byEmail[key(emp.Email)] = idx
		if emp.FullName != "" {
			snap.byName[key(emp.FullName)] = append(snap.byName[key(emp.FullName)], idx)
		}
	}
	i.cache.Set(snapshotKey, snap, cache.DefaultExpiration)
	return snap, nil
}

func (i *impl) Invalidate() {
	i.cache.Delete(snapshotKey)
}

func (i *impl) Lookup(email string) (*Employee, error) {
	snap, err := i.load()
	if err != nil {
		return nil, err
	}
	idx, ok := snap.byEmail[key(email)]
	if !ok {
		return nil, nil
	}
	emp := snap.list[idx]
	return &emp, nil
}

// Supervisors walks the reporting line upwards, nearest manager first.
func (i *impl) Supervisors(email string, depth int) ([]Employee, error) {
	snap, err := i.load()
	if err != nil {
		return nil, err
	}
	result := []Employee{}
	seen := map[string]bool{key(email): true}
	idx, ok := snap.byEmail[key(email)]
	for ok && len(result) < depth {
		current := snap.list[idx]
		idx, ok = snap.supervisorOf(current)
		if !ok {
			break
		}
		supervisor := snap.list[idx]
		if seen[key(supervisor.Email)] {
			break
		}
		seen[key(supervisor.Email)] = true
		result = append(result, supervisor)
	}
	return result, nil
}

func (s *snapshot) supervisorOf(emp Employee) (int, bool) {
	if emp.SupervisorEmail != "" {
		if idx, ok := s.byEmail[key(emp.SupervisorEmail)]; ok {
			return idx, true
		}
	}
	if emp.SupervisorName != "" {
		if list := s.byName[key(emp.SupervisorName)]; len(list) != 0 {
			return list[0], true
		}
	}
	return 0, false
}

func (i *impl) DirectReports(email string) ([]Employee, error) {
	snap, err := i.load()
	if err != nil {
		return nil, err
	}
	idx, ok := snap.byEmail[key(email)]
	if !ok {
		return []Employee{}, nil
	}
	manager := snap.list[idx]
	result := []Employee{}
	for _, emp := range snap.list {
		if key(emp.Email) == key(manager.Email) {
			continue
		}
		if dbmodels.SameEmail(emp.SupervisorEmail, manager.Email) ||
			(emp.SupervisorEmail == "" && manager.FullName != "" && key(emp.SupervisorName) == key(manager.FullName)) {
			result = append(result, emp)
		}
	}
	return result, nil
}

func (i *impl) HasDirectReports(email string) (bool, error) {
	reports, err := i.DirectReports(email)
	if err != nil {
		return false, err
	}
	return len(reports) != 0, nil
}

func fromRecord(rec canonical.Record) Employee {
	emp := Employee{
		Email:           rec.String(canonical.FieldEmail),
		EmployeeNumber:  rec.String(canonical.FieldEmployeeNumber),
		FirstName:       rec.String(canonical.FieldFirstName),
		LastName:        rec.String(canonical.FieldLastName),
		FullName:        rec.String(canonical.FieldFullName),
		HireDate:        rec.Date(canonical.FieldHireDate),
		JobTitle:        rec.String(canonical.FieldJobTitle),
		Department:      rec.String(canonical.FieldDepartment),
		Site:            rec.String(canonical.FieldSite),
		SupervisorName:  rec.String(canonical.FieldSupervisorName),
		SupervisorEmail: rec.String(canonical.FieldSupervisorEmail),
	}
	if emp.FullName == "" {
		emp.FullName = strings.TrimSpace(emp.FirstName + " " + emp.LastName)
	}
	return emp
}

func key(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
