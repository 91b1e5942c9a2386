package applicationstore

import (
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateActive is returned by Create when the employee already has an active application.
var ErrDuplicateActive = errors.New("employee already has an active application")

type Provider interface {
	Create(rec dbmodels.Application) (id string, err error)
	GetByID(id string) (rec *dbmodels.Application, err error)
	// GetByIDForUpdate reads the row and holds a write lock on it until the transaction ends.
	GetByIDForUpdate(id string) (rec *dbmodels.Application, err error)
	// LockKeys takes transaction scoped advisory locks, always in the same order.
	LockKeys(keys ...string) error
	// Transition applies the patch only while the row is still in the expected status.
	Transition(id string, expected models.ApplicationStatus, patch Patch) (ok bool, err error)
	Delete(id string) error
	List(filter Filter) (list []dbmodels.Application, rowCount int64, err error)
	ListActiveByEmail(email string) (list []dbmodels.Application, err error)
	ListActiveBySite(site string) (list []dbmodels.Application, err error)
}

func EmailLockKey(email string) string {
	return "application:email:" + strings.ToLower(strings.TrimSpace(email))
}

// SiteLockKey is empty for a blank site, which has no capacity to protect.
func SiteLockKey(site string) string {
	site = strings.ToLower(strings.TrimSpace(site))
	if site == "" {
		return ""
	}
	return "application:site:" + site
}

// SortedKeys returns the distinct non-empty keys in lock order.
func SortedKeys(keys []string) []string {
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			result = append(result, key)
		}
	}
	slices.Sort(result)
	return slices.Compact(result)
}

// Filter limits a listing. A nil VisibleEmails means no ownership restriction.
type Filter struct {
	Status        *models.ApplicationStatus
	VisibleEmails []string
	Page          int
	Limit         int
}

// Patch lists the columns a transition may write.
type Patch struct {
	Status             *models.ApplicationStatus
	TalentReview       *dbmodels.StageReview
	HRReview           *dbmodels.StageReview
	RequestedStartDate *datatypes.Date
	RequestedEndDate   *datatypes.Date
	DurationWeeks      *int
	PlanDetails        *string
}

func (p Patch) ToMap() map[string]interface{} {
	updMap := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if p.Status != nil {
		updMap["status"] = *p.Status
	}
	if p.TalentReview != nil {
		addReview(updMap, "talent_", *p.TalentReview)
	}
	if p.HRReview != nil {
		addReview(updMap, "hr_", *p.HRReview)
	}
	if p.RequestedStartDate != nil {
		updMap["requested_start_date"] = *p.RequestedStartDate
	}
	if p.RequestedEndDate != nil {
		updMap["requested_end_date"] = *p.RequestedEndDate
	}
	if p.DurationWeeks != nil {
		updMap["duration_weeks"] = *p.DurationWeeks
	}
	if p.PlanDetails != nil {
		updMap["plan_details"] = *p.PlanDetails
	}
	return updMap
}

// Apply writes the patch onto an in-memory record.
func (p Patch) Apply(rec *dbmodels.Application) {
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.TalentReview != nil {
		rec.TalentReview = *p.TalentReview
	}
	if p.HRReview != nil {
		rec.HRReview = *p.HRReview
	}
	if p.RequestedStartDate != nil {
		rec.RequestedStartDate = p.RequestedStartDate
	}
	if p.RequestedEndDate != nil {
		rec.RequestedEndDate = p.RequestedEndDate
	}
	if p.DurationWeeks != nil {
		rec.DurationWeeks = *p.DurationWeeks
	}
	if p.PlanDetails != nil {
		rec.PlanDetails = *p.PlanDetails
	}
	rec.UpdatedAt = time.Now()
}

func addReview(updMap map[string]interface{}, prefix string, review dbmodels.StageReview) {
	updMap[prefix+"reviewer"] = review.Reviewer
	updMap[prefix+"reviewer_name"] = review.ReviewerName
	updMap[prefix+"decision"] = review.Decision
	updMap[prefix+"notes"] = review.Notes
	updMap[prefix+"reviewed_at"] = review.ReviewedAt
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Application) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrDuplicateActive
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Application, error) {
	return i.get(i.db, id)
}

func (i impl) GetByIDForUpdate(id string) (*dbmodels.Application, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (i impl) get(tx *gorm.DB, id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := tx.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) LockKeys(keys ...string) error {
	for _, key := range SortedKeys(keys) {
		err := i.db.
			Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).
			Error
		if err != nil {
			return errors.Wrapf(err, "failed to lock %v", key)
		}
	}
	return nil
}

func (i impl) Transition(id string, expected models.ApplicationStatus, patch Patch) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Where("status = ?", expected).
		Updates(patch.ToMap())
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Application{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	err := i.db.
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(filter Filter) (list []dbmodels.Application, rowCount int64, err error) {
	list = []dbmodels.Application{}
	tx := i.db.Model(&dbmodels.Application{})
	if filter.Status != nil {
		tx = tx.Where("status = ?", *filter.Status)
	}
	if filter.VisibleEmails != nil {
		tx = tx.Where("LOWER(employee_email) IN (?)", lowerAll(filter.VisibleEmails))
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		tx = tx.Limit(filter.Limit).Offset((page - 1) * filter.Limit)
	}
	err = tx.
		Order("submitted_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) ListActiveByEmail(email string) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.
		Where("LOWER(employee_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Where("status IN (?)", models.ActiveStatuses).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListActiveBySite(site string) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.
		Where("LOWER(TRIM(site)) = ?", strings.ToLower(strings.TrimSpace(site))).
		Where("status IN (?)", models.ActiveStatuses).
		Where("requested_start_date IS NOT NULL AND requested_end_date IS NOT NULL").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func lowerAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, strings.ToLower(strings.TrimSpace(v)))
	}
	if len(result) == 0 {
		result = append(result, "")
	}
	return result
}
