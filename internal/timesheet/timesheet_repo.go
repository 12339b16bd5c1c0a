package timesheet

import (
	"context"
	"database/sql"
	"time"

	"go-timesheet/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RepoFilter is the parsed form of ListFilter.
type RepoFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Status     string
}

//go:generate mockgen -source=timesheet_repo.go -destination=mock/timesheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Timesheet) error
	FindByID(ctx context.Context, companyID, id string) (*Timesheet, error)
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Timesheet, error)
	FindAll(ctx context.Context, companyID string, filter RepoFilter) ([]Timesheet, error)
	Update(ctx context.Context, t *Timesheet) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx runs the repository's statements on tx. Rows loaded through the
// returned repository are locked until tx ends. The session clones the
// statement so the shared handle keeps its own connection pool.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true, Context: context.Background()})
	db.Statement.ConnPool = tx
	return &repository{db: db, tx: tx}
}

// forUpdate locks the loaded timesheet row when running inside a tx, so two
// concurrent transitions on the same day are applied one after the other.
func (r *repository) forUpdate(db *gorm.DB) *gorm.DB {
	if r.tx == nil {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *repository) Create(ctx context.Context, t *Timesheet) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func preloadPauses(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*Timesheet, error) {
	var t Timesheet
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID), r.forUpdate).
		Preload("Pauses", preloadPauses).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Timesheet, error) {
	var t Timesheet
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID), r.forUpdate).
		Preload("Pauses", preloadPauses).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", date.Format("2006-01-02")).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindAll(ctx context.Context, companyID string, filter RepoFilter) ([]Timesheet, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Pauses", preloadPauses)
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.From != nil {
		q = q.Where("work_date >= ?", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		q = q.Where("work_date <= ?", filter.To.Format("2006-01-02"))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []Timesheet
	err := q.Order("work_date DESC, employee_name ASC").Find(&rows).Error
	return rows, err
}

// Update saves the row and upserts its pauses.
func (r *repository) Update(ctx context.Context, t *Timesheet) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(t).Error
}
