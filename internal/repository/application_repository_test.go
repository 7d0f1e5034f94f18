package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"slices"
	"strconv"
	"testing"
	"time"

	"offerless/internal/database/sqldb"
	"offerless/internal/domain/application"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appColumns = []string{
	"id", "owner_id", "company", "job_title", "applied_at", "status", "company_url",
	"salary_amount", "salary_type", "location", "location_kind", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*PostgresApplicationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresApplicationRepository(sqldb.New(db)), mock
}

func appRow(id, owner uuid.UUID, company string) []driver.Value {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id.String(), owner.String(), company, "Engineer", time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		"applied", "https://acme.test", 120000.0, "salary", "Berlin", "onsite", now, now,
	}
}

func TestBuildListQuery_OwnerOnly(t *testing.T) {
	owner := uuid.New()
	q := buildListQuery(owner, application.ListFilter{})

	assert.Equal(t, "owner_id = $1", q.where)
	assert.Equal(t, []any{owner}, q.args)
	assert.Equal(t, "applied_at DESC, created_at DESC, id DESC", q.orderBy)
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	owner := uuid.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	q := buildListQuery(owner, application.ListFilter{
		Search:       "50%_off",
		Location:     "Francisco",
		LocationKind: application.LocationRemote,
		Statuses:     []application.Status{application.StatusApplied, application.StatusOffer},
		From:         &from,
		To:           &to,
		SortBy:       application.SortByCompany,
		SortOrder:    application.SortAsc,
	})

	assert.Equal(t,
		`owner_id = $1 AND (company ILIKE $2 ESCAPE '\' OR job_title ILIKE $2 ESCAPE '\') AND location ILIKE $3 ESCAPE '\' AND location_kind = $4 AND status IN ($5, $6) AND applied_at >= $7 AND applied_at <= $8`,
		q.where,
	)
	assert.Equal(t, []any{owner, `%50\%\_off%`, "%Francisco%", "remote", "applied", "offer", from, to}, q.args)
	assert.Equal(t, "lower(company) ASC, created_at DESC, id DESC", q.orderBy)
}

func TestOrderByClause(t *testing.T) {
	assert.Equal(t,
		annualizedSalaryExpr+" DESC NULLS LAST, created_at DESC, id DESC",
		orderByClause(application.SortBySalary, application.SortDesc),
	)
	assert.Equal(t,
		annualizedSalaryExpr+" ASC NULLS LAST, created_at DESC, id DESC",
		orderByClause(application.SortBySalary, application.SortAsc),
	)
	assert.Equal(t,
		"applied_at DESC, created_at DESC, id DESC",
		orderByClause("salary; DROP TABLE applications", ""),
	)
}

func TestAnnualizedSalary_MatchesSortExpression(t *testing.T) {
	assert.Contains(t, annualizedSalaryExpr, "salary_type = 'hourly'")
	assert.Contains(t, annualizedSalaryExpr, "salary_amount * "+strconv.Itoa(application.HoursPerYear))

	hourly := application.SalaryTypeHourly
	yearly := application.SalaryTypeSalary
	amount := func(v float64) *float64 { return &v }

	apps := []application.Application{
		{Company: "none"},
		{Company: "yearly-120k", SalaryAmount: amount(120000), SalaryType: &yearly},
		{Company: "hourly-60", SalaryAmount: amount(60), SalaryType: &hourly},
		{Company: "hourly-50", SalaryAmount: amount(50), SalaryType: &hourly},
	}

	cases := map[string]struct {
		want float64
		ok   bool
	}{
		"none":        {0, false},
		"yearly-120k": {120000, true},
		"hourly-60":   {124800, true},
		"hourly-50":   {104000, true},
	}
	for _, a := range apps {
		got, ok := a.AnnualizedSalary()
		assert.Equal(t, cases[a.Company].ok, ok, a.Company)
		assert.Equal(t, cases[a.Company].want, got, a.Company)
	}

	// DESC NULLS LAST
	slices.SortStableFunc(apps, func(x, y application.Application) int {
		xv, xok := x.AnnualizedSalary()
		yv, yok := y.AnnualizedSalary()
		switch {
		case !xok && !yok:
			return 0
		case !xok:
			return 1
		case !yok:
			return -1
		case xv > yv:
			return -1
		case xv < yv:
			return 1
		}
		return 0
	})
	order := make([]string, 0, len(apps))
	for _, a := range apps {
		order = append(order, a.Company)
	}
	assert.Equal(t, []string{"hourly-60", "yearly-120k", "hourly-50", "none"}, order)
}

func TestList_CountsThenPages(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner := uuid.New()
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM applications WHERE owner_id = $1 AND status IN ($2)`)).
		WithArgs(owner, "offer").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`ORDER BY applied_at DESC, created_at DESC, id DESC\s+LIMIT \$3 OFFSET \$4`).
		WithArgs(owner, "offer", 2, 2).
		WillReturnRows(sqlmock.NewRows(appColumns).AddRow(appRow(id, owner, "Acme")...))

	items, total, err := repo.List(context.Background(), owner, application.ListFilter{
		Statuses: []application.Status{application.StatusOffer},
		Limit:    2,
		Offset:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, application.StatusApplied, items[0].Status)
	require.NotNil(t, items[0].SalaryType)
	assert.Equal(t, application.SalaryTypeSalary, *items[0].SalaryType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptySkipsPageQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	items, total, err := repo.List(context.Background(), owner, application.ListFilter{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_ForeignOrMissingIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectQuery(`WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(id, owner).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), owner, id)
	assert.ErrorIs(t, err, application.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_BindsNullableFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner := uuid.New()
	id := uuid.New()
	applied := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	row := appRow(id, owner, "Acme")
	row[7], row[8], row[9] = nil, nil, nil

	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(id, owner, "Acme", "Engineer", applied, "applied", "", nil, nil, nil, "onsite").
		WillReturnRows(sqlmock.NewRows(appColumns).AddRow(row...))

	got, err := repo.Create(context.Background(), application.Application{
		ID:           id,
		OwnerID:      owner,
		Company:      "Acme",
		JobTitle:     "Engineer",
		AppliedAt:    applied,
		Status:       application.StatusApplied,
		LocationKind: application.LocationOnsite,
	})
	require.NoError(t, err)
	assert.Nil(t, got.SalaryAmount)
	assert.Nil(t, got.SalaryType)
	assert.Nil(t, got.Location)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMany_RollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner := uuid.New()
	a1, a2 := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO applications`).
		WillReturnRows(sqlmock.NewRows(appColumns).AddRow(appRow(a1, owner, "Acme")...))
	mock.ExpectQuery(`INSERT INTO applications`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	n, err := repo.CreateMany(context.Background(), []application.Application{
		{ID: a1, OwnerID: owner, Company: "Acme", JobTitle: "Engineer", Status: application.StatusApplied, LocationKind: application.LocationOnsite},
		{ID: a2, OwnerID: owner, Company: "Beta", JobTitle: "Engineer", Status: application.StatusApplied, LocationKind: application.LocationOnsite},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "row 2")
	assert.Equal(t, 0, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMany_Commits(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner := uuid.New()
	a1 := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO applications`).
		WillReturnRows(sqlmock.NewRows(appColumns).AddRow(appRow(a1, owner, "Acme")...))
	mock.ExpectCommit()

	n, err := repo.CreateMany(context.Background(), []application.Application{
		{ID: a1, OwnerID: owner, Company: "Acme", JobTitle: "Engineer", Status: application.StatusApplied, LocationKind: application.LocationOnsite},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM applications WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), owner, id), application.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner := uuid.New()

	mock.ExpectQuery(`GROUP BY status`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("applied", int64(4)).
			AddRow("ghosted", int64(2)).
			AddRow("offer", int64(1)))

	st, err := repo.CountByStatus(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, application.Stats{Total: 7, Applied: 4, Ghosted: 2, Offer: 1}, st)
	require.NoError(t, mock.ExpectationsWereMet())
}
