package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"offerless/internal/database"
	"offerless/internal/domain/application"

	"github.com/google/uuid"
)

const applicationColumns = `id, owner_id, company, job_title, applied_at, status, company_url,
	salary_amount, salary_type, location, location_kind, created_at, updated_at`

// annualizedSalaryExpr is the SQL form of Application.AnnualizedSalary.
var annualizedSalaryExpr = "CASE WHEN salary_type = '" + string(application.SalaryTypeHourly) +
	"' THEN salary_amount * " + strconv.Itoa(application.HoursPerYear) + " ELSE salary_amount END"

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	return insertApplication(ctx, r.db, a)
}

// CreateMany inserts every record in one transaction. Either all rows are
// stored or none are.
func (r *PostgresApplicationRepository) CreateMany(ctx context.Context, apps []application.Application) (int, error) {
	if len(apps) == 0 {
		return 0, nil
	}

	n := 0
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for i := range apps {
			if _, err := insertApplication(ctx, tx, apps[i]); err != nil {
				return fmt.Errorf("insert row %d: %w", i+1, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func insertApplication(ctx context.Context, q database.Querier, a application.Application) (application.Application, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	row := q.QueryRow(ctx,
		`INSERT INTO applications (id, owner_id, company, job_title, applied_at, status, company_url,
			salary_amount, salary_type, location, location_kind)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+applicationColumns,
		a.ID,
		a.OwnerID,
		a.Company,
		a.JobTitle,
		a.AppliedAt,
		string(a.Status),
		a.CompanyURL,
		a.SalaryAmount,
		salaryTypeArg(a.SalaryType),
		a.Location,
		string(a.LocationKind),
	)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	a, err := scanApplication(row)
	if err != nil {
		if database.IsNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) Update(ctx context.Context, a application.Application) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE applications
		 SET company = $3,
		     job_title = $4,
		     applied_at = $5,
		     status = $6,
		     company_url = $7,
		     salary_amount = $8,
		     salary_type = $9,
		     location = $10,
		     location_kind = $11,
		     updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING `+applicationColumns,
		a.ID,
		a.OwnerID,
		a.Company,
		a.JobTitle,
		a.AppliedAt,
		string(a.Status),
		a.CompanyURL,
		a.SalaryAmount,
		salaryTypeArg(a.SalaryType),
		a.Location,
		string(a.LocationKind),
	)
	out, err := scanApplication(row)
	if err != nil {
		if database.IsNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) List(ctx context.Context, ownerID uuid.UUID, f application.ListFilter) ([]application.Application, int, error) {
	q := buildListQuery(ownerID, f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE `+q.where, q.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []application.Application{}, 0, nil
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	args := append(append([]any{}, q.args...), limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE `+q.where+`
		 ORDER BY `+q.orderBy+`
		 LIMIT `+placeholder(len(q.args)+1)+` OFFSET `+placeholder(len(q.args)+2),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanApplications(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresApplicationRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE owner_id = $1
		 ORDER BY applied_at DESC, created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *PostgresApplicationRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID) (application.Stats, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*)
		 FROM applications
		 WHERE owner_id = $1
		 GROUP BY status`,
		ownerID,
	)
	if err != nil {
		return application.Stats{}, err
	}
	defer rows.Close()

	var st application.Stats
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return application.Stats{}, err
		}
		st.Add(application.Status(status), n)
	}
	if err := rows.Err(); err != nil {
		return application.Stats{}, err
	}
	return st, nil
}

type listQuery struct {
	where   string
	args    []any
	orderBy string
}

// buildListQuery composes the WHERE and ORDER BY clauses for a listing.
// Column names and sort directions come from fixed tables, never from input;
// user values only ever travel as bind arguments.
func buildListQuery(ownerID uuid.UUID, f application.ListFilter) listQuery {
	var (
		conds []string
		args  []any
	)
	bind := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	conds = append(conds, "owner_id = "+bind(ownerID))

	if s := strings.TrimSpace(f.Search); s != "" {
		p := bind(containsPattern(s))
		conds = append(conds, `(company ILIKE `+p+` ESCAPE '\' OR job_title ILIKE `+p+` ESCAPE '\')`)
	}
	if s := strings.TrimSpace(f.Location); s != "" {
		conds = append(conds, `location ILIKE `+bind(containsPattern(s))+` ESCAPE '\'`)
	}
	if f.LocationKind != "" {
		conds = append(conds, "location_kind = "+bind(string(f.LocationKind)))
	}
	if len(f.Statuses) > 0 {
		ph := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			ph = append(ph, bind(string(st)))
		}
		conds = append(conds, "status IN ("+strings.Join(ph, ", ")+")")
	}
	if f.From != nil {
		conds = append(conds, "applied_at >= "+bind(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "applied_at <= "+bind(*f.To))
	}

	return listQuery{
		where:   strings.Join(conds, " AND "),
		args:    args,
		orderBy: orderByClause(f.SortBy, f.SortOrder),
	}
}

var sortExpressions = map[application.SortField]string{
	application.SortByAppliedAt: "applied_at",
	application.SortBySalary:    annualizedSalaryExpr,
	application.SortByCompany:   "lower(company)",
	application.SortByJobTitle:  "lower(job_title)",
	application.SortByStatus:    "status",
	application.SortByCreatedAt: "created_at",
}

func orderByClause(field application.SortField, order application.SortOrder) string {
	expr, ok := sortExpressions[field]
	if !ok {
		expr = sortExpressions[application.SortByAppliedAt]
	}
	dir := "DESC"
	if order == application.SortAsc {
		dir = "ASC"
	}

	primary := expr + " " + dir
	if field == application.SortBySalary {
		primary += " NULLS LAST"
	}
	return primary + ", created_at DESC, id DESC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func salaryTypeArg(t *application.SalaryType) any {
	if t == nil {
		return nil
	}
	return string(*t)
}

func scanApplications(rows database.Rows) ([]application.Application, error) {
	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var (
		a            application.Application
		status       string
		salaryType   *string
		locationKind string
	)
	if err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Company,
		&a.JobTitle,
		&a.AppliedAt,
		&status,
		&a.CompanyURL,
		&a.SalaryAmount,
		&salaryType,
		&a.Location,
		&locationKind,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return application.Application{}, err
	}

	a.Status = application.Status(status)
	a.LocationKind = application.LocationKind(locationKind)
	if salaryType != nil {
		st := application.SalaryType(*salaryType)
		a.SalaryType = &st
	}
	return a, nil
}
