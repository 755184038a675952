package repositories

import (
	"context"
	"database/sql"
	"errors"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/platform/db"
	"expert-directory-service/internal/platform/obs"
	"fmt"
	"strings"
	"time"
)

const publishedStatus = "publish"

// SQL-backed implementation of the ExpertStore port for Postgres and SQLite.
type SQLExpertRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLExpertRepository(conn *sql.DB, dialect db.Dialect) *SQLExpertRepository {
	return &SQLExpertRepository{DB: conn, Dialect: dialect}
}

const expertColumns = `id, title, category, postal_code, city, latitude, longitude, published_at`

// filter accumulates WHERE conditions and their bind arguments.
type filter struct {
	dialect db.Dialect
	conds   []string
	args    []any
}

func (f *filter) add(cond string, args ...any) {
	ph := make([]any, 0, len(args))
	for _, a := range args {
		f.args = append(f.args, a)
		ph = append(ph, f.dialect.Placeholder(len(f.args)))
	}
	f.conds = append(f.conds, fmt.Sprintf(cond, ph...))
}

func (f *filter) where() string {
	return strings.Join(f.conds, " AND ")
}

// baseFilter restricts to published records of the expert type and applies
// the category and text filters shared by every lookup.
func (s *SQLExpertRepository) baseFilter(q domain.ExpertQuery) *filter {
	f := &filter{dialect: s.Dialect}
	f.add("post_type = %s", domain.PostType)
	f.add("status = %s", publishedStatus)

	if q.Category != "" {
		f.add("lower(category) = lower(%s)", q.Category)
	}

	if q.Text != "" {
		f.add(`lower(title) LIKE lower(%s) ESCAPE '\'`, likePattern(q.Text))
	}

	return f
}

// Return published experts matching the query. The location text, if any, is
// matched as a substring of the postal code or city.
func (s *SQLExpertRepository) FindByTypeAndFilters(
	ctx context.Context,
	q domain.ExpertQuery,
) (_ []domain.Expert, err error) {
	defer obs.Time(ctx, "experts.FindByTypeAndFilters")(&err)

	if s.DB == nil {
		return nil, errors.New("expert repository: DB is nil")
	}

	f := s.baseFilter(q)
	if loc := q.LocationText(); loc != "" {
		p := likePattern(loc)
		f.add(`(lower(postal_code) LIKE lower(%s) ESCAPE '\' OR lower(city) LIKE lower(%s) ESCAPE '\')`, p, p)
	}

	query := fmt.Sprintf("SELECT %s FROM experts WHERE %s ORDER BY %s", expertColumns, f.where(), orderBy(q.Sort))
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	experts, err := s.queryExperts(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("find experts by filters: %w", err)
	}

	return experts, nil
}

// Return experts for ids in the given order. Unknown or unpublished ids are dropped.
func (s *SQLExpertRepository) FindByIDsOrdered(ctx context.Context, ids []int64) (_ []domain.Expert, err error) {
	defer obs.Time(ctx, "experts.FindByIDsOrdered")(&err)

	if s.DB == nil {
		return nil, errors.New("expert repository: DB is nil")
	}

	if len(ids) == 0 {
		return []domain.Expert{}, nil
	}

	f := s.baseFilter(domain.ExpertQuery{})
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	f.add("id IN ("+strings.Repeat("%s,", len(ids)-1)+"%s)", args...)

	query := fmt.Sprintf("SELECT %s FROM experts WHERE %s", expertColumns, f.where())

	found, err := s.queryExperts(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("find experts by ids: %w", err)
	}

	byID := make(map[int64]domain.Expert, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}

	out := make([]domain.Expert, 0, len(found))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
			delete(byID, id)
		}
	}

	return out, nil
}

// Return published experts with non-empty latitude and longitude, ordered by id.
// Location text is ignored; the caller filters candidates by distance.
func (s *SQLExpertRepository) ListCandidates(
	ctx context.Context,
	q domain.ExpertQuery,
) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "experts.ListCandidates")(&err)

	if s.DB == nil {
		return nil, errors.New("expert repository: DB is nil")
	}

	f := s.baseFilter(q)
	f.conds = append(f.conds, "trim(latitude) <> ''", "trim(longitude) <> ''")

	query := fmt.Sprintf("SELECT id, latitude, longitude FROM experts WHERE %s ORDER BY id", f.where())

	rows, err := s.DB.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates: query experts table: %w", err)
	}
	defer rows.Close()

	candidates := make([]domain.Candidate, 0, 64)
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(&c.ID, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("list candidates: scan row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candidates: row iteration: %w", err)
	}

	return candidates, nil
}

func (s *SQLExpertRepository) queryExperts(ctx context.Context, query string, args ...any) ([]domain.Expert, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query experts table: %w", err)
	}
	defer rows.Close()

	experts := make([]domain.Expert, 0, 64)
	for rows.Next() {
		var e domain.Expert
		var published int64
		err := rows.Scan(&e.ID, &e.Title, &e.Category, &e.PostalCode, &e.City, &e.Latitude, &e.Longitude, &published)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if published > 0 {
			e.PublishedAt = time.Unix(published, 0).UTC()
		}
		experts = append(experts, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return experts, nil
}

func orderBy(key domain.SortKey) string {
	switch key {
	case domain.SortTitle:
		return "lower(title) ASC, id ASC"
	case domain.SortNewest:
		return "published_at DESC, id DESC"
	default:
		// Relevance ranking is not computed; fall back to the directory's
		// date order.
		return "published_at DESC, id ASC"
	}
}

// likePattern wraps s for a substring LIKE match, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}
