package gormstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/codewitheasy-admin/internal/data/backend"
	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

// Store is the typed relational backend. Relations are traversed natively with
// joins and preloads.
type Store struct {
	db    *gorm.DB
	cat   *resource.Catalog
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

var _ backend.Backend = (*Store)(nil)

func New(db *gorm.DB, cat *resource.Catalog, baseLog *logger.Logger) *Store {
	return &Store{
		db:    db,
		cat:   cat,
		log:   baseLog.With("backend", "gorm"),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (s *Store) Name() string { return "gorm" }

func (s *Store) List(ctx context.Context, res *resource.Resource, d query.Descriptor) (any, int64, error) {
	base := s.db.WithContext(ctx).Model(res.New())
	base = s.applySearch(base, res.Table, d.Search, d.SearchColumns)
	for _, f := range d.Filters {
		base = base.Where(clause.Eq{Column: clause.Column{Table: res.Table, Name: f.Column}, Value: f.Value})
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, s.translate("count", res, err)
	}

	q, err := s.applySort(base.Session(&gorm.Session{}), res, d.Sort)
	if err != nil {
		return nil, 0, err
	}
	if d.Limit > 0 {
		q = q.Limit(d.Limit)
	}
	if d.Offset > 0 {
		q = q.Offset(d.Offset)
	}
	if q, err = s.preload(q, res, d.Includes, ""); err != nil {
		return nil, 0, err
	}

	out := res.NewList()
	if err := q.Find(out).Error; err != nil {
		return nil, 0, s.translate("list", res, err)
	}
	return out, total, nil
}

func (s *Store) GetByID(ctx context.Context, res *resource.Resource, id string, includes []query.Include) (any, error) {
	q := s.db.WithContext(ctx).Model(res.New()).
		Where(clause.Eq{Column: clause.Column{Table: res.Table, Name: "id"}, Value: id})
	q, err := s.preload(q, res, includes, "")
	if err != nil {
		return nil, err
	}
	out := res.New()
	if err := q.Take(out).Error; err != nil {
		return nil, s.translate("get", res, err)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, res *resource.Resource, payload map[string]any) (any, error) {
	id := s.newID()
	now := s.now()
	values := make(map[string]any, len(payload)+3)
	for k, v := range payload {
		values[k] = v
	}
	values["id"] = id
	values["created_at"] = now
	values["updated_at"] = now

	if err := s.db.WithContext(ctx).Model(res.New()).Create(values).Error; err != nil {
		return nil, s.translate("create", res, err)
	}
	return s.GetByID(ctx, res, id, res.Includes)
}

func (s *Store) Update(ctx context.Context, res *resource.Resource, id string, patch map[string]any) (any, error) {
	values := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		values[k] = v
	}
	values["updated_at"] = s.now()

	result := s.db.WithContext(ctx).Model(res.New()).
		Where(clause.Eq{Column: clause.Column{Table: res.Table, Name: "id"}, Value: id}).
		Updates(values)
	if result.Error != nil {
		return nil, s.translate("update", res, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("update %s %s: %w", res.Label, id, backend.ErrNotFound)
	}
	return s.GetByID(ctx, res, id, res.Includes)
}

// Delete refuses to remove a row that has-many children still point at, so
// no module or lesson is left without its parent.
func (s *Store) Delete(ctx context.Context, res *resource.Resource, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rel := range res.Relations {
			if rel.Kind != resource.HasMany {
				continue
			}
			target, ok := s.cat.Lookup(rel.Target)
			if !ok {
				return fmt.Errorf("delete %s: unknown resource %q", res.Label, rel.Target)
			}
			var n int64
			err := tx.Table(target.Table).
				Where(clause.Eq{Column: clause.Column{Table: target.Table, Name: rel.ForeignKey}, Value: id}).
				Count(&n).Error
			if err != nil {
				return s.translate("delete", res, err)
			}
			if n > 0 {
				return fmt.Errorf("delete %s %s: %s still reference it: %w", res.Label, id, rel.Name, backend.ErrConflict)
			}
		}

		result := tx.
			Where(clause.Eq{Column: clause.Column{Table: res.Table, Name: "id"}, Value: id}).
			Delete(res.New())
		if result.Error != nil {
			return s.translate("delete", res, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("delete %s %s: %w", res.Label, id, backend.ErrNotFound)
		}
		return nil
	})
}

// UpsertByKey issues a single INSERT ... ON CONFLICT (key) DO UPDATE so the
// store's unique index arbitrates concurrent submissions. id and created_at
// of an existing row are preserved.
func (s *Store) UpsertByKey(ctx context.Context, res *resource.Resource, key map[string]any, payload map[string]any) (any, bool, error) {
	if len(key) == 0 {
		return nil, false, fmt.Errorf("upsert %s: empty key", res.Label)
	}
	keyCols := sortedKeys(key)
	updateCols := append(sortedKeys(payload), "updated_at")

	id := s.newID()
	now := s.now()
	values := make(map[string]any, len(key)+len(payload)+3)
	for k, v := range payload {
		values[k] = v
	}
	for k, v := range key {
		values[k] = v
	}
	values["id"] = id
	values["created_at"] = now
	values["updated_at"] = now

	conflict := make([]clause.Column, 0, len(keyCols))
	for _, col := range keyCols {
		conflict = append(conflict, clause.Column{Name: col})
	}

	err := s.db.WithContext(ctx).Model(res.New()).
		Clauses(clause.OnConflict{Columns: conflict, DoUpdates: clause.AssignmentColumns(updateCols)}).
		Create(values).Error
	if err != nil {
		return nil, false, s.translate("upsert", res, err)
	}

	q := s.db.WithContext(ctx).Model(res.New())
	for _, col := range keyCols {
		q = q.Where(clause.Eq{Column: clause.Column{Table: res.Table, Name: col}, Value: key[col]})
	}
	var ids []string
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return nil, false, s.translate("upsert", res, err)
	}
	if len(ids) == 0 {
		return nil, false, fmt.Errorf("upsert %s: %w", res.Label, backend.ErrNotFound)
	}
	item, err := s.GetByID(ctx, res, ids[0], res.Includes)
	if err != nil {
		return nil, false, err
	}
	return item, ids[0] == id, nil
}

func (s *Store) applySearch(q *gorm.DB, table, term string, cols []string) *gorm.DB {
	if term == "" || len(cols) == 0 {
		return q
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	group := s.db.Session(&gorm.Session{NewDB: true})
	for i, col := range cols {
		expr := fmt.Sprintf(`LOWER(CAST(%s.%s AS TEXT)) LIKE ? ESCAPE '\'`, table, col)
		if i == 0 {
			group = group.Where(expr, pattern)
		} else {
			group = group.Or(expr, pattern)
		}
	}
	return q.Where(group)
}

func (s *Store) applySort(q *gorm.DB, res *resource.Resource, srt query.Sort) (*gorm.DB, error) {
	key := srt.Key
	switch key.Kind {
	case query.SortRelation:
		rel, ok := res.Relation(key.Relation)
		if !ok || rel.Kind != resource.BelongsTo {
			return nil, fmt.Errorf("sort %s: %q is not a belongs-to relation", res.Label, key.Relation)
		}
		q = q.Joins(rel.Field).
			Order(clause.OrderByColumn{Column: clause.Column{Table: rel.Field, Name: key.Column}, Desc: srt.Desc})
	default:
		col := key.Column
		if col == "" {
			col = "id"
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: res.Table, Name: col}, Desc: srt.Desc})
		if col == "id" {
			return q, nil
		}
	}
	return q.Order(clause.OrderByColumn{Column: clause.Column{Table: res.Table, Name: "id"}}), nil
}

func (s *Store) preload(q *gorm.DB, res *resource.Resource, includes []query.Include, prefix string) (*gorm.DB, error) {
	for _, inc := range includes {
		rel, ok := res.Relation(inc.Relation)
		if !ok {
			return nil, fmt.Errorf("include %s: unknown relation %q", res.Label, inc.Relation)
		}
		target, ok := s.cat.Lookup(rel.Target)
		if !ok {
			return nil, fmt.Errorf("include %s: unknown resource %q", res.Label, rel.Target)
		}
		path := rel.Field
		if prefix != "" {
			path = prefix + "." + rel.Field
		}
		if len(rel.OrderBy) > 0 {
			order := rel.OrderBy
			q = q.Preload(path, func(db *gorm.DB) *gorm.DB {
				for _, col := range order {
					db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col}})
				}
				return db
			})
		} else {
			q = q.Preload(path)
		}
		var err error
		if q, err = s.preload(q, target, inc.Children, path); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// SQLSTATE codes seen when a driver error reaches translate unmapped.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func (s *Store) translate(op string, res *resource.Resource, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %s: %w", op, res.Label, backend.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %s: %w", op, res.Label, backend.ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s %s: %w", op, res.Label, backend.ErrMissingReference)
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return fmt.Errorf("%s %s: %w", op, res.Label, backend.ErrConflict)
	case errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation:
		return fmt.Errorf("%s %s: %w", op, res.Label, backend.ErrMissingReference)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s %s: %w", op, res.Label, err)
	default:
		s.log.Warn("storage call failed", "op", op, "resource", res.Name, "error", err)
		return fmt.Errorf("%s %s: %w", op, res.Label, err)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
