package reststore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/yungbote/codewitheasy-admin/internal/data/backend"
	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

// Store is the PostgREST-backed adapter. Search is an or=(...) filter
// expression; relation includes and related-field sorts are orchestrated
// client-side and joined in memory.
//
// The client must be rooted at the REST endpoint (".../rest/v1") and carry
// the credentials the store accepts.
type Store struct {
	client *resty.Client
	cat    *resource.Catalog
	log    *logger.Logger
	now    func() time.Time
	newID  func() string
}

var _ backend.Backend = (*Store)(nil)

func New(client *resty.Client, cat *resource.Catalog, baseLog *logger.Logger) *Store {
	return &Store{
		client: client,
		cat:    cat,
		log:    baseLog.With("backend", "rest"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (s *Store) Name() string { return "rest" }

func (s *Store) List(ctx context.Context, res *resource.Resource, d query.Descriptor) (any, int64, error) {
	params := url.Values{}
	applyConditions(params, d)

	var (
		rows  []row
		total int64
		err   error
	)
	if d.Sort.Key.Kind == query.SortRelation {
		rows, total, err = s.listByRelation(ctx, res, d, params)
	} else {
		col := d.Sort.Key.Column
		if col == "" {
			col = "id"
		}
		params.Set("select", "*")
		params.Set("order", orderParam(col, d.Sort.Desc))
		rows, total, err = s.fetchRange(ctx, "list", res, params, d.Offset, d.Limit)
	}
	if err != nil {
		return nil, 0, err
	}
	if err := s.attach(ctx, res, rows, d.Includes); err != nil {
		return nil, 0, err
	}
	out := res.NewList()
	if err := s.decode(res, rows, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) GetByID(ctx context.Context, res *resource.Resource, id string, includes []query.Include) (any, error) {
	r, err := s.getRow(ctx, res, id)
	if err != nil {
		return nil, err
	}
	rows := []row{r}
	if err := s.attach(ctx, res, rows, includes); err != nil {
		return nil, err
	}
	out := res.New()
	if err := s.decode(res, rows[0], out); err != nil {
		return nil, err
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

	if _, err := s.write(ctx, "create", res, http.MethodPost, nil, values); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, res, id, res.Includes)
}

func (s *Store) Update(ctx context.Context, res *resource.Resource, id string, patch map[string]any) (any, error) {
	if err := s.patchByID(ctx, "update", res, id, patch); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, res, id, res.Includes)
}

// Delete refuses to remove a row that has-many children still point at, so
// no module or lesson is left without its parent.
func (s *Store) Delete(ctx context.Context, res *resource.Resource, id string) error {
	for _, rel := range res.Relations {
		if rel.Kind != resource.HasMany {
			continue
		}
		target, ok := s.cat.Lookup(rel.Target)
		if !ok {
			return fmt.Errorf("delete %s: unknown resource %q", res.Label, rel.Target)
		}
		params := url.Values{"select": {"id"}, rel.ForeignKey: {"eq." + id}, "limit": {"1"}}
		children, _, err := s.fetch(ctx, "delete", target, params, false)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return fmt.Errorf("delete %s %s: %s still reference it: %w", res.Label, id, rel.Name, backend.ErrConflict)
		}
	}

	params := url.Values{"id": {"eq." + id}}
	rows, err := s.write(ctx, "delete", res, http.MethodDelete, params, nil)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("delete %s %s: %w", res.Label, id, backend.ErrNotFound)
	}
	return nil
}

// UpsertByKey looks the key up and branches to PATCH or POST. A uniqueness
// violation on POST means a concurrent writer created the row first; the
// submission is then applied once as an update.
func (s *Store) UpsertByKey(ctx context.Context, res *resource.Resource, key map[string]any, payload map[string]any) (any, bool, error) {
	if len(key) == 0 {
		return nil, false, fmt.Errorf("upsert %s: empty key", res.Label)
	}
	existing, err := s.findByKey(ctx, res, key)
	if err != nil {
		return nil, false, err
	}

	if existing == "" {
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

		_, err := s.write(ctx, "upsert", res, http.MethodPost, nil, values)
		if err == nil {
			item, err := s.GetByID(ctx, res, id, res.Includes)
			return item, true, err
		}
		if !errors.Is(err, backend.ErrConflict) {
			return nil, false, err
		}
		s.log.Debug("upsert lost create race, retrying as update", "resource", res.Name)
		if existing, err = s.findByKey(ctx, res, key); err != nil {
			return nil, false, err
		}
		if existing == "" {
			return nil, false, fmt.Errorf("upsert %s: %w", res.Label, backend.ErrConflict)
		}
	}

	if err := s.patchByID(ctx, "upsert", res, existing, payload); err != nil {
		return nil, false, err
	}
	item, err := s.GetByID(ctx, res, existing, res.Includes)
	return item, false, err
}

func (s *Store) getRow(ctx context.Context, res *resource.Resource, id string) (row, error) {
	params := url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
		"limit":  {"1"},
	}
	rows, _, err := s.fetch(ctx, "get", res, params, false)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get %s %s: %w", res.Label, id, backend.ErrNotFound)
	}
	return rows[0], nil
}

func (s *Store) patchByID(ctx context.Context, op string, res *resource.Resource, id string, patch map[string]any) error {
	values := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		values[k] = v
	}
	values["updated_at"] = s.now()

	rows, err := s.write(ctx, op, res, http.MethodPatch, url.Values{"id": {"eq." + id}}, values)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s %s %s: %w", op, res.Label, id, backend.ErrNotFound)
	}
	return nil
}

func (s *Store) findByKey(ctx context.Context, res *resource.Resource, key map[string]any) (string, error) {
	params := url.Values{"select": {"id"}, "limit": {"1"}}
	for col, v := range key {
		params.Set(col, "eq."+formatValue(v))
	}
	rows, _, err := s.fetch(ctx, "upsert", res, params, false)
	if err != nil || len(rows) == 0 {
		return "", err
	}
	return stringValue(rows[0]["id"]), nil
}
