package reststore

import (
	"context"
	"net/url"
	"strconv"

	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
)

// pageSize is asked for per round trip. The store may cap a response below
// it (db-max-rows), so reads advance by what actually came back.
const pageSize = 1000

// fetchRange reads up to limit rows starting at offset; limit <= 0 reads to
// the end. Rows are paged until the exact total is reached, so a server-side
// row cap never truncates the result. Unordered reads are ordered by id to
// keep pages stable.
func (s *Store) fetchRange(ctx context.Context, op string, res *resource.Resource, params url.Values, offset, limit int) ([]row, int64, error) {
	base := url.Values{}
	for k, v := range params {
		base[k] = append([]string(nil), v...)
	}
	if base.Get("order") == "" {
		base.Set("order", "id.asc")
	}

	out := []row{}
	total := int64(-1)
	next := offset
	for {
		want := pageSize
		if limit > 0 {
			left := limit - len(out)
			if left <= 0 {
				break
			}
			if left < want {
				want = left
			}
		}
		page := url.Values{}
		for k, v := range base {
			page[k] = v
		}
		page.Set("limit", strconv.Itoa(want))
		if next > 0 {
			page.Set("offset", strconv.Itoa(next))
		}

		rows, n, err := s.fetch(ctx, op, res, page, true)
		if err != nil {
			return nil, 0, err
		}
		if n >= 0 {
			total = n
		}
		out = append(out, rows...)
		next += len(rows)
		if len(rows) == 0 {
			break
		}
		if total >= 0 && int64(next) >= total {
			break
		}
		if total < 0 && len(rows) < want {
			break
		}
	}
	if total < 0 {
		total = int64(next)
	}
	return out, total, nil
}
