package reststore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/codewitheasy-admin/internal/data/backend"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
)

type row = map[string]any

// Error is a non-2xx answer from the REST store.
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (status %d, code %s)", msg, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.Status)
}

func (e *Error) HTTPStatusCode() int { return e.Status }

type pgrstError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// fetch issues one GET. With count it asks for an exact total; total is -1
// when the store did not report one. A 416 for an offset past the end is an
// empty page, not an error.
func (s *Store) fetch(ctx context.Context, op string, res *resource.Resource, params url.Values, count bool) ([]row, int64, error) {
	req := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParamsFromValues(params)
	if count {
		req.SetHeader("Prefer", "count=exact")
	}
	resp, err := req.Get("/" + res.Table)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", op, res.Label, err)
	}
	total := int64(-1)
	if count {
		if n, ok := parseContentRange(resp.Header().Get("Content-Range")); ok {
			total = n
		}
	}
	if resp.StatusCode() == http.StatusRequestedRangeNotSatisfiable {
		return []row{}, total, nil
	}
	if resp.IsError() {
		return nil, 0, s.fail(op, res, resp)
	}
	var rows []row
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, 0, fmt.Errorf("%s %s: decode response: %w", op, res.Label, err)
	}
	return rows, total, nil
}

func (s *Store) write(ctx context.Context, op string, res *resource.Resource, method string, params url.Values, body any) ([]row, error) {
	req := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("Prefer", "return=representation")
	if params != nil {
		req.SetQueryParamsFromValues(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, "/"+res.Table)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, res.Label, err)
	}
	if resp.IsError() {
		return nil, s.fail(op, res, resp)
	}
	if len(resp.Body()) == 0 {
		return nil, nil
	}
	var rows []row
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("%s %s: decode response: %w", op, res.Label, err)
	}
	return rows, nil
}

func (s *Store) fail(op string, res *resource.Resource, resp *resty.Response) error {
	var pe pgrstError
	_ = json.Unmarshal(resp.Body(), &pe)
	e := &Error{Status: resp.StatusCode(), Code: pe.Code, Message: pe.Message, Details: pe.Details}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(resp.Body()))
	}
	if e.Message == "" {
		e.Message = http.StatusText(e.Status)
	}

	switch {
	case e.Status == http.StatusConflict && e.Code != "23503", e.Code == "23505":
		return fmt.Errorf("%s %s: %w: %w", op, res.Label, backend.ErrConflict, e)
	case e.Code == "23503":
		return fmt.Errorf("%s %s: %w: %w", op, res.Label, backend.ErrMissingReference, e)
	}
	s.log.Warn("rest store call failed", "op", op, "resource", res.Name, "status", e.Status, "code", e.Code)
	return fmt.Errorf("%s %s: %w", op, res.Label, e)
}

// parseContentRange reads the total from "0-9/42" or "*/0".
func parseContentRange(h string) (int64, bool) {
	_, after, ok := strings.Cut(strings.TrimSpace(h), "/")
	if !ok || after == "*" {
		return 0, false
	}
	n, err := strconv.ParseInt(after, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsError extracts the REST store error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}
