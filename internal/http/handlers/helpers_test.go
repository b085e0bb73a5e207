package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/codewitheasy-admin/internal/data/backend/gormstore"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/data/testutil"
	"github.com/yungbote/codewitheasy-admin/internal/services"
)

type testEnv struct {
	r  *gin.Engine
	db *gorm.DB
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cat := resource.Default()
	store := gormstore.New(db, cat, log)

	r := gin.New()
	api := r.Group("/api")
	feedback := NewFeedbackHandler(log, services.NewFeedbackService(log, store, cat))
	for _, res := range cat.All() {
		g := api.Group("/" + res.Name)
		if res.Name == resource.LessonFeedback {
			feedback.Register(g)
		}
		NewResourceHandler(log, store, cat, res.Name).Register(g)
	}
	return testEnv{r: r, db: db}
}

func (e testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.r.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got=%d want=%d body=%s", rec.Code, want, rec.Body.String())
	}
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func errorMessage(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	msg, _ := e["message"].(string)
	return msg
}

func data(body map[string]any) map[string]any {
	d, _ := body["data"].(map[string]any)
	return d
}
