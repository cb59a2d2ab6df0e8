package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

func run(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, err, "internal")

	var env ErrorEnvelope
	if jerr := json.Unmarshal(rec.Body.Bytes(), &env); jerr != nil {
		t.Fatalf("decode body: %v", jerr)
	}
	return rec.Code, env
}

func TestErrorMapsSentinels(t *testing.T) {
	status, env := run(t, fmt.Errorf("lookup: %w", pkgerrors.ErrNotFound))
	if status != http.StatusNotFound || env.Error.Code != "not_found" {
		t.Fatalf("got %d %q", status, env.Error.Code)
	}
}

func TestErrorHidesInternalMessage(t *testing.T) {
	status, env := run(t, errors.New("dial tcp 10.0.0.3:5432: refused"))
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
	if env.Error.Message != "Internal Server Error" || env.Error.Code != "internal" {
		t.Fatalf("leaked or wrong envelope: %+v", env.Error)
	}
}

func TestErrorIncludesValidationDetail(t *testing.T) {
	_, err := wellness.Normalize(wellness.RawCheckIn{Mood: 9})
	status, env := run(t, err)
	if status != http.StatusUnprocessableEntity || env.Error.Code != "validation_failed" {
		t.Fatalf("got %d %q", status, env.Error.Code)
	}
	detail, ok := env.Error.Detail.(map[string]any)
	if !ok || detail["field"] != wellness.FieldMood {
		t.Fatalf("unexpected detail: %#v", env.Error.Detail)
	}
}
