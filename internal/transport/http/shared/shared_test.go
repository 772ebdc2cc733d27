package shared

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorRequiredSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("lastName", "  ", "is required")
	v.Required("email", "", "is required")
	v.Required("firstName", "Onur", "is required")

	require.True(t, v.HasIssues())
	issues := v.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, "email", issues[0].Field)
	assert.Equal(t, "lastName", issues[1].Field)
}

func TestValidatorRejectWritesBadRequest(t *testing.T) {
	v := NewValidator()
	v.Required("email", "", "is required")

	rec := httptest.NewRecorder()
	require.True(t, v.Reject(rec, "req-9"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Code    string `json:"code"`
		Details struct {
			Fields []ValidationIssue `json:"fields"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Code)
	require.Len(t, body.Details.Fields, 1)
	assert.Equal(t, "email", body.Details.Fields[0].Field)
}

func TestValidatorRejectPassesWithoutIssues(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.False(t, NewValidator().Reject(rec, ""))
	assert.Zero(t, rec.Body.Len())
}

func requestWithParam(name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	id, err := PathID(requestWithParam("employeeID", "42"), "employeeID")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := PathID(requestWithParam("employeeID", raw), "employeeID")
		assert.Error(t, err, raw)
	}
}
