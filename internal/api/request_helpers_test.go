package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lingo-api/internal/api/shared"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), shared.UserIDContextKey, userID))
}

func TestGetUserIDFromContext(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	tests := []struct {
		name       string
		value      interface{}
		expectedID uuid.UUID
		expectedOK bool
	}{
		{"valid user ID", userID, userID, true},
		{"missing user ID", nil, uuid.Nil, false},
		{"nil user ID", uuid.Nil, uuid.Nil, false},
		{"wrong type", "not-a-uuid", uuid.Nil, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.value != nil {
				req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, tt.value))
			}

			id, ok := getUserIDFromContext(req)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedID, id)
		})
	}
}

func TestGetPathUUID(t *testing.T) {
	t.Parallel()

	validID := uuid.New()
	tests := []struct {
		name        string
		value       string
		expectedID  uuid.UUID
		expectedErr string
	}{
		{"valid", validID.String(), validID, ""},
		{"missing", "", uuid.Nil, "id: is required"},
		{"malformed", "lesson-one", uuid.Nil, "id: has invalid format"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.value)
			id, err := getPathUUID(req, "id")
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				assert.Equal(t, http.StatusBadRequest, MapErrorToStatusCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, id)
		})
	}
}

func TestGetQueryInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		target    string
		expected  int
		expectErr bool
	}{
		{"absent uses fallback", "/reviews/due", 20, false},
		{"present", "/reviews/due?limit=5", 5, false},
		{"negative is passed through", "/reviews/due?limit=-1", -1, false},
		{"not a number", "/reviews/due?limit=ten", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := getQueryInt(httptest.NewRequest(http.MethodGet, tt.target, nil), "limit", 20)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestHandleUserIDAndPathUUID(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	pathID := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		req := withUser(withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", pathID.String()), userID)
		rr := httptest.NewRecorder()

		gotUser, gotPath, ok := handleUserIDAndPathUUID(rr, req, "id", discardLogger())
		require.True(t, ok)
		assert.Equal(t, userID, gotUser)
		assert.Equal(t, pathID, gotPath)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", pathID.String())
		rr := httptest.NewRecorder()

		_, _, ok := handleUserIDAndPathUUID(rr, req, "id", discardLogger())
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("bad path id", func(t *testing.T) {
		t.Parallel()
		req := withUser(withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope"), userID)
		rr := httptest.NewRecorder()

		_, _, ok := handleUserIDAndPathUUID(rr, req, "id", nil)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid id: has invalid format")
	})
}

func TestDecodeAndValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		body            string
		expectedOK      bool
		expectedMessage string
	}{
		{"valid", `{"lang_pair_id":"` + uuid.NewString() + `","cefr_level":"B1"}`, true, ""},
		{"malformed json", `{"lang_pair_id":`, false, "Invalid request format"},
		{"missing field", `{}`, false, "Invalid lang_pair_id: required field"},
		{"bad level", `{"lang_pair_id":"` + uuid.NewString() + `","cefr_level":"D9"}`, false, "Invalid cefr_level: invalid value"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			var payload EnrollRequest
			ok := decodeAndValidate(rr, req, &payload, discardLogger())
			assert.Equal(t, tt.expectedOK, ok)
			if !tt.expectedOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Contains(t, rr.Body.String(), tt.expectedMessage)
			}
		})
	}
}
