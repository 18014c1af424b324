package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubAuth struct {
	callers map[string]models.Caller
	err     error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (models.Caller, error) {
	if s.err != nil {
		return models.Caller{}, s.err
	}
	caller, ok := s.callers[token]
	if !ok {
		return models.Caller{}, &services.Error{Kind: services.ErrUnauthenticated, Message: "Not authorized, token failed"}
	}
	return caller, nil
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
	}
	return body["message"]
}

func TestProtect(t *testing.T) {
	member := models.Caller{ID: primitive.NewObjectID(), Role: models.RoleMember}
	auth := stubAuth{callers: map[string]models.Caller{"good": member}}

	var seen models.Caller
	handler := Protect(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Not authorized, no token"},
		{"bad token", "Bearer bad", http.StatusUnauthorized, "Not authorized, token failed"},
		{"good token", "Bearer good", http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.msg != "" && message(t, rec) != tc.msg {
				t.Fatalf("message = %q, want %q", message(t, rec), tc.msg)
			}
		})
	}
	if seen != member {
		t.Fatalf("caller not stored in context: %+v", seen)
	}
}

func TestProtect_StoreFailure(t *testing.T) {
	auth := stubAuth{err: &services.Error{Kind: services.ErrStore, Message: "Server Error"}}
	handler := Protect(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer any")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError || message(t, rec) != "Server Error" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAdminOnly(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := AdminOnly(ok)

	cases := []struct {
		name   string
		caller *models.Caller
		status int
	}{
		{"no caller", nil, http.StatusForbidden},
		{"member", &models.Caller{ID: primitive.NewObjectID(), Role: models.RoleMember}, http.StatusForbidden},
		{"admin", &models.Caller{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tc.caller != nil {
				req = req.WithContext(WithCaller(req.Context(), *tc.caller))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.status == http.StatusForbidden && message(t, rec) != "Access denied, admin only" {
				t.Fatalf("unexpected message %q", message(t, rec))
			}
		})
	}
}

func TestCallerFromContext_Empty(t *testing.T) {
	if _, ok := CallerFromContext(context.Background()); ok {
		t.Fatalf("expected no caller")
	}
}
