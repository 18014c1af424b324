package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/repositories"
	"github.com/MuhammadFattan/task-management/services"

	"github.com/gorilla/mux"
)

type testServer struct {
	router *mux.Router
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tasks := repositories.NewMemoryTaskStore()
	users := repositories.NewMemoryUserStore()
	policy := services.Policy{}

	authSvc := services.NewAuthService(users, []byte("router-secret"), time.Hour, "invite")
	userSvc := services.NewUserService(users, tasks, policy)

	router := NewRouter(authSvc, Handlers{
		Tasks:     NewTaskHandler(services.NewTaskService(tasks, users, policy)),
		Dashboard: NewDashboardHandler(services.NewDashboardService(tasks, policy)),
		Users:     NewUserHandler(userSvc),
		Auth:      NewAuthHandler(authSvc, userSvc),
	})
	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func (s *testServer) register(t *testing.T, name, invite string) (token, id string) {
	t.Helper()
	rec, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":             name,
		"email":            name + "@example.com",
		"password":         "password1",
		"adminInviteToken": invite,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", name, rec.Code, rec.Body.String())
	}
	return body["token"].(string), body["_id"].(string)
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, status, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.do(t, http.MethodGet, "/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "OK" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	admin, _ := s.register(t, "admin", "invite")
	alice, aliceID := s.register(t, "alice", "")
	bob, _ := s.register(t, "bob", "")

	// Members cannot create tasks.
	rec, body := s.do(t, http.MethodPost, "/api/tasks", alice, map[string]interface{}{})
	expectStatus(t, rec, http.StatusForbidden)
	if body["message"] != "Access denied, admin only" {
		t.Fatalf("unexpected message %v", body["message"])
	}

	// assignedTo must be an array.
	rec, _ = s.do(t, http.MethodPost, "/api/tasks", admin, map[string]interface{}{
		"title": "bad", "dueDate": time.Now().Add(time.Hour), "assignedTo": aliceID,
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec, body = s.do(t, http.MethodPost, "/api/tasks", admin, map[string]interface{}{
		"title":         "Write report",
		"dueDate":       time.Now().Add(time.Hour),
		"assignedTo":    []string{aliceID},
		"todoChecklist": []map[string]interface{}{{"text": "a"}, {"text": "b"}, {"text": "c"}},
	})
	expectStatus(t, rec, http.StatusCreated)
	if body["message"] != "Task created successfully" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	taskID := body["task"].(map[string]interface{})["_id"].(string)

	// Scoped listing.
	rec, body = s.do(t, http.MethodGet, "/api/tasks", alice, nil)
	expectStatus(t, rec, http.StatusOK)
	if n := len(body["tasks"].([]interface{})); n != 1 {
		t.Fatalf("alice should see 1 task, got %d", n)
	}
	rec, body = s.do(t, http.MethodGet, "/api/tasks?status=InProgress", admin, nil)
	expectStatus(t, rec, http.StatusOK)
	summary := body["statusSummary"].(map[string]interface{})
	if summary["all"].(float64) != 1 || summary["pendingTasks"].(float64) != 0 {
		t.Fatalf("unexpected summary %v", summary)
	}
	rec, body = s.do(t, http.MethodGet, "/api/tasks", bob, nil)
	expectStatus(t, rec, http.StatusOK)
	if n := len(body["tasks"].([]interface{})); n != 0 {
		t.Fatalf("bob should see no tasks, got %d", n)
	}

	// Checklist authority.
	done := map[string]interface{}{"todoChecklist": []map[string]interface{}{
		{"text": "a", "completed": true}, {"text": "b", "completed": true}, {"text": "c", "completed": true},
	}}
	rec, _ = s.do(t, http.MethodPut, "/api/tasks/"+taskID+"/todo", bob, done)
	expectStatus(t, rec, http.StatusForbidden)

	rec, body = s.do(t, http.MethodPut, "/api/tasks/"+taskID+"/todo", alice, done)
	expectStatus(t, rec, http.StatusOK)
	task := body["task"].(map[string]interface{})
	if task["progress"].(float64) != 100 || task["status"] != "Completed" {
		t.Fatalf("unexpected task %v", task)
	}
	assigned := task["assignedTo"].([]interface{})
	if assigned[0].(map[string]interface{})["name"] != "alice" {
		t.Fatalf("assignees not resolved: %v", assigned)
	}

	// Status authority.
	rec, body = s.do(t, http.MethodPut, "/api/tasks/"+taskID+"/status", alice, map[string]string{"status": "Pending"})
	expectStatus(t, rec, http.StatusOK)
	if body["message"] != "Task status updated" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	rec, _ = s.do(t, http.MethodPut, "/api/tasks/"+taskID+"/status", alice, map[string]string{"status": "Done"})
	expectStatus(t, rec, http.StatusBadRequest)

	// Field updates.
	rec, _ = s.do(t, http.MethodPut, "/api/tasks/"+taskID, bob, map[string]string{"title": "stolen"})
	expectStatus(t, rec, http.StatusForbidden)
	rec, body = s.do(t, http.MethodPut, "/api/tasks/"+taskID, alice, map[string]string{"priority": "High"})
	expectStatus(t, rec, http.StatusOK)
	if body["updatedTask"].(map[string]interface{})["priority"] != "High" {
		t.Fatalf("unexpected update %v", body)
	}

	// Dashboards.
	rec, _ = s.do(t, http.MethodGet, "/api/tasks/dashboard-data", alice, nil)
	expectStatus(t, rec, http.StatusForbidden)
	rec, body = s.do(t, http.MethodGet, "/api/tasks/dashboard-data", admin, nil)
	expectStatus(t, rec, http.StatusOK)
	distribution := body["charts"].(map[string]interface{})["taskDistribution"].(map[string]interface{})
	if distribution["All"].(float64) != 1 || distribution["InProgress"].(float64) != 0 {
		t.Fatalf("unexpected distribution %v", distribution)
	}
	rec, body = s.do(t, http.MethodGet, "/api/tasks/user-dashboard-data", bob, nil)
	expectStatus(t, rec, http.StatusOK)
	if body["statistics"].(map[string]interface{})["totalTasks"].(float64) != 0 {
		t.Fatalf("bob's dashboard should be empty: %v", body)
	}

	// Deletion.
	rec, _ = s.do(t, http.MethodDelete, "/api/tasks/"+taskID, alice, nil)
	expectStatus(t, rec, http.StatusForbidden)
	rec, body = s.do(t, http.MethodDelete, "/api/tasks/"+taskID, admin, nil)
	expectStatus(t, rec, http.StatusOK)
	if body["message"] != "Task deleted successfully" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	rec, body = s.do(t, http.MethodGet, "/api/tasks/"+taskID, admin, nil)
	expectStatus(t, rec, http.StatusNotFound)
	if body["message"] != "Task not found!" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestRequestErrors(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice", "")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"no token", http.MethodGet, "/api/tasks", "", nil, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/tasks", "garbage", nil, http.StatusUnauthorized},
		{"bad task id", http.MethodGet, "/api/tasks/not-an-id", token, nil, http.StatusBadRequest},
		{"bad json", http.MethodPut, "/api/tasks/0123456789abcdef01234567/status", token, "{", http.StatusBadRequest},
		{"unknown task", http.MethodPut, "/api/tasks/0123456789abcdef01234567/status", token, map[string]string{"status": "Pending"}, http.StatusNotFound},
		{"bad status filter", http.MethodGet, "/api/tasks?status=Archived", token, nil, http.StatusBadRequest},
		{"members list is admin only", http.MethodGet, "/api/users", token, nil, http.StatusForbidden},
		{"unknown user", http.MethodGet, "/api/users/0123456789abcdef01234567", token, nil, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := s.do(t, tc.method, tc.path, tc.token, tc.body)
			expectStatus(t, rec, tc.status)
			if _, ok := body["message"].(string); !ok {
				t.Fatalf("error body must carry a message: %s", rec.Body.String())
			}
		})
	}
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, id := s.register(t, "alice", "")

	rec, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "alice", "email": "alice@example.com", "password": "password1",
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if body["message"] != "User already exists" {
		t.Fatalf("unexpected message %v", body["message"])
	}

	rec, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "password1"})
	expectStatus(t, rec, http.StatusOK)
	token := body["token"].(string)

	rec, body = s.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	expectStatus(t, rec, http.StatusOK)
	if body["_id"] != id || body["role"] != string(models.RoleMember) {
		t.Fatalf("unexpected profile %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Fatalf("password leaked")
	}

	rec, body = s.do(t, http.MethodGet, "/api/users/"+id, token, nil)
	expectStatus(t, rec, http.StatusOK)
	if body["email"] != "alice@example.com" {
		t.Fatalf("unexpected user %v", body)
	}
}

func TestMembersListing(t *testing.T) {
	s := newTestServer(t)
	admin, _ := s.register(t, "admin", "invite")
	s.register(t, "alice", "")
	s.register(t, "bob", "")

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)

	var members []models.MemberWithTaskCounts
	if err := json.Unmarshal(rec.Body.Bytes(), &members); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(members) != 2 || members[0].Name != "alice" || members[1].Name != "bob" {
		t.Fatalf("unexpected members %+v", members)
	}
}
