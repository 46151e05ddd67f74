package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/saasbase/projecthub/internal/domain"
	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
	"github.com/saasbase/projecthub/internal/security/audit"
	"github.com/saasbase/projecthub/internal/security/auth"
	"github.com/saasbase/projecthub/internal/service"
)

// In-memory stores with the repository semantics: a row under another
// tenant reads as missing.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domainerrors.ErrEmailTaken
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64, tenantID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, tenantID string, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	if patch.CompanyName != nil {
		u.CompanyName = *patch.CompanyName
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	cp := *u
	return &cp, nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	nextID   int64
	projects map[int64]*domain.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) List(_ context.Context, tenantID string) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Project
	for _, p := range r.projects {
		if p.TenantID == tenantID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id int64, tenantID string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, id int64, tenantID string, patch domain.ProjectPatch) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id int64, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.TenantID != tenantID {
		return domainerrors.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type fakeTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*domain.Task
}

func (r *fakeTaskRepo) Create(_ context.Context, tk *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	tk.ID = r.nextID
	cp := *tk
	r.tasks[tk.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) List(_ context.Context, tenantID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, tk := range r.tasks {
		if tk.TenantID != tenantID {
			continue
		}
		if filter.ProjectID != nil && tk.ProjectID != *filter.ProjectID {
			continue
		}
		cp := *tk
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64, tenantID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tk, ok := r.tasks[id]
	if !ok || tk.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	cp := *tk
	return &cp, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, id int64, tenantID string, patch domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tk, ok := r.tasks[id]
	if !ok || tk.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	if patch.Title != nil {
		tk.Title = *patch.Title
	}
	if patch.Description != nil {
		tk.Description = *patch.Description
	}
	if patch.Status != nil {
		tk.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		tk.AssignedTo = patch.AssignedTo
	}
	cp := *tk
	return &cp, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tk, ok := r.tasks[id]
	if !ok || tk.TenantID != tenantID {
		return domainerrors.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeTeamRepo struct {
	mu      sync.Mutex
	nextID  int64
	members map[int64]*domain.TeamMember
}

func (r *fakeTeamRepo) Create(_ context.Context, m *domain.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) List(_ context.Context, tenantID string) ([]*domain.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TeamMember
	for _, m := range r.members {
		if m.TenantID == tenantID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int64, tenantID string) (*domain.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, id int64, tenantID string, patch domain.TeamMemberPatch) (*domain.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	if patch.Role != nil {
		m.Role = *patch.Role
	}
	cp := *m
	return &cp, nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id int64, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.TenantID != tenantID {
		return domainerrors.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret", "projecthub", 0)
	auditLog := audit.NewLogger(logger)

	userRepo := &fakeUserRepo{users: make(map[int64]*domain.User)}
	projectRepo := &fakeProjectRepo{projects: make(map[int64]*domain.Project)}
	taskRepo := &fakeTaskRepo{tasks: make(map[int64]*domain.Task)}
	teamRepo := &fakeTeamRepo{members: make(map[int64]*domain.TeamMember)}

	authSvc := service.NewAuthService(userRepo, tokens, logger)
	userSvc := service.NewUserService(userRepo, nil, logger)
	projectSvc := service.NewProjectService(projectRepo, nil, logger)
	taskSvc := service.NewTaskService(taskRepo, nil, logger)
	teamSvc := service.NewTeamService(teamRepo, logger)

	router := NewRouter(Handlers{
		Auth:    NewAuthHandler(authSvc, auditLog, logger),
		User:    NewUserHandler(userSvc, logger),
		Project: NewProjectHandler(projectSvc, auditLog, logger),
		Task:    NewTaskHandler(taskSvc, auditLog, logger),
		Team:    NewTeamHandler(teamSvc, auditLog, logger),
		Health:  NewHealthHandler(nil, nil, logger),
	}, tokens, logger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (int, Envelope) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, srv.URL+path, buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp.StatusCode, env
}

// registerAndLogin creates an account and returns its bearer token.
func registerAndLogin(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":        email,
		"password":     "secret123",
		"company_name": "Acme",
	})
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("register %s: status %d, envelope %+v", email, status, env)
	}

	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	if status != http.StatusOK || !env.Success {
		t.Fatalf("login %s: status %d, envelope %+v", email, status, env)
	}

	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("login data has unexpected shape: %+v", env.Data)
	}
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("login returned no token: %+v", env.Data)
	}
	return token
}

func dataField(t *testing.T, env Envelope, field string) interface{} {
	t.Helper()
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data has unexpected shape: %+v", env.Data)
	}
	return data[field]
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("health status %d", status)
	}
	if !env.Success || env.Message != "Server is healthy" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if got := dataField(t, env, "status"); got != "running" {
		t.Fatalf("health data status %v", got)
	}
}

func TestAuthGate(t *testing.T) {
	srv := newTestServer(t)

	status, env := doJSON(t, srv, http.MethodGet, "/api/v1/projects", "", nil)
	if status != http.StatusUnauthorized || env.Success {
		t.Fatalf("missing token: status %d, envelope %+v", status, env)
	}
	if env.Message != "No token provided" {
		t.Fatalf("missing token message %q", env.Message)
	}

	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/projects", "not-a-real-token", nil)
	if status != http.StatusUnauthorized || env.Success {
		t.Fatalf("invalid token: status %d, envelope %+v", status, env)
	}
	if env.Message != "Invalid token" {
		t.Fatalf("invalid token message %q", env.Message)
	}
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	srv := newTestServer(t)

	registerAndLogin(t, srv, "dup@acme.test")

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "dup@acme.test",
		"password": "another",
	})
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("duplicate register: status %d, envelope %+v", status, env)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	registerAndLogin(t, srv, "owner@acme.test")

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "owner@acme.test",
		"password": "wrong",
	})
	if status != http.StatusUnauthorized || env.Success {
		t.Fatalf("wrong password: status %d, envelope %+v", status, env)
	}
}

func TestProjectLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "owner@acme.test")

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/projects", token, map[string]string{
		"name":        "Launch",
		"description": "ship it",
	})
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("create: status %d, envelope %+v", status, env)
	}
	id := int64(dataField(t, env, "id").(float64))
	if got := dataField(t, env, "status"); got != "active" {
		t.Fatalf("new project status %v", got)
	}

	status, env = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", id), token, nil)
	if status != http.StatusOK || dataField(t, env, "name") != "Launch" {
		t.Fatalf("get: status %d, envelope %+v", status, env)
	}

	status, env = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/v1/projects/%d", id), token, map[string]string{
		"status": "archived",
	})
	if status != http.StatusOK || dataField(t, env, "status") != "archived" {
		t.Fatalf("update: status %d, envelope %+v", status, env)
	}
	if dataField(t, env, "name") != "Launch" {
		t.Fatalf("partial update touched name: %+v", env.Data)
	}

	status, env = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", id), token, nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("delete: status %d, envelope %+v", status, env)
	}

	status, _ = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", id), token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("get after delete: status %d", status)
	}
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	tokenA := registerAndLogin(t, srv, "a@acme.test")
	tokenB := registerAndLogin(t, srv, "b@other.test")

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/projects", tokenA, map[string]string{
		"name": "A-only",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: status %d, envelope %+v", status, env)
	}
	id := int64(dataField(t, env, "id").(float64))

	// Tenant B probing A's project id must get the same response as a
	// nonexistent id: a 404, never a 403.
	status, env = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", id), tokenB, nil)
	if status != http.StatusNotFound || env.Success {
		t.Fatalf("cross-tenant get: status %d, envelope %+v", status, env)
	}
	status, _ = doJSON(t, srv, http.MethodGet, "/api/v1/projects/999999", tokenB, nil)
	if status != http.StatusNotFound {
		t.Fatalf("nonexistent get: status %d", status)
	}

	status, _ = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/v1/projects/%d", id), tokenB, map[string]string{"name": "stolen"})
	if status != http.StatusNotFound {
		t.Fatalf("cross-tenant update: status %d", status)
	}
	status, _ = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d", id), tokenB, nil)
	if status != http.StatusNotFound {
		t.Fatalf("cross-tenant delete: status %d", status)
	}

	// B's list is empty; A still sees the untouched project.
	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/projects", tokenB, nil)
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	if list, ok := env.Data.([]interface{}); !ok || len(list) != 0 {
		t.Fatalf("tenant B list not empty: %+v", env.Data)
	}

	status, env = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", id), tokenA, nil)
	if status != http.StatusOK || dataField(t, env, "name") != "A-only" {
		t.Fatalf("owner get after foreign probes: status %d, envelope %+v", status, env)
	}
}

func TestTaskRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "owner@acme.test")

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/projects", token, map[string]string{"name": "P"})
	if status != http.StatusCreated {
		t.Fatalf("create project: status %d", status)
	}
	projectID := int64(dataField(t, env, "id").(float64))

	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/tasks", token, map[string]interface{}{
		"project_id": projectID,
		"title":      "First",
	})
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("create task: status %d, envelope %+v", status, env)
	}
	taskID := int64(dataField(t, env, "id").(float64))
	if got := dataField(t, env, "status"); got != "todo" {
		t.Fatalf("new task status %v", got)
	}

	status, env = doJSON(t, srv, http.MethodPost, "/api/v1/tasks", token, map[string]interface{}{
		"project_id": projectID + 1,
		"title":      "Elsewhere",
	})
	if status != http.StatusCreated {
		t.Fatalf("create second task: status %d", status)
	}

	// The nested route filters by project.
	status, env = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/tasks", projectID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("list by project: status %d", status)
	}
	list, ok := env.Data.([]interface{})
	if !ok || len(list) != 1 {
		t.Fatalf("list by project returned %+v", env.Data)
	}

	status, env = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d", taskID), token, map[string]interface{}{
		"status":      "done",
		"assigned_to": 1,
	})
	if status != http.StatusOK || dataField(t, env, "status") != "done" {
		t.Fatalf("update task: status %d, envelope %+v", status, env)
	}

	status, env = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", taskID), token, nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("delete task: status %d, envelope %+v", status, env)
	}
}

func TestTeamRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "owner@acme.test")

	status, env := doJSON(t, srv, http.MethodPost, "/api/v1/team", token, map[string]string{
		"email": "dev@acme.test",
		"role":  "developer",
	})
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("create member: status %d, envelope %+v", status, env)
	}
	id := int64(dataField(t, env, "id").(float64))

	status, env = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/v1/team/%d", id), token, map[string]string{
		"role": "admin",
	})
	if status != http.StatusOK || dataField(t, env, "role") != "admin" {
		t.Fatalf("update member: status %d, envelope %+v", status, env)
	}

	status, env = doJSON(t, srv, http.MethodGet, "/api/v1/team", token, nil)
	if status != http.StatusOK {
		t.Fatalf("list members: status %d", status)
	}
	if list, ok := env.Data.([]interface{}); !ok || len(list) != 1 {
		t.Fatalf("member list %+v", env.Data)
	}

	status, _ = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/team/%d", id), token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete member: status %d", status)
	}
}

func TestMalformedBodyAndPathID(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "owner@acme.test")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/projects", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body: status %d", resp.StatusCode)
	}

	status, _ := doJSON(t, srv, http.MethodGet, "/api/v1/projects/abc", token, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("non-numeric id: status %d", status)
	}
}

func TestContentTypeEnforced(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/auth/register", bytes.NewReader([]byte(`{"email":"a@b.test","password":"x"}`)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("wrong content type: status %d", resp.StatusCode)
	}
}
