package service

import (
	"context"
	"sort"
	"sync"

	"github.com/saasbase/projecthub/internal/domain"
	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
)

// In-memory repositories mirroring the Postgres semantics: lookups take
// id AND tenant, a row under a different tenant reads as missing.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
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

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
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

func (r *memUserRepo) GetByID(_ context.Context, id int64, tenantID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Update(_ context.Context, id int64, tenantID string, patch domain.UserPatch) (*domain.User, error) {
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

type memProjectRepo struct {
	mu       sync.Mutex
	nextID   int64
	projects map[int64]*domain.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: make(map[int64]*domain.Project)}
}

func (r *memProjectRepo) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	project.ID = r.nextID
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *memProjectRepo) List(_ context.Context, tenantID string) ([]*domain.Project, error) {
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

func (r *memProjectRepo) GetByID(_ context.Context, id int64, tenantID string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProjectRepo) Update(_ context.Context, id int64, tenantID string, patch domain.ProjectPatch) (*domain.Project, error) {
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

func (r *memProjectRepo) Delete(_ context.Context, id int64, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.TenantID != tenantID {
		return domainerrors.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type memTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*domain.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[int64]*domain.Task)}
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	task.ID = r.nextID
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *memTaskRepo) List(_ context.Context, tenantID string, filter domain.TaskFilter) ([]*domain.Task, error) {
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

func (r *memTaskRepo) GetByID(_ context.Context, id int64, tenantID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tk, ok := r.tasks[id]
	if !ok || tk.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	cp := *tk
	return &cp, nil
}

func (r *memTaskRepo) Update(_ context.Context, id int64, tenantID string, patch domain.TaskPatch) (*domain.Task, error) {
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

func (r *memTaskRepo) Delete(_ context.Context, id int64, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tk, ok := r.tasks[id]
	if !ok || tk.TenantID != tenantID {
		return domainerrors.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

type memTeamRepo struct {
	mu      sync.Mutex
	nextID  int64
	members map[int64]*domain.TeamMember
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{members: make(map[int64]*domain.TeamMember)}
}

func (r *memTeamRepo) Create(_ context.Context, member *domain.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	member.ID = r.nextID
	cp := *member
	r.members[member.ID] = &cp
	return nil
}

func (r *memTeamRepo) List(_ context.Context, tenantID string) ([]*domain.TeamMember, error) {
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

func (r *memTeamRepo) GetByID(_ context.Context, id int64, tenantID string) (*domain.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.TenantID != tenantID {
		return nil, domainerrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memTeamRepo) Update(_ context.Context, id int64, tenantID string, patch domain.TeamMemberPatch) (*domain.TeamMember, error) {
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

func (r *memTeamRepo) Delete(_ context.Context, id int64, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.TenantID != tenantID {
		return domainerrors.ErrNotFound
	}
	delete(r.members, id)
	return nil
}
