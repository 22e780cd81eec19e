package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

const testCost = bcrypt.MinCost

const testSecret = "secret"

// ---------------------------------------------------------------------------
// In-memory user repository (enforces the same unique keys as the Mongo indexes)
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	seq       int
	createErr error
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.seq)
	r.byID[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = updatedAt
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) countByEmail(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.byID {
		if u.Email == email {
			n++
		}
	}
	return n
}

// seed inserts a user directly, bypassing the services.
func (r *stubUserRepo) seed(username, email string, role domain.Role) *domain.User {
	u, err := r.Create(context.Background(), &domain.User{
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		panic(err)
	}
	return u
}

// ---------------------------------------------------------------------------
// In-memory admin request repository
// ---------------------------------------------------------------------------

type stubRequestRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.AdminRequest
	seq       int
	reopened  []string
	decideErr error
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{byID: make(map[string]*domain.AdminRequest)}
}

func cloneRequest(r *domain.AdminRequest) *domain.AdminRequest {
	clone := *r
	return &clone
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.AdminRequest) (*domain.AdminRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == req.Username || existing.Email == req.Email {
			return nil, domain.ErrRequestExists
		}
	}
	r.seq++
	c := cloneRequest(req)
	c.ID = fmt.Sprintf("req-%d", r.seq)
	r.byID[c.ID] = c
	return cloneRequest(c), nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.AdminRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (r *stubRequestRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.byID {
		if req.Username == username || req.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRequestRepo) List(_ context.Context, status domain.RequestStatus) ([]*domain.AdminRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AdminRequest
	for _, req := range r.byID {
		if req.Status == status {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubRequestRepo) Decide(_ context.Context, id string, d ports.RequestDecision) (*domain.AdminRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.decideErr != nil {
		return nil, r.decideErr
	}
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if req.Status != domain.RequestPending {
		return nil, domain.ErrRequestProcessed
	}
	at := d.DecidedAt
	req.Status = d.Status
	req.RejectionReason = d.RejectionReason
	req.DecidedBy = d.DecidedBy
	req.DecidedAt = &at
	return cloneRequest(req), nil
}

func (r *stubRequestRepo) Reopen(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	req.Status = domain.RequestPending
	req.DecidedAt = nil
	req.DecidedBy = ""
	r.reopened = append(r.reopened, id)
	return nil
}

// ---------------------------------------------------------------------------
// Audit recorder, throttle and token stubs
// ---------------------------------------------------------------------------

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *stubAudit) Enqueue(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *stubAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

type stubThrottle struct {
	blocked   bool
	blockErr  error
	failures  map[string]int
	resets    []string
	recordErr error
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{failures: make(map[string]int)}
}

func (t *stubThrottle) Blocked(_ context.Context, _ string) (bool, error) {
	return t.blocked, t.blockErr
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	if t.recordErr != nil {
		return t.recordErr
	}
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.resets = append(t.resets, email)
	delete(t.failures, email)
	return nil
}

var (
	superAdmin = domain.Identity{UserID: "sa-1", Role: domain.RoleSuperAdmin}
	anAdmin    = domain.Identity{UserID: "admin-1", Role: domain.RoleAdmin}
	aUser      = domain.Identity{UserID: "user-x", Role: domain.RoleUser}
)
