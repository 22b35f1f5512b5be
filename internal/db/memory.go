package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// MemoryStore is a Store kept in process memory. Data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	now     func() time.Time
	order   []string // resume ids, oldest first
	resumes map[string]*types.StoredResume
	admins  map[string]*Admin // by normalized email
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		resumes: make(map[string]*types.StoredResume),
		admins:  make(map[string]*Admin),
	}
}

func (m *MemoryStore) CreateResume(_ context.Context, r *types.ResumeData) (*types.StoredResume, error) {
	data := r.Clone()
	data.Normalize()
	ts := formatTime(m.now())
	stored := &types.StoredResume{
		ID:         uuid.NewString(),
		CreatedAt:  ts,
		UpdatedAt:  ts,
		ResumeData: *data,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes[stored.ID] = stored
	m.order = append(m.order, stored.ID)
	return copyStored(stored), nil
}

func (m *MemoryStore) ListResumes(_ context.Context, page, perPage int) ([]types.ResumeListItem, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := len(m.order)
	items := []types.ResumeListItem{}
	start := offset(page, perPage)
	for i := total - 1 - start; i >= 0 && len(items) < perPage; i-- {
		items = append(items, m.resumes[m.order[i]].Summary())
	}
	return items, total, nil
}

func (m *MemoryStore) GetResume(_ context.Context, id string) (*types.StoredResume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.resumes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyStored(stored), nil
}

func (m *MemoryStore) DeleteResume(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resumes[id]; !ok {
		return ErrNotFound
	}
	delete(m.resumes, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) CreateAdmin(_ context.Context, email, passwordHash string) (*Admin, error) {
	email = NormalizeEmail(email)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[email]; ok {
		return nil, ErrDuplicateAdmin
	}
	admin := &Admin{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: m.now()}
	m.admins[email] = admin
	out := *admin
	return &out, nil
}

func (m *MemoryStore) GetAdminByEmail(_ context.Context, email string) (*Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	admin, ok := m.admins[NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	out := *admin
	return &out, nil
}

func (m *MemoryStore) TouchAdminLogin(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, admin := range m.admins {
		if admin.ID == id {
			now := m.now()
			admin.LastLogin = &now
			return nil
		}
	}
	return nil
}

func copyStored(s *types.StoredResume) *types.StoredResume {
	out := *s
	out.ResumeData = *s.ResumeData.Clone()
	return &out
}
