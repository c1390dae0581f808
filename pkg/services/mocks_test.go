package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/shariquekazmi/plan-generation-api/pkg/apperrors"
	"github.com/shariquekazmi/plan-generation-api/pkg/models"
	"github.com/shariquekazmi/plan-generation-api/pkg/repositories"
)

// memoryLayerRepository is an in-memory LayerRepository backing service
// tests. It mirrors the real repository's version check so conflict paths
// can be exercised without a database.
type memoryLayerRepository struct {
	mu     sync.Mutex
	layers map[uuid.UUID]*models.Layer

	// Optional overrides for failure injection.
	CreateFunc func(ctx context.Context, layer *models.Layer) error
	UpdateFunc func(ctx context.Context, layer *models.Layer, newMessages []models.Message, newEdits []models.EditRecord) error

	CreateCalls int
	UpdateCalls int
}

var _ repositories.LayerRepository = (*memoryLayerRepository)(nil)

func newMemoryLayerRepository() *memoryLayerRepository {
	return &memoryLayerRepository{layers: make(map[uuid.UUID]*models.Layer)}
}

func (r *memoryLayerRepository) Create(ctx context.Context, layer *models.Layer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CreateCalls++
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, layer)
	}
	layer.Version = 1
	r.layers[layer.ID] = copyLayer(layer)
	return nil
}

func (r *memoryLayerRepository) Get(ctx context.Context, id uuid.UUID) (*models.Layer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.layers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyLayer(stored), nil
}

func (r *memoryLayerRepository) Update(ctx context.Context, layer *models.Layer, newMessages []models.Message, newEdits []models.EditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UpdateCalls++
	if r.UpdateFunc != nil {
		return r.UpdateFunc(ctx, layer, newMessages, newEdits)
	}
	stored, ok := r.layers[layer.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Version != layer.Version {
		return apperrors.ErrConflict
	}
	layer.Version++
	r.layers[layer.ID] = copyLayer(layer)
	return nil
}

func copyLayer(l *models.Layer) *models.Layer {
	c := *l
	c.Messages = append([]models.Message(nil), l.Messages...)
	c.EditHistory = append([]models.EditRecord(nil), l.EditHistory...)
	return &c
}

// mockUserRepository is a function-field mock for user service tests.
type mockUserRepository struct {
	CreateFunc     func(ctx context.Context, user *models.User) error
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

var _ repositories.UserRepository = (*mockUserRepository)(nil)

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, fmt.Errorf("GetByEmailFunc not configured")
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, fmt.Errorf("GetByIDFunc not configured")
}
