package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shariquekazmi/plan-generation-api/pkg/models"
	"github.com/shariquekazmi/plan-generation-api/pkg/services"
)

// mockLayerService is a function-field mock for handler tests.
type mockLayerService struct {
	CreateDraftFunc       func(ctx context.Context, userID uuid.UUID, prompt string) (*models.Layer, error)
	ReplyToAgentFunc      func(ctx context.Context, userID, layerID uuid.UUID, input services.ReplyInput) (*models.Layer, error)
	GenerateFromFinalFunc func(ctx context.Context, userID, layerID uuid.UUID) (*models.Layer, error)
	GetLayerByIDFunc      func(ctx context.Context, userID, layerID uuid.UUID) (*models.Layer, error)
}

var _ services.LayerService = (*mockLayerService)(nil)

func (m *mockLayerService) CreateDraft(ctx context.Context, userID uuid.UUID, prompt string) (*models.Layer, error) {
	if m.CreateDraftFunc != nil {
		return m.CreateDraftFunc(ctx, userID, prompt)
	}
	return nil, fmt.Errorf("CreateDraftFunc not configured")
}

func (m *mockLayerService) ReplyToAgent(ctx context.Context, userID, layerID uuid.UUID, input services.ReplyInput) (*models.Layer, error) {
	if m.ReplyToAgentFunc != nil {
		return m.ReplyToAgentFunc(ctx, userID, layerID, input)
	}
	return nil, fmt.Errorf("ReplyToAgentFunc not configured")
}

func (m *mockLayerService) GenerateFromFinal(ctx context.Context, userID, layerID uuid.UUID) (*models.Layer, error) {
	if m.GenerateFromFinalFunc != nil {
		return m.GenerateFromFinalFunc(ctx, userID, layerID)
	}
	return nil, fmt.Errorf("GenerateFromFinalFunc not configured")
}

func (m *mockLayerService) GetLayerByID(ctx context.Context, userID, layerID uuid.UUID) (*models.Layer, error) {
	if m.GetLayerByIDFunc != nil {
		return m.GetLayerByIDFunc(ctx, userID, layerID)
	}
	return nil, fmt.Errorf("GetLayerByIDFunc not configured")
}

// mockUserService is a function-field mock for handler tests.
type mockUserService struct {
	RegisterFunc func(ctx context.Context, email, name, password string) (*models.User, error)
	LoginFunc    func(ctx context.Context, email, password string) (string, *models.User, error)
}

var _ services.UserService = (*mockUserService)(nil)

func (m *mockUserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, name, password)
	}
	return nil, fmt.Errorf("RegisterFunc not configured")
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", nil, fmt.Errorf("LoginFunc not configured")
}
