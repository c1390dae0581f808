// Package services implements the business logic of the plan-generation API.
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shariquekazmi/plan-generation-api/pkg/apperrors"
	"github.com/shariquekazmi/plan-generation-api/pkg/models"
	"github.com/shariquekazmi/plan-generation-api/pkg/oracle"
	"github.com/shariquekazmi/plan-generation-api/pkg/repositories"
	"github.com/shariquekazmi/plan-generation-api/pkg/retry"
)

// ReplyInput carries the user's reply to the agent.
type ReplyInput struct {
	Action  models.ReplyAction
	Content string
}

// LayerService drives a layer through its refinement lifecycle.
//
// Every method that takes a layer ID loads the layer, checks ownership, and
// only then considers the requested action. Callers that fail the ownership
// check get apperrors.ErrForbidden and the layer is left untouched.
type LayerService interface {
	CreateDraft(ctx context.Context, userID uuid.UUID, prompt string) (*models.Layer, error)
	ReplyToAgent(ctx context.Context, userID, layerID uuid.UUID, input ReplyInput) (*models.Layer, error)
	GenerateFromFinal(ctx context.Context, userID, layerID uuid.UUID) (*models.Layer, error)
	GetLayerByID(ctx context.Context, userID, layerID uuid.UUID) (*models.Layer, error)
}

type layerService struct {
	repo           repositories.LayerRepository
	oracle         oracle.Oracle
	oracleTimeout  time.Duration
	answerRetryCfg *retry.Config
	logger         *zap.Logger

	// locks serializes mutations per layer ID within this process. The
	// repository's version check still guards against concurrent writers in
	// other processes.
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewLayerService creates a new layer service with dependencies.
func NewLayerService(repo repositories.LayerRepository, o oracle.Oracle, oracleTimeout time.Duration, logger *zap.Logger) LayerService {
	return &layerService{
		repo:           repo,
		oracle:         o,
		oracleTimeout:  oracleTimeout,
		answerRetryCfg: retry.DefaultConfig(),
		logger:         logger.Named("layer-service"),
	}
}

var _ LayerService = (*layerService)(nil)

func (s *layerService) lockLayer(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CreateDraft opens a new refinement session. The layer is persisted in
// awaiting_user with the oracle's first evaluation already appended; the
// transient draft state never leaves this method.
func (s *layerService) CreateDraft(ctx context.Context, userID uuid.UUID, prompt string) (*models.Layer, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrIdentity
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.ErrEmptyPrompt
	}

	layer := models.NewLayer(userID, prompt)

	eval := s.evaluate(ctx, prompt)
	layer.AppendAgentMessage(eval.Message, eval.Suggestions)
	layer.Status = models.StatusAwaitingUser

	if err := s.repo.Create(ctx, layer); err != nil {
		return nil, err
	}

	s.logger.Info("Created draft layer",
		zap.String("layer_id", layer.ID.String()),
		zap.String("owner_id", userID.String()),
		zap.Bool("oracle_degraded", eval.Degraded))

	return layer, nil
}

// ReplyToAgent processes an edit or confirm reply. Replies are only legal
// while the layer is awaiting user input.
func (s *layerService) ReplyToAgent(ctx context.Context, userID, layerID uuid.UUID, input ReplyInput) (*models.Layer, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrIdentity
	}
	if !models.IsValidReplyAction(input.Action) {
		return nil, apperrors.ErrInvalidAction
	}
	if input.Action == models.ActionEdit && strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.ErrEmptyPrompt
	}

	unlock := s.lockLayer(layerID)
	defer unlock()

	layer, err := s.loadOwned(ctx, userID, layerID)
	if err != nil {
		return nil, err
	}

	if _, ok := models.ReplyTransition(layer.Status, input.Action); !ok {
		return nil, apperrors.ErrInvalidTransition
	}

	msgStart := len(layer.Messages)
	editStart := len(layer.EditHistory)

	switch input.Action {
	case models.ActionEdit:
		layer.AppendUserMessage(input.Content)
		layer.RecordEdit(input.Content, userID)

		eval := s.evaluate(ctx, layer.InitialPrompt)
		layer.AppendAgentMessage(eval.Message, eval.Suggestions)

	case models.ActionConfirm:
		if input.Content != "" {
			layer.AppendUserMessage(input.Content)
		}
		layer.Finalize(input.Content)
	}

	if err := s.repo.Update(ctx, layer, layer.Messages[msgStart:], layer.EditHistory[editStart:]); err != nil {
		return nil, err
	}

	s.logger.Info("Processed reply",
		zap.String("layer_id", layerID.String()),
		zap.String("action", string(input.Action)),
		zap.String("status", string(layer.Status)))

	return layer, nil
}

// GenerateFromFinal produces the final answer for a finalized layer. The
// oracle call is retried on transient failures; a hard failure leaves the
// layer finalized so the user can try again.
func (s *layerService) GenerateFromFinal(ctx context.Context, userID, layerID uuid.UUID) (*models.Layer, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrIdentity
	}

	unlock := s.lockLayer(layerID)
	defer unlock()

	layer, err := s.loadOwned(ctx, userID, layerID)
	if err != nil {
		return nil, err
	}

	if !models.CanGenerate(layer.Status) || !layer.ReadyForGeneration || layer.FinalPrompt == "" {
		return nil, apperrors.ErrNotReady
	}

	var response string
	err = retry.DoIfRetryable(ctx, s.answerRetryCfg, func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
		defer cancel()

		var answerErr error
		response, answerErr = s.oracle.Answer(callCtx, layer.FinalPrompt)
		return answerErr
	})
	if err != nil {
		s.logger.Error("Generation failed",
			zap.String("layer_id", layerID.String()),
			zap.Error(err))
		return nil, err
	}

	msgStart := len(layer.Messages)
	layer.AppendAgentMessage(response, nil)
	layer.MarkGenerated(response)

	if err := s.repo.Update(ctx, layer, layer.Messages[msgStart:], nil); err != nil {
		return nil, err
	}

	s.logger.Info("Generated final response",
		zap.String("layer_id", layerID.String()))

	return layer, nil
}

// GetLayerByID returns a layer the caller owns.
func (s *layerService) GetLayerByID(ctx context.Context, userID, layerID uuid.UUID) (*models.Layer, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrIdentity
	}
	return s.loadOwned(ctx, userID, layerID)
}

func (s *layerService) loadOwned(ctx context.Context, userID, layerID uuid.UUID) (*models.Layer, error) {
	layer, err := s.repo.Get(ctx, layerID)
	if err != nil {
		return nil, err
	}
	if !layer.IsOwnedBy(userID) {
		return nil, apperrors.ErrForbidden
	}
	return layer, nil
}

// evaluate runs the oracle's prompt evaluation under the configured timeout.
// Failures never surface here; the oracle returns a fallback evaluation.
func (s *layerService) evaluate(ctx context.Context, prompt string) *oracle.Evaluation {
	callCtx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()

	eval, err := s.oracle.Evaluate(callCtx, prompt)
	if err != nil || eval == nil {
		// Evaluate absorbs failures by contract; guard anyway.
		s.logger.Warn("Oracle evaluation returned error despite fallback contract", zap.Error(err))
		return &oracle.Evaluation{Message: "Could you clarify what you want this prompt to achieve?", Degraded: true}
	}
	return eval
}
