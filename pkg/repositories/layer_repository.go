// Package repositories provides data access over PostgreSQL.
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shariquekazmi/plan-generation-api/pkg/apperrors"
	"github.com/shariquekazmi/plan-generation-api/pkg/database"
	"github.com/shariquekazmi/plan-generation-api/pkg/models"
)

// LayerRepository provides data access for layers and their append-only
// message/edit sub-collections.
//
// Update uses optimistic concurrency: the layer row carries a version that
// must match the one loaded by Get, otherwise apperrors.ErrConflict is
// returned and nothing is written. Messages and edits are append-only; only
// the new tail is inserted.
type LayerRepository interface {
	Create(ctx context.Context, layer *models.Layer) error
	Get(ctx context.Context, id uuid.UUID) (*models.Layer, error)
	Update(ctx context.Context, layer *models.Layer, newMessages []models.Message, newEdits []models.EditRecord) error
}

type layerRepository struct {
	db *database.DB
}

// NewLayerRepository creates a new LayerRepository.
func NewLayerRepository(db *database.DB) LayerRepository {
	return &layerRepository{db: db}
}

var _ LayerRepository = (*layerRepository)(nil)

func (r *layerRepository) Create(ctx context.Context, layer *models.Layer) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	layer.Version = 1
	query := `
		INSERT INTO layers (
			id, owner_id, initial_prompt, final_prompt, generated_response,
			status, ready_for_generation, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = tx.Exec(ctx, query,
		layer.ID, layer.OwnerID, layer.InitialPrompt, layer.FinalPrompt,
		layer.GeneratedResponse, layer.Status, layer.ReadyForGeneration,
		layer.Version, layer.CreatedAt, layer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert layer: %w", err)
	}

	if err := insertMessages(ctx, tx, layer.ID, 0, layer.Messages); err != nil {
		return err
	}
	if err := insertEdits(ctx, tx, layer.ID, 0, layer.EditHistory); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *layerRepository) Get(ctx context.Context, id uuid.UUID) (*models.Layer, error) {
	layer := &models.Layer{}
	query := `
		SELECT id, owner_id, initial_prompt, final_prompt, generated_response,
		       status, ready_for_generation, version, created_at, updated_at
		FROM layers
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&layer.ID, &layer.OwnerID, &layer.InitialPrompt, &layer.FinalPrompt,
		&layer.GeneratedResponse, &layer.Status, &layer.ReadyForGeneration,
		&layer.Version, &layer.CreatedAt, &layer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get layer: %w", err)
	}

	layer.Messages, err = r.getMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	layer.EditHistory, err = r.getEdits(ctx, id)
	if err != nil {
		return nil, err
	}

	return layer, nil
}

func (r *layerRepository) Update(ctx context.Context, layer *models.Layer, newMessages []models.Message, newEdits []models.EditRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	layer.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE layers
		SET initial_prompt = $1, final_prompt = $2, generated_response = $3,
		    status = $4, ready_for_generation = $5, version = version + 1,
		    updated_at = $6
		WHERE id = $7 AND version = $8`

	tag, err := tx.Exec(ctx, query,
		layer.InitialPrompt, layer.FinalPrompt, layer.GeneratedResponse,
		layer.Status, layer.ReadyForGeneration, layer.UpdatedAt,
		layer.ID, layer.Version,
	)
	if err != nil {
		return fmt.Errorf("update layer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	msgSeqStart := len(layer.Messages) - len(newMessages)
	if err := insertMessages(ctx, tx, layer.ID, msgSeqStart, newMessages); err != nil {
		return err
	}

	editSeqStart := len(layer.EditHistory) - len(newEdits)
	if err := insertEdits(ctx, tx, layer.ID, editSeqStart, newEdits); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	layer.Version++
	return nil
}

func (r *layerRepository) getMessages(ctx context.Context, layerID uuid.UUID) ([]models.Message, error) {
	query := `
		SELECT sender, content, suggestions, created_at
		FROM layer_messages
		WHERE layer_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, layerID)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		var suggestionsJSON []byte
		if err := rows.Scan(&m.Sender, &m.Content, &suggestionsJSON, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if len(suggestionsJSON) > 0 {
			if err := json.Unmarshal(suggestionsJSON, &m.Suggestions); err != nil {
				return nil, fmt.Errorf("unmarshal suggestions: %w", err)
			}
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

func (r *layerRepository) getEdits(ctx context.Context, layerID uuid.UUID) ([]models.EditRecord, error) {
	query := `
		SELECT previous_prompt, edited_by, edited_at
		FROM layer_edits
		WHERE layer_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, layerID)
	if err != nil {
		return nil, fmt.Errorf("get edits: %w", err)
	}
	defer rows.Close()

	edits := make([]models.EditRecord, 0)
	for rows.Next() {
		var e models.EditRecord
		if err := rows.Scan(&e.PreviousPrompt, &e.EditedBy, &e.EditedAt); err != nil {
			return nil, fmt.Errorf("scan edit: %w", err)
		}
		edits = append(edits, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edits: %w", err)
	}

	return edits, nil
}

func insertMessages(ctx context.Context, tx pgx.Tx, layerID uuid.UUID, seqStart int, messages []models.Message) error {
	query := `
		INSERT INTO layer_messages (id, layer_id, seq, sender, content, suggestions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, m := range messages {
		var suggestionsJSON []byte
		if m.Suggestions != nil {
			var err error
			suggestionsJSON, err = json.Marshal(m.Suggestions)
			if err != nil {
				return fmt.Errorf("marshal suggestions: %w", err)
			}
		}

		_, err := tx.Exec(ctx, query,
			uuid.New(), layerID, seqStart+i, m.Sender, m.Content, suggestionsJSON, m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}
	return nil
}

func insertEdits(ctx context.Context, tx pgx.Tx, layerID uuid.UUID, seqStart int, edits []models.EditRecord) error {
	query := `
		INSERT INTO layer_edits (id, layer_id, seq, previous_prompt, edited_by, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i, e := range edits {
		_, err := tx.Exec(ctx, query,
			uuid.New(), layerID, seqStart+i, e.PreviousPrompt, e.EditedBy, e.EditedAt,
		)
		if err != nil {
			return fmt.Errorf("insert edit: %w", err)
		}
	}
	return nil
}
