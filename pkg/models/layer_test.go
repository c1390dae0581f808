package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyTransition(t *testing.T) {
	tests := []struct {
		name    string
		status  LayerStatus
		action  ReplyAction
		next    LayerStatus
		allowed bool
	}{
		{"edit while awaiting user loops", StatusAwaitingUser, ActionEdit, StatusAwaitingUser, true},
		{"confirm while awaiting user finalizes", StatusAwaitingUser, ActionConfirm, StatusFinalized, true},
		{"confirm while finalized rejected", StatusFinalized, ActionConfirm, "", false},
		{"edit while finalized rejected", StatusFinalized, ActionEdit, "", false},
		{"confirm after generation rejected", StatusGenerated, ActionConfirm, "", false},
		{"edit after generation rejected", StatusGenerated, ActionEdit, "", false},
		{"reply to raw draft rejected", StatusDraft, ActionEdit, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := ReplyTransition(tt.status, tt.action)
			assert.Equal(t, tt.allowed, ok)
			if tt.allowed {
				assert.Equal(t, tt.next, next)
			}
		})
	}
}

func TestCanGenerate(t *testing.T) {
	assert.True(t, CanGenerate(StatusFinalized))
	assert.False(t, CanGenerate(StatusDraft))
	assert.False(t, CanGenerate(StatusAwaitingUser))
	assert.False(t, CanGenerate(StatusGenerated))
}

func TestNewLayer(t *testing.T) {
	owner := uuid.New()
	l := NewLayer(owner, "Explain quantum computing")

	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.Equal(t, owner, l.OwnerID)
	assert.Equal(t, StatusDraft, l.Status)
	assert.Equal(t, "Explain quantum computing", l.InitialPrompt)
	assert.False(t, l.ReadyForGeneration)

	require.Len(t, l.Messages, 1)
	assert.Equal(t, SenderUser, l.Messages[0].Sender)
	assert.Equal(t, "Explain quantum computing", l.Messages[0].Content)
	assert.Empty(t, l.EditHistory)
}

func TestRecordEdit(t *testing.T) {
	owner := uuid.New()
	l := NewLayer(owner, "original prompt")
	l.Status = StatusAwaitingUser

	l.RecordEdit("revised prompt", owner)

	require.Len(t, l.EditHistory, 1)
	assert.Equal(t, "original prompt", l.EditHistory[0].PreviousPrompt)
	assert.Equal(t, owner, l.EditHistory[0].EditedBy)
	assert.False(t, l.EditHistory[0].EditedAt.IsZero())
	assert.Equal(t, "revised prompt", l.InitialPrompt)
	assert.Equal(t, StatusAwaitingUser, l.Status)
}

func TestRecordEdit_ChainsPreviousPrompts(t *testing.T) {
	owner := uuid.New()
	l := NewLayer(owner, "v1")
	l.Status = StatusAwaitingUser

	l.RecordEdit("v2", owner)
	l.RecordEdit("v3", owner)

	require.Len(t, l.EditHistory, 2)
	assert.Equal(t, "v1", l.EditHistory[0].PreviousPrompt)
	assert.Equal(t, "v2", l.EditHistory[1].PreviousPrompt)
	assert.Equal(t, "v3", l.InitialPrompt)
}

func TestFinalize(t *testing.T) {
	l := NewLayer(uuid.New(), "draft prompt")
	l.Status = StatusAwaitingUser

	l.Finalize("the final prompt")

	assert.Equal(t, "the final prompt", l.FinalPrompt)
	assert.Equal(t, StatusFinalized, l.Status)
	assert.True(t, l.ReadyForGeneration)
}

func TestFinalize_EmptyContentFallsBackToWorkingPrompt(t *testing.T) {
	l := NewLayer(uuid.New(), "draft prompt")
	l.Status = StatusAwaitingUser

	l.Finalize("")

	assert.Equal(t, "draft prompt", l.FinalPrompt)
	assert.Equal(t, StatusFinalized, l.Status)
}

func TestMarkGenerated(t *testing.T) {
	l := NewLayer(uuid.New(), "p")
	l.Finalize("p")

	l.MarkGenerated("the answer")

	assert.Equal(t, "the answer", l.GeneratedResponse)
	assert.Equal(t, StatusGenerated, l.Status)
}

func TestIsOwnedBy(t *testing.T) {
	owner := uuid.New()
	l := NewLayer(owner, "p")

	assert.True(t, l.IsOwnedBy(owner))
	assert.False(t, l.IsOwnedBy(uuid.New()))
}

func TestMessageOrderingPreserved(t *testing.T) {
	l := NewLayer(uuid.New(), "first")
	l.AppendAgentMessage("clarify?", []string{"a", "b"})
	l.AppendUserMessage("second")
	l.AppendAgentMessage("better", nil)

	require.Len(t, l.Messages, 4)
	assert.Equal(t, SenderUser, l.Messages[0].Sender)
	assert.Equal(t, SenderAgent, l.Messages[1].Sender)
	assert.Equal(t, []string{"a", "b"}, l.Messages[1].Suggestions)
	assert.Equal(t, SenderUser, l.Messages[2].Sender)
	assert.Equal(t, SenderAgent, l.Messages[3].Sender)
}

func TestIsValidLayerStatus(t *testing.T) {
	for _, s := range ValidLayerStatuses {
		assert.True(t, IsValidLayerStatus(s))
	}
	assert.False(t, IsValidLayerStatus("archived"))
}

func TestIsValidReplyAction(t *testing.T) {
	assert.True(t, IsValidReplyAction(ActionEdit))
	assert.True(t, IsValidReplyAction(ActionConfirm))
	assert.False(t, IsValidReplyAction("delete"))
	assert.False(t, IsValidReplyAction(""))
}
