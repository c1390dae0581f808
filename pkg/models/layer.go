package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Status
// ============================================================================

// LayerStatus represents where a layer is in the refinement lifecycle.
type LayerStatus string

const (
	// StatusDraft exists only inside CreateDraft, before the oracle has
	// produced its first reply.
	StatusDraft LayerStatus = "draft"
	// StatusAwaitingUser means the oracle has replied and the user must
	// edit or confirm.
	StatusAwaitingUser LayerStatus = "awaiting_user"
	// StatusFinalized means the prompt is locked in and ready for generation.
	StatusFinalized LayerStatus = "finalized"
	// StatusGenerated is terminal: the final answer has been produced.
	StatusGenerated LayerStatus = "generated"
)

// ValidLayerStatuses contains all valid status values.
var ValidLayerStatuses = []LayerStatus{
	StatusDraft,
	StatusAwaitingUser,
	StatusFinalized,
	StatusGenerated,
}

// IsValidLayerStatus checks if the given status is valid.
func IsValidLayerStatus(s LayerStatus) bool {
	for _, v := range ValidLayerStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ============================================================================
// Reply actions and transition table
// ============================================================================

// ReplyAction is what the user asks for when replying to the agent.
type ReplyAction string

const (
	ActionEdit    ReplyAction = "edit"
	ActionConfirm ReplyAction = "confirm"
)

// IsValidReplyAction checks if the given action is valid.
func IsValidReplyAction(a ReplyAction) bool {
	return a == ActionEdit || a == ActionConfirm
}

// replyTransitions maps (current status, action) to the next status.
// Pairs absent from the table are disallowed. Replies are only legal while
// awaiting user input: a finalized prompt is locked (confirm would silently
// overwrite finalPrompt, edit would leave finalPrompt set while reopening
// refinement), and a generated layer is terminal.
var replyTransitions = map[LayerStatus]map[ReplyAction]LayerStatus{
	StatusAwaitingUser: {
		ActionEdit:    StatusAwaitingUser,
		ActionConfirm: StatusFinalized,
	},
}

// ReplyTransition returns the status a reply with the given action moves the
// layer to, and whether the pair is allowed at all.
func ReplyTransition(status LayerStatus, action ReplyAction) (LayerStatus, bool) {
	next, ok := replyTransitions[status][action]
	return next, ok
}

// CanGenerate reports whether generation is legal from the given status.
func CanGenerate(status LayerStatus) bool {
	return status == StatusFinalized
}

// ============================================================================
// Messages and edit history
// ============================================================================

// MessageSender identifies who produced a conversation turn.
type MessageSender string

const (
	SenderUser  MessageSender = "user"
	SenderAgent MessageSender = "agent"
)

// Message is one turn in the refinement conversation. Messages are
// append-only; insertion order is significant.
type Message struct {
	Sender      MessageSender `json:"sender"`
	Content     string        `json:"content"`
	Suggestions []string      `json:"suggestions,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// EditRecord captures one prompt revision: the value the prompt had before
// the edit, who made it, and when. Append-only.
type EditRecord struct {
	PreviousPrompt string    `json:"previous_prompt"`
	EditedBy       uuid.UUID `json:"edited_by"`
	EditedAt       time.Time `json:"edited_at"`
}

// ============================================================================
// Layer
// ============================================================================

// Layer is one prompt-refinement session. OwnerID is immutable after
// creation; FinalPrompt and GeneratedResponse are each set exactly once.
type Layer struct {
	ID                 uuid.UUID    `json:"id"`
	OwnerID            uuid.UUID    `json:"owner_id"`
	InitialPrompt      string       `json:"initial_prompt"`
	FinalPrompt        string       `json:"final_prompt,omitempty"`
	GeneratedResponse  string       `json:"generated_response,omitempty"`
	Status             LayerStatus  `json:"status"`
	ReadyForGeneration bool         `json:"ready_for_generation"`
	Messages           []Message    `json:"messages"`
	EditHistory        []EditRecord `json:"edit_history"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`

	// Version supports optimistic concurrency in the repository. Incremented
	// on every persisted update; not exposed over the API.
	Version int64 `json:"-"`
}

// NewLayer creates a draft layer owned by ownerID, seeded with the user's
// initial prompt as the first message.
func NewLayer(ownerID uuid.UUID, prompt string) *Layer {
	now := time.Now().UTC()
	l := &Layer{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		InitialPrompt: prompt,
		Status:        StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	l.AppendUserMessage(prompt)
	return l
}

// IsOwnedBy reports whether userID is the layer's owner.
func (l *Layer) IsOwnedBy(userID uuid.UUID) bool {
	return l.OwnerID == userID
}

// AppendUserMessage appends a user turn to the conversation.
func (l *Layer) AppendUserMessage(content string) {
	l.Messages = append(l.Messages, Message{
		Sender:    SenderUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

// AppendAgentMessage appends an agent turn with optional suggestions.
func (l *Layer) AppendAgentMessage(content string, suggestions []string) {
	l.Messages = append(l.Messages, Message{
		Sender:      SenderAgent,
		Content:     content,
		Suggestions: suggestions,
		CreatedAt:   time.Now().UTC(),
	})
}

// RecordEdit appends an edit-history entry for the current prompt value and
// replaces the working prompt with content. Status returns to awaiting_user.
func (l *Layer) RecordEdit(content string, editedBy uuid.UUID) {
	l.EditHistory = append(l.EditHistory, EditRecord{
		PreviousPrompt: l.InitialPrompt,
		EditedBy:       editedBy,
		EditedAt:       time.Now().UTC(),
	})
	l.InitialPrompt = content
	l.Status = StatusAwaitingUser
}

// Finalize locks in the prompt text. An empty content falls back to the
// current working prompt so confirmation can never produce an empty
// finalPrompt.
func (l *Layer) Finalize(content string) {
	if content == "" {
		content = l.InitialPrompt
	}
	l.FinalPrompt = content
	l.ReadyForGeneration = true
	l.Status = StatusFinalized
}

// MarkGenerated stores the oracle's answer and moves to the terminal state.
func (l *Layer) MarkGenerated(response string) {
	l.GeneratedResponse = response
	l.Status = StatusGenerated
}
