package mq

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys double as event actions.
const (
	ActionLinkEnabled  = "share.link.enabled"
	ActionLinkDisabled = "share.link.disabled"
	ActionLinkRotated  = "share.link.rotated"
	ActionGrantAdded   = "share.grant.added"
	ActionGrantRemoved = "share.grant.removed"
	ActionFileDeleted  = "file.deleted"

	// consumed by the mailer, never by the audit queue
	ActionVerificationRequested = "user.verification.requested"
)

// BindingKeys are the topic patterns the audit queue is bound with.
var BindingKeys = []string{"share.#", "file.#"}

// Event is an audit record. It never carries a share token. Token is set only
// on verification events, whose routing key is outside BindingKeys.
type Event struct {
	Id      uuid.UUID `json:"event_id"`
	TS      time.Time `json:"time_stamp"`
	Action  string    `json:"event_action"`
	ActorID string    `json:"actor_id"`
	FileID  string    `json:"file_id"`
	Email   string    `json:"email,omitempty"`
	Token   string    `json:"token,omitempty"`
}

func NewEvent(action string, actorID, fileID uuid.UUID, email string) Event {
	return Event{
		Id:      uuid.New(),
		TS:      time.Now().UTC(),
		Action:  action,
		ActorID: actorID.String(),
		FileID:  fileID.String(),
		Email:   email,
	}
}

// NewVerificationEvent asks the mailer to send the one-time confirmation token
// to email.
func NewVerificationEvent(userID uuid.UUID, email, token string) Event {
	return Event{
		Id:      uuid.New(),
		TS:      time.Now().UTC(),
		Action:  ActionVerificationRequested,
		ActorID: userID.String(),
		Email:   email,
		Token:   token,
	}
}
