package entities

import "github.com/google/uuid"

type InternalOpsAccountUpdated_v1 struct {
	Header EventHeader `json:"header"`

	UserID uuid.UUID `json:"user_id"`
}

func (i InternalOpsAccountUpdated_v1) IsInternal() bool { return true }
