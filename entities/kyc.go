package entities

import (
	"time"

	"github.com/google/uuid"
)

type KycApplication struct {
	ApplicationID  uuid.UUID  `json:"application_id" db:"application_id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	FullName       string     `json:"full_name" db:"full_name"`
	DocumentNumber string     `json:"document_number" db:"document_number"`
	DocumentURL    string     `json:"document_url" db:"document_url"`
	Status         string     `json:"status" db:"status"`
	Reason         string     `json:"reason" db:"reason"`
	SubmittedAt    time.Time  `json:"submitted_at" db:"submitted_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy     *uuid.UUID `json:"reviewed_by,omitempty" db:"reviewed_by"`
}

const (
	KycStatusPending  = "pending"
	KycStatusApproved = "approved"
	KycStatusRejected = "rejected"
)

type KycCreateResponse struct {
	ApplicationID uuid.UUID `json:"application_id"`
	DocumentURL   string    `json:"document_url"`
}
