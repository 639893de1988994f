package entities

import (
	"time"

	"github.com/google/uuid"
)

type NewsPost struct {
	PostID      uuid.UUID  `json:"post_id" db:"post_id"`
	AuthorID    uuid.UUID  `json:"author_id" db:"author_id"`
	Title       string     `json:"title" db:"title"`
	Body        string     `json:"body" db:"body"`
	Published   bool       `json:"published" db:"published"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
}

type NewsPostCreateResponse struct {
	PostID uuid.UUID `json:"post_id"`
}
