package db

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type INewsRepository interface {
	Create(ctx context.Context, post entities.NewsPost) (entities.NewsPostCreateResponse, error)
	Publish(ctx context.Context, postID uuid.UUID) error
	ListPublished(ctx context.Context) ([]entities.NewsPost, error)
}

type NewsRepository struct {
	db *DB
}

func NewNewsRepository(db *DB) NewsRepository {
	if db == nil {
		panic("db is nil")
	}
	return NewsRepository{
		db: db,
	}
}

func (nr NewsRepository) Create(ctx context.Context, post entities.NewsPost) (entities.NewsPostCreateResponse, error) {
	_, err := nr.db.Conn.ExecContext(ctx, `
		INSERT INTO
		    news_posts (post_id, author_id, title, body)
		VALUES
		    ($1, $2, $3, $4)`,
		post.PostID, post.AuthorID, post.Title, post.Body,
	)
	if err != nil {
		return entities.NewsPostCreateResponse{}, fmt.Errorf("could not insert news post: %w", err)
	}

	return entities.NewsPostCreateResponse{PostID: post.PostID}, nil
}

// Publish is idempotent - publishing an already published post keeps its
// original published_at.
func (nr NewsRepository) Publish(ctx context.Context, postID uuid.UUID) error {
	res, err := nr.db.Conn.ExecContext(ctx, `
		UPDATE news_posts
		SET published = TRUE, published_at = $1
		WHERE post_id = $2 AND published = FALSE`,
		time.Now().UTC(), postID,
	)
	if err != nil {
		return fmt.Errorf("could not publish news post: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := nr.db.Conn.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM news_posts WHERE post_id = $1)`, postID); err != nil {
			return fmt.Errorf("could not check news post: %w", err)
		}
		if !exists {
			return echo.NewHTTPError(http.StatusNotFound, "news post not found")
		}
	}

	return nil
}

func (nr NewsRepository) ListPublished(ctx context.Context) ([]entities.NewsPost, error) {
	var posts []entities.NewsPost
	err := nr.db.Conn.SelectContext(ctx, &posts, `
		SELECT
		    post_id, author_id, title, body, published, created_at, published_at
		FROM
		    news_posts
		WHERE
		    published = TRUE
		ORDER BY published_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("could not list news posts: %w", err)
	}

	return posts, nil
}
