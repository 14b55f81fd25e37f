package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/repository"
)

const postSelect = `
	SELECT p.id, p.title, p.content, p.date_posted, p.user_id,
		u.username AS author_username, u.email AS author_email,
		u.image_file AS author_image_file,
		u.created_at AS author_created_at, u.updated_at AS author_updated_at
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

// postRow is the flat result of a post joined with its author.
type postRow struct {
	ID              int64     `db:"id"`
	Title           string    `db:"title"`
	Content         string    `db:"content"`
	DatePosted      time.Time `db:"date_posted"`
	UserID          int64     `db:"user_id"`
	AuthorUsername  string    `db:"author_username"`
	AuthorEmail     string    `db:"author_email"`
	AuthorImageFile string    `db:"author_image_file"`
	AuthorCreatedAt time.Time `db:"author_created_at"`
	AuthorUpdatedAt time.Time `db:"author_updated_at"`
}

func (row *postRow) toDomain() *domain.Post {
	return &domain.Post{
		ID:         row.ID,
		Title:      row.Title,
		Content:    row.Content,
		DatePosted: row.DatePosted,
		UserID:     row.UserID,
		Author: &domain.User{
			ID:        row.UserID,
			Username:  row.AuthorUsername,
			Email:     row.AuthorEmail,
			ImageFile: row.AuthorImageFile,
			CreatedAt: row.AuthorCreatedAt,
			UpdatedAt: row.AuthorUpdatedAt,
		},
	}
}

type postRepository struct {
	db *DB
}

func NewPostRepository(db *DB) repository.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (title, content, date_posted, user_id)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.insert(ctx, query,
		post.Title,
		post.Content,
		post.DatePosted,
		post.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	post.ID = id
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := r.db.Rebind(postSelect + ` WHERE p.id = ?`)

	var row postRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return row.toDomain(), nil
}

func (r *postRepository) List(ctx context.Context) ([]*domain.Post, error) {
	query := postSelect + ` ORDER BY p.id ASC`

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*domain.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].toDomain())
	}
	return posts, nil
}
