package postservice

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrAuthorForeignKey = errors.New("author_id does not exist")
	ErrEditConflict     = errors.New("edit conflict")
	ErrNotPostAuthor    = errors.New("caller is not the post author")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *PostModel) insert(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (title, content, image, category, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at, version`

	args := []any{post.Title, post.Content, post.Image, post.Category, post.AuthorID}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt, &post.Version)
	if err != nil {
		switch {
		case ForeignKeyError(err, "posts_author_id_fkey"):
			return ErrAuthorForeignKey
		default:
			return err
		}
	}

	return nil
}

// getPostById is a method to get a post by its ID joining the users table to get the author's name and email.
func (m *PostModel) getPostById(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT p.id, p.title, p.content, p.image, p.category, p.author_id, p.created_at, p.updated_at, p.version, u.username, u.email
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = $1`

	row := m.db.QueryRowContext(ctx, query, id)

	var post Post
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.Image, &post.Category, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt, &post.Version, &post.Author.Username, &post.Author.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	post.Author.ID = post.AuthorID

	return &post, nil
}

// countPosts returns the size of the filtered set described by q, ignoring its
// pagination fields.
func (m *PostModel) countPosts(ctx context.Context, q *ListQuery) (int, error) {
	where, args := q.filterClause()

	query := "SELECT COUNT(*) FROM posts p " + where

	var count int
	err := m.db.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// listPosts fetches one window of the filtered and sorted set. The limit and
// offset must already be resolved against the filtered count.
func (m *PostModel) listPosts(ctx context.Context, q *ListQuery, limit, offset int) ([]Post, error) {
	where, args := q.filterClause()

	query := `
		SELECT p.id, p.title, p.content, p.image, p.category, p.author_id, p.created_at, p.updated_at, p.version, u.username, u.email
		FROM posts p
		JOIN users u ON p.author_id = u.id
		` + where + `
		` + q.orderClause() + `
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	args = append(args, limit, offset)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Image, &post.Category, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt, &post.Version, &post.Author.Username, &post.Author.Email)
		if err != nil {
			return nil, err
		}
		post.Author.ID = post.AuthorID
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *PostModel) updatePost(ctx context.Context, post *Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, image = $3, category = $4, updated_at = now(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING updated_at, version`

	args := []any{post.Title, post.Content, post.Image, post.Category, post.ID, post.Version}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&post.UpdatedAt, &post.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

func (m *PostModel) deletePost(ctx context.Context, id int) error {
	query := `
		DELETE FROM posts
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// getPostsByAuthor returns all posts by one author, newest first. An author
// with no posts yields an empty slice, not an error.
func (m *PostModel) getPostsByAuthor(ctx context.Context, authorID int) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.content, p.image, p.category, p.author_id, p.created_at, p.updated_at, p.version, u.username, u.email
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC, p.id DESC`

	rows, err := m.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Image, &post.Category, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt, &post.Version, &post.Author.Username, &post.Author.Email)
		if err != nil {
			return nil, err
		}
		post.Author.ID = post.AuthorID
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *PostModel) categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM posts
		WHERE category IS NOT NULL
		ORDER BY category ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
