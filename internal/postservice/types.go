package postservice

import (
	"database/sql"
	"time"

	"github.com/mochigome/inkwell/internal/common"
)

// Author is the slice of the user record a post carries around for display.
type Author struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	// Content is stored in Markdown format.
	Content string `json:"content"`
	// Image holds an encoded image payload. The service treats it as an
	// opaque blob and never inspects it.
	Image     *string   `json:"image,omitempty"`
	Category  *string   `json:"category,omitempty"`
	AuthorID  int       `json:"author_id"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

type PostModel struct {
	db *sql.DB
}

type PostService struct {
	m *PostModel
	c *common.Cache
}
