package postservice

import (
	"context"
	"database/sql"

	"github.com/mochigome/inkwell/internal/common"
)

// DefaultCategories is the fallback filter taxonomy served when no post
// carries a category yet.
var DefaultCategories = []string{"technology", "programming", "design", "career", "other"}

func NewPostService(db *sql.DB, c *common.Cache) *PostService {
	return &PostService{m: newPostModel(db), c: c}
}

type CreatePostRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Image    *string `json:"image"`
	Category *string `json:"category"`
	AuthorID int     `json:"author_id"`
}

// UpdatePostRequest is a partial patch. A nil field keeps the stored value; an
// empty string on image or category clears it.
type UpdatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Image    *string `json:"image"`
	Category *string `json:"category"`
}

// CreatePost creates a new post. The author ID must be provided.
func (s *PostService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateCategory(v, req.Category)
	validateImage(v, req.Image)
	validateInt(v, req.AuthorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post := &Post{
		Title:    req.Title,
		Content:  sanitizeMarkdown(req.Content),
		Image:    req.Image,
		Category: req.Category,
		AuthorID: req.AuthorID,
	}

	err := s.m.insert(ctx, post)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPostsByAuthor(post.AuthorID))
	s.c.Delete(common.CacheKeyCategories())

	return s.m.getPostById(ctx, post.ID)
}

// GetPostByID returns a post by its ID.
func (s *PostService) GetPostByID(ctx context.Context, id int) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyPost(id)); ok {
		return cached.(*Post), nil
	}

	post, err := s.m.getPostById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPost(id), post)

	return post, nil
}

// ListPosts resolves a listing request: search and category filters, then
// sort, then pagination. The whole query runs against the store so every
// client sees the same page for the same query and data.
func (s *PostService) ListPosts(ctx context.Context, q ListQuery) (*Page, error) {
	q.normalize()

	v := common.NewValidator()
	validateSort(v, q.Sort)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	totalCount, err := s.m.countPosts(ctx, &q)
	if err != nil {
		return nil, err
	}

	page, totalPages, offset := pageWindow(totalCount, q.Page, q.PageSize)

	result := &Page{
		Items:      []Post{},
		Page:       page,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}

	if totalCount == 0 {
		return result, nil
	}

	items, err := s.m.listPosts(ctx, &q, q.PageSize, offset)
	if err != nil {
		return nil, err
	}

	result.Items = items

	return result, nil
}

// UpdatePost applies a partial patch to a post. Only the author may update a
// post, and the current record is re-fetched before every merge so an absent
// field always keeps the latest stored value.
func (s *PostService) UpdatePost(ctx context.Context, id, callerID int, patch *UpdatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, callerID, "caller_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post, err := s.m.getPostById(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != callerID {
		return nil, ErrNotPostAuthor
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}

	if patch.Content != nil {
		post.Content = sanitizeMarkdown(*patch.Content)
	}

	if patch.Image != nil {
		if *patch.Image == "" {
			post.Image = nil
		} else {
			post.Image = patch.Image
		}
	}

	if patch.Category != nil {
		if *patch.Category == "" {
			post.Category = nil
		} else {
			post.Category = patch.Category
		}
	}

	v = common.NewValidator()
	validateTitle(v, post.Title)
	validateContent(v, post.Content)
	validateCategory(v, post.Category)
	validateImage(v, post.Image)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.updatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPost(id))
	s.c.Delete(common.CacheKeyPostsByAuthor(post.AuthorID))
	s.c.Delete(common.CacheKeyCategories())

	return post, nil
}

// DeletePost removes a post. Only the author may delete a post.
func (s *PostService) DeletePost(ctx context.Context, id, callerID int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, callerID, "caller_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	post, err := s.m.getPostById(ctx, id)
	if err != nil {
		return err
	}

	if post.AuthorID != callerID {
		return ErrNotPostAuthor
	}

	err = s.m.deletePost(ctx, id)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPost(id))
	s.c.Delete(common.CacheKeyPostsByAuthor(post.AuthorID))
	s.c.Delete(common.CacheKeyCategories())

	return nil
}

// GetPostsByAuthor returns all posts by one author, newest first.
func (s *PostService) GetPostsByAuthor(ctx context.Context, authorID int) ([]Post, error) {
	v := common.NewValidator()
	validateInt(v, authorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyPostsByAuthor(authorID)); ok {
		return cached.([]Post), nil
	}

	posts, err := s.m.getPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPostsByAuthor(authorID), posts)

	return posts, nil
}

// Categories returns the distinct categories present in the collection,
// falling back to DefaultCategories when none exist.
func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	if cached, ok := s.c.Get(common.CacheKeyCategories()); ok {
		return cached.([]string), nil
	}

	categories, err := s.m.categories(ctx)
	if err != nil {
		return nil, err
	}

	if len(categories) == 0 {
		categories = DefaultCategories
	}

	s.c.Set(common.CacheKeyCategories(), categories)

	return categories, nil
}
