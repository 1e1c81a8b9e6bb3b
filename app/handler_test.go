package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/mochigome/inkwell/internal/userservice"
)

func intptr(i int) *int {
	return &i
}

func TestRegisterUserHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name       string
		payload    any
		setup      func(db *sql.DB) error
		wantStatus int
		wantBody   envelope
	}{
		{
			name: "Valid Request",
			payload: map[string]any{
				"username": "testuser",
				"email":    "testuser@example.com",
				"password": "Test_1234!",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Invalid Email",
			payload: map[string]any{
				"username": "testuser",
				"email":    "test",
				"password": "Test_1234!",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]string{"email": "must be a valid email address"}},
		},
		{
			name: "Duplicate Email",
			payload: map[string]any{
				"username": "user1",
				"email":    "testuser@example.com",
				"password": "Test_1234!",
			},
			setup: func(db *sql.DB) error {
				randomHash := make([]byte, 16)
				_, err := rand.Read(randomHash)
				if err != nil {
					return err
				}

				_, err = db.Exec("INSERT INTO users (username, email, password) VALUES ($1, $2, $3)", "testuser", "testuser@example.com", randomHash)
				return err
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]string{"email": "a user with this email address already exists"}},
		},
		{
			name: "Duplicate Username",
			payload: map[string]any{
				"username": "testuser",
				"email":    "testuser1@example.com",
				"password": "Test_1234!",
			},
			setup: func(db *sql.DB) error {
				randomHash := make([]byte, 16)
				_, err := rand.Read(randomHash)
				if err != nil {
					return err
				}

				_, err = db.Exec("INSERT INTO users (username, email, password) VALUES ($1, $2, $3)", "testuser", "testuser@example.co", randomHash)
				return err
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]string{"username": "this username is already taken"}},
		},
		{
			name: "Invalid Password",
			payload: map[string]any{
				"username": "testuser",
				"email":    "testuser@example.com",
				"password": "password",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]string{"password": "must be between 8 and 72 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one symbol"}},
		},
		{
			name:       "Empty Payload",
			payload:    map[string]any{},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]string{"email": "must be provided", "password": "must be provided", "username": "must be provided"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				err := tc.setup(db)
				assert.NoError(t, err)
			}

			status, _, gotBody := ts.post(t, "/v1/users/register", tc.payload, nil)
			assert.Equal(t, tc.wantStatus, status)
			if tc.wantBody != nil {
				assert.JSONEq(t, tc.wantBody.JSON(), gotBody.JSON())
			}

			t.Cleanup(func() {
				_, err := db.Exec("DELETE FROM users")
				assert.NoError(t, err)
			})
		})
	}
}

func TestActivateUserHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token, err := app.userService.CreateUser(ctx, "testuser", "testuser@example.com", "Test_1234!")
	assert.NoError(t, err)

	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM users")
		assert.NoError(t, err)
	})

	t.Run("Malformed Token", func(t *testing.T) {
		status, _, gotBody := ts.put(t, "/v1/users/activate", nil, map[string]any{"token": "short"})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.JSONEq(t, envelope{"error": map[string]string{"token": "invalid token"}}.JSON(), gotBody.JSON())
	})

	t.Run("Unknown Token", func(t *testing.T) {
		status, _, gotBody := ts.put(t, "/v1/users/activate", nil, map[string]any{"token": "AAAAAAAAAAAAAAAAAAAAAAAAAA"})
		assert.Equal(t, http.StatusNotFound, status)
		assert.JSONEq(t, envelope{"error": "resource not found"}.JSON(), gotBody.JSON())
	})

	t.Run("Valid Token", func(t *testing.T) {
		status, _, gotBody := ts.put(t, "/v1/users/activate", nil, map[string]any{"token": *token})
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, envelope{"message": "user account activated"}.JSON(), gotBody.JSON())

		var activated bool
		err := db.QueryRow("SELECT activated FROM users WHERE username = $1", "testuser").Scan(&activated)
		assert.NoError(t, err)
		assert.True(t, activated)
	})
}

func TestLoginUserHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	setup := func(db *sql.DB) error {
		b, err := bcrypt.GenerateFromPassword([]byte("Test_1234!"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.Exec("INSERT INTO users (username, email, password) VALUES ($1, $2, $3)", "testuser", "testuser@example.com", b)
		return err
	}

	testCases := []struct {
		name       string
		payload    any
		setup      func(db *sql.DB) error
		wantStatus int
		wantBody   envelope
	}{
		{
			name: "Valid Request",
			payload: map[string]any{
				"username": "testuser",
				"password": "Test_1234!",
			},
			setup:      setup,
			wantStatus: http.StatusOK,
		},
		{
			name: "Invalid Username",
			payload: map[string]any{
				"username": "testuser1",
				"password": "Test_1234!",
			},
			setup:      setup,
			wantStatus: http.StatusUnauthorized,
			wantBody:   envelope{"error": "invalid authentication credentials"},
		},
		{
			name: "Invalid Password",
			payload: map[string]any{
				"username": "testuser",
				"password": "Test1234!",
			},
			setup:      setup,
			wantStatus: http.StatusUnauthorized,
			wantBody:   envelope{"error": "invalid authentication credentials"},
		},
		{
			name:       "Empty Payload",
			payload:    map[string]any{},
			setup:      setup,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody: envelope{"error": map[string]string{
				"password": "must be provided",
				"username": "must be provided",
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				err := tc.setup(db)
				assert.NoError(t, err)
			}

			status, _, gotBody := ts.post(t, "/v1/users/login", tc.payload, nil)
			assert.Equal(t, tc.wantStatus, status)
			if tc.wantBody != nil {
				assert.JSONEq(t, tc.wantBody.JSON(), gotBody.JSON())
			}

			t.Cleanup(func() {
				_, err := db.Exec("DELETE FROM users")
				assert.NoError(t, err)
			})
		})
	}
}

func TestLogoutUserHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	setup := func(db *sql.DB) (*string, error) {
		b, err := bcrypt.GenerateFromPassword([]byte("Test_1234!"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		_, err = db.Exec("INSERT INTO users (username, email, password) VALUES ($1, $2, $3)", "testuser", "testuser@example.com", b)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		token, err := app.userService.LoginUser(ctx, "testuser", "Test_1234!")
		if err != nil {
			return nil, fmt.Errorf("failed to login user: %w", err)
		}

		return &token.AccessTokenPlain, nil
	}

	testCases := []struct {
		name       string
		setup      func(db *sql.DB) (*string, error)
		wantStatus int
		wantBody   envelope
	}{
		{
			name:       "Valid Request",
			setup:      setup,
			wantStatus: http.StatusOK,
			wantBody:   envelope{"message": "user logged out"},
		},
		{
			name:       "Invalid Token",
			setup:      func(db *sql.DB) (*string, error) { return strptr("invalid-token"), nil },
			wantStatus: http.StatusUnauthorized,
			wantBody:   envelope{"error": "invalid or missing authentication token"},
		},
		{
			name:       "No Token",
			setup:      func(db *sql.DB) (*string, error) { return nil, nil },
			wantStatus: http.StatusUnauthorized,
			wantBody:   envelope{"error": "invalid or missing authentication token"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := tc.setup(db)
			assert.NoError(t, err)

			status, _, gotBody := ts.post(t, "/v1/users/logout", nil, token)
			assert.Equal(t, tc.wantStatus, status)
			if tc.wantBody != nil {
				assert.JSONEq(t, tc.wantBody.JSON(), gotBody.JSON())
			}

			t.Cleanup(func() {
				_, err := db.Exec("DELETE FROM users")
				assert.NoError(t, err)
			})
		})
	}
}

// createTestUser inserts an activated user holding the post:write permission
// and logs them in.
func createTestUser(app *application, db *sql.DB, username, email string) (*string, *int, error) {
	b, err := bcrypt.GenerateFromPassword([]byte("Test_1234!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	var userId int

	err = db.QueryRow("INSERT INTO users (username, email, password, activated) VALUES ($1, $2, $3, $4) RETURNING id", username, email, b, true).Scan(&userId)
	if err != nil {
		return nil, nil, err
	}

	_, err = db.Exec("INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)", userId, string(userservice.PermissionWritePost))
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token, err := app.userService.LoginUser(ctx, username, "Test_1234!")
	if err != nil {
		return nil, nil, err
	}

	return &token.AccessTokenPlain, &userId, nil
}

func createTestPost(app *application, db *sql.DB) (*string, *int, *int, error) {
	authToken, userId, err := createTestUser(app, db, "testuser", "testuser@example.com")
	if err != nil {
		return nil, nil, nil, err
	}

	var postId int
	err = db.QueryRow("INSERT INTO posts (title, content, category, author_id) VALUES ($1, $2, $3, $4) RETURNING id", "Test Post", "This is a test post", "tech", *userId).Scan(&postId)
	if err != nil {
		return nil, nil, nil, err
	}

	return authToken, userId, &postId, nil
}

func TestCreatePostHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name       string
		payload    any
		setup      func(app *application, db *sql.DB) (*string, *int, error)
		wantStatus int
		wantBody   envelope
	}{
		{
			name: "Valid Request",
			payload: map[string]any{
				"title":    "Test Post",
				"content":  "This is a test post",
				"category": "tech",
			},
			setup: func(app *application, db *sql.DB) (*string, *int, error) {
				return createTestUser(app, db, "testuser", "testuser@example.com")
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Empty Title",
			payload: map[string]any{
				"title":   "",
				"content": "This is a test post",
			},
			setup: func(app *application, db *sql.DB) (*string, *int, error) {
				return createTestUser(app, db, "testuser", "testuser@example.com")
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]string{"title": "must be provided"}},
		},
		{
			name: "Punctuated Title",
			payload: map[string]any{
				"title":   "Why Go? A Love Letter",
				"content": "This is a test post",
			},
			setup: func(app *application, db *sql.DB) (*string, *int, error) {
				return createTestUser(app, db, "testuser", "testuser@example.com")
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Empty Category",
			payload: map[string]any{
				"title":    "Test Post",
				"content":  "This is a test post",
				"category": "",
			},
			setup: func(app *application, db *sql.DB) (*string, *int, error) {
				return createTestUser(app, db, "testuser", "testuser@example.com")
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]string{"category": "must not be empty when provided"}},
		},
		{
			name: "No Authentication Token",
			payload: map[string]any{
				"title":   "Test Post",
				"content": "This is a test post",
			},
			setup: func(app *application, db *sql.DB) (*string, *int, error) {
				return nil, nil, nil
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   envelope{"error": "invalid or missing authentication token"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, _, err := tc.setup(app, db)
			assert.NoError(t, err)

			status, _, gotBody := ts.post(t, "/v1/posts", tc.payload, token)
			assert.Equal(t, tc.wantStatus, status)
			if tc.wantBody != nil {
				assert.JSONEq(t, tc.wantBody.JSON(), gotBody.JSON())
			}

			if status == http.StatusCreated {
				post, ok := gotBody["post"].(map[string]any)
				assert.True(t, ok)

				payload, ok := tc.payload.(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, payload["title"], post["title"])
				assert.Equal(t, float64(1), post["version"])
			}

			t.Cleanup(func() {
				_, err := db.Exec("DELETE FROM posts")
				assert.NoError(t, err)

				_, err = db.Exec("DELETE FROM users")
				assert.NoError(t, err)
			})
		})
	}
}

func TestCreatePostRequiresActivation(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	// a user that has logged in but never activated their account
	b, err := bcrypt.GenerateFromPassword([]byte("Test_1234!"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	_, err = db.Exec("INSERT INTO users (username, email, password) VALUES ($1, $2, $3)", "testuser", "testuser@example.com", b)
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token, err := app.userService.LoginUser(ctx, "testuser", "Test_1234!")
	assert.NoError(t, err)

	status, _, gotBody := ts.post(t, "/v1/posts", map[string]any{"title": "Test Post", "content": "This is a test post"}, &token.AccessTokenPlain)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, envelope{"error": "unauthorized access"}.JSON(), gotBody.JSON())

	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM users")
		assert.NoError(t, err)
	})
}

func TestGetPostHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name       string
		setup      func(app *application, db *sql.DB) (*string, *int, *int, error)
		wantStatus int
		wantBody   envelope
	}{
		{
			name:       "Valid Request with Authentication Token",
			setup:      createTestPost,
			wantStatus: http.StatusOK,
		},
		{
			name: "No Authentication Token",
			setup: func(app *application, db *sql.DB) (*string, *int, *int, error) {
				_, userId, postId, err := createTestPost(app, db)
				return nil, userId, postId, err
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Unknown Post ID",
			setup: func(app *application, db *sql.DB) (*string, *int, *int, error) {
				token, userId, _, err := createTestPost(app, db)
				return token, userId, intptr(999999), err
			},
			wantStatus: http.StatusNotFound,
			wantBody:   envelope{"error": "resource not found"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, _, postId, err := tc.setup(app, db)
			assert.NoError(t, err)

			status, _, gotBody := ts.get(t, fmt.Sprintf("/v1/posts/%d", *postId), token)
			assert.Equal(t, tc.wantStatus, status)

			if tc.wantBody != nil {
				assert.JSONEq(t, tc.wantBody.JSON(), gotBody.JSON())
			}

			if status == http.StatusOK {
				post, ok := gotBody["post"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "Test Post", post["title"])

				author, ok := post["author"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "testuser", author["username"])
			}

			t.Cleanup(func() {
				_, err := db.Exec("DELETE FROM posts")
				assert.NoError(t, err)

				_, err = db.Exec("DELETE FROM users")
				assert.NoError(t, err)
			})
		})
	}
}

func TestListPostsHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	_, userId, err := createTestUser(app, db, "testuser", "testuser@example.com")
	assert.NoError(t, err)

	seed := []struct {
		title    string
		content  string
		category string
	}{
		{title: "Apple pie recipe", content: "Bake at 180C", category: "cooking"},
		{title: "Banana bread", content: "Mash the bananas", category: "cooking"},
		{title: "Compiler design", content: "Parsing and apples", category: "tech"},
	}

	for _, p := range seed {
		_, err := db.Exec("INSERT INTO posts (title, content, category, author_id) VALUES ($1, $2, $3, $4)", p.title, p.content, p.category, *userId)
		assert.NoError(t, err)
	}

	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM posts")
		assert.NoError(t, err)

		_, err = db.Exec("DELETE FROM users")
		assert.NoError(t, err)
	})

	t.Run("All Posts", func(t *testing.T) {
		status, _, gotBody := ts.get(t, "/v1/posts", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(3), gotBody["total_count"])
		assert.Equal(t, float64(1), gotBody["total_pages"])
		assert.Equal(t, float64(1), gotBody["page"])
		assert.Len(t, gotBody["items"], 3)
	})

	t.Run("Category Filter", func(t *testing.T) {
		status, _, gotBody := ts.get(t, "/v1/posts?category=cooking", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(2), gotBody["total_count"])
		assert.Len(t, gotBody["items"], 2)
	})

	t.Run("Search Matches Title and Content", func(t *testing.T) {
		status, _, gotBody := ts.get(t, "/v1/posts?search="+url.QueryEscape("apple"), nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(2), gotBody["total_count"])
	})

	t.Run("Sorted A to Z", func(t *testing.T) {
		status, _, gotBody := ts.get(t, "/v1/posts?sort=a-z", nil)
		assert.Equal(t, http.StatusOK, status)

		items, ok := gotBody["items"].([]any)
		assert.True(t, ok)
		assert.Len(t, items, 3)

		first, ok := items[0].(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, "Apple pie recipe", first["title"])
	})

	t.Run("Page Beyond Range Clamps", func(t *testing.T) {
		status, _, gotBody := ts.get(t, "/v1/posts?page=99&page_size=2", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(2), gotBody["page"])
		assert.Equal(t, float64(2), gotBody["total_pages"])
		assert.Len(t, gotBody["items"], 1)
	})

	t.Run("No Matches", func(t *testing.T) {
		status, _, gotBody := ts.get(t, "/v1/posts?search=zzzznomatch", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(0), gotBody["total_count"])
		assert.Equal(t, float64(0), gotBody["total_pages"])
		assert.Equal(t, float64(1), gotBody["page"])
		assert.Empty(t, gotBody["items"])
	})

	t.Run("Invalid Sort", func(t *testing.T) {
		status, _, _ := ts.get(t, "/v1/posts?sort=sideways", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("Invalid Page Parameter", func(t *testing.T) {
		status, _, _ := ts.get(t, "/v1/posts?page=abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestUpdatePostHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name       string
		payload    any
		setup      func(app *application, db *sql.DB) (*string, *int, *int, error)
		wantStatus int
		wantBody   envelope
	}{
		{
			name: "Valid Request",
			payload: map[string]any{
				"title":   "Updated Post",
				"content": "This is an updated post",
			},
			setup:      createTestPost,
			wantStatus: http.StatusOK,
		},
		{
			name: "No Authentication Token",
			payload: map[string]any{
				"title": "Updated Post",
			},
			setup: func(app *application, db *sql.DB) (*string, *int, *int, error) {
				_, userId, postId, err := createTestPost(app, db)
				return nil, userId, postId, err
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   envelope{"error": "invalid or missing authentication token"},
		},
		{
			name: "Unknown Post ID",
			payload: map[string]any{
				"title": "Updated Post",
			},
			setup: func(app *application, db *sql.DB) (*string, *int, *int, error) {
				token, userId, _, err := createTestPost(app, db)
				return token, userId, intptr(999999), err
			},
			wantStatus: http.StatusNotFound,
			wantBody:   envelope{"error": "resource not found"},
		},
		{
			name: "Update Another User's Post",
			payload: map[string]any{
				"title": "Updated Post",
			},
			setup: func(app *application, db *sql.DB) (*string, *int, *int, error) {
				_, _, postId, err := createTestPost(app, db)
				if err != nil {
					return nil, nil, nil, err
				}

				token, userId2, err := createTestUser(app, db, "testuser2", "testuser2@example.com")
				if err != nil {
					return nil, nil, nil, err
				}

				return token, userId2, postId, nil
			},
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{"error": "you do not have permission to modify this resource"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, _, postId, err := tc.setup(app, db)
			assert.NoError(t, err)

			status, _, gotBody := ts.put(t, fmt.Sprintf("/v1/posts/%d", *postId), token, tc.payload)
			assert.Equal(t, tc.wantStatus, status)

			if tc.wantBody != nil {
				assert.JSONEq(t, tc.wantBody.JSON(), gotBody.JSON())
			}

			if status == http.StatusOK {
				post, ok := gotBody["post"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "Updated Post", post["title"])
				assert.Equal(t, float64(2), post["version"])
			}

			t.Cleanup(func() {
				_, err := db.Exec("DELETE FROM posts")
				assert.NoError(t, err)

				_, err = db.Exec("DELETE FROM users")
				assert.NoError(t, err)
			})
		})
	}
}

func TestDeletePostHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name       string
		setup      func(app *application, db *sql.DB) (*string, *int, *int, error)
		wantStatus int
		wantBody   envelope
	}{
		{
			name:       "Valid Request",
			setup:      createTestPost,
			wantStatus: http.StatusOK,
			wantBody:   envelope{"message": "post deleted"},
		},
		{
			name: "No Authentication Token",
			setup: func(app *application, db *sql.DB) (*string, *int, *int, error) {
				_, userId, postId, err := createTestPost(app, db)
				return nil, userId, postId, err
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   envelope{"error": "invalid or missing authentication token"},
		},
		{
			name: "Unknown Post ID",
			setup: func(app *application, db *sql.DB) (*string, *int, *int, error) {
				token, userId, _, err := createTestPost(app, db)
				return token, userId, intptr(999999), err
			},
			wantStatus: http.StatusNotFound,
			wantBody:   envelope{"error": "resource not found"},
		},
		{
			name: "Delete Another User's Post",
			setup: func(app *application, db *sql.DB) (*string, *int, *int, error) {
				_, _, postId, err := createTestPost(app, db)
				if err != nil {
					return nil, nil, nil, err
				}

				token, userId2, err := createTestUser(app, db, "testuser2", "testuser2@example.com")
				if err != nil {
					return nil, nil, nil, err
				}

				return token, userId2, postId, nil
			},
			wantStatus: http.StatusForbidden,
			wantBody:   envelope{"error": "you do not have permission to modify this resource"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, _, postId, err := tc.setup(app, db)
			assert.NoError(t, err)

			status, _, gotBody := ts.delete(t, fmt.Sprintf("/v1/posts/%d", *postId), token)
			assert.Equal(t, tc.wantStatus, status)

			if tc.wantBody != nil {
				assert.JSONEq(t, tc.wantBody.JSON(), gotBody.JSON())
			}

			t.Cleanup(func() {
				_, err := db.Exec("DELETE FROM posts")
				assert.NoError(t, err)

				_, err = db.Exec("DELETE FROM users")
				assert.NoError(t, err)
			})
		})
	}
}

func TestListOwnPostsHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	token, _, _, err := createTestPost(app, db)
	assert.NoError(t, err)

	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM posts")
		assert.NoError(t, err)

		_, err = db.Exec("DELETE FROM users")
		assert.NoError(t, err)
	})

	t.Run("Valid Request", func(t *testing.T) {
		status, _, gotBody := ts.get(t, "/v1/users/posts", token)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, gotBody["posts"], 1)
	})

	t.Run("No Authentication Token", func(t *testing.T) {
		status, _, gotBody := ts.get(t, "/v1/users/posts", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.JSONEq(t, envelope{"error": "invalid or missing authentication token"}.JSON(), gotBody.JSON())
	})
}

func TestListCategoriesHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	t.Run("Defaults When No Posts", func(t *testing.T) {
		status, _, gotBody := ts.get(t, "/v1/categories", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, gotBody["categories"])
	})

	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM posts")
		assert.NoError(t, err)

		_, err = db.Exec("DELETE FROM users")
		assert.NoError(t, err)
	})
}

func TestHealthcheckHandler(t *testing.T) {
	app, _ := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	status, _, gotBody := ts.get(t, "/v1/healthcheck", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", gotBody["status"])
}
