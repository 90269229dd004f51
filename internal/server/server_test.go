package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"plume/internal/config"
	"plume/internal/models"
	"plume/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key-for-handler-tests"

// newTestServer wires a server over a fresh in-memory database with no
// Redis. Routes are registered on a bare app; the middleware chain is
// exercised separately.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: testJWTSecret,
		Env:       "test",
	}
	db := testutil.OpenTestDB(t)

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app, db
}

func makeToken(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss": "plume-api",
		"aud": "plume-client",
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func makeTokenWithClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// doJSON performs a request against the test app, optionally authenticated
// and with a JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &out), "body: %s", b)
	return out
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustCreateGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, db.Create(group).Error)
	return group
}

func mustCreatePost(t *testing.T, db *gorm.DB, author *models.User, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, UserID: author.ID, PubDate: time.Now()}
	require.NoError(t, db.Create(post).Error)
	return post
}

func mustCreateComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{Text: text, UserID: author.ID, PostID: post.ID, Created: time.Now()}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func TestAuthRequired(t *testing.T) {
	_, app, db := newTestServer(t)
	alice := mustCreateUser(t, db, "alice")

	post := func(token string) int {
		resp := doJSON(t, app, "POST", "/api/v1/posts", token, fiber.Map{"text": "A valid post body text"})
		return resp.StatusCode
	}

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, fiber.StatusUnauthorized, post(""))
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, fiber.StatusUnauthorized, post("not-a-jwt"))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token := makeTokenWithClaims(t, jwt.MapClaims{
			"iss": "someone-else",
			"aud": "plume-client",
			"sub": "1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		assert.Equal(t, fiber.StatusUnauthorized, post(token))
	})

	t.Run("wrong audience", func(t *testing.T) {
		token := makeTokenWithClaims(t, jwt.MapClaims{
			"iss": "plume-api",
			"aud": "other-client",
			"sub": "1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		assert.Equal(t, fiber.StatusUnauthorized, post(token))
	})

	t.Run("expired token", func(t *testing.T) {
		token := makeTokenWithClaims(t, jwt.MapClaims{
			"iss": "plume-api",
			"aud": "plume-client",
			"sub": "1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		assert.Equal(t, fiber.StatusUnauthorized, post(token))
	})

	t.Run("valid token creates", func(t *testing.T) {
		assert.Equal(t, fiber.StatusCreated, post(makeToken(t, alice.ID)))
	})
}

func TestRestrictedHoursGate(t *testing.T) {
	// A window whose start equals its end wraps the whole day, so the
	// gate is closed no matter when the test runs.
	cfg := &config.Config{
		Port:            "0",
		JWTSecret:       testJWTSecret,
		Env:             "test",
		RestrictedHours: "0-0",
	}
	db := testutil.OpenTestDB(t)
	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)

	t.Run("api requests are rejected", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/v1/posts", "", nil)
		require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
		body := decodeBody[map[string]any](t, resp)
		assert.Equal(t, "throttled", body["status"])
		assert.Equal(t, "0:00", body["available_from"])
	})

	t.Run("authentication does not open the gate", func(t *testing.T) {
		alice := mustCreateUser(t, db, "alice")
		resp := doJSON(t, app, "POST", "/api/v1/posts", makeToken(t, alice.ID),
			fiber.Map{"text": "Blocked regardless of identity"})
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	})

	t.Run("health probes stay reachable", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/health/live", "", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp := doJSON(t, app, "GET", "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}
