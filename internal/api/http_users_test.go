package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"userdesk/internal/config"
	"userdesk/internal/entity"
	"userdesk/internal/storage"
	"userdesk/internal/userstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	dir    string
}

func newTestServer(t *testing.T, enforce bool, seed ...entity.User) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	backend, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	store, err := userstore.New(backend, userstore.Options{EnforceUniqueUsername: enforce})
	require.NoError(t, err)
	_, err = store.Seed(context.Background(), seed)
	require.NoError(t, err)

	h := NewHTTPHandler(config.Config{AppEnv: config.EnvProduction}, store)
	return &testServer{router: NewRouter(h), dir: dir}
}

func (s *testServer) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(bs)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	return w, decoded
}

func (s *testServer) document(t *testing.T) []entity.User {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(s.dir, userstore.DefaultDocumentKey))
	require.NoError(t, err)
	var users []entity.User
	require.NoError(t, json.Unmarshal(raw, &users))
	return users
}

func sampleUser(name, username string) map[string]any {
	return map[string]any{
		"name":         name,
		"username":     username,
		"department":   "Eng",
		"position":     "Engineer",
		"phoneNumber":  "010-0000-0000",
		"businessDate": "2024-01-15",
		"isAdmin":      false,
	}
}

func TestUsersCRUD(t *testing.T) {
	s := newTestServer(t, true,
		entity.User{ID: 1, Name: "Ann", Username: "ann"},
		entity.User{ID: 3, Name: "Bob", Username: "bob"},
	)

	w, body := s.do(t, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Users fetched successfully", body["message"])
	assert.Len(t, body["users"], 2)

	w, body = s.do(t, http.MethodPost, "/api/users", gin.H{"user": sampleUser("Cy", "cy")})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User added successfully", body["message"])
	created := body["user"].(map[string]any)
	assert.Equal(t, float64(4), created["id"])

	w, body = s.do(t, http.MethodPut, "/api/users", gin.H{"id": 3, "user": sampleUser("Bobby", "bobby")})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User with ID 3 updated successfully", body["message"])

	users := s.document(t)
	require.Len(t, users, 3)
	assert.Equal(t, int64(3), users[1].ID)
	assert.Equal(t, "Bobby", users[1].Name)

	w, body = s.do(t, http.MethodGet, "/api/users/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bobby", body["user"].(map[string]any)["username"])

	w, body = s.do(t, http.MethodDelete, "/api/users?id=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User with ID 1 deleted successfully", body["message"])

	w, body = s.do(t, http.MethodDelete, "/api/users/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, ErrCodeUserNotFound, body["code"])
	assert.Equal(t, "User with ID 1 not found", body["message"])

	assert.Equal(t, []int64{3, 4}, []int64{s.document(t)[0].ID, s.document(t)[1].ID})
}

func TestDeleteWithoutIDLeavesDocumentUntouched(t *testing.T) {
	s := newTestServer(t, true, entity.User{ID: 1, Name: "Ann", Username: "ann"})
	before, err := os.ReadFile(filepath.Join(s.dir, userstore.DefaultDocumentKey))
	require.NoError(t, err)

	for _, target := range []string{"/api/users", "/api/users?id=0", "/api/users?id=abc"} {
		w, body := s.do(t, http.MethodDelete, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, "User ID is required", body["message"], target)
	}

	after, err := os.ReadFile(filepath.Join(s.dir, userstore.DefaultDocumentKey))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpdatePathIDWins(t *testing.T) {
	s := newTestServer(t, true,
		entity.User{ID: 1, Name: "Ann", Username: "ann"},
		entity.User{ID: 2, Name: "Bob", Username: "bob"},
	)

	w, body := s.do(t, http.MethodPut, "/api/users/2", gin.H{"id": 1, "user": sampleUser("Bea", "bea")})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["user"].(map[string]any)["id"])
	assert.Equal(t, "Ann", s.document(t)[0].Name)
}

func TestCreateFailures(t *testing.T) {
	s := newTestServer(t, true, entity.User{ID: 1, Name: "Ann", Username: "ann"})

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{name: "missing user", body: gin.H{}, status: http.StatusBadRequest, code: ErrCodeInvalidRequest},
		{name: "blank name", body: gin.H{"user": sampleUser(" ", "zed")}, status: http.StatusBadRequest, code: ErrCodeInvalidRequest},
		{name: "duplicate username", body: gin.H{"user": sampleUser("Ann Two", "ann")}, status: http.StatusConflict, code: ErrCodeDuplicateUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(t, http.MethodPost, "/api/users", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, body["code"])
			assert.Nil(t, body["details"])
		})
	}
	assert.Len(t, s.document(t), 1)
}

func TestLenientPolicyAcceptsDuplicateUsername(t *testing.T) {
	s := newTestServer(t, false, entity.User{ID: 1, Name: "Ann", Username: "ann"})

	w, _ := s.do(t, http.MethodPost, "/api/users", gin.H{"user": sampleUser("Ann Two", "ann")})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, s.document(t), 2)
}

func TestMissingDocumentIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store, err := userstore.New(backend, userstore.Options{})
	require.NoError(t, err)
	router := NewRouter(NewHTTPHandler(config.Config{AppEnv: config.EnvDevelopment}, store))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeStorage, body.Code)
	assert.Equal(t, "Failed to read users data", body.Message)
	assert.NotNil(t, body.Details)
}

func TestRequestIDAndHealth(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMalformedBodyIsInvalidRequest(t *testing.T) {
	s := newTestServer(t, true)

	for _, method := range []string{http.MethodPost, http.MethodPut} {
		req := httptest.NewRequest(method, "/api/users", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, method)
		var body APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, ErrCodeInvalidRequest, body.Code)
		assert.Equal(t, "Invalid request payload", body.Message)
	}
}
