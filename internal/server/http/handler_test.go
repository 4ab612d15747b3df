package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/logging"
	"github.com/dmitrijs2005/gotodo/internal/server/auth"
	"github.com/dmitrijs2005/gotodo/internal/server/config"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeUserService struct {
	regOut *models.User
	regErr error

	loginOut string
	loginErr error
}

func (f *fakeUserService) Register(ctx context.Context, userName, password, name string) (*models.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.regOut, nil
}

func (f *fakeUserService) Login(ctx context.Context, userName, password string) (string, error) {
	return f.loginOut, f.loginErr
}

type fakeTodoService struct {
	createErr error

	listUserID string
	listOut    []*models.Todo
	listErr    error

	getOut *models.Todo
	getErr error

	updatePatch services.TodoPatch
	updateOut   *models.Todo
	updateErr   error

	deleteErr error
}

func (f *fakeTodoService) Create(ctx context.Context, userID, title string) (*models.Todo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Todo{ID: "t-1", UserID: userID, Title: title}, nil
}

func (f *fakeTodoService) List(ctx context.Context, userID string) ([]*models.Todo, error) {
	f.listUserID = userID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeTodoService) Get(ctx context.Context, userID, id string) (*models.Todo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeTodoService) Update(ctx context.Context, userID, id string, patch services.TodoPatch) (*models.Todo, error) {
	f.updatePatch = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeTodoService) Delete(ctx context.Context, userID, id string) error {
	return f.deleteErr
}

// ---- helpers ----

const testSecret = "k"

func newTestServer(t *testing.T, us UserService, ts TodoService) *Server {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := &config.Config{EndpointAddr: ":0", SecretKey: testSecret}
	return NewServer(cfg, logger, us, ts)
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func testToken(t *testing.T, userID string) string {
	t.Helper()
	return testTokenWithSecret(t, userID, testSecret)
}

func testTokenWithSecret(t *testing.T, userID, secret string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, []byte(secret))
	require.NoError(t, err)
	return tok
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	msg, _ := resp["message"].(string)
	return msg
}

// ---- signup/login ----

func TestHandleSignup_Success(t *testing.T) {
	s := newTestServer(t, &fakeUserService{regOut: &models.User{ID: "u-1"}}, &fakeTodoService{})

	rec := doRequest(t, s, http.MethodPost, "/signup", "",
		map[string]string{"username": "a@b.com", "password": "secret1", "name": "A"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "you are signed up successfully", decodeMessage(t, rec))
}

func TestHandleSignup_Validation(t *testing.T) {
	s := newTestServer(t, &fakeUserService{regErr: common.ErrorValidation}, &fakeTodoService{})

	rec := doRequest(t, s, http.MethodPost, "/signup", "",
		map[string]string{"username": "x", "password": "1", "name": ""})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid input", decodeMessage(t, rec))
}

func TestHandleSignup_Duplicate(t *testing.T) {
	s := newTestServer(t, &fakeUserService{regErr: common.ErrorAlreadyExists}, &fakeTodoService{})

	rec := doRequest(t, s, http.MethodPost, "/signup", "",
		map[string]string{"username": "a@b.com", "password": "secret1", "name": "A"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user already exists", decodeMessage(t, rec))
}

func TestHandleSignup_InternalError(t *testing.T) {
	s := newTestServer(t, &fakeUserService{regErr: errors.New("db down")}, &fakeTodoService{})

	rec := doRequest(t, s, http.MethodPost, "/signup", "",
		map[string]string{"username": "a@b.com", "password": "secret1", "name": "A"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeMessage(t, rec))
}

func TestHandleSignup_MalformedBody(t *testing.T) {
	s := newTestServer(t, &fakeUserService{}, &fakeTodoService{})

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLogin_Success(t *testing.T) {
	s := newTestServer(t, &fakeUserService{loginOut: "token-abc"}, &fakeTodoService{})

	rec := doRequest(t, s, http.MethodPost, "/login", "",
		map[string]string{"username": "a@b.com", "password": "secret1"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token-abc", resp.Token)
	assert.Equal(t, "you are logged in successfully", resp.Message)
}

func TestHandleLogin_UnknownUser(t *testing.T) {
	s := newTestServer(t, &fakeUserService{loginErr: common.ErrorNotFound}, &fakeTodoService{})

	rec := doRequest(t, s, http.MethodPost, "/login", "",
		map[string]string{"username": "ghost@b.com", "password": "secret1"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user does not exist", decodeMessage(t, rec))
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t, &fakeUserService{loginErr: common.ErrorUnauthorized}, &fakeTodoService{})

	rec := doRequest(t, s, http.MethodPost, "/login", "",
		map[string]string{"username": "a@b.com", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeMessage(t, rec))
}

// ---- todos ----

func TestHandleCreateTodo_Success(t *testing.T) {
	s := newTestServer(t, &fakeUserService{}, &fakeTodoService{})

	rec := doRequest(t, s, http.MethodPost, "/todo", testToken(t, "u-1"),
		map[string]string{"title": "buy milk"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "todo created", decodeMessage(t, rec))
}

func TestHandleCreateTodo_EmptyTitle(t *testing.T) {
	s := newTestServer(t, &fakeUserService{}, &fakeTodoService{createErr: common.ErrorValidation})

	rec := doRequest(t, s, http.MethodPost, "/todo", testToken(t, "u-1"),
		map[string]string{"title": "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title is required", decodeMessage(t, rec))
}

func TestHandleListTodos(t *testing.T) {
	ts := &fakeTodoService{listOut: []*models.Todo{
		{ID: "t-1", UserID: "u-1", Title: "buy milk", Done: false},
	}}
	s := newTestServer(t, &fakeUserService{}, ts)

	rec := doRequest(t, s, http.MethodGet, "/todos", testToken(t, "u-1"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", ts.listUserID, "owner must come from the token")

	var items []models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "buy milk", items[0].Title)
	assert.False(t, items[0].Done)
}

func TestHandleGetTodo_NotFound(t *testing.T) {
	s := newTestServer(t, &fakeUserService{}, &fakeTodoService{getErr: common.ErrorNotFound})

	rec := doRequest(t, s, http.MethodGet, "/todo/t-1", testToken(t, "u-2"), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "todo not found", decodeMessage(t, rec))
}

func TestHandleGetTodo_Success(t *testing.T) {
	s := newTestServer(t, &fakeUserService{}, &fakeTodoService{
		getOut: &models.Todo{ID: "t-1", UserID: "u-1", Title: "buy milk"},
	})

	rec := doRequest(t, s, http.MethodGet, "/todo/t-1", testToken(t, "u-1"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var todo models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todo))
	assert.Equal(t, "t-1", todo.ID)
}

func TestHandleUpdateTodo_PartialPatch(t *testing.T) {
	ts := &fakeTodoService{updateOut: &models.Todo{ID: "t-1", UserID: "u-1", Title: "buy milk", Done: true}}
	s := newTestServer(t, &fakeUserService{}, ts)

	rec := doRequest(t, s, http.MethodPut, "/todo/t-1", testToken(t, "u-1"),
		map[string]any{"done": true})

	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, ts.updatePatch.Done)
	assert.True(t, *ts.updatePatch.Done)
	assert.Nil(t, ts.updatePatch.Title, "absent fields must stay nil")

	var resp updateTodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "todo updated successfully", resp.Message)
	require.NotNil(t, resp.Todo)
	assert.Equal(t, "buy milk", resp.Todo.Title)
}

func TestHandleUpdateTodo_NotFound(t *testing.T) {
	s := newTestServer(t, &fakeUserService{}, &fakeTodoService{updateErr: common.ErrorNotFound})

	rec := doRequest(t, s, http.MethodPut, "/todo/t-1", testToken(t, "u-2"),
		map[string]any{"done": true})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDeleteTodo_Success(t *testing.T) {
	s := newTestServer(t, &fakeUserService{}, &fakeTodoService{})

	rec := doRequest(t, s, http.MethodDelete, "/todo/t-1", testToken(t, "u-1"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "todo deleted successfully", decodeMessage(t, rec))
}

func TestHandleDeleteTodo_NotFound(t *testing.T) {
	s := newTestServer(t, &fakeUserService{}, &fakeTodoService{deleteErr: common.ErrorNotFound})

	rec := doRequest(t, s, http.MethodDelete, "/todo/t-1", testToken(t, "u-2"), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
