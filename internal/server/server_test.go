package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"message-api/config"
	"message-api/internal/domain/message"
	"message-api/internal/domain/user"
	"message-api/internal/handler"
	"message-api/internal/repository"
	"message-api/internal/repository/memstore"
	"message-api/internal/services"
	"message-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	sampleUserID     = "aaaaaaaaaaaa"
	sampleMessageID  = "bbbbbbbbbbbb"
	sampleMessage2ID = "cccccccccccc"
)

type testAPI struct {
	handler http.Handler
	store   *memstore.Store
}

// failingStore makes every read fail the way a dropped connection would.
type failingStore struct {
	repository.Store
}

type failingMessages struct {
	repository.MessageRepository
}

func (failingStore) Messages() repository.MessageRepository { return failingMessages{} }

func (failingMessages) GetAll(context.Context) ([]message.Message, error) {
	return nil, errors.New("connection reset")
}

func newTestAPI(t *testing.T, store repository.Store) http.Handler {
	t.Helper()
	l := logger.NewNop()
	srv := New(&config.Config{AppPort: "0", AppMode: TestMode}, l)
	srv.SetupRoutes(&Handlers{
		Message: handler.NewMessageHandler(services.NewMessageService(store, nil, l)),
		User:    handler.NewUserHandler(services.NewUserService(store)),
	}, nil, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	})
	return srv.Engine()
}

func setup(t *testing.T) testAPI {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &user.User{ID: sampleUserID, Username: "myuser", Password: "mypassword"}))
	require.NoError(t, store.Messages().Create(ctx, &message.Message{
		ID: sampleMessageID, Title: "Sample Message", Body: "Sample Message Body", Author: sampleUserID,
	}))
	require.NoError(t, store.Users().PrependMessage(ctx, sampleUserID, sampleMessageID))
	return testAPI{handler: newTestAPI(t, store), store: store}
}

func (a testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func TestListMessages(t *testing.T) {
	api := setup(t)

	w, body := api.do(t, http.MethodGet, "/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list, ok := body["messages"].([]any)
	require.True(t, ok, "messages must be an array")
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, sampleMessageID, first["_id"])
	assert.Equal(t, "Sample Message", first["title"])
	assert.Equal(t, "Sample Message Body", first["body"])
}

func TestListMessages_StoreFailureIs500(t *testing.T) {
	h := newTestAPI(t, failingStore{Store: memstore.New()})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())
}

func TestGetMessage(t *testing.T) {
	api := setup(t)

	w, body := api.do(t, http.MethodGet, "/messages/"+sampleMessageID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sample Message", body["title"])
	assert.Equal(t, "Sample Message Body", body["body"])
	assert.Equal(t, sampleUserID, body["author"])

	w, body = api.do(t, http.MethodGet, "/messages/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Message does not exist.", body["message"])
}

func TestCreateMessage(t *testing.T) {
	api := setup(t)

	w, body := api.do(t, http.MethodPost, "/messages", map[string]string{
		"title":  "Sample Message 2",
		"body":   "Sample Message 2 Body",
		"author": sampleUserID,
		"_id":    sampleMessage2ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sample Message 2", body["title"])
	assert.Equal(t, "Sample Message 2 Body", body["body"])
	assert.Equal(t, sampleMessage2ID, body["_id"])

	stored, err := api.store.Messages().GetByID(context.Background(), sampleMessage2ID)
	require.NoError(t, err)
	assert.Equal(t, "Sample Message 2", stored.Title)
	assert.Equal(t, "Sample Message 2 Body", stored.Body)

	w, body = api.do(t, http.MethodGet, "/users/"+sampleUserID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{sampleMessage2ID, sampleMessageID}, body["messages"])
	assert.NotContains(t, body, "password")
}

func TestCreateMessage_Errors(t *testing.T) {
	api := setup(t)

	w, body := api.do(t, http.MethodPost, "/messages", map[string]string{
		"title": "t", "body": "b", "author": "nobody", "_id": sampleMessage2ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REFERENCE", body["code"])

	_, err := api.store.Messages().GetByID(context.Background(), sampleMessage2ID)
	assert.Error(t, err, "no orphan message after a bad author")

	w, body = api.do(t, http.MethodPost, "/messages", map[string]string{"title": "t", "author": sampleUserID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])

	w, body = api.do(t, http.MethodPost, "/messages", map[string]string{
		"title": "t", "body": "b", "author": sampleUserID, "_id": sampleMessageID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", body["code"])

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMessage(t *testing.T) {
	api := setup(t)

	w, body := api.do(t, http.MethodPut, "/messages/"+sampleMessageID, map[string]string{
		"title":  "Changed Sample Title",
		"body":   "Changed sample message body",
		"author": "someone-else",
	})
	require.Equal(t, http.StatusOK, w.Code)
	msg, ok := body["message"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Changed Sample Title", msg["title"])
	assert.Equal(t, "Changed sample message body", msg["body"])
	assert.Equal(t, sampleUserID, msg["author"], "author is immutable")

	stored, err := api.store.Messages().GetByID(context.Background(), sampleMessageID)
	require.NoError(t, err)
	assert.Equal(t, "Changed Sample Title", stored.Title)
	assert.Equal(t, "Changed sample message body", stored.Body)

	w, body = api.do(t, http.MethodPut, "/messages/missing", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Message does not exist.", body["message"])
}

func TestDeleteMessage(t *testing.T) {
	api := setup(t)

	w, body := api.do(t, http.MethodDelete, "/messages/"+sampleMessageID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully deleted.", body["message"])
	assert.Equal(t, sampleMessageID, body["_id"])

	_, err := api.store.Messages().GetByID(context.Background(), sampleMessageID)
	assert.Error(t, err)

	u, err := api.store.Users().GetByID(context.Background(), sampleUserID)
	require.NoError(t, err, "deleting a message keeps its author")
	assert.Empty(t, u.Messages)

	w, body = api.do(t, http.MethodDelete, "/messages/"+sampleMessageID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]any{"message": "Message does not exist."}, body)
}

func TestHealthAndPing(t *testing.T) {
	api := setup(t)

	w, body := api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	w, _ = api.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestGetUser_NotFound(t *testing.T) {
	api := setup(t)

	w, body := api.do(t, http.MethodGet, "/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestHealth_ReportsUnavailableDependency(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	srv := New(&config.Config{AppPort: "0", AppMode: TestMode}, &logger.Logger{Logger: zap.New(core)})
	srv.SetupRoutes(&Handlers{
		Message: handler.NewMessageHandler(services.NewMessageService(memstore.New(), nil, nil)),
	}, nil, map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("dial tcp: connection refused") },
	})

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"redis: service unavailable","code":"UNHEALTHY"}`, w.Body.String())

	logged := logs.FilterMessage("request error").All()
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0].ContextMap()["error"], "service unavailable")
	assert.Contains(t, logged[0].ContextMap()["error"], "connection refused")
}
