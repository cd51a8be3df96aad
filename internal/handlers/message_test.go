package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/handlers"
	"github.com/YossiBenZaken/DatingApp/internal/middleware"
	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/repository/inmemory"
	"github.com/YossiBenZaken/DatingApp/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// apiFixture assembles the message routes on top of the in-memory stores,
// the same way cmd.Run wires them.
type apiFixture struct {
	router      *chi.Mux
	userService *services.UserService
	alice       *models.User
	bob         *models.User
	aliceToken  string
	bobToken    string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()

	users := inmemory.NewUserRepository()
	likes := inmemory.NewLikeRepository()
	messages := inmemory.NewMessageRepository()

	userService := services.NewUserService(users, likes, "test-secret")
	messageService := services.NewMessageService(messages, users, nil, nil)
	messageHandler := handlers.NewMessageHandler(messageService)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/messages", messageHandler.ListMailbox)
			r.Get("/messages/thread/{user_id}", messageHandler.GetThread)
			r.Get("/messages/{message_id}", messageHandler.GetMessage)
			r.Post("/messages", messageHandler.SendMessage)
			r.Delete("/messages/{message_id}", messageHandler.DeleteMessage)
			r.Post("/messages/{message_id}/read", messageHandler.MarkAsRead)
		})
	})

	f := &apiFixture{router: r, userService: userService}

	register := func(username, gender string) (*models.User, string) {
		user, err := userService.Register(ctx, services.RegisterRequest{
			Username:    username,
			Password:    "password123",
			Gender:      gender,
			DateOfBirth: time.Now().AddDate(-30, 0, 0),
			KnownAs:     username,
		})
		require.NoError(t, err)
		token, err := userService.GenerateJWT(user.ID)
		require.NoError(t, err)
		return user, token
	}

	f.alice, f.aliceToken = register("alice", "female")
	f.bob, f.bobToken = register("bob", "male")
	return f
}

func (f *apiFixture) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) send(t *testing.T, token, recipientID, content string) models.Message {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/messages", token, handlers.SendMessageRequest{
		RecipientID: recipientID,
		Content:     content,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var msg models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	return msg
}

func TestMessageRoutes_SendAndList(t *testing.T) {
	f := newAPIFixture(t)

	sent := f.send(t, f.aliceToken, f.bob.ID, "hi")
	require.Equal(t, f.alice.ID, sent.SenderID)
	require.False(t, sent.IsRead)

	// the default container is Unread; an unknown value falls back to it too
	for _, target := range []string{"/api/v1/messages", "/api/v1/messages?container=garbage"} {
		rec := f.do(t, http.MethodGet, target, f.bobToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []models.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		require.Equal(t, "hi", items[0].Content)
	}

	// paging metadata travels in the Pagination header, not the body
	rec := f.do(t, http.MethodGet, "/api/v1/messages?container=Inbox&pageSize=5", f.bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var header struct {
		CurrentPage int `json:"currentPage"`
		PageSize    int `json:"pageSize"`
		TotalCount  int `json:"totalCount"`
		TotalPages  int `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("Pagination")), &header))
	require.Equal(t, 1, header.CurrentPage)
	require.Equal(t, 5, header.PageSize)
	require.Equal(t, 1, header.TotalCount)
	require.Equal(t, 1, header.TotalPages)

	// the sender's outbox shows the message too
	rec = f.do(t, http.MethodGet, "/api/v1/messages?container=Outbox", f.aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, sent.ID, items[0].ID)
}

func TestMessageRoutes_ReadAndDelete(t *testing.T) {
	f := newAPIFixture(t)

	sent := f.send(t, f.aliceToken, f.bob.ID, "hi")

	// only the recipient may mark the message read
	rec := f.do(t, http.MethodPost, "/api/v1/messages/"+sent.ID+"/read", f.aliceToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/messages/"+sent.ID+"/read", f.bobToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/messages/"+sent.ID, f.bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	require.True(t, msg.IsRead)

	// both parties delete; the second delete purges the message for good
	rec = f.do(t, http.MethodDelete, "/api/v1/messages/"+sent.ID, f.aliceToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodDelete, "/api/v1/messages/"+sent.ID, f.bobToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/messages/"+sent.ID, f.bobToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessageRoutes_Thread(t *testing.T) {
	f := newAPIFixture(t)

	f.send(t, f.aliceToken, f.bob.ID, "first")
	f.send(t, f.bobToken, f.alice.ID, "second")

	rec := f.do(t, http.MethodGet, "/api/v1/messages/thread/"+f.bob.ID, f.aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
}

func TestMessageRoutes_Errors(t *testing.T) {
	f := newAPIFixture(t)

	// missing and malformed credentials
	rec := f.do(t, http.MethodGet, "/api/v1/messages", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/v1/messages", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// a negative page size is rejected rather than defaulted
	rec = f.do(t, http.MethodGet, "/api/v1/messages?pageSize=-1", f.aliceToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// sending to yourself or an unknown user
	rec = f.do(t, http.MethodPost, "/api/v1/messages", f.aliceToken, handlers.SendMessageRequest{
		RecipientID: f.alice.ID,
		Content:     "hello me",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/messages", f.aliceToken, handlers.SendMessageRequest{
		RecipientID: "no-such-user",
		Content:     "anyone there?",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	// acting on someone else's conversation
	sent := f.send(t, f.aliceToken, f.bob.ID, "hi")
	_, carolToken := func() (*models.User, string) {
		user, err := f.userService.Register(context.Background(), services.RegisterRequest{
			Username:    "carol",
			Password:    "password123",
			Gender:      "female",
			DateOfBirth: time.Now().AddDate(-25, 0, 0),
		})
		require.NoError(t, err)
		token, err := f.userService.GenerateJWT(user.ID)
		require.NoError(t, err)
		return user, token
	}()

	rec = f.do(t, http.MethodGet, "/api/v1/messages/"+sent.ID, carolToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = f.do(t, http.MethodDelete, "/api/v1/messages/"+sent.ID, carolToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
