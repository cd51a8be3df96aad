package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/pagination"
	"github.com/YossiBenZaken/DatingApp/internal/repository/inmemory"
	"github.com/YossiBenZaken/DatingApp/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// messageFixture wires a message service against the in-memory stores with
// two seeded users.
type messageFixture struct {
	svc       *services.MessageService
	users     *inmemory.UserRepository
	messages  *inmemory.MessageRepository
	alice     *models.User
	bob       *models.User
	publisher *fakePublisher
	pusher    *fakePusher
}

type fakePublisher struct {
	online    map[string]bool
	delivered []string
}

func (f *fakePublisher) PublishNewMessage(recipientID string, msg *models.Message) bool {
	if !f.online[recipientID] {
		return false
	}
	f.delivered = append(f.delivered, msg.ID)
	return true
}

type fakePusher struct {
	tokens []string
}

func (f *fakePusher) Push(ctx context.Context, deviceToken, title, body string) error {
	f.tokens = append(f.tokens, deviceToken)
	return nil
}

func seedUser(t *testing.T, users services.UserRepository, username, gender string) *models.User {
	t.Helper()
	now := time.Now()
	user := &models.User{
		ID:          uuid.New().String(),
		Username:    username,
		Gender:      gender,
		DateOfBirth: now.AddDate(-30, 0, 0),
		KnownAs:     username,
		Created:     now,
		LastActive:  now,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	users := inmemory.NewUserRepository()
	messages := inmemory.NewMessageRepository()
	publisher := &fakePublisher{online: map[string]bool{}}
	pusher := &fakePusher{}

	return &messageFixture{
		svc:       services.NewMessageService(messages, users, publisher, pusher),
		users:     users,
		messages:  messages,
		alice:     seedUser(t, users, "alice", "female"),
		bob:       seedUser(t, users, "bob", "male"),
		publisher: publisher,
		pusher:    pusher,
	}
}

func (f *messageFixture) mailbox(t *testing.T, userID string, c models.MessageContainer) *pagination.Page[*models.Message] {
	t.Helper()
	page, err := f.svc.ListMailbox(context.Background(), userID, c, pagination.Request{})
	require.NoError(t, err)
	return page
}

func TestMessageService_SendAndReadFlow(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, f.alice.ID, f.bob.ID, "hi")
	require.NoError(t, err)
	require.False(t, msg.IsRead)
	require.Nil(t, msg.DateRead)

	unread := f.mailbox(t, f.bob.ID, models.ContainerUnread)
	require.Equal(t, 1, unread.TotalCount)
	require.Equal(t, "hi", unread.Items[0].Content)
	require.False(t, unread.Items[0].IsRead)

	// sender cannot perform the read transition
	err = f.svc.MarkRead(ctx, msg.ID, f.alice.ID)
	require.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))

	require.NoError(t, f.svc.MarkRead(ctx, msg.ID, f.bob.ID))

	got, err := f.svc.GetMessage(ctx, msg.ID, f.bob.ID)
	require.NoError(t, err)
	require.True(t, got.IsRead)
	require.NotNil(t, got.DateRead)
	firstRead := *got.DateRead

	// second call is a no-op, not an error, and keeps the first timestamp
	require.NoError(t, f.svc.MarkRead(ctx, msg.ID, f.bob.ID))
	got, err = f.svc.GetMessage(ctx, msg.ID, f.bob.ID)
	require.NoError(t, err)
	require.Equal(t, firstRead, *got.DateRead)

	require.Equal(t, 0, f.mailbox(t, f.bob.ID, models.ContainerUnread).TotalCount)
	require.Equal(t, 1, f.mailbox(t, f.bob.ID, models.ContainerInbox).TotalCount)
	require.Equal(t, 1, f.mailbox(t, f.alice.ID, models.ContainerOutbox).TotalCount)
}

func TestMessageService_SendValidation(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, f.alice.ID, uuid.New().String(), "hello?")
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = f.svc.Send(ctx, f.alice.ID, f.alice.ID, "talking to myself")
	require.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	_, err = f.svc.Send(ctx, f.alice.ID, f.bob.ID, "   ")
	require.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestMessageService_SenderDeleteVisibility(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, f.alice.ID, f.bob.ID, "hi")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, msg.ID, f.alice.ID))

	// gone from the sender's outbox and thread
	require.Equal(t, 0, f.mailbox(t, f.alice.ID, models.ContainerOutbox).TotalCount)
	thread, err := f.svc.Thread(ctx, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	require.Empty(t, thread)

	// still in the recipient's inbox and thread
	require.Equal(t, 1, f.mailbox(t, f.bob.ID, models.ContainerInbox).TotalCount)
	thread, err = f.svc.Thread(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)

	// but absent from the recipient's unread view, which filters on the
	// sender's delete flag
	require.Equal(t, 0, f.mailbox(t, f.bob.ID, models.ContainerUnread).TotalCount)
}

func TestMessageService_BothPartiesDeletePurges(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, f.alice.ID, f.bob.ID, "hi")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, msg.ID, f.alice.ID))
	require.NoError(t, f.svc.Delete(ctx, msg.ID, f.bob.ID))

	_, err = f.svc.GetMessage(ctx, msg.ID, f.alice.ID)
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	for _, pair := range [][2]string{{f.alice.ID, f.bob.ID}, {f.bob.ID, f.alice.ID}} {
		thread, err := f.svc.Thread(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.Empty(t, thread)
	}
	require.Equal(t, 0, f.mailbox(t, f.bob.ID, models.ContainerInbox).TotalCount)
	require.Equal(t, 0, f.mailbox(t, f.alice.ID, models.ContainerOutbox).TotalCount)
}

func TestMessageService_DeleteGuards(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, f.alice.ID, f.bob.ID, "hi")
	require.NoError(t, err)

	stranger := seedUser(t, f.users, "carol", "female")
	err = f.svc.Delete(ctx, msg.ID, stranger.ID)
	require.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))

	err = f.svc.Delete(ctx, uuid.New().String(), f.alice.ID)
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	// deleting your own copy twice is idempotent
	require.NoError(t, f.svc.Delete(ctx, msg.ID, f.alice.ID))
	require.NoError(t, f.svc.Delete(ctx, msg.ID, f.alice.ID))
	require.Equal(t, 1, f.mailbox(t, f.bob.ID, models.ContainerInbox).TotalCount)
}

func TestMessageService_MailboxOrderingAndPaging(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		msg := &models.Message{
			ID:          uuid.New().String(),
			SenderID:    f.alice.ID,
			RecipientID: f.bob.ID,
			Content:     string(rune('a' + i)),
			MessageSent: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.messages.Create(ctx, msg))
	}

	page, err := f.svc.ListMailbox(ctx, f.bob.ID, models.ContainerInbox, pagination.Request{Page: 1, Size: 2})
	require.NoError(t, err)
	require.Equal(t, 5, page.TotalCount)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, "e", page.Items[0].Content)
	require.Equal(t, "d", page.Items[1].Content)

	page, err = f.svc.ListMailbox(ctx, f.bob.ID, models.ContainerInbox, pagination.Request{Page: 3, Size: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "a", page.Items[0].Content)

	page, err = f.svc.ListMailbox(ctx, f.bob.ID, models.ContainerInbox, pagination.Request{Page: 7, Size: 2})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Equal(t, 5, page.TotalCount)
}

func TestMessageService_NotifyFallsBackToPush(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	token := "device-token-1"
	f.bob.PushToken = &token
	require.NoError(t, f.users.Update(ctx, f.bob))

	// recipient offline: the push path fires
	_, err := f.svc.Send(ctx, f.alice.ID, f.bob.ID, "wake up")
	require.NoError(t, err)
	require.Empty(t, f.publisher.delivered)
	require.Equal(t, []string{token}, f.pusher.tokens)

	// recipient online: realtime event only
	f.publisher.online[f.bob.ID] = true
	msg, err := f.svc.Send(ctx, f.alice.ID, f.bob.ID, "hello again")
	require.NoError(t, err)
	require.Equal(t, []string{msg.ID}, f.publisher.delivered)
	require.Equal(t, []string{token}, f.pusher.tokens)
}
