package services

import (
	"context"
	"strings"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/pagination"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MessageRepository is the store contract the message service depends on.
// MarkDeleted must serialize concurrent calls on the same message so the
// both-flags purge decision never races.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	CountMailbox(ctx context.Context, userID string, container models.MessageContainer) (int, error)
	ListMailbox(ctx context.Context, userID string, container models.MessageContainer, limit, offset int) ([]*models.Message, error)
	Thread(ctx context.Context, userID, otherUserID string) ([]*models.Message, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkDeleted(ctx context.Context, id string, bySender bool) (purged bool, err error)
}

// EventPublisher delivers a realtime event to a connected user. Delivered
// reports whether the user had a live connection.
type EventPublisher interface {
	PublishNewMessage(recipientID string, msg *models.Message) (delivered bool)
}

// PushSender delivers a push notification to a device token.
type PushSender interface {
	Push(ctx context.Context, deviceToken, title, body string) error
}

// MessageService handles message-related business logic
type MessageService struct {
	messages  MessageRepository
	users     UserRepository
	publisher EventPublisher
	pusher    PushSender
}

// NewMessageService creates a new message service. Publisher and pusher are
// optional; nil disables the corresponding delivery path.
func NewMessageService(messages MessageRepository, users UserRepository, publisher EventPublisher, pusher PushSender) *MessageService {
	return &MessageService{
		messages:  messages,
		users:     users,
		publisher: publisher,
		pusher:    pusher,
	}
}

// ListMailbox pages through one mailbox view of a user's messages, newest
// first.
func (s *MessageService) ListMailbox(ctx context.Context, userID string, container models.MessageContainer, req pagination.Request) (*pagination.Page[*models.Message], error) {
	src := pagination.FuncSource[*models.Message]{
		CountFn: func(ctx context.Context) (int, error) {
			return s.messages.CountMailbox(ctx, userID, container)
		},
		SliceFn: func(ctx context.Context, limit, offset int) ([]*models.Message, error) {
			return s.messages.ListMailbox(ctx, userID, container, limit, offset)
		},
	}
	return pagination.Paginate(ctx, src, req.Normalize())
}

// Thread returns the full bilateral history between userID and the other
// user as userID sees it, newest first. The presentation layer re-orders
// for display.
func (s *MessageService) Thread(ctx context.Context, userID, otherUserID string) ([]*models.Message, error) {
	return s.messages.Thread(ctx, userID, otherUserID)
}

// Send creates a new message and notifies the recipient best-effort: a
// realtime event when they are connected, otherwise a push to their device
// token if they registered one. Delivery failures never fail the send.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, content string) (*models.Message, error) {
	if senderID == recipientID {
		return nil, apperrors.ErrSelfMessage
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ErrEmptyMessageBody
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		MessageSent: time.Now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.notify(ctx, sender, recipient, msg)
	return msg, nil
}

func (s *MessageService) notify(ctx context.Context, sender, recipient *models.User, msg *models.Message) {
	if s.publisher != nil && s.publisher.PublishNewMessage(recipient.ID, msg) {
		return
	}
	if s.pusher == nil || recipient.PushToken == nil {
		return
	}
	title := sender.KnownAs
	if title == "" {
		title = sender.Username
	}
	if err := s.pusher.Push(ctx, *recipient.PushToken, title, msg.Content); err != nil {
		log.Error().
			Err(err).
			Str("recipient_id", recipient.ID).
			Msg("Failed to push new message notification")
	}
}

// Delete soft-deletes the caller's copy of a message. Once both parties
// have deleted it the message is purged from the store for good.
func (s *MessageService) Delete(ctx context.Context, messageID, actingUserID string) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	var bySender bool
	switch actingUserID {
	case msg.SenderID:
		bySender = true
	case msg.RecipientID:
		bySender = false
	default:
		return apperrors.ErrNotMessageParty
	}

	purged, err := s.messages.MarkDeleted(ctx, messageID, bySender)
	if err != nil {
		return err
	}
	if purged {
		log.Info().Str("message_id", messageID).Msg("Message purged after both parties deleted it")
	}
	return nil
}

// MarkRead performs the recipient-initiated read transition. A message
// already read is a no-op, not an error.
func (s *MessageService) MarkRead(ctx context.Context, messageID, actingUserID string) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.RecipientID != actingUserID {
		return apperrors.ErrNotRecipient
	}
	if msg.IsRead {
		return nil
	}
	return s.messages.MarkRead(ctx, messageID, time.Now())
}

// GetMessage retrieves a single message for one of its parties
func (s *MessageService) GetMessage(ctx context.Context, messageID, actingUserID string) (*models.Message, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actingUserID && msg.RecipientID != actingUserID {
		return nil, apperrors.ErrNotMessageParty
	}
	return msg, nil
}
