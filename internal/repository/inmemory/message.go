package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/services"
)

// MessageRepository is an in-memory implementation of
// services.MessageRepository.
type MessageRepository struct {
	mu    sync.Mutex
	store map[string]*models.Message
}

var _ services.MessageRepository = (*MessageRepository)(nil)

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{
		store: make(map[string]*models.Message),
	}
}

// mailboxPredicates mirrors the WHERE fragments of the postgres repository,
// including the unread view's deliberate use of SenderDeleted.
var mailboxPredicates = map[models.MessageContainer]func(m *models.Message, userID string) bool{
	models.ContainerInbox: func(m *models.Message, userID string) bool {
		return m.RecipientID == userID && !m.RecipientDeleted
	},
	models.ContainerOutbox: func(m *models.Message, userID string) bool {
		return m.SenderID == userID && !m.SenderDeleted
	},
	models.ContainerUnread: func(m *models.Message, userID string) bool {
		return m.RecipientID == userID && !m.SenderDeleted && !m.IsRead
	},
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgCopy := *msg
	r.store[msgCopy.ID] = &msgCopy
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.store[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	msgCopy := *msg
	return &msgCopy, nil
}

func (r *MessageRepository) CountMailbox(ctx context.Context, userID string, container models.MessageContainer) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.mailbox(userID, container)), nil
}

func (r *MessageRepository) ListMailbox(ctx context.Context, userID string, container models.MessageContainer, limit, offset int) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := r.mailbox(userID, container)
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return copyMessages(matched[offset:end]), nil
}

func (r *MessageRepository) Thread(ctx context.Context, userID, otherUserID string) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Message
	for _, m := range r.store {
		received := m.RecipientID == userID && !m.RecipientDeleted && m.SenderID == otherUserID
		sent := m.RecipientID == otherUserID && m.SenderID == userID && !m.SenderDeleted
		if received || sent {
			matched = append(matched, m)
		}
	}
	sortNewestFirst(matched)
	return copyMessages(matched), nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.store[id]
	if !ok {
		return apperrors.ErrMessageNotFound
	}
	if msg.IsRead {
		return nil
	}
	msg.IsRead = true
	readAt := at
	msg.DateRead = &readAt
	return nil
}

func (r *MessageRepository) MarkDeleted(ctx context.Context, id string, bySender bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.store[id]
	if !ok {
		return false, apperrors.ErrMessageNotFound
	}

	if bySender {
		msg.SenderDeleted = true
	} else {
		msg.RecipientDeleted = true
	}

	if msg.SenderDeleted && msg.RecipientDeleted {
		delete(r.store, id)
		return true, nil
	}
	return false, nil
}

func (r *MessageRepository) mailbox(userID string, container models.MessageContainer) []*models.Message {
	match := mailboxPredicates[container]
	var matched []*models.Message
	for _, m := range r.store {
		if match(m, userID) {
			matched = append(matched, m)
		}
	}
	sortNewestFirst(matched)
	return matched
}

func sortNewestFirst(messages []*models.Message) {
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].MessageSent.Equal(messages[j].MessageSent) {
			return messages[i].MessageSent.After(messages[j].MessageSent)
		}
		return messages[i].ID < messages[j].ID
	})
}

func copyMessages(messages []*models.Message) []*models.Message {
	out := make([]*models.Message, 0, len(messages))
	for _, m := range messages {
		msgCopy := *m
		out = append(out, &msgCopy)
	}
	return out
}
