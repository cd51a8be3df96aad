package repository

import (
	"context"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
	"github.com/YossiBenZaken/DatingApp/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, sender_id, recipient_id, content, message_sent, is_read, date_read, sender_deleted, recipient_deleted`

// mailboxFilters maps each container to its visibility predicate, with $1
// bound to the viewing user. Each party's own delete flag hides a message
// from that party's views only.
//
// Unread deliberately filters on sender_deleted rather than
// recipient_deleted: a message its sender deleted drops out of the
// recipient's unread view even though the recipient never deleted it. That
// asymmetry is longstanding observable behavior and is kept as-is; see
// DESIGN.md before changing it.
var mailboxFilters = map[models.MessageContainer]string{
	models.ContainerInbox:  `recipient_id = $1 AND recipient_deleted = FALSE`,
	models.ContainerOutbox: `sender_id = $1 AND sender_deleted = FALSE`,
	models.ContainerUnread: `recipient_id = $1 AND sender_deleted = FALSE AND is_read = FALSE`,
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, content, message_sent, is_read, date_read, sender_deleted, recipient_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.SenderID, msg.RecipientID, msg.Content, msg.MessageSent,
		msg.IsRead, msg.DateRead, msg.SenderDeleted, msg.RecipientDeleted,
	)
	if err != nil {
		return apperrors.Store("failed to create message", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	var msg models.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.Content, &msg.MessageSent,
		&msg.IsRead, &msg.DateRead, &msg.SenderDeleted, &msg.RecipientDeleted,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, apperrors.Store("failed to get message", err)
	}
	return &msg, nil
}

// CountMailbox counts the messages visible in one mailbox view
func (r *MessageRepository) CountMailbox(ctx context.Context, userID string, container models.MessageContainer) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE ` + mailboxFilters[container]
	var total int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, apperrors.Store("failed to count messages", err)
	}
	return total, nil
}

// ListMailbox retrieves one window of a mailbox view, newest first
func (r *MessageRepository) ListMailbox(ctx context.Context, userID string, container models.MessageContainer, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE ` + mailboxFilters[container] + `
		ORDER BY message_sent DESC, id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Store("failed to list messages", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// Thread retrieves the bilateral history between two users, newest first.
// Each direction is filtered by the viewing party's own delete flag: userID
// sees received messages they have not deleted and sent messages they have
// not deleted, regardless of what the other party did with their copy.
func (r *MessageRepository) Thread(ctx context.Context, userID, otherUserID string) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE (recipient_id = $1 AND recipient_deleted = FALSE AND sender_id = $2)
		   OR (recipient_id = $2 AND sender_id = $1 AND sender_deleted = FALSE)
		ORDER BY message_sent DESC, id ASC
	`
	rows, err := r.db.Query(ctx, query, userID, otherUserID)
	if err != nil {
		return nil, apperrors.Store("failed to get message thread", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]*models.Message, error) {
	var messages []*models.Message
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.Content, &msg.MessageSent,
			&msg.IsRead, &msg.DateRead, &msg.SenderDeleted, &msg.RecipientDeleted,
		)
		if err != nil {
			return nil, apperrors.Store("failed to scan message", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("error iterating messages", err)
	}
	return messages, nil
}

// MarkRead flips is_read once. The WHERE guard keeps the first read
// timestamp when the transition already happened.
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE messages SET is_read = TRUE, date_read = $1 WHERE id = $2 AND is_read = FALSE`
	_, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		return apperrors.Store("failed to mark message as read", err)
	}
	return nil
}

// MarkDeleted sets one party's delete flag and purges the row once both
// flags are true. The row lock serializes concurrent deletes from the two
// parties so the purge decision always observes the other flag.
func (r *MessageRepository) MarkDeleted(ctx context.Context, id string, bySender bool) (purged bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, apperrors.Store("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var senderDeleted, recipientDeleted bool
	err = tx.QueryRow(ctx,
		`SELECT sender_deleted, recipient_deleted FROM messages WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&senderDeleted, &recipientDeleted)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, apperrors.ErrMessageNotFound
		}
		return false, apperrors.Store("failed to lock message", err)
	}

	if bySender {
		senderDeleted = true
	} else {
		recipientDeleted = true
	}

	if senderDeleted && recipientDeleted {
		if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id); err != nil {
			return false, apperrors.Store("failed to purge message", err)
		}
		purged = true
	} else {
		_, err := tx.Exec(ctx,
			`UPDATE messages SET sender_deleted = $1, recipient_deleted = $2 WHERE id = $3`,
			senderDeleted, recipientDeleted, id,
		)
		if err != nil {
			return false, apperrors.Store("failed to mark message deleted", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, apperrors.Store("failed to commit message delete", err)
	}
	return purged, nil
}
