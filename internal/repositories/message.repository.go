package repositories

import (
	"context"
	"time"

	. "showroom/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, message *Message) error
	Conversation(ctx context.Context, tx *gorm.DB, userID, peerID uuid.UUID, since *time.Time) ([]*Message, error)
	MarkRead(ctx context.Context, tx *gorm.DB, receiverID uuid.UUID, ids []uuid.UUID) error
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*Message, error)
}

type messageRepository struct {
	log logger.Logger
}

func NewMessageRepository() MessageRepository {
	return &messageRepository{log: logger.New("messageRepository")}
}

func (r *messageRepository) Create(ctx context.Context, tx *gorm.DB, message *Message) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(message).Error; err != nil {
		return dbError(log, "failed to create message", err, "senderID", message.SenderID)
	}
	return nil
}

// Conversation returns messages between the two users oldest first.
// since is exclusive and lets polling clients fetch only new messages.
func (r *messageRepository) Conversation(
	ctx context.Context,
	tx *gorm.DB,
	userID, peerID uuid.UUID,
	since *time.Time,
) ([]*Message, error) {
	log := r.log.TraceFromContext(ctx).Function("Conversation")

	query := tx.WithContext(ctx).
		Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, peerID, peerID, userID,
		)
	if since != nil {
		query = query.Where("created_at > ?", *since)
	}

	var messages []*Message
	if err := query.Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, dbError(log, "failed to load conversation", err, "userID", userID, "peerID", peerID)
	}
	return messages, nil
}

// MarkRead flags only the listed messages addressed to receiverID.
func (r *messageRepository) MarkRead(
	ctx context.Context,
	tx *gorm.DB,
	receiverID uuid.UUID,
	ids []uuid.UUID,
) error {
	log := r.log.TraceFromContext(ctx).Function("MarkRead")

	if len(ids) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).
		Model(&Message{}).
		Where("receiver_id = ? AND id IN ? AND is_read = ?", receiverID, ids, false).
		Update("is_read", true).Error; err != nil {
		return dbError(log, "failed to mark messages read", err, "receiverID", receiverID)
	}
	return nil
}

func (r *messageRepository) ListForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]*Message, error) {
	log := r.log.TraceFromContext(ctx).Function("ListForUser")

	var messages []*Message
	query := tx.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, dbError(log, "failed to list messages", err, "userID", userID)
	}
	return messages, nil
}
