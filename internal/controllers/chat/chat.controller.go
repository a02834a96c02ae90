package chatController

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"showroom/config"
	"showroom/internal/database"
	"showroom/internal/events"
	. "showroom/internal/models"
	"showroom/internal/repositories"
	"showroom/internal/services"
	"showroom/internal/types"
	"showroom/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MAX_MESSAGE_LENGTH = 2000
	// conversationScanLimit bounds how many recent messages the inbox groups by peer.
	conversationScanLimit = 500
)

type SendMessageRequest struct {
	ReceiverID uuid.UUID  `json:"receiverId"`
	Content    string     `json:"content"`
	CarID      *uuid.UUID `json:"carId"`
}

type ConversationSummary struct {
	Peer        UserProfile `json:"peer"`
	LastMessage *Message    `json:"lastMessage"`
	Unread      int         `json:"unread"`
}

type ChatControllerInterface interface {
	Send(ctx context.Context, actor *User, req SendMessageRequest) (*Message, error)
	Conversation(ctx context.Context, actor *User, peerID uuid.UUID, since *time.Time) ([]*Message, error)
	Conversations(ctx context.Context, actor *User) ([]ConversationSummary, error)
}

type ChatController struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	publisher   events.Publisher
	notifier    services.Notifier
	db          *gorm.DB
	config      config.Config
	log         logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) ChatControllerInterface {
	controller := &ChatController{
		messageRepo: repos.Message,
		userRepo:    repos.User,
		notifier:    services.Notification,
		db:          db.SQL,
		config:      config,
		log:         logger.New("chatController"),
	}
	if eventBus != nil {
		controller.publisher = eventBus
	}
	return controller
}

func (cc *ChatController) Send(ctx context.Context, actor *User, req SendMessageRequest) (*Message, error) {
	log := cc.log.TraceFromContext(ctx).Function("Send")

	if actor == nil {
		return nil, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}
	if req.ReceiverID == uuid.Nil {
		return nil, types.Validation("receiverId is required")
	}
	if req.ReceiverID == actor.ID {
		return nil, types.Validation("cannot message yourself")
	}

	content := utils.CleanText(req.Content, 0)
	if content == "" {
		return nil, types.Validation("message content is required")
	}
	if utf8.RuneCountInString(content) > MAX_MESSAGE_LENGTH {
		return nil, types.Validation("message exceeds %d characters", MAX_MESSAGE_LENGTH)
	}

	receiver, err := cc.userRepo.GetByID(ctx, cc.db, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	message := &Message{
		SenderID:   actor.ID,
		ReceiverID: receiver.ID,
		CarID:      req.CarID,
		Content:    content,
	}
	if err := cc.messageRepo.Create(ctx, cc.db, message); err != nil {
		return nil, err
	}

	if cc.publisher != nil {
		if err := cc.publisher.Publish(events.USER_CHANNEL, events.Event{
			Type:   events.CHAT_MESSAGE,
			UserID: &receiver.ID,
			Data:   map[string]any{"message": message},
		}); err != nil {
			log.Warn("failed to publish chat message", "messageID", message.ID, "error", err)
		}
	}

	services.NotifyQuietly(ctx, cc.notifier, log, receiver.ID,
		NotificationNewMessage,
		"New message",
		fmt.Sprintf("%s sent you a message", actor.Name),
		&message.ID,
	)

	return message, nil
}

// Conversation marks the returned messages addressed to actor as read.
func (cc *ChatController) Conversation(
	ctx context.Context,
	actor *User,
	peerID uuid.UUID,
	since *time.Time,
) ([]*Message, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}

	messages, err := cc.messageRepo.Conversation(ctx, cc.db, actor.ID, peerID, since)
	if err != nil {
		return nil, err
	}

	var incoming []uuid.UUID
	for _, message := range messages {
		if message.ReceiverID == actor.ID && !message.IsRead {
			incoming = append(incoming, message.ID)
		}
	}
	if err := cc.messageRepo.MarkRead(ctx, cc.db, actor.ID, incoming); err != nil {
		return nil, err
	}
	for _, message := range messages {
		if message.ReceiverID == actor.ID {
			message.IsRead = true
		}
	}
	return messages, nil
}

// Conversations lists one entry per peer, most recently active first.
func (cc *ChatController) Conversations(ctx context.Context, actor *User) ([]ConversationSummary, error) {
	log := cc.log.TraceFromContext(ctx).Function("Conversations")

	if actor == nil {
		return nil, fmt.Errorf("%w: login required", types.ErrUnauthorized)
	}

	messages, err := cc.messageRepo.ListForUser(ctx, cc.db, actor.ID, conversationScanLimit)
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int)
	summaries := []ConversationSummary{}
	for _, message := range messages {
		peerID := message.SenderID
		if peerID == actor.ID {
			peerID = message.ReceiverID
		}

		i, seen := index[peerID]
		if !seen {
			peer, err := cc.userRepo.GetByID(ctx, cc.db, peerID)
			if err != nil && !errors.Is(err, types.ErrNotFound) {
				return nil, err
			}
			profile := UserProfile{ID: peerID.String()}
			if peer != nil {
				profile = peer.ToProfile()
			} else {
				log.Debug("conversation peer no longer exists", "peerID", peerID)
			}

			i = len(summaries)
			index[peerID] = i
			summaries = append(summaries, ConversationSummary{Peer: profile, LastMessage: message})
		}

		if message.ReceiverID == actor.ID && !message.IsRead {
			summaries[i].Unread++
		}
	}
	return summaries, nil
}
