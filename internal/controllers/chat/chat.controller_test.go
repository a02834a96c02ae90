package chatController

import (
	"context"
	"strings"
	"testing"
	"time"

	"showroom/config"
	"showroom/internal/database/dbtest"
	"showroom/internal/events"
	. "showroom/internal/models"
	"showroom/internal/repositories"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(channel events.Channel, event events.Event) error {
	event.Channel = channel
	p.events = append(p.events, event)
	return nil
}

type recordingNotifier struct {
	sent []*Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification *Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

type fixture struct {
	controller *ChatController
	publisher  *capturePublisher
	notifier   *recordingNotifier
	buyer      *User
	dealer     *User
	other      *User
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db := dbtest.New(t)
	repos := repositories.New(db)

	f := fixture{
		publisher: &capturePublisher{},
		notifier:  &recordingNotifier{},
		buyer:     &User{Name: "Buyer", Email: "buyer@example.com"},
		dealer:    &User{Name: "Dealer", Email: "dealer@example.com", Role: RoleAdmin},
		other:     &User{Name: "Other", Email: "other@example.com"},
	}
	for _, user := range []*User{f.buyer, f.dealer, f.other} {
		require.NoError(t, repos.User.Create(ctx, db.SQL, user))
	}

	f.controller = &ChatController{
		messageRepo: repos.Message,
		userRepo:    repos.User,
		publisher:   f.publisher,
		notifier:    f.notifier,
		db:          db.SQL,
		config:      config.Config{},
		log:         logger.New("chatController"),
	}
	return f
}

func TestChatController_SendValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SendMessageRequest
		err  error
	}{
		{"self", SendMessageRequest{ReceiverID: f.buyer.ID, Content: "hi"}, types.ErrValidation},
		{"blank", SendMessageRequest{ReceiverID: f.dealer.ID, Content: "   "}, types.ErrValidation},
		{"too long", SendMessageRequest{ReceiverID: f.dealer.ID, Content: strings.Repeat("a", MAX_MESSAGE_LENGTH+1)}, types.ErrValidation},
		{"unknown receiver", SendMessageRequest{ReceiverID: uuid.New(), Content: "hi"}, types.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.controller.Send(ctx, f.buyer, tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Empty(t, f.publisher.events)
}

func TestChatController_SendPublishesAndNotifies(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	message, err := f.controller.Send(ctx, f.buyer, SendMessageRequest{ReceiverID: f.dealer.ID, Content: " Is it available? "})
	require.NoError(t, err)
	assert.Equal(t, "Is it available?", message.Content)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, events.CHAT_MESSAGE, event.Type)
	assert.Equal(t, events.USER_CHANNEL, event.Channel)
	require.NotNil(t, event.UserID)
	assert.Equal(t, f.dealer.ID, *event.UserID)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, NotificationNewMessage, f.notifier.sent[0].Type)
	assert.Equal(t, f.dealer.ID, f.notifier.sent[0].UserID)
}

func TestChatController_ConversationMarksIncomingRead(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, content := range []string{"hello", "still there?"} {
		_, err := f.controller.Send(ctx, f.buyer, SendMessageRequest{ReceiverID: f.dealer.ID, Content: content})
		require.NoError(t, err)
	}
	_, err := f.controller.Send(ctx, f.other, SendMessageRequest{ReceiverID: f.dealer.ID, Content: "price?"})
	require.NoError(t, err)

	inbox, err := f.controller.Conversations(ctx, f.dealer)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, f.other.ID.String(), inbox[0].Peer.ID)
	assert.Equal(t, 1, inbox[0].Unread)
	assert.Equal(t, f.buyer.ID.String(), inbox[1].Peer.ID)
	assert.Equal(t, 2, inbox[1].Unread)
	assert.Equal(t, "still there?", inbox[1].LastMessage.Content)

	messages, err := f.controller.Conversation(ctx, f.dealer, f.buyer.ID, nil)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Content)
	assert.True(t, messages[0].IsRead)

	inbox, err = f.controller.Conversations(ctx, f.dealer)
	require.NoError(t, err)
	assert.Zero(t, inbox[1].Unread)
	assert.Equal(t, 1, inbox[0].Unread)

	since := messages[1].CreatedAt
	newer, err := f.controller.Conversation(ctx, f.buyer, f.dealer.ID, &since)
	require.NoError(t, err)
	assert.Empty(t, newer)
}

// lateArrival stores one more incoming message right after the conversation is loaded.
type lateArrival struct {
	repositories.MessageRepository
	late *Message
}

func (l lateArrival) Conversation(
	ctx context.Context,
	tx *gorm.DB,
	userID, peerID uuid.UUID,
	since *time.Time,
) ([]*Message, error) {
	messages, err := l.MessageRepository.Conversation(ctx, tx, userID, peerID, since)
	if err != nil {
		return nil, err
	}
	return messages, l.MessageRepository.Create(ctx, tx, l.late)
}

func TestChatController_ConversationKeepsLateMessagesUnread(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.controller.Send(ctx, f.buyer, SendMessageRequest{ReceiverID: f.dealer.ID, Content: "hello"})
	require.NoError(t, err)

	late := &Message{SenderID: f.buyer.ID, ReceiverID: f.dealer.ID, Content: "are you there?"}
	f.controller.messageRepo = lateArrival{MessageRepository: f.controller.messageRepo, late: late}

	messages, err := f.controller.Conversation(ctx, f.dealer, f.buyer.ID, nil)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	inbox, err := f.controller.Conversations(ctx, f.dealer)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, 1, inbox[0].Unread)
	assert.Equal(t, "are you there?", inbox[0].LastMessage.Content)
}
