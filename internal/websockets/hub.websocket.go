package websockets

import (
	"sync"
	"time"

	"showroom/internal/events"

	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
	STATUS_CLOSED
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)

		case message := <-h.broadcast:
			m.sendToAuthenticatedClients(message)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
	m.log.Function("registerClient").Debug("Client registered", "clientID", client.ID)
}

// unregisterClient is safe to call more than once per client.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}
	delete(m.hub.clients, client.ID)
	client.Status = STATUS_CLOSED
	client.closeSend()

	m.log.Function("unregisterClient").Info("Client unregistered", "clientID", client.ID, "userID", client.UserID)
}

func (m *Manager) statusOf(client *Client) int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return client.Status
}

func (m *Manager) promoteClientToAuthenticated(client *Client, userID uuid.UUID) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if client.Status != STATUS_UNAUTHENTICATED {
		return
	}
	client.Status = STATUS_AUTHENTICATED
	client.UserID = userID

	m.log.Function("promoteClientToAuthenticated").Info("Client authenticated", "clientID", client.ID, "userID", userID)
}

// SendMessageToUser delivers to every authenticated connection of the user. Full buffers drop the message.
func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) int {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.clients {
		if client.Status != STATUS_AUTHENTICATED || client.UserID != userID {
			continue
		}
		select {
		case client.send <- message:
			sent++
		default:
			log.Warn("Client send channel full, dropping message", "clientID", client.ID, "userID", userID)
		}
	}

	log.Debug("Message delivered to user", "userID", userID, "messageID", message.ID, "sentTo", sent)
	return sent
}

func (m *Manager) sendToAuthenticatedClients(message Message) int {
	log := m.log.Function("sendToAuthenticatedClients")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.clients {
		if client.Status != STATUS_AUTHENTICATED {
			continue
		}
		select {
		case client.send <- message:
			sent++
		default:
			log.Warn("Client send channel full, dropping message", "clientID", client.ID)
		}
	}

	log.Debug("Broadcast complete", "messageID", message.ID, "sentTo", sent)
	return sent
}

func (m *Manager) BroadcastMessage(message Message) {
	select {
	case m.hub.broadcast <- message:
	default:
		m.log.Function("BroadcastMessage").Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

func (m *Manager) subscribe() error {
	if err := m.eventBus.Subscribe(events.USER_CHANNEL, m.handleUserEvent); err != nil {
		return err
	}
	return m.eventBus.Subscribe(events.BROADCAST_CHANNEL, func(event events.Event) error {
		m.BroadcastMessage(eventMessage(event))
		return nil
	})
}

// handleUserEvent forwards a user-addressed bus event to that user's sockets on this instance.
func (m *Manager) handleUserEvent(event events.Event) error {
	if event.UserID == nil {
		m.log.Function("handleUserEvent").Warn("User event without recipient", "eventID", event.ID, "type", event.Type)
		return nil
	}
	m.SendMessageToUser(*event.UserID, eventMessage(event))
	return nil
}

func eventMessage(event events.Event) Message {
	message := Message{
		ID:        event.ID,
		Type:      string(event.Type),
		Channel:   event.Channel.String(),
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}
	if event.UserID != nil {
		message.UserID = event.UserID.String()
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	return message
}
