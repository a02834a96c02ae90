package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"showroom/config"
	"showroom/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MailMessage is the job body consumed by the mail worker.
type MailMessage struct {
	To       string         `json:"to"`
	From     string         `json:"from"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

type Mailer interface {
	Send(ctx context.Context, message MailMessage) error
}

// MailService queues mail on a durable RabbitMQ queue. The connection is opened on first use.
type MailService struct {
	url     string
	queue   string
	from    string
	log     logger.Logger
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewMailService(config config.Config) *MailService {
	return &MailService{
		url:   config.AMQPURL,
		queue: config.MailQueue,
		from:  config.MailFrom,
		log:   logger.New("MailService"),
	}
}

func (s *MailService) Send(ctx context.Context, message MailMessage) error {
	log := s.log.TraceFromContext(ctx).Function("Send")

	if s.url == "" || s.queue == "" {
		return log.Err("mail queue is not configured", types.ErrConfiguration)
	}

	if message.From == "" {
		message.From = s.from
	}

	body, err := json.Marshal(message)
	if err != nil {
		return log.Err("failed to marshal mail message", err, "template", message.Template)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	channel, err := s.openChannel()
	if err != nil {
		return log.Err("failed to open mail channel", types.Backend(err))
	}

	if err := channel.PublishWithContext(ctx,
		"",
		s.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	); err != nil {
		s.reset()
		return log.Err("failed to publish mail message", types.Backend(err), "template", message.Template)
	}

	log.Info("Mail queued", "template", message.Template)
	return nil
}

// openChannel must be called with mu held.
func (s *MailService) openChannel() (*amqp.Channel, error) {
	if s.channel != nil && !s.channel.IsClosed() {
		return s.channel, nil
	}
	s.reset()

	conn, err := amqp.Dial(s.url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := channel.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}

	s.conn = conn
	s.channel = channel
	return channel, nil
}

func (s *MailService) reset() {
	if s.channel != nil {
		_ = s.channel.Close()
		s.channel = nil
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

func (s *MailService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}
