package events

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-rental/internal/models"
)

const (
	TopicBookingCreated   = "fleet/bookings/created"
	TopicBookingCancelled = "fleet/bookings/cancelled"
	TopicBookingCompleted = "fleet/bookings/completed"
)

// bookingEvent is the payload published for every lifecycle change.
type bookingEvent struct {
	BookingID string    `json:"booking_id"`
	CarID     string    `json:"car_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	TotalCost float64   `json:"total_cost"`
	FromDate  time.Time `json:"from_date"`
	ToDate    time.Time `json:"to_date"`
	At        time.Time `json:"at"`
}

// Publisher emits booking lifecycle events to the fleet MQTT broker so
// dashboards can follow reservations without polling the API. A nil Publisher
// is valid and publishes nothing, so the broker stays optional.
type Publisher struct {
	client mqtt.Client
}

// NewPublisher connects to the broker at brokerURL. An empty URL disables
// eventing and returns a nil publisher without error.
func NewPublisher(brokerURL, clientID string) (*Publisher, error) {
	if brokerURL == "" {
		return nil, nil
	}
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerURL, err)
	}
	return &Publisher{client: client}, nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}

// BookingCreated publishes a created event.
func (p *Publisher) BookingCreated(b *models.Booking) {
	p.publish(TopicBookingCreated, b)
}

// BookingCancelled publishes a cancelled event.
func (p *Publisher) BookingCancelled(b *models.Booking) {
	p.publish(TopicBookingCancelled, b)
}

// BookingCompleted publishes a completed event.
func (p *Publisher) BookingCompleted(b *models.Booking) {
	p.publish(TopicBookingCompleted, b)
}

// publish is best effort: a broker outage must never fail a reservation, so
// errors are logged and dropped.
func (p *Publisher) publish(topic string, b *models.Booking) {
	if p == nil || p.client == nil || b == nil {
		return
	}
	payload, err := json.Marshal(bookingEvent{
		BookingID: b.ID.Hex(),
		CarID:     b.CarID.Hex(),
		UserID:    b.UserID.Hex(),
		Status:    string(b.Status),
		TotalCost: b.TotalCost,
		FromDate:  b.FromDate,
		ToDate:    b.ToDate,
		At:        time.Now().UTC(),
	})
	if err != nil {
		log.WithError(err).WithField("topic", topic).Error("Failed to marshal booking event")
		return
	}
	token := p.client.Publish(topic, 0, false, payload)
	go func() {
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.WithError(token.Error()).WithField("topic", topic).Warn("Failed to publish booking event")
		}
	}()
}
