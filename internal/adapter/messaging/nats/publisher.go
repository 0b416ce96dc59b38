package nats

import (
	"encoding/json"
	"time"

	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects emitted by the listing service.
const (
	SubjectListingCreated  = "listing.created"
	SubjectListingApproved = "listing.approved"
	SubjectListingRejected = "listing.rejected"
	SubjectListingPending  = "listing.pending"
	SubjectListingDeleted  = "listing.deleted"
)

// ListingEvent is the payload published on every listing subject.
type ListingEvent struct {
	ListingID  string    `json:"listing_id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	conn *nats.Conn
	log  *logger.Logger
}

func NewPublisher(url string, log *logger.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, log: log}, nil
}

// Publish serializes the event and fires it on the subject. Delivery is best
// effort; downstream consumers must tolerate gaps.
func (p *Publisher) Publish(subject string, event ListingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Error("failed to publish event",
			zap.String("subject", subject),
			zap.String("listing_id", event.ListingID),
			zap.Error(err))
		return err
	}
	p.log.Debug("event published",
		zap.String("subject", subject),
		zap.String("listing_id", event.ListingID))
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}
