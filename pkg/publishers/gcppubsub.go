package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubTopic is the part of *pubsub.Topic the sender needs.
type pubsubTopic interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// gcpPubSubSender implements queueSender for Google Cloud Pub/Sub.
type gcpPubSubSender struct {
	topic   pubsubTopic
	ordered bool
	log     Logger
}

// newGCPPubSubSender builds a Pub/Sub sender using the provided config.
func newGCPPubSubSender(ctx context.Context, cfg *GCPQueueConfig, log Logger) (queueSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gcp queue configuration is missing")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(cfg.Topic)
	topic.EnableMessageOrdering = cfg.OrderByCountry

	return &gcpPubSubSender{
		topic:   topic,
		ordered: cfg.OrderByCountry,
		log:     ensureLogger(log),
	}, nil
}

// Send publishes the page event and waits for the server-assigned id.
func (s *gcpPubSubSender) Send(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"country":  evt.Country,
			"event_id": evt.ID,
		},
	}
	if s.ordered {
		msg.OrderingKey = evt.Country
	}

	msgID, err := s.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		s.log.ErrorObj("gcp pubsub publisher send failed", "publisher_gcp_pubsub_error", map[string]any{
			"country": evt.Country,
			"error":   err.Error(),
		})
		return fmt.Errorf("send message to pubsub: %w", err)
	}

	s.log.DebugObj("gcp pubsub publisher delivered event", "publisher_gcp_pubsub_delivery", map[string]any{
		"message_id": msgID,
		"event_id":   evt.ID,
	})
	return nil
}
