package events

import (
	"encoding/json"
	"time"

	"github.com/streadway/amqp"
)

// LaunchEvent summarizes a completed launch. Published after the campaign
// document has been persisted; consumers never influence the launch itself.
type LaunchEvent struct {
	CampaignID string    `json:"campaign_id"`
	Name       string    `json:"name"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Total      int       `json:"total"`
	LaunchedAt time.Time `json:"launched_at"`
}

type LaunchPublisher interface {
	PublishLaunch(ev LaunchEvent) error
}

// AMQPPublisher publishes launch events to the campaign_launches queue.
type AMQPPublisher struct {
	URL string
}

func (p *AMQPPublisher) PublishLaunch(ev LaunchEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"campaign_launches",
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return ch.Publish(
		"",
		q.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishLaunch(LaunchEvent) error { return nil }
