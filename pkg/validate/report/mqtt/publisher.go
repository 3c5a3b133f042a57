package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/robotalks/hilval/pkg/validate"
)

// Topics under <prefix><host-id>/.
const (
	RowsTopic    = "rows"
	SummaryTopic = "summary"
)

// DefaultPublishTimeout bounds the wait for a publish to be acknowledged.
const DefaultPublishTimeout = 2 * time.Second

// Sender publishes payloads, Queue implements it.
type Sender interface {
	Pub(topic string, payload []byte) paho.Token
}

// Publisher is a validate.Reporter publishing rows and the summary as JSON.
type Publisher struct {
	Sender  Sender
	HostID  string
	Timeout time.Duration
}

// NewPublisher creates a Publisher.
func NewPublisher(sender Sender, hostID string) *Publisher {
	return &Publisher{Sender: sender, HostID: hostID, Timeout: DefaultPublishTimeout}
}

// Start implements validate.Reporter.
func (p *Publisher) Start(int) error {
	return nil
}

// Record implements validate.Reporter.
func (p *Publisher) Record(row validate.Row) error {
	return p.publish(RowsTopic, &row)
}

// Finish implements validate.Reporter.
func (p *Publisher) Finish(s validate.Summary) error {
	return p.publish(SummaryTopic, &s)
}

func (p *Publisher) publish(topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	topic = p.HostID + "/" + topic
	token := p.Sender.Pub(topic, payload)
	if !token.WaitTimeout(p.Timeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
