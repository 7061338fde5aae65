// Package events bridges simulation events onto an MQTT broker so external
// dashboards can follow a run live. The bridge is optional and config-gated.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/fieldops/dispatchsim/core/sim"
	"github.com/fieldops/dispatchsim/infra/logger"
	"github.com/fieldops/dispatchsim/internal/eventbus"
)

// Config defines the connection parameters for the MQTT bridge.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "dispatchsim"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "dispatchsim"
	}
}

// Validate checks mandatory fields when the bridge is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required when enabled")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher forwards simulation events to MQTT topics under the configured
// prefix: assignments, completions and roster.
type Publisher struct {
	cli pahoClient
	cfg Config
	log logger.Logger
}

// NewPublisher connects to the broker. A disabled config returns (nil, nil).
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, nil
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	cli := newMQTTClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect %s: timed out", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	return &Publisher{cli: cli, cfg: cfg, log: logger.New("mqtt-events")}, nil
}

// Start subscribes to the event bus and forwards events until the context is
// canceled, then disconnects.
func (p *Publisher) Start(ctx context.Context, bus eventbus.EventBus) {
	if p == nil || bus == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		defer p.cli.Disconnect(250)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				p.forward(ev)
			}
		}
	}()
}

// completionPayload flattens a completion record; the record itself holds
// job and unit pointers that do not round-trip through JSON.
type completionPayload struct {
	RecordID      string    `json:"record_id"`
	JobID         string    `json:"job_id"`
	UnitID        string    `json:"unit_id"`
	TravelSeconds int       `json:"travel_seconds"`
	Compliant     bool      `json:"compliant"`
	Time          time.Time `json:"time"`
}

func (p *Publisher) forward(ev eventbus.Event) {
	var (
		topic string
		body  any
	)
	switch e := ev.(type) {
	case sim.AssignmentEvent:
		topic = p.cfg.TopicPrefix + "/assignments"
		body = e
	case sim.CompletionEvent:
		topic = p.cfg.TopicPrefix + "/completions"
		body = completionPayload{
			RecordID:      e.Record.ID.String(),
			JobID:         e.Record.Job.ID,
			UnitID:        e.Record.Unit.ID,
			TravelSeconds: e.Record.Job.TravelSeconds,
			Compliant:     e.Record.Job.Compliant,
			Time:          e.Time,
		}
	case sim.RosterEvent:
		topic = p.cfg.TopicPrefix + "/roster"
		body = e
	default:
		return
	}
	payload, err := json.Marshal(body)
	if err != nil {
		p.log.Errorf("marshal event: %v", err)
		return
	}
	tok := p.cli.Publish(topic, p.cfg.QoS, false, payload)
	if !tok.WaitTimeout(5*time.Second) || tok.Error() != nil {
		p.log.Warnf("publish to %s failed: %v", topic, tok.Error())
	}
}
