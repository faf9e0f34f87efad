// Package mqtt publishes run progress to an MQTT broker so external
// dashboards can follow long simulations. The publisher is strictly an
// observer: it subscribes to the orchestrator's event bus and publishes
// fire-and-forget, never feeding anything back into the engine.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/fleet"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/logger"
	infralog "github.com/CalKK/calvin-kinyanjui-BEE5202-144859/infra/logger"
)

// Config holds broker settings for the progress publisher.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "fleetsim"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "fleetsim"
	}
}

// ProgressPublisher forwards progress events to the broker.
type ProgressPublisher struct {
	client paho.Client
	prefix string
	log    logger.Logger
}

// NewProgressPublisher connects to the broker.
func NewProgressPublisher(cfg Config) (*ProgressPublisher, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &ProgressPublisher{
		client: cli,
		prefix: cfg.TopicPrefix,
		log:    infralog.New("mqtt-progress"),
	}, nil
}

// PublishProgress publishes the event on <prefix>/<run_id>/progress.
// Tokens are not waited on; a lost progress message is acceptable.
func (p *ProgressPublisher) PublishProgress(ev fleet.ProgressEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Errorf("marshal progress: %v", err)
		return
	}
	topic := fmt.Sprintf("%s/%s/progress", p.prefix, ev.RunID)
	p.client.Publish(topic, 0, false, payload)
}

// Attach subscribes the publisher to the orchestrator's event bus and
// returns a detach function.
func (p *ProgressPublisher) Attach(o *fleet.Orchestrator) (detach func()) {
	return o.Events().Drain(64, p.PublishProgress)
}

// Close disconnects from the broker.
func (p *ProgressPublisher) Close() {
	p.client.Disconnect(250)
}
