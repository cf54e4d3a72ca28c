package messaging

import (
	"context"
	"fmt"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
	"github.com/nerrad567/piplant-core/internal/infrastructure/logging"
	"github.com/nerrad567/piplant-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// mqttConn is the subset of *mqtt.Client the broker uses.
type mqttConn interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	QoS() byte
	Close() error
}

// MQTT adapts the infrastructure MQTT client to plant.Broker.
type MQTT struct {
	conn mqttConn
}

// NewMQTT wraps an established MQTT connection.
func NewMQTT(conn *mqtt.Client) *MQTT {
	return &MQTT{conn: conn}
}

// Publish sends payload at the connection's configured QoS.
func (m *MQTT) Publish(_ context.Context, topic string, payload []byte, retained bool) error {
	return m.conn.Publish(topic, payload, m.conn.QoS(), retained)
}

// Subscribe registers handler for topic; wildcards are allowed.
func (m *MQTT) Subscribe(topic string, handler plant.MessageHandler) error {
	return m.conn.Subscribe(topic, m.conn.QoS(), func(topic string, payload []byte) error {
		handler(topic, payload)
		return nil
	})
}

// Unsubscribe removes the subscription for topic.
func (m *MQTT) Unsubscribe(topic string) error {
	return m.conn.Unsubscribe(topic)
}

// Close announces a graceful shutdown and disconnects.
func (m *MQTT) Close() error {
	return m.conn.Close()
}

// connWatcher is the part of *mqtt.Client that reports connection changes.
type connWatcher interface {
	SetOnConnect(func())
	SetOnDisconnect(func(err error))
}

// logConnection logs every reconnect and lost connection of c.
func logConnection(c connWatcher, log *logging.Logger) {
	c.SetOnConnect(func() { log.Info("mqtt connected") })
	c.SetOnDisconnect(func(err error) { log.Warn("mqtt connection lost", "error", err) })
}

// mqttConfig applies kwargs on top of the site MQTT settings:
// host, port, tls, client_id, username, password, qos.
func mqttConfig(base config.MQTTConfig, args component.Args) (config.MQTTConfig, error) {
	cfg := base
	cfg.Broker.Host = args.String("host", cfg.Broker.Host)
	cfg.Broker.Port = args.Int("port", cfg.Broker.Port)
	cfg.Broker.TLS = args.Switch("tls", cfg.Broker.TLS)
	cfg.Broker.ClientID = args.String("client_id", cfg.Broker.ClientID)
	cfg.Auth.Username = args.String("username", cfg.Auth.Username)
	cfg.Auth.Password = args.String("password", cfg.Auth.Password)
	cfg.QoS = args.Int("qos", cfg.QoS)
	if err := args.Err(); err != nil {
		return cfg, err
	}

	if cfg.Broker.Host == "" {
		return cfg, fmt.Errorf("mqtt: host is required")
	}
	if cfg.QoS < 0 || cfg.QoS > 2 {
		return cfg, fmt.Errorf("mqtt: %w: %d", mqtt.ErrInvalidQoS, cfg.QoS)
	}
	return cfg, nil
}

func newMQTT(ctx context.Context, args component.Args) (any, error) {
	cfg, err := mqttConfig(config.FromContext(ctx).MQTT, args)
	if err != nil {
		return nil, err
	}

	client, err := mqtt.Connect(cfg)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx).Component("mqtt").With("broker", cfg.Broker.Host)
	client.SetLogger(log)
	logConnection(client, log)
	return NewMQTT(client), nil
}
