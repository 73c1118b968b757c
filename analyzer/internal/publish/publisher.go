package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/vibetrack/vibetrack/analyzer/internal/config"
)

const (
	// disconnectQuiesce is how long Close lets in-flight work finish, in ms.
	disconnectQuiesce = 250
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("publish: publisher closed")

// client is the subset of mqtt.Client the publisher uses.
type client interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Publisher publishes Summaries to one topic. It is safe for concurrent use.
type Publisher struct {
	cfg    config.MQTTConfig
	client client

	mu        sync.Mutex
	connected bool
	closed    bool
	bo        *backoff
}

// New returns a Publisher for cfg. No connection is made until the first
// Publish.
func New(cfg config.MQTTConfig) *Publisher {
	if cfg.ClientID == "" {
		cfg.ClientID = "vibetrack-" + uuid.NewString()
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = config.DefaultConnectTimeout
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.Warn("publish: connection lost", "broker", cfg.Broker, "err", err)
		})
	if u := cfg.Username(); u != "" {
		opts.SetUsername(u)
		opts.SetPassword(cfg.Password())
	}

	return newWithClient(cfg, mqtt.NewClient(opts))
}

func newWithClient(cfg config.MQTTConfig, c client) *Publisher {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = config.DefaultConnectTimeout
	}
	return &Publisher{
		cfg:    cfg,
		client: c,
		bo:     newBackoff(backoffBase, backoffCeiling, connectAttempts),
	}
}

// Publish encodes s as JSON and publishes it, connecting first if needed.
// With QoS above 0 it returns once the broker has acknowledged the message.
func (p *Publisher) Publish(ctx context.Context, s Summary) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("publish: encode summary: %w", err)
	}

	if err := p.ensureConnected(ctx); err != nil {
		return err
	}

	tok := p.client.Publish(p.cfg.Topic, p.cfg.QoS, p.cfg.Retained, payload)
	if err := wait(ctx, tok, p.cfg.ConnectTimeout); err != nil {
		return fmt.Errorf("publish: %s: %w", p.cfg.Topic, err)
	}

	slog.Info("publish: summary sent",
		"topic", p.cfg.Topic,
		"source", s.Source,
		"id", s.ID,
		"bytes", len(payload))
	return nil
}

// ensureConnected connects the client, retrying with backoff.
func (p *Publisher) ensureConnected(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.connected {
		return nil
	}

	p.bo.reset()
	for {
		err := wait(ctx, p.client.Connect(), p.cfg.ConnectTimeout)
		if err == nil {
			p.connected = true
			slog.Info("publish: connected", "broker", p.cfg.Broker, "client_id", p.cfg.ClientID)
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("publish: connect %s: %w", p.cfg.Broker, ctx.Err())
		}

		delay, ok := p.bo.fail()
		if !ok {
			return fmt.Errorf("publish: connect %s: giving up after %d attempts: %w",
				p.cfg.Broker, p.bo.attempts(), err)
		}
		slog.Warn("publish: connect failed, will retry",
			"broker", p.cfg.Broker,
			"attempt", p.bo.attempts(),
			"err", err,
			"retry_in", delay)
		select {
		case <-ctx.Done():
			return fmt.Errorf("publish: connect %s: %w", p.cfg.Broker, ctx.Err())
		case <-time.After(delay):
		}
	}
}

// Close disconnects from the broker. Further Publish calls fail.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.connected {
		p.client.Disconnect(disconnectQuiesce)
		p.connected = false
	}
}

// errTimeout is returned when a token is not completed in time.
var errTimeout = errors.New("timed out waiting for broker")

// wait blocks until tok completes, ctx is done or timeout elapses.
func wait(ctx context.Context, tok mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errTimeout
	}
}
