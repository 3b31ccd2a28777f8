package nats

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"

	"amiverse/internal/config"
)

const (
	StreamName    = "amiverse"
	SubjectPrefix = "amiverse.cache"
)

var ErrNotConnected = errors.New("nats is not connected")

// Client publishes to JetStream. It satisfies core.Publisher.
type Client struct {
	Logger *slog.Logger
	Config *config.Config

	conn *nats.Conn
	JS   jetstream.JetStream
}

func (c *Client) Init(ctx context.Context) error {
	c.Logger = c.Logger.With("component", "nats.Client")

	conn, err := nats.Connect(c.Config.NATSURL)
	if err != nil {
		return err
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return err
	}

	c.conn = conn
	c.JS = js

	if c.Config.NATSInit {
		if err := c.createStream(ctx); err != nil {
			return err
		}
	}

	c.Logger.Info("Connected to NATS", "url", c.Config.NATSURL)
	return nil
}

func (c *Client) createStream(ctx context.Context) error {
	_, err := c.JS.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPrefix + ".>"},
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		return err
	}

	c.Logger.Info("Stream created", "stream", StreamName)
	return nil
}

// Publish sends payload with a unique message id so redeliveries are
// deduplicated by the stream.
func (c *Client) Publish(ctx context.Context, subject string, payload []byte) error {
	msg := &nats.Msg{
		Subject: subject,
		Data:    payload,
		Header: nats.Header{
			nats.MsgIdHdr: []string{ulid.Make().String()},
		},
	}

	_, err := c.JS.PublishMsg(ctx, msg)
	return err
}

func (c *Client) HealthCheck(_ context.Context) error {
	if c.conn == nil || !c.conn.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Drain()
}
