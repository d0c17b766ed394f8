// Package feed implements the realtime ingestion channel over NATS. The
// server publishes every message insert for a workspace on one subject;
// per-conversation filtering happens client-side.
package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/trousseauhq/trousseau/internal/chatsync"
	"github.com/trousseauhq/trousseau/internal/types"
)

const subscribeTimeout = 5 * time.Second

// Conn wraps a NATS connection as a chatsync.Feed.
type Conn struct {
	nc     *nats.Conn
	logger *log.Logger
}

// Dial connects to the push feed. Connection problems after the initial
// dial degrade latency, not correctness: the polling reconciler keeps
// running regardless, so reconnects are left to the client library.
func Dial(url, name string, logger *log.Logger) (*Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(subscribeTimeout),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect feed: %w", err)
	}
	return &Conn{nc: nc, logger: logger}, nil
}

// subjectFor returns the workspace-wide message subject.
func subjectFor(workspaceID string) string {
	return "chat." + workspaceID + ".messages"
}

// Subscribe opens a handle on the workspace's message feed. Payloads that
// fail to decode are dropped; everything else is handed to the handler
// unfiltered, routing is the subscriber's concern.
func (c *Conn) Subscribe(workspaceID string, handler func(types.Message)) (chatsync.FeedHandle, error) {
	sub, err := c.nc.Subscribe(subjectFor(workspaceID), func(m *nats.Msg) {
		var msg types.Message
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			if c.logger != nil {
				c.logger.Printf("feed: dropping undecodable event on %s: %v", m.Subject, err)
			}
			return
		}
		handler(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subjectFor(workspaceID), err)
	}
	return &handle{sub: sub}, nil
}

// Close shuts the underlying connection down.
func (c *Conn) Close() {
	if c.nc != nil {
		c.nc.Close()
	}
}

type handle struct {
	sub *nats.Subscription
}

func (h *handle) Unsubscribe() error {
	return h.sub.Unsubscribe()
}
