package chatsync

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/trousseauhq/trousseau/internal/core"
	"github.com/trousseauhq/trousseau/internal/types"
)

// DefaultPollInterval bounds the maximum staleness of the view when the
// realtime feed misses or delays a delivery.
const DefaultPollInterval = 2500 * time.Millisecond

// DefaultFetchLimit is the recent-window size re-requested by the polling
// reconciler and the initial fetch.
const DefaultFetchLimit = 50

// Backend is the slice of the workspace API the session needs.
type Backend interface {
	Messages(ctx context.Context, conversationID string, before int64, limit int) ([]types.Message, error)
	SendMessage(ctx context.Context, content string, recipientID *string) (types.Message, error)
}

// FeedHandle is an open realtime subscription. Exactly one handle is open
// at a time per session; it is always closed before (or immediately upon)
// opening its replacement.
type FeedHandle interface {
	Unsubscribe() error
}

// Feed is a push feed scoped to the workspace. The underlying feed cannot
// filter per conversation, so handlers see every workspace message and the
// session applies the routing predicate locally.
type Feed interface {
	Subscribe(workspaceID string, handler func(types.Message)) (FeedHandle, error)
}

// EventKind classifies session events delivered to the UI.
type EventKind int

const (
	// EventMessages signals that the store changed and the view should
	// re-render.
	EventMessages EventKind = iota
	// EventSendFailed signals a rolled-back optimistic send.
	EventSendFailed
	// EventFetchFailed signals a transient fetch failure; loaded data is
	// untouched.
	EventFetchFailed
)

// Event is a session notification. Msg is set for messages that arrived
// over the realtime feed, letting the UI raise OS notifications.
type Event struct {
	Kind EventKind
	Err  error
	Msg  *types.Message
}

// SessionOptions configure a session.
type SessionOptions struct {
	Backend      Backend
	Feed         Feed          // nil = polling only
	Profiles     *ProfileCache // nil = no lazy profile lookups
	WorkspaceID  string
	SelfID       string
	FetchLimit   int
	PollInterval time.Duration
	Logger       *log.Logger
	Now          func() time.Time
}

// Session owns the active conversation's lifecycle: the message store, the
// realtime subscription, the polling reconciler, and the optimistic send
// path. Switching conversations tears all of it down in a fixed order so no
// producer can write stale-conversation data into the new view.
type Session struct {
	backend      Backend
	feed         Feed
	profiles     *ProfileCache
	workspaceID  string
	selfID       string
	fetchLimit   int
	pollInterval time.Duration
	logger       *log.Logger
	now          func() time.Time

	store  *Store
	events chan Event

	mu        sync.Mutex
	epoch     uint64
	active    types.Identity
	activeID  string
	hasActive bool
	cancel    context.CancelFunc
	handle    FeedHandle
	closed    bool
}

// NewSession creates a session. No conversation is active until Select.
func NewSession(opts SessionOptions) *Session {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = DefaultFetchLimit
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		backend:      opts.Backend,
		feed:         opts.Feed,
		profiles:     opts.Profiles,
		workspaceID:  opts.WorkspaceID,
		selfID:       opts.SelfID,
		fetchLimit:   opts.FetchLimit,
		pollInterval: opts.PollInterval,
		logger:       opts.Logger,
		now:          opts.Now,
		store:        NewStore(),
		events:       make(chan Event, 64),
	}
}

// Events is the UI wake-up channel. The channel is buffered; redundant
// EventMessages may be coalesced under load.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Messages returns the active conversation's messages in display order.
func (s *Session) Messages() []types.Message {
	return s.store.Snapshot()
}

// Active returns the active conversation id and identity.
func (s *Session) Active() (string, types.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.active, s.hasActive
}

// Select makes a conversation active. In order: the store is cleared
// synchronously, the previous realtime handle is torn down, the polling
// reconciler and any in-flight fetches are canceled, then the initial
// fetch, a fresh subscription, and a fresh poll loop start for the new
// identity. Results from before the switch are discarded by epoch.
func (s *Session) Select(conversationID string) error {
	identity, err := core.ResolveSelection(conversationID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("session closed")
	}
	s.epoch++
	epoch := s.epoch
	s.store.Clear()
	prevHandle := s.handle
	s.handle = nil
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.active = identity
	s.activeID = conversationID
	s.hasActive = true
	s.mu.Unlock()

	if prevHandle != nil {
		_ = prevHandle.Unsubscribe()
	}

	if s.feed != nil {
		handle, err := s.feed.Subscribe(s.workspaceID, func(event types.Message) {
			s.ingest(event, identity, epoch)
		})
		if err != nil {
			// Degraded latency, not correctness: the poll loop still
			// bounds staleness.
			s.logf("realtime subscribe failed, polling only: %v", err)
		} else {
			s.mu.Lock()
			if s.epoch != epoch {
				s.mu.Unlock()
				_ = handle.Unsubscribe()
			} else {
				s.handle = handle
				s.mu.Unlock()
			}
		}
	}

	go s.run(ctx, conversationID, epoch)
	s.emit(Event{Kind: EventMessages})
	return nil
}

// Send dispatches a message optimistically: a provisional record appears in
// the store immediately, then is reconciled with the server-confirmed one or
// rolled back. Empty content is a no-op. Failed sends are not retried.
func (s *Session) Send(content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	s.mu.Lock()
	if s.closed || !s.hasActive {
		s.mu.Unlock()
		return
	}
	identity := s.active
	epoch := s.epoch
	s.mu.Unlock()

	var recipient *string
	if identity.Kind == types.ConversationDirect {
		peer := identity.PeerID
		recipient = &peer
	}

	provisional := types.Message{
		ID:          core.GenerateProvisionalID(),
		AuthorID:    s.selfID,
		RecipientID: recipient,
		Content:     content,
		CreatedAt:   s.now().UnixMilli(),
		Delivery:    types.DeliveryPending,
	}
	s.store.Merge(provisional)
	s.emit(Event{Kind: EventMessages})

	go func() {
		confirmed, err := s.backend.SendMessage(context.Background(), content, recipient)
		if err != nil {
			if !s.stale(epoch) {
				s.store.Remove(provisional.ID)
				s.emit(Event{Kind: EventSendFailed, Err: err})
			}
			return
		}
		if s.stale(epoch) {
			return
		}
		s.mergeRemote(confirmed)
		s.emit(Event{Kind: EventMessages})
	}()
}

// Close tears the session down: realtime handle, poll loop, and any
// in-flight work.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.epoch++
	handle := s.handle
	s.handle = nil
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	if handle != nil {
		_ = handle.Unsubscribe()
	}
}

// run performs the initial fetch for a freshly selected conversation, then
// re-fetches the recent window on every poll tick. The redundancy with the
// realtime feed is deliberate: the idempotent merge makes double delivery
// harmless, and a missed push is repaired within one interval.
func (s *Session) run(ctx context.Context, conversationID string, epoch uint64) {
	s.fetch(ctx, conversationID, epoch)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetch(ctx, conversationID, epoch)
		}
	}
}

func (s *Session) fetch(ctx context.Context, conversationID string, epoch uint64) {
	page, err := s.backend.Messages(ctx, conversationID, 0, s.fetchLimit)
	if err != nil {
		if ctx.Err() == nil && !s.stale(epoch) {
			s.emit(Event{Kind: EventFetchFailed, Err: err})
		}
		return
	}
	if s.stale(epoch) {
		return
	}
	for _, msg := range page {
		s.mergeRemote(msg)
	}
	s.emit(Event{Kind: EventMessages})
}

// ingest routes one realtime event. Events for other conversations are
// dropped without side effects; the directory refresh, not this path, keeps
// their unread counts current.
func (s *Session) ingest(event types.Message, identity types.Identity, epoch uint64) {
	if s.stale(epoch) {
		return
	}
	if !Accepts(event, identity) {
		return
	}
	s.mergeRemote(event)
	s.emit(Event{Kind: EventMessages, Msg: &event})
}

func (s *Session) mergeRemote(msg types.Message) {
	if s.profiles != nil {
		s.profiles.Observe(msg)
		if msg.AuthorID != s.selfID {
			s.profiles.Ensure(context.Background(), msg.AuthorID, func() {
				s.emit(Event{Kind: EventMessages})
			})
		}
	}
	s.store.Merge(msg)
}

func (s *Session) stale(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || s.epoch != epoch
}

func (s *Session) emit(e Event) {
	select {
	case s.events <- e:
	default:
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
