package types

// ConversationKind discriminates the two conversation shapes.
type ConversationKind string

const (
	ConversationTeam   ConversationKind = "team"
	ConversationDirect ConversationKind = "direct"
)

// DeliveryState tracks a message's local delivery lifecycle.
type DeliveryState string

const (
	DeliveryPending   DeliveryState = "pending"
	DeliveryConfirmed DeliveryState = "confirmed"
	DeliveryFailed    DeliveryState = "failed"
)

// ProvisionalPrefix marks locally generated message ids. Server ids never
// carry it.
const ProvisionalPrefix = "tmp-"

// Conversation is an addressable conversation: the shared team channel or a
// one-to-one channel with a single peer.
type Conversation struct {
	ID          string           `json:"id"`
	Kind        ConversationKind `json:"kind"`
	PeerID      *string          `json:"peer_id,omitempty"`
	DisplayName string           `json:"name"`
	LastMessage *string          `json:"last_message,omitempty"`
	Unread      *int             `json:"unread,omitempty"`
}

// Identity is the routing identity of a conversation, derived from its id
// shape alone.
type Identity struct {
	Kind   ConversationKind
	PeerID string
}

// Message is a chat message. A team message has no recipient; a direct
// message has exactly one counterpart besides the author.
type Message struct {
	ID          string   `json:"id"`
	AuthorID    string   `json:"author_id"`
	RecipientID *string  `json:"recipient_id,omitempty"`
	Content     string   `json:"content"`
	CreatedAt   int64    `json:"created_at"`
	Author      *Profile `json:"author,omitempty"`

	// Delivery is local state only; the backend never sees it.
	Delivery DeliveryState `json:"-"`
}

// IsTeam reports whether the message belongs to the team conversation.
func (m Message) IsTeam() bool {
	return m.RecipientID == nil
}

// Provisional reports whether the message still carries a locally generated
// id.
func (m Message) Provisional() bool {
	return len(m.ID) >= len(ProvisionalPrefix) && m.ID[:len(ProvisionalPrefix)] == ProvisionalPrefix
}

// Profile holds display attributes for a workspace member.
type Profile struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Handle    string `json:"handle,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
