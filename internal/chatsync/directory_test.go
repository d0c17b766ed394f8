package chatsync

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/trousseauhq/trousseau/internal/types"
)

type fakeDirectorySource struct {
	mu            sync.Mutex
	conversations []types.Conversation
	members       []types.Profile
	err           error
}

func (f *fakeDirectorySource) Conversations(ctx context.Context) ([]types.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.conversations, nil
}

func (f *fakeDirectorySource) MemberDirectory(ctx context.Context) ([]types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

func teamConversation() types.Conversation {
	return types.Conversation{ID: "team", Kind: types.ConversationTeam, DisplayName: "Team"}
}

func TestRefreshFailureKeepsPriorList(t *testing.T) {
	source := &fakeDirectorySource{
		conversations: []types.Conversation{teamConversation()},
		members:       []types.Profile{{UserID: "x", Name: "Xenia"}},
	}
	directory := NewDirectory(source, "me")
	if err := directory.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(directory.List()) != 1 {
		t.Fatalf("expected 1 conversation, got %v", directory.List())
	}

	source.mu.Lock()
	source.err = errors.New("network down")
	source.mu.Unlock()

	if err := directory.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if len(directory.List()) != 1 {
		t.Fatal("failed refresh cleared the prior list")
	}
	if directory.LastErr() == nil {
		t.Fatal("failed refresh not recorded as recoverable error")
	}

	source.mu.Lock()
	source.err = nil
	source.mu.Unlock()
	if err := directory.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if directory.LastErr() != nil {
		t.Fatal("recovered refresh left error state in place")
	}
}

func TestEnsureDirectSynthesizesImmediately(t *testing.T) {
	source := &fakeDirectorySource{conversations: []types.Conversation{teamConversation()}}
	directory := NewDirectory(source, "me")
	_ = directory.Refresh(context.Background())

	conv := directory.EnsureDirect(types.Profile{UserID: "x", Name: "Xenia"})
	if conv.ID != "dm-x" || conv.Kind != types.ConversationDirect {
		t.Fatalf("unexpected synthesized conversation: %+v", conv)
	}
	if conv.PeerID == nil || *conv.PeerID != "x" {
		t.Fatalf("synthesized conversation missing peer: %+v", conv)
	}

	// Session-lifetime persistence: the same peer resolves to the same entry.
	again := directory.EnsureDirect(types.Profile{UserID: "x", Name: "Xenia"})
	if again.ID != conv.ID {
		t.Fatalf("EnsureDirect not stable: %q vs %q", again.ID, conv.ID)
	}
	if got := len(directory.List()); got != 2 {
		t.Fatalf("expected team + synthesized direct, got %d entries", got)
	}
}

func TestRefreshAdoptsServerSideDirect(t *testing.T) {
	source := &fakeDirectorySource{conversations: []types.Conversation{teamConversation()}}
	directory := NewDirectory(source, "me")
	_ = directory.Refresh(context.Background())
	directory.EnsureDirect(types.Profile{UserID: "x", Name: "Xenia"})

	// Once a message is sent, the server starts listing the conversation.
	peer := "x"
	source.mu.Lock()
	source.conversations = []types.Conversation{
		teamConversation(),
		{ID: "dm-x", Kind: types.ConversationDirect, PeerID: &peer, DisplayName: "Xenia"},
	}
	source.mu.Unlock()
	_ = directory.Refresh(context.Background())

	count := 0
	for _, c := range directory.List() {
		if c.ID == "dm-x" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("synthesized entry not replaced by server entry, saw dm-x %d times", count)
	}
}

func TestMembersExcludeSelf(t *testing.T) {
	source := &fakeDirectorySource{members: []types.Profile{
		{UserID: "me", Name: "Me"},
		{UserID: "x", Name: "Xenia"},
	}}
	directory := NewDirectory(source, "me")
	_ = directory.Refresh(context.Background())
	members := directory.Members()
	if len(members) != 1 || members[0].UserID != "x" {
		t.Fatalf("unexpected members: %+v", members)
	}
}
