package chatsync

import (
	"strconv"
	"testing"

	"github.com/trousseauhq/trousseau/internal/types"
)

func serverMsg(id, author, content string, createdAt int64) types.Message {
	return types.Message{ID: id, AuthorID: author, Content: content, CreatedAt: createdAt}
}

func provisionalMsg(id, author, content string, createdAt int64) types.Message {
	return types.Message{ID: id, AuthorID: author, Content: content, CreatedAt: createdAt, Delivery: types.DeliveryPending}
}

func ids(messages []types.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.ID
	}
	return out
}

func TestMergeIdempotent(t *testing.T) {
	store := NewStore()
	msg := serverMsg("7", "u1", "hello", 1000)
	store.Merge(msg)
	store.Merge(msg)
	store.Merge(msg)
	if store.Len() != 1 {
		t.Fatalf("expected 1 entry after re-merging id 7, got %d", store.Len())
	}
	got := store.Snapshot()[0]
	if got.Delivery != types.DeliveryConfirmed {
		t.Errorf("server message delivery = %s, expected confirmed", got.Delivery)
	}
}

func TestMergeOrderingIndependentOfArrival(t *testing.T) {
	arrivalOrders := [][]int64{
		{1000, 2000, 3000},
		{3000, 1000, 2000},
		{2000, 3000, 1000},
		{3000, 2000, 1000},
	}
	for _, order := range arrivalOrders {
		store := NewStore()
		for _, ts := range order {
			store.Merge(serverMsg(strconv.FormatInt(ts, 10), "u1", "m", ts))
		}
		snapshot := store.Snapshot()
		for i := 1; i < len(snapshot); i++ {
			if snapshot[i-1].CreatedAt > snapshot[i].CreatedAt {
				t.Fatalf("arrival order %v: snapshot not ascending: %v", order, ids(snapshot))
			}
		}
	}
}

func TestMergeEqualTimestampsStable(t *testing.T) {
	store := NewStore()
	store.Merge(serverMsg("a", "u1", "first", 5000))
	store.Merge(serverMsg("b", "u2", "second", 5000))
	store.Merge(serverMsg("c", "u3", "third", 5000))
	got := ids(store.Snapshot())
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("equal timestamps reordered: got %v, expected %v", got, want)
		}
	}
}

func TestMergeReconciliation(t *testing.T) {
	store := NewStore()
	store.Merge(provisionalMsg("tmp-p1", "me", "hello", 10_000))
	store.Merge(serverMsg("42", "me", "hello", 11_500))

	snapshot := store.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("expected provisional replaced, got %v", ids(snapshot))
	}
	if snapshot[0].ID != "42" {
		t.Fatalf("expected server id 42, got %q", snapshot[0].ID)
	}
	if snapshot[0].Delivery != types.DeliveryConfirmed {
		t.Fatalf("expected confirmed, got %s", snapshot[0].Delivery)
	}

	// Re-delivering the confirmed record (poll + realtime) stays one entry.
	store.Merge(serverMsg("42", "me", "hello", 11_500))
	if store.Len() != 1 {
		t.Fatalf("re-delivery duplicated the reconciled message")
	}
}

func TestMergeReconciliationRequiresMatch(t *testing.T) {
	tests := []struct {
		name     string
		incoming types.Message
	}{
		{"different author", serverMsg("9", "someone-else", "hello", 10_000)},
		{"different content", serverMsg("9", "me", "goodbye", 10_000)},
		{"outside window", serverMsg("9", "me", "hello", 10_000 + reconcileWindowMillis + 1)},
	}
	for _, tt := range tests {
		store := NewStore()
		store.Merge(provisionalMsg("tmp-p1", "me", "hello", 10_000))
		store.Merge(tt.incoming)
		if store.Len() != 2 {
			t.Errorf("%s: expected insert alongside provisional, got %v", tt.name, ids(store.Snapshot()))
		}
	}
}

func TestMergeDoesNotReconcileAgainstConfirmed(t *testing.T) {
	store := NewStore()
	confirmed := serverMsg("42", "me", "hello", 10_000)
	store.Merge(confirmed)
	// A second send of identical content must not collapse into the first.
	store.Merge(serverMsg("43", "me", "hello", 10_200))
	if store.Len() != 2 {
		t.Fatalf("distinct server ids with identical content collapsed: %v", ids(store.Snapshot()))
	}
}

func TestMergeProvisionalNeverReconcilesProvisional(t *testing.T) {
	store := NewStore()
	store.Merge(provisionalMsg("tmp-p1", "me", "hello", 10_000))
	store.Merge(provisionalMsg("tmp-p2", "me", "hello", 10_100))
	if store.Len() != 2 {
		t.Fatalf("two rapid identical sends must keep two provisional entries, got %v", ids(store.Snapshot()))
	}
}

func TestRemove(t *testing.T) {
	store := NewStore()
	store.Merge(provisionalMsg("tmp-p1", "me", "hello", 1000))
	store.Merge(serverMsg("5", "u2", "hi", 2000))
	if !store.Remove("tmp-p1") {
		t.Fatal("Remove returned false for present id")
	}
	if store.Remove("tmp-p1") {
		t.Fatal("Remove returned true for absent id")
	}
	snapshot := store.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID != "5" {
		t.Fatalf("rollback disturbed other messages: %v", ids(snapshot))
	}
}

func TestClear(t *testing.T) {
	store := NewStore()
	store.Merge(serverMsg("1", "u1", "a", 1000))
	store.Merge(serverMsg("2", "u1", "b", 2000))
	store.Clear()
	if store.Len() != 0 {
		t.Fatalf("store not empty after Clear: %v", ids(store.Snapshot()))
	}
}
