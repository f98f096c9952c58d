package domain_test

import (
	"testing"
	"time"

	"spinwheel/internal/modules/history/domain"
)

func TestIsDuplicateWindow(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	latest := domain.Entry{ID: "e1", At: at, Winner: domain.Winner{ID: "alice"}}

	if !domain.IsDuplicate(latest, "alice", at.Add(1999*time.Millisecond)) {
		t.Fatalf("same winner inside window should be duplicate")
	}
	if !domain.IsDuplicate(latest, "alice", at.Add(2000*time.Millisecond)) {
		t.Fatalf("window boundary should still be duplicate")
	}
	if domain.IsDuplicate(latest, "alice", at.Add(2001*time.Millisecond)) {
		t.Fatalf("2001ms later should not be duplicate")
	}
	if domain.IsDuplicate(latest, "bob", at.Add(10*time.Millisecond)) {
		t.Fatalf("different winner should never be duplicate")
	}
	if domain.IsDuplicate(domain.Entry{}, "alice", at) {
		t.Fatalf("empty history has no duplicates")
	}
}
