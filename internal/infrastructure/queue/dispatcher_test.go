package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplane/auth-api/internal/core/domain"
)

type recordingAuditRepo struct {
	mu      sync.Mutex
	entries []domain.LoginAudit
}

func (r *recordingAuditRepo) Insert(_ context.Context, entry domain.LoginAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAuditRepo) forUser(username string) []domain.LoginAudit {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.LoginAudit
	for _, e := range r.entries {
		if e.Username == username {
			out = append(out, e)
		}
	}
	return out
}

func (r *recordingAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestAuditDispatcher_PersistsEvents(t *testing.T) {
	repo := &recordingAuditRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.LoginAudit{Username: "alice", Outcome: domain.OutcomeSuccess, At: time.Now()})
	d.Record(domain.LoginAudit{Username: "bob", Outcome: domain.OutcomeIncorrectPassword, At: time.Now()})

	waitFor(t, func() bool { return repo.count() == 2 })
}

func TestAuditDispatcher_PerUserOrdering(t *testing.T) {
	repo := &recordingAuditRepo{}
	d := NewAuditDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	const events = 50
	for i := 0; i < events; i++ {
		outcome := domain.OutcomeIncorrectPassword
		if i == events-1 {
			outcome = domain.OutcomeSuccess
		}
		d.Record(domain.LoginAudit{Username: "alice", Outcome: outcome, RetryCount: i})
	}

	waitFor(t, func() bool { return len(repo.forUser("alice")) == events })

	got := repo.forUser("alice")
	for i, e := range got {
		if e.RetryCount != i {
			t.Fatalf("event %d out of order: retry count %d", i, e.RetryCount)
		}
	}
	if got[events-1].Outcome != domain.OutcomeSuccess {
		t.Fatalf("final event should be the success")
	}
}

func TestAuditDispatcher_ShardIsStable(t *testing.T) {
	d := NewAuditDispatcher(8, &recordingAuditRepo{}, zerolog.Nop())

	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}
