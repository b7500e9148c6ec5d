package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplane/auth-api/internal/core/domain"
	"github.com/shoplane/auth-api/internal/core/ports"
)

const (
	defaultPolicyCacheTTL = 30 * time.Second

	// staleServeFactor bounds how long an expired snapshot may keep
	// serving during a policy-store outage, as a multiple of the TTL.
	// Past that the resolver fails closed instead of answering from
	// arbitrarily old policy.
	staleServeFactor = 10
)

// PermissionResolver answers allow/deny for (role, method, path) against
// the DB-backed route policy table. The table changes independently of
// deploys, so the resolver re-reads it through a snapshot cache it owns.
// Staleness is bounded by the configured TTL in normal operation and by
// staleServeFactor times the TTL during a policy-store outage.
type PermissionResolver struct {
	policies ports.RoutePolicyRepository
	ttl      time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	snapshot []domain.RoutePolicy
	loaded   bool
	expires  time.Time
}

func NewPermissionResolver(policies ports.RoutePolicyRepository, ttl time.Duration, log zerolog.Logger) *PermissionResolver {
	if ttl <= 0 {
		ttl = defaultPolicyCacheTTL
	}
	return &PermissionResolver{
		policies: policies,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Refresh forces a policy reload and validation. Called at startup so an
// ambiguous table is rejected before the service accepts traffic.
func (r *PermissionResolver) Refresh(ctx context.Context) error {
	_, err := r.reload(ctx)
	return err
}

// IsAllowed applies deny-by-default resolution: find the most specific
// matching template for the method, then allow only when an entry with
// that template grants the caller's role. A more specific grant to a
// different role shadows broader grants.
func (r *PermissionResolver) IsAllowed(ctx context.Context, roleID, method, path string) (bool, error) {
	snap, err := r.current(ctx)
	if err != nil {
		return false, err
	}

	method = strings.ToUpper(method)
	best := -1
	var winners []domain.RoutePolicy
	for _, p := range snap {
		if !strings.EqualFold(p.Method, method) || !matchPattern(p.Pattern, path) {
			continue
		}
		s := specificity(p.Pattern)
		switch {
		case s > best:
			best = s
			winners = winners[:0]
			winners = append(winners, p)
		case s == best:
			winners = append(winners, p)
		}
	}
	if best < 0 {
		return false, nil
	}

	// Validation guarantees all tied winners share one template; any
	// residual divergence is a table mutated under us mid-TTL.
	for _, w := range winners {
		if w.Pattern != winners[0].Pattern {
			return false, domain.ErrPolicyConflict
		}
	}
	for _, w := range winners {
		if w.RoleID == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *PermissionResolver) current(ctx context.Context) ([]domain.RoutePolicy, error) {
	r.mu.Lock()
	if r.loaded && r.now().Before(r.expires) {
		snap := r.snapshot
		r.mu.Unlock()
		return snap, nil
	}
	stale := r.snapshot
	wasLoaded := r.loaded
	expiredAt := r.expires
	r.mu.Unlock()

	// Fetch happens outside the lock; concurrent misses may fetch
	// twice, which is harmless.
	snap, err := r.reload(ctx)
	if err != nil {
		if wasLoaded && r.now().Sub(expiredAt) < time.Duration(staleServeFactor)*r.ttl {
			// Serve the stale snapshot rather than failing closed on a
			// transient policy-store outage.
			r.log.Error().Err(err).Msg("policy reload failed, serving stale snapshot")
			return stale, nil
		}
		return nil, err
	}
	return snap, nil
}

func (r *PermissionResolver) reload(ctx context.Context) ([]domain.RoutePolicy, error) {
	snap, err := r.policies.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}
	if err := validatePolicies(snap); err != nil {
		return nil, err
	}

	r.log.Debug().Int("entries", len(snap)).Msg("route policy snapshot refreshed")

	r.mu.Lock()
	r.snapshot = snap
	r.loaded = true
	r.expires = r.now().Add(r.ttl)
	r.mu.Unlock()
	return snap, nil
}
