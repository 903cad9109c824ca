// Package session joins the identity provider's session stream with profile
// lookups and broadcasts the result to any number of subscribers.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// State is one resolved value of the session stream. A nil Identity means
// signed out. A nil Profile with a non-nil Identity means the profile lookup
// failed or found nothing.
type State struct {
	Identity *domain.Identity
	Profile  *domain.UserProfile
}

// SignedIn reports whether a session exists.
func (s State) SignedIn() bool { return s.Identity != nil }

// Store holds the latest State and fans it out to subscribers. Only Run
// writes to it.
type Store struct {
	identity ports.IdentityProvider
	profiles ports.ProfileRepository
	log      zerolog.Logger

	mu       sync.RWMutex
	current  State
	resolved bool
	ready    chan struct{}
	subs     map[int]chan State
	nextSub  int
}

// NewStore creates a Store. Call Run to start following the session stream.
func NewStore(identity ports.IdentityProvider, profiles ports.ProfileRepository, log zerolog.Logger) *Store {
	return &Store{
		identity: identity,
		profiles: profiles,
		log:      log,
		ready:    make(chan struct{}),
		subs:     make(map[int]chan State),
	}
}

type lookup struct {
	gen      uint64
	identity *domain.Identity
	profile  *domain.UserProfile
}

// Run follows the identity stream until ctx is done or the stream closes.
// A newer identity supersedes a profile lookup still in flight.
func (s *Store) Run(ctx context.Context) error {
	sessions := s.identity.ObserveSession(ctx)
	results := make(chan lookup, 1)

	var (
		gen    uint64
		cancel context.CancelFunc = func() {}
	)
	defer func() { cancel() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case id, ok := <-sessions:
			if !ok {
				return nil
			}
			cancel()
			gen++
			if id == nil {
				cancel = func() {}
				s.publish(State{})
				continue
			}

			var fetchCtx context.Context
			fetchCtx, cancel = context.WithCancel(ctx)
			go s.fetch(fetchCtx, gen, id, results)

		case r := <-results:
			if r.gen != gen {
				continue
			}
			s.publish(State{Identity: r.identity, Profile: r.profile})
		}
	}
}

func (s *Store) fetch(ctx context.Context, gen uint64, id *domain.Identity, out chan<- lookup) {
	profile, err := s.profiles.Get(ctx, id.UID)
	if err != nil {
		profile = nil
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, domain.ErrProfileNotFound) {
			s.log.Warn().Str("uid", id.UID).Msg("signed in without a profile")
		} else {
			s.log.Error().Err(err).Str("uid", id.UID).Msg("profile lookup failed")
		}
	}

	select {
	case out <- lookup{gen: gen, identity: id, profile: profile}:
	case <-ctx.Done():
	}
}

func (s *Store) publish(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = st
	if !s.resolved {
		s.resolved = true
		close(s.ready)
	}
	for _, ch := range s.subs {
		offerLatest(ch, st)
	}
}

// offerLatest replaces whatever a slow subscriber has not read yet.
func offerLatest(ch chan State, st State) {
	select {
	case <-ch:
	default:
	}
	ch <- st
}

// Current returns the latest State and whether the stream has resolved at
// least once.
func (s *Store) Current() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.resolved
}

// Profile returns the current profile, nil when signed out or unresolved.
func (s *Store) Profile() *domain.UserProfile {
	st, _ := s.Current()
	return st.Profile
}

// WaitResolved blocks until the first State is published.
func (s *Store) WaitResolved(ctx context.Context) (State, error) {
	select {
	case <-s.ready:
		st, _ := s.Current()
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Subscribe returns a channel that receives the latest State immediately
// (when resolved) and every later change. Slow readers only ever see the
// newest value. The channel closes when ctx is done.
func (s *Store) Subscribe(ctx context.Context) <-chan State {
	ch := make(chan State, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	if s.resolved {
		ch <- s.current
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

// WaitFor blocks until a State satisfying ok is published.
func (s *Store) WaitFor(ctx context.Context, ok func(State) bool) (State, error) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for st := range s.Subscribe(subCtx) {
		if ok(st) {
			return st, nil
		}
	}
	return State{}, ctx.Err()
}
