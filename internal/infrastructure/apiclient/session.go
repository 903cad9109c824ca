package apiclient

import (
	"context"
	"sync"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

type sessionResponse struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn implements ports.IdentityProvider.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

// SignUp implements ports.IdentityProvider.
func (c *Client) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	return c.authenticate(ctx, "/auth/signup", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*domain.Identity, error) {
	var resp sessionResponse
	if err := c.do(ctx, "POST", path, nil, credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.setToken(resp.Token)

	id := &domain.Identity{UID: resp.UID, Email: resp.Email}
	c.session.publish(id)
	return id, nil
}

// SignOut drops the token. The API keeps no server-side session.
func (c *Client) SignOut(context.Context) error {
	c.setToken("")
	c.session.publish(nil)
	return nil
}

// ObserveSession implements ports.IdentityProvider.
func (c *Client) ObserveSession(ctx context.Context) <-chan *domain.Identity {
	return c.session.subscribe(ctx)
}

// broadcaster fans the current identity out to subscribers. Each subscriber
// has a one-slot buffer holding the latest value, so slow readers skip
// intermediate states instead of blocking publishers.
type broadcaster struct {
	mu      sync.Mutex
	current *domain.Identity
	subs    map[chan *domain.Identity]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan *domain.Identity]struct{})}
}

func (b *broadcaster) publish(id *domain.Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = id
	for ch := range b.subs {
		offer(ch, id)
	}
}

func (b *broadcaster) republish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		offer(ch, b.current)
	}
}

func (b *broadcaster) subscribe(ctx context.Context) <-chan *domain.Identity {
	ch := make(chan *domain.Identity, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	ch <- b.current
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

// offer replaces any unread value in ch with v. Callers hold b.mu.
func offer(ch chan *domain.Identity, v *domain.Identity) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
