// Package realtime keeps track of live client channels and pushes
// notifications to them.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"github.com/juju/clock"
)

var ErrChannelClosed = errors.New("channel closed")

// Channel is one live client connection. Deliver must not block: a channel
// that cannot take the message returns an error and is expected to close
// itself so the client reconnects and replays its backlog.
type Channel interface {
	ID() string
	Deliver(n entities.Notification) error
	Close()
}

// ConnectionObserver is told about admissions and removals (metrics).
type ConnectionObserver interface {
	ConnectionOpened(role entities.Role)
	ConnectionClosed(role entities.Role)
}

type registration struct {
	ch       Channel
	identity entities.Identity
	streams  []string
	timer    clock.Timer
}

// Registry maps stream keys (subject id or role group) to the channels
// currently admitted under them. Every channel is registered under its
// subject stream and its role group stream.
type Registry struct {
	verifier interfaces.IIdentityVerifier
	clock    clock.Clock
	observer ConnectionObserver

	mu       sync.RWMutex
	streams  map[string]map[string]Channel
	channels map[string]*registration
}

var _ interfaces.ILivePusher = (*Registry)(nil)

func NewRegistry(verifier interfaces.IIdentityVerifier, clk clock.Clock, observer ConnectionObserver) *Registry {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Registry{
		verifier: verifier,
		clock:    clk,
		observer: observer,
		streams:  make(map[string]map[string]Channel),
		channels: make(map[string]*registration),
	}
}

// Admit verifies credential and registers ch under the resolved subject and
// role group. The channel is evicted (removed and closed) once the
// credential's validity window elapses.
func (r *Registry) Admit(credential string, ch Channel) (entities.Identity, error) {
	id, err := r.verifier.Verify(credential)
	if err != nil {
		return entities.Identity{}, err
	}
	if id.Expired(r.clock.Now()) {
		return entities.Identity{}, fmt.Errorf("%w: expired", interfaces.ErrInvalidCredential)
	}

	reg := &registration{ch: ch, identity: id}
	reg.streams = append(reg.streams, id.SubjectID)
	if g := id.Role.Group(); g != "" {
		reg.streams = append(reg.streams, entities.GroupStreamKey(g))
	}

	r.mu.Lock()
	old, replaced := r.channels[ch.ID()]
	if replaced {
		r.unregisterLocked(old)
	}
	for _, key := range reg.streams {
		set := r.streams[key]
		if set == nil {
			set = make(map[string]Channel)
			r.streams[key] = set
		}
		set[ch.ID()] = ch
	}
	r.channels[ch.ID()] = reg
	if !id.ExpiresAt.IsZero() {
		chID := ch.ID()
		reg.timer = r.clock.AfterFunc(id.ExpiresAt.Sub(r.clock.Now()), func() {
			r.evict(chID, reg)
		})
	}
	r.mu.Unlock()

	if replaced {
		r.closed(old)
	}
	if r.observer != nil {
		r.observer.ConnectionOpened(id.Role)
	}
	log.Printf("[realtime][registry] admit channel_id=%s subject_id=%s role=%s", ch.ID(), id.SubjectID, id.Role)
	return id, nil
}

// Remove unregisters ch. Removing a channel that is not registered is a
// no-op.
func (r *Registry) Remove(ch Channel) {
	r.mu.Lock()
	reg, ok := r.channels[ch.ID()]
	if ok {
		r.unregisterLocked(reg)
	}
	r.mu.Unlock()

	if ok {
		r.closed(reg)
	}
}

func (r *Registry) evict(channelID string, want *registration) {
	r.mu.Lock()
	reg, ok := r.channels[channelID]
	// a re-admitted channel has a new registration and its own timer
	ok = ok && reg == want
	if ok {
		r.unregisterLocked(reg)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	log.Printf("[realtime][registry] evict channel_id=%s subject_id=%s reason=credential_expired", channelID, reg.identity.SubjectID)
	reg.ch.Close()
	r.closed(reg)
}

func (r *Registry) unregisterLocked(reg *registration) {
	id := reg.ch.ID()
	for _, key := range reg.streams {
		set := r.streams[key]
		delete(set, id)
		if len(set) == 0 {
			delete(r.streams, key)
		}
	}
	delete(r.channels, id)
	if reg.timer != nil {
		reg.timer.Stop()
	}
}

func (r *Registry) closed(reg *registration) {
	if r.observer != nil {
		r.observer.ConnectionClosed(reg.identity.Role)
	}
}

// Broadcast offers n to every channel registered under target (a subject id
// or a "group:" stream key) and returns how many accepted it. Membership
// cannot change while one broadcast is in progress.
func (r *Registry) Broadcast(target string, n entities.Notification) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for id, ch := range r.streams[target] {
		if err := ch.Deliver(n); err != nil {
			log.Printf("[realtime][registry] deliver failed channel_id=%s target=%s seq=%d err=%v", id, target, n.Sequence, err)
			continue
		}
		delivered++
	}
	return delivered
}

// Push implements interfaces.ILivePusher for the local process.
func (r *Registry) Push(_ context.Context, n entities.Notification) (int, error) {
	return r.Broadcast(n.Recipient.StreamKey(), n), nil
}

// Connections is the number of admitted channels.
func (r *Registry) Connections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// Members is the number of channels registered under a stream key.
func (r *Registry) Members(target string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams[target])
}
