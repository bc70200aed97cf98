// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "slices"

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventConfigUpdated  EventKind = "config.updated"
	EventArticleAdded   EventKind = "article.added"
	EventArticleUpdated EventKind = "article.updated"
	EventArticleDeleted EventKind = "article.deleted"
	EventLogin          EventKind = "session.login"
	EventLogout         EventKind = "session.logout"
)

// Event describes one completed mutation.
type Event struct {
	Kind EventKind `json:"kind"`
	// ArticleID is set for article events.
	ArticleID string `json:"articleId,omitempty"`
	Revision  uint64 `json:"revision"`
}

// Subscribe registers fn to be called after every mutation, in mutation
// order, on the goroutine that performed it. fn must not call mutating
// store methods. The returned function removes the subscription.
func (s *ContentStore) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// publish delivers ev to subscribers in registration order. Caller holds
// writeMu but not mu, so subscribers may read the store.
func (s *ContentStore) publish(ev Event) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), len(ids))
	for i, id := range ids {
		fns[i] = s.subs[id]
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
