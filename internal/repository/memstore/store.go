// Package memstore is an in-process implementation of repository.Store.
// It backs the API when STORE_BACKEND=memory and is the store used by
// handler and service tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"message-api/internal/domain/message"
	"message-api/internal/domain/user"
	"message-api/internal/repository"
	api_errors "message-api/pkg/errors"

	"github.com/lib/pq"
)

type state struct {
	messages map[string]message.Message
	order    []string // message ids in insertion order
	users    map[string]user.User
}

func newState() *state {
	return &state{
		messages: make(map[string]message.Message),
		users:    make(map[string]user.User),
	}
}

func (s *state) clone() *state {
	c := &state{
		messages: make(map[string]message.Message, len(s.messages)),
		order:    append([]string(nil), s.order...),
		users:    make(map[string]user.User, len(s.users)),
	}
	for k, v := range s.messages {
		c.messages[k] = v
	}
	for k, v := range s.users {
		v.Messages = append(pq.StringArray(nil), v.Messages...)
		c.users[k] = v
	}
	return c
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// Store holds all data in memory. Transactions run against a copy that
// replaces the live state on success; they hold the store lock throughout.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{state: newState(), now: time.Now}
}

func (s *Store) Messages() repository.MessageRepository {
	return &messageRepo{lock: &s.mu, state: func() *state { return s.state }, now: s.now}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepo{lock: &s.mu, state: func() *state { return s.state }, now: s.now}
}

func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&txStore{state: working, now: s.now}); err != nil {
		return err
	}
	s.state = working
	return nil
}

type txStore struct {
	state *state
	now   func() time.Time
}

func (t *txStore) Messages() repository.MessageRepository {
	return &messageRepo{lock: nopLocker{}, state: func() *state { return t.state }, now: t.now}
}

func (t *txStore) Users() repository.UserRepository {
	return &userRepo{lock: nopLocker{}, state: func() *state { return t.state }, now: t.now}
}

// Nested transactions join the outer one.
func (t *txStore) WithTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(t)
}

type messageRepo struct {
	lock  sync.Locker
	state func() *state
	now   func() time.Time
}

func (r *messageRepo) Create(_ context.Context, m *message.Message) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.state()

	if _, ok := st.messages[m.ID]; ok {
		return api_errors.ErrAlreadyExists
	}
	if _, ok := st.users[m.Author]; !ok {
		return api_errors.ErrInvalidReference
	}
	now := r.now()
	m.CreatedAt, m.UpdatedAt = now, now
	st.messages[m.ID] = *m
	st.order = append(st.order, m.ID)
	return nil
}

func (r *messageRepo) GetAll(_ context.Context) ([]message.Message, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.state()

	out := make([]message.Message, 0, len(st.order))
	for _, id := range st.order {
		out = append(out, st.messages[id])
	}
	return out, nil
}

func (r *messageRepo) GetByID(_ context.Context, id string) (message.Message, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	m, ok := r.state().messages[id]
	if !ok {
		return message.Message{}, api_errors.ErrNotFound
	}
	return m, nil
}

func (r *messageRepo) UpdateFields(_ context.Context, id string, u message.Update) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.state()

	m, ok := st.messages[id]
	if !ok {
		return api_errors.ErrNotFound
	}
	if u.Empty() {
		return nil
	}
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Body != nil {
		m.Body = *u.Body
	}
	m.UpdatedAt = r.now()
	st.messages[id] = m
	return nil
}

func (r *messageRepo) Delete(_ context.Context, id string) (message.Message, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.state()

	m, ok := st.messages[id]
	if !ok {
		return message.Message{}, api_errors.ErrNotFound
	}
	delete(st.messages, id)
	for i, existing := range st.order {
		if existing == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	return m, nil
}

type userRepo struct {
	lock  sync.Locker
	state func() *state
	now   func() time.Time
}

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.state()

	if _, ok := st.users[u.ID]; ok {
		return api_errors.ErrAlreadyExists
	}
	for _, existing := range st.users {
		if existing.Username == u.Username {
			return api_errors.ErrAlreadyExists
		}
	}
	if u.Messages == nil {
		u.Messages = pq.StringArray{}
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now
	stored := *u
	stored.Messages = append(pq.StringArray{}, u.Messages...)
	st.users[u.ID] = stored
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	u, ok := r.state().users[id]
	if !ok {
		return user.User{}, api_errors.ErrNotFound
	}
	u.Messages = append(pq.StringArray{}, u.Messages...)
	return u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, u := range r.state().users {
		if u.Username == username {
			u.Messages = append(pq.StringArray{}, u.Messages...)
			return u, nil
		}
	}
	return user.User{}, api_errors.ErrNotFound
}

func (r *userRepo) PrependMessage(_ context.Context, userID, messageID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.state()

	u, ok := st.users[userID]
	if !ok {
		return api_errors.ErrNotFound
	}
	u.PrependMessage(messageID)
	u.UpdatedAt = r.now()
	st.users[userID] = u
	return nil
}

func (r *userRepo) PullMessage(_ context.Context, messageID string) (int64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.state()

	var touched int64
	for id, u := range st.users {
		if u.RemoveMessage(messageID) {
			u.UpdatedAt = r.now()
			st.users[id] = u
			touched++
		}
	}
	return touched, nil
}
