package session

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const userSlot = "_auth_user_id"

// Session is the per-visitor key/value bag persisted in Redis. Values are
// stored as JSON per named slot. Callers mutate it during a request and the
// handler persists it explicitly.
type Session struct {
	id       string
	data     map[string]json.RawMessage
	modified bool
	issued   bool
}

// New returns an empty session under id that has not been sent to the
// client yet.
func New(id string) *Session {
	return &Session{id: id, data: map[string]json.RawMessage{}, issued: true}
}

// ID returns the current session identifier.
func (s *Session) ID() string {
	return s.id
}

// Modified reports whether the data changed since the last save.
func (s *Session) Modified() bool {
	return s.modified
}

// MarkModified flags the session for persistence.
func (s *Session) MarkModified() {
	s.modified = true
}

// NeedsToken reports whether the identifier is new to the client, either
// freshly created or cycled, so a token must be sent back.
func (s *Session) NeedsToken() bool {
	return s.issued
}

// Get decodes slot key into dst. It reports false when the slot is empty.
func (s *Session) Get(key string, dst any) (bool, error) {
	raw, ok := s.data[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode session slot %q: %w", key, err)
	}
	return true, nil
}

// Set encodes value into slot key and marks the session modified.
func (s *Session) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session slot %q: %w", key, err)
	}
	s.data[key] = raw
	s.modified = true
	return nil
}

// Delete removes slot key.
func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.modified = true
}

// UserID returns the authenticated user attached to the session, if any.
func (s *Session) UserID() (uuid.UUID, bool) {
	var raw string
	found, err := s.Get(userSlot, &raw)
	if err != nil || !found {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// IsAuthenticated reports whether a user is attached.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.UserID()
	return ok
}

func (s *Session) setUserID(id uuid.UUID) error {
	return s.Set(userSlot, id.String())
}
