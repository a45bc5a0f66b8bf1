// Package console is the client SDK for the admin console: a session store,
// an HTTP client with the error-classification pipeline, and the role-based
// route guard. It talks to the vaccination API and owns no UI concerns;
// notification and navigation are injected interfaces.
package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// Storage keys. The session keys are cleared together on logout or expiry;
// every other key is a preference and survives Clear.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
	keyRole         = "role"
)

var sessionKeys = []string{keyAccessToken, keyRefreshToken, keyUser, keyRole}

// SessionUser is the authenticated user's profile as held client-side.
type SessionUser struct {
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	IsVerified bool        `json:"is_verified"`
}

// Session holds the tokens and profile for the logged-in user.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         SessionUser
}

// Store persists the session and user preferences in a single key namespace.
// Session keys and preference keys have independent lifecycles: Clear removes
// only the session keys.
type Store interface {
	SetSession(s Session) error
	// Session returns the stored session, or false when no complete session
	// exists.
	Session() (Session, bool)
	// Clear removes the session keys. Preferences are untouched.
	Clear() error
	// Role reports the role key even when the rest of the session is gone,
	// so the expiry handler can still pick a login path.
	Role() (domain.Role, bool)

	SetPreference(key, value string) error
	Preference(key string) (string, bool)
}

func encodeSession(s Session, set func(key, value string)) error {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	set(keyAccessToken, s.AccessToken)
	set(keyRefreshToken, s.RefreshToken)
	set(keyUser, string(userJSON))
	set(keyRole, strconv.Itoa(int(s.User.Role)))
	return nil
}

func decodeSession(get func(key string) (string, bool)) (Session, bool) {
	access, ok := get(keyAccessToken)
	if !ok || access == "" {
		return Session{}, false
	}

	var s Session
	s.AccessToken = access
	s.RefreshToken, _ = get(keyRefreshToken)

	if raw, ok := get(keyUser); ok {
		if err := json.Unmarshal([]byte(raw), &s.User); err != nil {
			return Session{}, false
		}
	}
	if raw, ok := get(keyRole); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			s.User.Role = domain.Role(n)
		}
	}
	return s, true
}

// storedRole reads the role key without requiring a complete session. The
// expiry handler uses it to pick a login path after the access token is
// already gone.
func storedRole(get func(key string) (string, bool)) (domain.Role, bool) {
	raw, ok := get(keyRole)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	role := domain.Role(n)
	return role, role.Valid()
}

// MemoryStore keeps everything in a map. It backs tests and ephemeral
// sessions.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) SetSession(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return encodeSession(s, func(k, v string) { m.values[k] = v })
}

func (m *MemoryStore) Session() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeSession(m.get)
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range sessionKeys {
		delete(m.values, k)
	}
	return nil
}

func (m *MemoryStore) SetPreference(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Preference(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Role reports the role recorded in the store, even when the rest of the
// session is gone.
func (m *MemoryStore) Role() (domain.Role, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return storedRole(m.get)
}

// FileStore persists the key namespace as a JSON object on disk. Every
// operation reads, mutates and rewrites the whole file; calls are atomic
// with respect to each other through the mutex.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) SetSession(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	if err := encodeSession(s, func(k, v string) { values[k] = v }); err != nil {
		return err
	}
	return f.save(values)
}

func (f *FileStore) Session() (Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return Session{}, false
	}
	return decodeSession(func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	})
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range sessionKeys {
		delete(values, k)
	}
	return f.save(values)
}

func (f *FileStore) SetPreference(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Preference(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

// Role reports the role recorded in the store, even when the rest of the
// session is gone.
func (f *FileStore) Role() (domain.Role, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return 0, false
	}
	return storedRole(func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	})
}

func (f *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	values := make(map[string]string)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("decode session file: %w", err)
		}
	}
	return values, nil
}

func (f *FileStore) save(values map[string]string) error {
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
