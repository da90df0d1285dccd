package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

// DefaultExpiry is used when a Store is created with a zero expiry.
const DefaultExpiry = 24 * time.Hour

// ErrNotFound is returned when the session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Storage is the subset of a gofiber storage driver the session store needs.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// Data represents the session data structure.
type Data struct {
	UserID   uint64    `json:"user_id"`
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// Store keeps sessions in a storage backend.
type Store struct {
	storage Storage
	expiry  time.Duration
}

// New initializes the session store with the provided storage backend.
func New(storage Storage, expiry time.Duration) *Store {
	if storage == nil {
		panic("storage is nil")
	}

	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	return &Store{storage: storage, expiry: expiry}
}

// Expiry returns the lifetime of new sessions.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

func key(sessionID string) string {
	return "session:" + sessionID
}

// Create stores data under a fresh session id and returns the id.
func (s *Store) Create(data Data) (string, error) {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return "", err
	}

	if err := s.Write(sessionID, data); err != nil {
		return "", err
	}

	return sessionID, nil
}

// Write writes the session data for the given session ID.
func (s *Store) Write(sessionID string, data Data) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.storage.Set(key(sessionID), out, s.expiry)
}

// Read reads the session data for the given session ID.
func (s *Store) Read(sessionID string) (*Data, error) {
	if sessionID == "" {
		return nil, ErrNotFound
	}

	byteData, err := s.storage.Get(key(sessionID))
	if err != nil {
		return nil, err
	}

	if len(byteData) == 0 {
		return nil, ErrNotFound
	}

	data := new(Data)
	if err := json.Unmarshal(byteData, data); err != nil {
		return nil, err
	}

	if data.UserID == 0 {
		return nil, ErrNotFound
	}

	return data, nil
}

// Delete removes a session.
func (s *Store) Delete(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	return s.storage.Delete(key(sessionID))
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
