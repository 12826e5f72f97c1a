package server

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"poker-front/internal/db"
	"poker-front/internal/identity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sessionCookie = "pf_session"

const (
	fieldFlash    = "flash"
	fieldLevel    = "level"
	fieldUserID   = identity.KeyUserID
	fieldUsername = identity.KeyUsername
)

// sessionStore keeps per-browser state behind a cookie, in Postgres when a
// database is configured and in memory otherwise.
type sessionStore struct {
	db       *gorm.DB
	mu       sync.Mutex
	sessions map[string]map[string]string
}

func newSessionStore(conn *gorm.DB) *sessionStore {
	return &sessionStore{
		db:       conn,
		sessions: make(map[string]map[string]string),
	}
}

// Identity returns the identity storage bound to this browser's session.
func (s *sessionStore) Identity(w http.ResponseWriter, r *http.Request) identity.Storage {
	return &sessionIdentity{store: s, id: s.ensureSessionID(w, r)}
}

func (s *sessionStore) SetFlash(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		return
	}
	_ = s.set(s.ensureSessionID(w, r), fieldFlash, message)
}

func (s *sessionStore) PopFlash(w http.ResponseWriter, r *http.Request) string {
	id := s.ensureSessionID(w, r)
	message, err := s.get(id, fieldFlash)
	if err != nil || message == "" {
		return ""
	}
	_ = s.set(id, fieldFlash, "")
	return message
}

func (s *sessionStore) SetLevel(w http.ResponseWriter, r *http.Request, level string) {
	if level == "" {
		return
	}
	_ = s.set(s.ensureSessionID(w, r), fieldLevel, level)
}

func (s *sessionStore) GetLevel(w http.ResponseWriter, r *http.Request) string {
	level, _ := s.get(s.ensureSessionID(w, r), fieldLevel)
	return level
}

func (s *sessionStore) get(id, field string) (string, error) {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.sessions[id][field], nil
	}
	var record db.Session
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	switch field {
	case fieldFlash:
		return record.Flash, nil
	case fieldLevel:
		return record.Level, nil
	case fieldUserID:
		return record.UserID, nil
	case fieldUsername:
		return record.Username, nil
	}
	return "", fmt.Errorf("unknown session field %q", field)
}

func (s *sessionStore) set(id, field, value string) error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		data := s.sessions[id]
		if data == nil {
			data = make(map[string]string)
			s.sessions[id] = data
		}
		data[field] = value
		return nil
	}
	record := db.Session{ID: id}
	switch field {
	case fieldFlash:
		record.Flash = value
	case fieldLevel:
		record.Level = value
	case fieldUserID:
		record.UserID = value
	case fieldUsername:
		record.Username = value
	default:
		return fmt.Errorf("unknown session field %q", field)
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{field, "updated_at"}),
	}).Create(&record).Error
}

func (s *sessionStore) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	cookie = &http.Cookie{
		Name:     sessionCookie,
		Value:    newSessionID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
	// Later lookups in the same request must see the same id.
	r.AddCookie(cookie)
	return cookie.Value
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", buf)
}

type sessionIdentity struct {
	store *sessionStore
	id    string
}

func (s *sessionIdentity) Get(key string) (string, error) {
	return s.store.get(s.id, key)
}

func (s *sessionIdentity) Set(key, value string) error {
	return s.store.set(s.id, key, value)
}
