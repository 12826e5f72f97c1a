// Package identity resolves who the local player is for a session.
//
// Precedence is URL parameter, then persisted storage, then a freshly
// generated token. Whatever wins is written back to storage, so the URL is
// authoritative for the current session.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"poker-front/internal/poker"
)

const (
	KeyUserID   = "user_id"
	KeyUsername = "username"
)

// Storage is a small key/value store. Implementations may fail; a failing
// store is treated as empty.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

var randRead = rand.Read

// NewToken returns 8 hex characters from 4 crypto-random bytes.
func NewToken() string {
	buf := make([]byte, 4)
	if _, err := randRead(buf); err != nil {
		return fmt.Sprintf("%08x", uint32(time.Now().UnixNano()))
	}
	return hex.EncodeToString(buf)
}

func Resolve(params url.Values, store Storage) poker.Identity {
	userID := strings.TrimSpace(params.Get(KeyUserID))
	username := strings.TrimSpace(params.Get(KeyUsername))
	if userID == "" {
		userID = lookup(store, KeyUserID)
	}
	if username == "" {
		username = lookup(store, KeyUsername)
	}
	if userID == "" {
		userID = NewToken()
	}
	if username == "" {
		username = userID
	}
	persist(store, KeyUserID, userID)
	persist(store, KeyUsername, username)
	return poker.Identity{UserID: userID, Username: username}
}

func lookup(store Storage, key string) string {
	if store == nil {
		return ""
	}
	value, err := store.Get(key)
	if err != nil {
		log.Printf("identity storage read failed key=%s error=%v", key, err)
		return ""
	}
	return strings.TrimSpace(value)
}

func persist(store Storage, key, value string) {
	if store == nil {
		return
	}
	if err := store.Set(key, value); err != nil {
		log.Printf("identity storage write failed key=%s error=%v", key, err)
	}
}
