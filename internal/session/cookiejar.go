package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"
)

// DefaultMaxAge is how long both entries live after being written.
const DefaultMaxAge = 7 * 24 * time.Hour

const valueKey = "v"

const keyInfo = "primmfy session cookies v1"

// NewCookieStore builds the gorilla cookie store for the session entries.
// The authentication and encryption keys are derived from secret with
// HKDF-SHA256.
func NewCookieStore(secret []byte, secure bool, maxAge time.Duration) (*sessions.CookieStore, error) {
	if len(secret) < 16 {
		return nil, errors.New("session secret must be at least 16 bytes")
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	hashKey, blockKey, err := deriveKeys(secret)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.MaxAge(int(maxAge.Seconds()))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store, nil
}

// RandomSecret returns a fresh secret for development servers. Cookies
// signed with it do not survive a restart.
func RandomSecret() []byte {
	return securecookie.GenerateRandomKey(32)
}

func deriveKeys(secret []byte) ([]byte, []byte, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte(keyInfo))
	hashKey := make([]byte, 32)
	blockKey := make([]byte, 32)
	if _, err := io.ReadFull(r, hashKey); err != nil {
		return nil, nil, fmt.Errorf("derive hash key: %w", err)
	}
	if _, err := io.ReadFull(r, blockKey); err != nil {
		return nil, nil, fmt.Errorf("derive block key: %w", err)
	}
	return hashKey, blockKey, nil
}

// cookieJar stores each entry as its own gorilla cookie session.
type cookieJar struct {
	store   *sessions.CookieStore
	w       http.ResponseWriter
	r       *http.Request
	onError func(name string, err error)
}

func newCookieJar(store *sessions.CookieStore, w http.ResponseWriter, r *http.Request, onError func(string, error)) *cookieJar {
	return &cookieJar{store: store, w: w, r: r, onError: onError}
}

func (j *cookieJar) Get(name string) (string, bool) {
	s, err := j.store.Get(j.r, name)
	if err != nil && j.onError != nil && isDecodeError(err) {
		j.onError(name, err)
	}
	if s == nil {
		return "", false
	}
	v, ok := s.Values[valueKey].(string)
	return v, ok && v != ""
}

func (j *cookieJar) Has(name string) bool {
	_, err := j.r.Cookie(name)
	return err == nil
}

func (j *cookieJar) Set(name, value string, maxAge time.Duration) error {
	// A cookie that failed to decode still yields a fresh session to write into.
	s, _ := j.store.Get(j.r, name)
	if s == nil {
		return fmt.Errorf("cookie session %q unavailable", name)
	}
	s.Values = map[interface{}]interface{}{valueKey: value}
	s.Options = j.options(int(maxAge.Seconds()))
	if err := s.Save(j.r, j.w); err != nil {
		return fmt.Errorf("save %s cookie: %w", name, err)
	}
	return nil
}

func (j *cookieJar) Remove(name string) error {
	s, _ := j.store.Get(j.r, name)
	if s == nil {
		return fmt.Errorf("cookie session %q unavailable", name)
	}
	s.Values = map[interface{}]interface{}{}
	s.Options = j.options(-1)
	if err := s.Save(j.r, j.w); err != nil {
		return fmt.Errorf("remove %s cookie: %w", name, err)
	}
	return nil
}

func (j *cookieJar) options(maxAge int) *sessions.Options {
	opts := *j.store.Options
	opts.MaxAge = maxAge
	return &opts
}

func isDecodeError(err error) bool {
	var scErr securecookie.Error
	return errors.As(err, &scErr) && scErr.IsDecode()
}
