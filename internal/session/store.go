package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"primmfy/internal/apiclient"
	"primmfy/internal/audit"
	"primmfy/internal/entity"
)

// API is the part of the platform API the store calls.
type API interface {
	Login(ctx context.Context, req entity.LoginRequest) (*entity.AuthResponse, error)
	Register(ctx context.Context, req entity.RegisterRequest) (*entity.AuthResponse, error)
	Profile(ctx context.Context, token string) (*entity.User, error)
}

// Navigator performs the page change that follows a transition.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type StoreConfig struct {
	API        API
	Jar        Jar
	Navigator  Navigator
	Recorder   audit.Recorder
	Logger     *slog.Logger
	Now        func() time.Time
	MaxAge     time.Duration
	RemoteAddr string
}

// Store is the session of a single browser. It is not safe for concurrent use.
type Store struct {
	api        API
	jar        Jar
	nav        Navigator
	recorder   audit.Recorder
	logger     *slog.Logger
	now        func() time.Time
	maxAge     time.Duration
	remoteAddr string

	state    State
	restored bool
}

func NewStore(cfg StoreConfig) *Store {
	s := &Store{
		api:        cfg.API,
		jar:        cfg.Jar,
		nav:        cfg.Navigator,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger,
		now:        cfg.Now,
		maxAge:     cfg.MaxAge,
		remoteAddr: cfg.RemoteAddr,
	}
	if s.nav == nil {
		s.nav = NavigatorFunc(func(string) {})
	}
	if s.recorder == nil {
		s.recorder = audit.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.maxAge <= 0 {
		s.maxAge = DefaultMaxAge
	}
	return s
}

func (s *Store) State() State {
	return s.state
}

// Loading reports whether the persisted session has not been read yet.
func (s *Store) Loading() bool {
	return !s.restored
}

func (s *Store) IsAuthenticated() bool {
	return s.state.Status() == StatusAuthenticated
}

func (s *Store) Session() (Session, bool) {
	return s.state.Session()
}

// User returns the signed-in user or nil.
func (s *Store) User() *entity.User {
	sess, ok := s.state.Session()
	if !ok {
		return nil
	}
	u := sess.User
	return &u
}

// Restore reads the persisted session. Only the first call has an effect.
func (s *Store) Restore(ctx context.Context) State {
	if s.restored {
		return s.state
	}
	s.restored = true

	token, hasToken := s.jar.Get(TokenCookie)
	rawUser, hasUser := s.jar.Get(UserCookie)
	if !hasToken && !hasUser {
		if s.jar.Has(TokenCookie) || s.jar.Has(UserCookie) {
			s.logger.WarnContext(ctx, "discarding unreadable session entries")
			s.clear(ctx)
		}
		s.state = anonymous()
		return s.state
	}

	sess, err := decodeSession(token, rawUser)
	if err == nil && tokenExpired(token, s.now()) {
		err = errTokenExpired
		s.record(ctx, entity.EventSessionExpired, sess.User.Email, &sess.User)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "discarding persisted session", "error", err)
		s.clear(ctx)
		s.state = anonymous()
		return s.state
	}

	s.state = authenticated(sess)
	return s.state
}

// Login signs in with the API. On failure the API error is returned as is
// and nothing is written.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, entity.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.record(ctx, entity.EventLoginFailed, email, nil)
		return err
	}
	if err := s.establish(ctx, resp); err != nil {
		s.record(ctx, entity.EventLoginFailed, email, nil)
		return err
	}
	s.record(ctx, entity.EventLogin, email, resp.User)
	s.nav.Navigate(resp.User.Role.LandingRoute())
	return nil
}

// Register creates the account and signs it in, with the same contract as Login.
func (s *Store) Register(ctx context.Context, req entity.RegisterRequest) error {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		s.record(ctx, entity.EventRegisterFailed, req.Email, nil)
		return err
	}
	if err := s.establish(ctx, resp); err != nil {
		s.record(ctx, entity.EventRegisterFailed, req.Email, nil)
		return err
	}
	s.record(ctx, entity.EventRegister, req.Email, resp.User)
	s.nav.Navigate(resp.User.Role.LandingRoute())
	return nil
}

// Logout clears the session and sends the browser to the login page.
func (s *Store) Logout(ctx context.Context) {
	if sess, ok := s.state.Session(); ok {
		s.record(ctx, entity.EventLogout, sess.User.Email, &sess.User)
	}
	s.restored = true
	s.clear(ctx)
	s.state = anonymous()
	s.nav.Navigate(entity.RouteLogin)
}

// Refresh reloads the user from the API. The refreshed user is kept in
// memory only, so the persisted entries keep the expiry of the sign-in that
// wrote them. A 401/403 ends the session the same way Logout does; other
// errors leave the session untouched.
func (s *Store) Refresh(ctx context.Context) (*entity.User, error) {
	sess, ok := s.state.Session()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	user, err := s.api.Profile(ctx, sess.Token)
	if err != nil {
		if apiclient.IsKind(err, apiclient.KindUnauthorized) {
			s.record(ctx, entity.EventSessionExpired, sess.User.Email, &sess.User)
			s.restored = true
			s.clear(ctx)
			s.state = anonymous()
			s.nav.Navigate(entity.RouteLogin)
		}
		return nil, err
	}

	updated, err := NewSession(sess.Token, *user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	s.state = authenticated(updated)
	return s.User(), nil
}

func (s *Store) establish(ctx context.Context, resp *entity.AuthResponse) error {
	if resp == nil || resp.User == nil {
		return &apiclient.Error{Kind: apiclient.KindMalformedResponse, Err: fmt.Errorf("%w: response has no user", ErrInvalidSession)}
	}
	sess, err := NewSession(resp.Token, *resp.User)
	if err != nil {
		return &apiclient.Error{Kind: apiclient.KindMalformedResponse, Err: fmt.Errorf("%w: %v", ErrInvalidSession, err)}
	}
	if err := s.persist(ctx, sess); err != nil {
		return err
	}
	s.restored = true
	s.state = authenticated(sess)
	return nil
}

// persist writes both entries. If the second write fails the token entry
// is put back to what it held before, so storage still matches memory.
func (s *Store) persist(ctx context.Context, sess Session) error {
	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	prevToken, hadToken := s.jar.Get(TokenCookie)
	if err := s.jar.Set(TokenCookie, sess.Token, s.maxAge); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := s.jar.Set(UserCookie, string(rawUser), s.maxAge); err != nil {
		var rollback error
		if hadToken {
			rollback = s.jar.Set(TokenCookie, prevToken, s.maxAge)
		} else {
			rollback = s.jar.Remove(TokenCookie)
		}
		if rollback != nil {
			s.logger.WarnContext(ctx, "roll back token entry", "error", rollback)
		}
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) clear(ctx context.Context) {
	for _, name := range []string{TokenCookie, UserCookie} {
		if err := s.jar.Remove(name); err != nil {
			s.logger.WarnContext(ctx, "remove session entry", "entry", name, "error", err)
		}
	}
}

func (s *Store) record(ctx context.Context, kind entity.AuthEventKind, email string, user *entity.User) {
	ev := entity.AuthEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Email:      email,
		RemoteAddr: s.remoteAddr,
		CreatedAt:  s.now().UTC(),
	}
	if user != nil {
		id := user.ID
		ev.UserID = &id
		ev.Role = user.Role
	}
	if err := s.recorder.Record(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "record auth event", "kind", kind, "error", err)
	}
}

func decodeSession(token, rawUser string) (Session, error) {
	if token == "" {
		return Session{}, fmt.Errorf("%w: token entry missing", ErrInvalidSession)
	}
	if rawUser == "" {
		return Session{}, fmt.Errorf("%w: user entry missing", ErrInvalidSession)
	}
	var user entity.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return Session{}, fmt.Errorf("%w: parse user: %v", ErrInvalidSession, err)
	}
	sess, err := NewSession(token, user)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return sess, nil
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not checked; the API remains the authority on validity.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
