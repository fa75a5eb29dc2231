package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rahul4902/blood-sub001/internal/model"
	"github.com/rahul4902/blood-sub001/internal/storage"
)

const (
	DefaultCheckInterval    = time.Minute
	DefaultRefreshThreshold = 2 * time.Minute

	msgLoginFailed    = "Login failed"
	msgRegisterFailed = "Registration failed"
	msgRefreshFailed  = "Session expired"
)

type Options struct {
	Backend          Backend
	Storage          storage.Store
	Navigator        Navigator
	Logger           *zap.Logger
	CheckInterval    time.Duration
	RefreshThreshold time.Duration
	Now              func() time.Time
}

// Manager holds the access token and user profile and keeps the token fresh
// with a background check loop. It is the token source for authenticated
// REST clients.
type Manager struct {
	mu      sync.RWMutex
	session Session

	refreshMu sync.Mutex

	loopMu sync.Mutex
	stop   context.CancelFunc
	done   chan struct{}

	backend   Backend
	storage   storage.Store
	nav       Navigator
	log       *zap.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
}

func NewManager(opts Options) (*Manager, error) {
	if opts.Backend == nil {
		return nil, errors.New("auth backend is required")
	}
	if opts.Storage == nil {
		opts.Storage = storage.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = DefaultCheckInterval
	}
	if opts.RefreshThreshold <= 0 {
		opts.RefreshThreshold = DefaultRefreshThreshold
	}
	if opts.RefreshThreshold <= opts.CheckInterval {
		return nil, ErrInvalidTiming
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		backend:   opts.Backend,
		storage:   opts.Storage,
		nav:       opts.Navigator,
		log:       opts.Logger.Named("auth"),
		interval:  opts.CheckInterval,
		threshold: opts.RefreshThreshold,
		now:       opts.Now,
	}, nil
}

// Restore loads a session saved by an earlier run. Unreadable keys are
// logged and treated as absent.
func (m *Manager) Restore(ctx context.Context) {
	var s Session

	if b, err := m.storage.Get(ctx, KeyAccessToken); err == nil {
		s.AccessToken = string(b)
	} else if !errors.Is(err, storage.ErrNotFound) {
		m.log.Warn("read access token", zap.Error(err))
	}

	if b, err := m.storage.Get(ctx, KeyTokenExpiry); err == nil {
		if t, perr := time.Parse(time.RFC3339Nano, string(b)); perr == nil {
			s.TokenExpiry = t
		} else {
			m.log.Warn("parse token expiry", zap.Error(perr))
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		m.log.Warn("read token expiry", zap.Error(err))
	}

	if b, err := m.storage.Get(ctx, KeyUser); err == nil {
		var u model.User
		if jerr := json.Unmarshal(b, &u); jerr == nil {
			s.User = &u
		} else {
			m.log.Warn("decode user", zap.Error(jerr))
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		m.log.Warn("read user", zap.Error(err))
	}

	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
	m.log.Info("session restored", zap.Bool("authenticated", s.Authenticated()))
}

func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (m *Manager) IsAuthenticated() bool {
	return m.Session().Authenticated()
}

// Token returns the current access token.
func (m *Manager) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.AccessToken == "" {
		return "", ErrNotAuthenticated
	}
	return m.session.AccessToken, nil
}

func (m *Manager) Login(ctx context.Context, creds model.Credentials) Result {
	resp, err := m.backend.Login(ctx, creds)
	if err != nil {
		m.log.Info("login failed", zap.String("email", creds.Email), zap.Error(err))
		return Result{Error: messageOr(err, msgLoginFailed)}
	}
	m.setSession(ctx, resp, true)
	return Result{Success: true}
}

func (m *Manager) Register(ctx context.Context, reg model.Registration) Result {
	resp, err := m.backend.Register(ctx, reg)
	if err != nil {
		m.log.Info("register failed", zap.String("email", reg.Email), zap.Error(err))
		return Result{Error: messageOr(err, msgRegisterFailed)}
	}
	m.setSession(ctx, resp, true)
	return Result{Success: true}
}

// Logout invalidates the session on the server when possible, then clears
// local state regardless and navigates to the login page.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.session.AccessToken
	m.session = Session{}
	m.mu.Unlock()

	if token != "" {
		if err := m.backend.Logout(ctx, token); err != nil {
			m.log.Debug("server logout", zap.Error(err))
		}
	}

	for _, key := range []string{KeyAccessToken, KeyTokenExpiry, KeyUser} {
		if err := m.storage.Delete(ctx, key); err != nil {
			m.log.Warn("clear session key", zap.String("key", key), zap.Error(err))
		}
	}

	if m.nav != nil {
		m.nav.Navigate(LoginRoute)
	}
}

// FetchUserProfile loads the profile with the current token. A 401 or 403
// logs the user out before the error is returned.
func (m *Manager) FetchUserProfile(ctx context.Context) (model.User, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return model.User{}, err
	}

	u, err := m.backend.Profile(ctx, token)
	if err != nil {
		if isUnauthorized(err) {
			m.log.Info("profile rejected, logging out", zap.Error(err))
			m.Logout(ctx)
		}
		return model.User{}, err
	}

	m.mu.Lock()
	if m.session.AccessToken == token {
		uc := u
		m.session.User = &uc
	}
	m.mu.Unlock()
	m.persistUser(ctx, &u)
	return u, nil
}

// RefreshAccessToken mints a new token from the refresh cookie. Failure logs
// the user out.
func (m *Manager) RefreshAccessToken(ctx context.Context) Result {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	resp, err := m.backend.Refresh(ctx)
	if err != nil && ctx.Err() != nil {
		return Result{Error: msgRefreshFailed}
	}
	if err != nil {
		m.log.Warn("token refresh failed, logging out", zap.Error(err))
		m.Logout(ctx)
		return Result{Error: messageOr(err, msgRefreshFailed)}
	}
	m.setSession(ctx, resp, resp.User != nil)
	m.log.Debug("token refreshed", zap.Time("expiry", resp.ExpiryDate))
	return Result{Success: true}
}

func (m *Manager) setSession(ctx context.Context, resp TokenResponse, withUser bool) {
	m.mu.Lock()
	m.session.AccessToken = resp.AccessToken
	m.session.TokenExpiry = resp.ExpiryDate
	if withUser {
		m.session.User = resp.User
	}
	user := m.session.User
	m.mu.Unlock()

	if err := m.storage.Set(ctx, KeyAccessToken, []byte(resp.AccessToken)); err != nil {
		m.log.Warn("write access token", zap.Error(err))
	}
	expiry := resp.ExpiryDate.UTC().Format(time.RFC3339Nano)
	if err := m.storage.Set(ctx, KeyTokenExpiry, []byte(expiry)); err != nil {
		m.log.Warn("write token expiry", zap.Error(err))
	}
	if withUser {
		m.persistUser(ctx, user)
	}
}

func (m *Manager) persistUser(ctx context.Context, u *model.User) {
	if u == nil {
		if err := m.storage.Delete(ctx, KeyUser); err != nil {
			m.log.Warn("clear user", zap.Error(err))
		}
		return
	}
	b, err := json.Marshal(u)
	if err != nil {
		m.log.Error("encode user", zap.Error(err))
		return
	}
	if err := m.storage.Set(ctx, KeyUser, b); err != nil {
		m.log.Warn("write user", zap.Error(err))
	}
}
