package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"teamhub/internal/model"
	"teamhub/internal/storage"
)

// IdentityProvider описывает контракт сервиса аутентификации для стора сессии.
type IdentityProvider interface {
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
	Register(ctx context.Context, email, password, firstName, lastName string) (model.AuthResult, error)
	VerifyToken(ctx context.Context, token string) (model.SessionUser, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	Logout(ctx context.Context) error
}

// ClientStorage описывает долговременное хранилище токена и пользователя.
type ClientStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

var errNoToken = errors.New("No token found")

// SessionStatus: состояние автомата сессии.
type SessionStatus string

const (
	// StatusAnonymous: сессии нет.
	StatusAnonymous SessionStatus = "anonymous"
	// StatusAuthenticating: идёт вход или регистрация.
	StatusAuthenticating SessionStatus = "authenticating"
	// StatusOptimistic: токен восстановлен из хранилища, но ещё не проверен.
	StatusOptimistic SessionStatus = "authenticated_optimistic"
	// StatusAuthenticated: токен выдан или подтверждён сервисом.
	StatusAuthenticated SessionStatus = "authenticated"
	// StatusVerificationFailed: проверка токена не прошла, сессия сброшена.
	StatusVerificationFailed SessionStatus = "verification_failed"
)

// SessionState: снимок стора сессии.
type SessionState struct {
	Status          SessionStatus      `json:"status"`
	User            *model.SessionUser `json:"user"`
	Token           string             `json:"token,omitempty"`
	IsAuthenticated bool               `json:"is_authenticated"`
	Verify          OpStatus           `json:"verify"`
	Login           OpStatus           `json:"login"`
	Register        OpStatus           `json:"register"`
	Reset           OpStatus           `json:"password_reset"`
	Logout          OpStatus           `json:"logout"`
}

// Loading сообщает, что сессия ещё не определена: идёт проверка токена.
func (s SessionState) Loading() bool {
	return s.Verify.Busy
}

// SessionStore хранит состояние аутентификации и синхронизирует его с ClientStorage.
type SessionStore struct {
	mu      sync.Mutex
	idp     IdentityProvider
	storage ClientStorage
	log     *slog.Logger

	user         *model.SessionUser
	token        string
	confirmed    bool
	verifyFailed bool
	epoch        uint64
	// sessGen растёт при каждой смене сессии: вход, выход, сброс.
	sessGen uint64

	verify   opSlot
	login    opSlot
	register opSlot
	reset    opSlot
	logout   opSlot
}

// NewSessionStore создаёт стор и синхронно восстанавливает сессию из хранилища.
// Восстановленный токен считается действительным оптимистично, до вызова Verify.
// storage может быть nil: тогда сессия живёт только в памяти.
func NewSessionStore(ctx context.Context, idp IdentityProvider, st ClientStorage, log *slog.Logger) *SessionStore {
	s := &SessionStore{
		idp:      idp,
		storage:  st,
		log:      log,
		verify:   opSlot{latestOnly: true},
		login:    opSlot{latestOnly: true},
		register: opSlot{latestOnly: true},
		reset:    opSlot{latestOnly: true},
		logout:   opSlot{},
	}

	token, ok := s.readStored(ctx, storage.KeyToken)
	if !ok || token == "" {
		return s
	}
	s.token = token

	if raw, ok := s.readStored(ctx, storage.KeyUser); ok {
		var u model.SessionUser
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.log.Warn("stored session user is corrupted", slog.Any("err", err))
		} else {
			s.user = &u
		}
	}
	return s
}

// Snapshot возвращает копию текущего состояния.
func (s *SessionStore) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Login выполняет вход. При ошибке сессия сбрасывается, а сообщение попадает в Login.Err.
func (s *SessionStore) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	s.mu.Lock()
	t := s.login.begin(s.epoch)
	gen := s.sessGen
	s.mu.Unlock()

	res, err := s.idp.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.login.finish(ctx, t, s.epoch) || gen != s.sessGen {
		return model.AuthResult{}, ErrCancelled(ctx.Err())
	}
	if err != nil {
		appErr := identityError(err, "Login failed")
		s.login.Err = appErr.Message
		s.dropSessionLocked()
		return model.AuthResult{}, appErr
	}

	s.acceptLocked(ctx, res.Token, res.User)
	return res, nil
}

// Register регистрирует пользователя и сразу открывает для него сессию.
func (s *SessionStore) Register(ctx context.Context, email, password, firstName, lastName string) (model.AuthResult, error) {
	s.mu.Lock()
	t := s.register.begin(s.epoch)
	gen := s.sessGen
	s.mu.Unlock()

	res, err := s.idp.Register(ctx, email, password, firstName, lastName)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.register.finish(ctx, t, s.epoch) || gen != s.sessGen {
		return model.AuthResult{}, ErrCancelled(ctx.Err())
	}
	if err != nil {
		appErr := identityError(err, "Registration failed")
		s.register.Err = appErr.Message
		s.dropSessionLocked()
		return model.AuthResult{}, appErr
	}

	s.acceptLocked(ctx, res.Token, res.User)
	return res, nil
}

// Verify проверяет сохранённый токен. При неудаче хранилище очищается,
// а сессия переходит в StatusVerificationFailed без дополнительного шума.
func (s *SessionStore) Verify(ctx context.Context) (model.SessionUser, error) {
	s.mu.Lock()
	t := s.verify.begin(s.epoch)
	gen := s.sessGen
	memToken := s.token
	s.mu.Unlock()

	token, ok := s.readStored(ctx, storage.KeyToken)
	if s.storage == nil {
		token, ok = memToken, memToken != ""
	}
	var (
		user model.SessionUser
		err  error
	)
	if !ok || token == "" {
		err = errNoToken
	} else {
		user, err = s.idp.VerifyToken(ctx, token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Пока шла проверка, сессию сменили: результат относится к старой сессии
	if !s.verify.finish(ctx, t, s.epoch) || gen != s.sessGen {
		return model.SessionUser{}, ErrCancelled(ctx.Err())
	}
	if err != nil {
		var appErr *AppError
		if errors.Is(err, errNoToken) {
			appErr = ErrDomain(CodeInvalidToken, err.Error())
		} else {
			appErr = identityError(err, "Token verification failed")
		}
		s.log.Info("session verification failed", slog.String("code", appErr.Code))
		s.verify.Err = appErr.Message
		s.clearStoredLocked(ctx)
		s.dropSessionLocked()
		s.verifyFailed = true
		return model.SessionUser{}, appErr
	}

	if user.Token == "" {
		user.Token = token
	}
	s.acceptLocked(ctx, user.Token, user)
	return user, nil
}

// RequestPasswordReset запрашивает инструкции по сбросу пароля.
func (s *SessionStore) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	t := s.reset.begin(s.epoch)
	s.mu.Unlock()

	msg, err := s.idp.RequestPasswordReset(ctx, email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reset.finish(ctx, t, s.epoch) {
		return "", ErrCancelled(ctx.Err())
	}
	if err != nil {
		appErr := identityError(err, "Password reset request failed")
		s.reset.Err = appErr.Message
		return "", appErr
	}
	return msg, nil
}

// Logout закрывает сессию. Локальное состояние и хранилище очищаются всегда,
// даже если удалённый вызов упал или был отменён: ошибка только логируется.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	t := s.logout.begin(s.epoch)
	s.mu.Unlock()

	err := s.idp.Logout(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logout.finish(ctx, t, s.epoch)

	// Очистка не зависит от контекста вызова.
	s.clearStoredLocked(context.WithoutCancel(ctx))
	s.dropSessionLocked()
	s.verifyFailed = false

	if err != nil {
		s.log.Warn("remote logout failed", slog.Any("err", err))
		s.logout.Err = "Logout failed"
		return
	}
	s.verify.Err = ""
	s.login.Err = ""
	s.register.Err = ""
}

// UpdateProfile локально применяет патч к пользователю сессии и сохраняет результат.
// Удалённый сервис не вызывается.
func (s *SessionStore) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil || s.token == "" {
		return model.SessionUser{}, ErrUnauthenticated("no active session")
	}

	updated := patch.Apply(*s.user)
	s.user = &updated
	s.persistLocked(ctx)
	return updated, nil
}

// ClearLoginError сбрасывает ошибку входа.
func (s *SessionStore) ClearLoginError() {
	s.mu.Lock()
	s.login.Err = ""
	s.mu.Unlock()
}

// ClearRegisterError сбрасывает ошибку регистрации.
func (s *SessionStore) ClearRegisterError() {
	s.mu.Lock()
	s.register.Err = ""
	s.mu.Unlock()
}

// ClearResetError сбрасывает ошибку запроса на сброс пароля.
func (s *SessionStore) ClearResetError() {
	s.mu.Lock()
	s.reset.Err = ""
	s.mu.Unlock()
}

// ClearError сбрасывает ошибки проверки токена и выхода.
func (s *SessionStore) ClearError() {
	s.mu.Lock()
	s.verify.Err = ""
	s.logout.Err = ""
	s.mu.Unlock()
}

// Abandon отбрасывает результаты всех незавершённых задач, кроме очистки при выходе.
func (s *SessionStore) Abandon() {
	s.mu.Lock()
	s.epoch++
	s.mu.Unlock()
}

func (s *SessionStore) snapshotLocked() SessionState {
	st := SessionState{
		Token:           s.token,
		IsAuthenticated: s.token != "",
		Verify:          s.verify.OpStatus,
		Login:           s.login.OpStatus,
		Register:        s.register.OpStatus,
		Reset:           s.reset.OpStatus,
		Logout:          s.logout.OpStatus,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}

	switch {
	case s.token != "" && s.confirmed:
		st.Status = StatusAuthenticated
	case s.token != "":
		st.Status = StatusOptimistic
	case s.login.Busy || s.register.Busy:
		st.Status = StatusAuthenticating
	case s.verifyFailed:
		st.Status = StatusVerificationFailed
	default:
		st.Status = StatusAnonymous
	}
	return st
}

func (s *SessionStore) acceptLocked(ctx context.Context, token string, user model.SessionUser) {
	s.token = token
	s.user = &user
	s.confirmed = true
	s.verifyFailed = false
	s.sessGen++
	s.persistLocked(ctx)
}

func (s *SessionStore) dropSessionLocked() {
	s.token = ""
	s.user = nil
	s.confirmed = false
	s.sessGen++
}

// Работа с хранилищем: ошибки логируются и не прерывают переходы автомата.

func (s *SessionStore) readStored(ctx context.Context, key string) (string, bool) {
	if s.storage == nil {
		return "", false
	}
	v, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.log.Warn("storage read failed", slog.String("key", key), slog.Any("err", err))
		return "", false
	}
	return v, ok
}

func (s *SessionStore) persistLocked(ctx context.Context) {
	if s.storage == nil || s.user == nil {
		return
	}
	raw, err := json.Marshal(s.user)
	if err != nil {
		s.log.Warn("encode session user", slog.Any("err", err))
		return
	}
	if err := s.storage.Set(ctx, storage.KeyToken, s.token); err != nil {
		s.log.Warn("storage write failed", slog.String("key", storage.KeyToken), slog.Any("err", err))
	}
	if err := s.storage.Set(ctx, storage.KeyUser, string(raw)); err != nil {
		s.log.Warn("storage write failed", slog.String("key", storage.KeyUser), slog.Any("err", err))
	}
}

func (s *SessionStore) clearStoredLocked(ctx context.Context) {
	if s.storage == nil {
		return
	}
	for _, key := range []string{storage.KeyToken, storage.KeyUser} {
		if err := s.storage.Remove(ctx, key); err != nil {
			s.log.Warn("storage remove failed", slog.String("key", key), slog.Any("err", err))
		}
	}
}
