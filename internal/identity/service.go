// Package identity реализует in-process заглушку сервиса аутентификации:
// вход, регистрация, проверка токена, сброс пароля и выход поверх таблицы пользователей в памяти.
package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"teamhub/internal/model"
)

const resetMessage = "Password reset instructions have been sent to your email address"

const avatarBase = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150"

// Latency задаёт искусственные задержки операций, имитирующие сеть.
type Latency struct {
	Login    time.Duration
	Register time.Duration
	Verify   time.Duration
	Reset    time.Duration
	Logout   time.Duration
}

// DefaultLatency: задержки, с которыми работает дашборд по умолчанию.
var DefaultLatency = Latency{
	Login:    1000 * time.Millisecond,
	Register: 1200 * time.Millisecond,
	Verify:   500 * time.Millisecond,
	Reset:    800 * time.Millisecond,
	Logout:   300 * time.Millisecond,
}

// Service: заглушка сервиса аутентификации. Безопасен для конкурентного использования.
type Service struct {
	mu      sync.RWMutex
	users   []model.SessionUser
	hashes  map[string][]byte // email -> bcrypt-хеш пароля
	latency Latency
	now     func() time.Time
}

// Seed: пользователь, которым заполняется таблица при старте.
type Seed struct {
	User     model.SessionUser
	Password string
}

// DefaultSeeds возвращает двух стандартных пользователей.
func DefaultSeeds() []Seed {
	return []Seed{
		{
			User: model.SessionUser{
				ID:        1,
				Email:     "admin@teamhub.com",
				FirstName: "Admin",
				LastName:  "User",
				Avatar:    avatarBase,
			},
			Password: "admin123",
		},
		{
			User: model.SessionUser{
				ID:        2,
				Email:     "john@teamhub.com",
				FirstName: "John",
				LastName:  "Doe",
				Avatar:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150",
			},
			Password: "password123",
		},
	}
}

// NewService создаёт сервис с заданными задержками и пользователями.
func NewService(latency Latency, seeds []Seed) (*Service, error) {
	s := &Service{
		hashes:  make(map[string][]byte, len(seeds)),
		latency: latency,
		now:     time.Now,
	}
	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password for %s: %w", seed.User.Email, err)
		}
		s.users = append(s.users, seed.User)
		s.hashes[seed.User.Email] = hash
	}
	return s, nil
}

// Login проверяет email и пароль и выдаёт новый токен.
func (s *Service) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	if err := s.wait(ctx, s.latency.Login); err != nil {
		return model.AuthResult{}, err
	}

	s.mu.RLock()
	user, ok := s.findByEmail(email)
	hash := s.hashes[email]
	s.mu.RUnlock()

	if !ok {
		return model.AuthResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return model.AuthResult{}, ErrInvalidCredentials
	}

	token := issueToken(user.ID, s.now())
	user.Token = token
	return model.AuthResult{Token: token, User: user}, nil
}

// Register добавляет нового пользователя и сразу выдаёт ему токен.
// При занятом email таблица не меняется.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (model.AuthResult, error) {
	if err := s.wait(ctx, s.latency.Register); err != nil {
		return model.AuthResult{}, err
	}

	// Хешируем до захвата блокировки: bcrypt медленный.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.findByEmail(email); exists {
		return model.AuthResult{}, ErrDuplicateEmail
	}

	now := s.now()
	user := model.SessionUser{
		ID:        s.nextID(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Avatar:    fmt.Sprintf("%s&sig=%d", avatarBase, now.UnixMilli()),
	}
	s.users = append(s.users, user)
	s.hashes[email] = hash

	token := issueToken(user.ID, now)
	user.Token = token
	return model.AuthResult{ID: user.ID, Token: token, User: user}, nil
}

// VerifyToken разбирает токен и возвращает пользователя, которому он выдан.
func (s *Service) VerifyToken(ctx context.Context, token string) (model.SessionUser, error) {
	if err := s.wait(ctx, s.latency.Verify); err != nil {
		return model.SessionUser{}, err
	}

	id, err := parseToken(token)
	if err != nil {
		return model.SessionUser{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			u.Token = token
			return u, nil
		}
	}
	return model.SessionUser{}, ErrUserNotFound
}

// RequestPasswordReset «отправляет» инструкции по сбросу пароля.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if err := s.wait(ctx, s.latency.Reset); err != nil {
		return "", err
	}

	s.mu.RLock()
	_, ok := s.findByEmail(email)
	s.mu.RUnlock()
	if !ok {
		return "", ErrUnknownEmail
	}
	return resetMessage, nil
}

// Logout ничего не инвалидирует на стороне сервиса и всегда успешен.
func (s *Service) Logout(ctx context.Context) error {
	return s.wait(ctx, s.latency.Logout)
}

// Users возвращает копию таблицы пользователей.
func (s *Service) Users() []model.SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SessionUser, len(s.users))
	copy(out, s.users)
	return out
}

// findByEmail вызывается под блокировкой.
func (s *Service) findByEmail(email string) (model.SessionUser, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return model.SessionUser{}, false
}

func (s *Service) nextID() int {
	maxID := 0
	for _, u := range s.users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return maxID + 1
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
