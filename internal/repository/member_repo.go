// Package repository реализует доступ к внешнему Record API участников команды.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamhub/internal/model"
)

const apiKeyHeader = "x-api-key"

// MemberRepoConfig описывает подключение к Record API.
type MemberRepoConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RequestDelay time.Duration
}

// MemberRepo реализует репозиторий участников поверх REST API в стиле reqres.in.
type MemberRepo struct {
	baseURL string
	apiKey  string
	delay   time.Duration
	client  *http.Client
}

// NewMemberRepo создаёт клиент Record API.
func NewMemberRepo(cfg MemberRepoConfig) *MemberRepo {
	return &MemberRepo{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		delay:   cfg.RequestDelay,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type memberEnvelope struct {
	Data *model.Member `json:"data"`
}

type writeRequest struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type writeResponse struct {
	ID        flexibleID `json:"id"`
	Name      string     `json:"name"`
	Job       string     `json:"job"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// flexibleID принимает ID и строкой, и числом: API присылает созданный ID строкой.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	*f = flexibleID(strings.TrimSpace(string(b)))
	return nil
}

// ListPage возвращает страницу участников.
func (r *MemberRepo) ListPage(ctx context.Context, page int) (model.MemberPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var out model.MemberPage
	status, err := r.do(ctx, http.MethodGet, "/users?"+q.Encode(), nil, &out)
	if err != nil {
		return model.MemberPage{}, fmt.Errorf("list members: %w", err)
	}
	if status != http.StatusOK {
		return model.MemberPage{}, fmt.Errorf("list members: %w: %d", ErrUnexpectedStatus, status)
	}
	if out.Members == nil {
		out.Members = []model.Member{}
	}
	return out, nil
}

// GetByID возвращает участника по ID.
// Если API ответил 404 или прислал ответ без data, возвращает ErrMemberNotFound.
func (r *MemberRepo) GetByID(ctx context.Context, id int) (model.Member, error) {
	var env memberEnvelope
	status, err := r.do(ctx, http.MethodGet, "/users/"+strconv.Itoa(id), nil, &env)
	if err != nil {
		return model.Member{}, fmt.Errorf("get member: %w", err)
	}
	switch {
	case status == http.StatusNotFound:
		return model.Member{}, ErrMemberNotFound
	case status != http.StatusOK:
		return model.Member{}, fmt.Errorf("get member: %w: %d", ErrUnexpectedStatus, status)
	case env.Data == nil:
		return model.Member{}, ErrMemberNotFound
	}
	return *env.Data, nil
}

// Create создаёт участника и возвращает присвоенный сервером ID.
func (r *MemberRepo) Create(ctx context.Context, in model.MemberInput) (model.CreatedMember, error) {
	var out writeResponse
	status, err := r.do(ctx, http.MethodPost, "/users", writeRequest{Name: in.Name(), Job: in.Job}, &out)
	if err != nil {
		return model.CreatedMember{}, fmt.Errorf("create member: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return model.CreatedMember{}, fmt.Errorf("create member: %w: %d", ErrUnexpectedStatus, status)
	}

	id, err := strconv.Atoi(string(out.ID))
	if err != nil || id <= 0 {
		return model.CreatedMember{}, fmt.Errorf("create member: %w: %q", ErrInvalidID, out.ID)
	}
	return model.CreatedMember{ID: id, Name: out.Name, Job: out.Job, CreatedAt: out.CreatedAt}, nil
}

// Update полностью заменяет поля участника.
func (r *MemberRepo) Update(ctx context.Context, id int, in model.MemberInput) (model.UpdatedMember, error) {
	var out writeResponse
	status, err := r.do(ctx, http.MethodPut, "/users/"+strconv.Itoa(id), writeRequest{Name: in.Name(), Job: in.Job}, &out)
	if err != nil {
		return model.UpdatedMember{}, fmt.Errorf("update member: %w", err)
	}
	if status == http.StatusNotFound {
		return model.UpdatedMember{}, ErrMemberNotFound
	}
	if status != http.StatusOK {
		return model.UpdatedMember{}, fmt.Errorf("update member: %w: %d", ErrUnexpectedStatus, status)
	}
	return model.UpdatedMember{ID: id, Name: out.Name, Job: out.Job, UpdatedAt: out.UpdatedAt}, nil
}

// Delete удаляет участника. Успех определяется только статусом ответа.
func (r *MemberRepo) Delete(ctx context.Context, id int) error {
	status, err := r.do(ctx, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if status == http.StatusNotFound {
		return ErrMemberNotFound
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("delete member: %w: %d", ErrUnexpectedStatus, status)
	}
	return nil
}

// do выполняет запрос и декодирует JSON-ответ в out при статусе 2xx.
func (r *MemberRepo) do(ctx context.Context, method, path string, body, out any) (int, error) {
	// Небольшая пауза перед каждым запросом, чтобы не упираться в rate limit API
	if r.delay > 0 {
		t := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return 0, ctx.Err()
		case <-t.C:
		}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, r.apiKey)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
