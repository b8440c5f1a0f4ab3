package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "teamhub/internal/http"
	"teamhub/internal/identity"
	"teamhub/internal/model"
	"teamhub/internal/repository"
	"teamhub/internal/service"
	"teamhub/internal/storage"
)

const perPage = 6

// newRecordAPI поднимает фейковый Record API с двенадцатью участниками.
func newRecordAPI(t *testing.T) *httptest.Server {
	t.Helper()

	members := make([]model.Member, 0, 12)
	for i := 1; i <= 12; i++ {
		members = append(members, model.Member{
			ID:        i,
			Email:     fmt.Sprintf("member%d@reqres.in", i),
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  fmt.Sprintf("Last%d", i),
		})
	}
	members[1].FirstName, members[1].LastName = "Janet", "Weaver"

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		from := min((page-1)*perPage, len(members))
		to := min(from+perPage, len(members))
		_ = json.NewEncoder(w).Encode(model.MemberPage{
			Members:    members[from:to],
			Page:       page,
			PerPage:    perPage,
			Total:      len(members),
			TotalPages: 2,
		})
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		if id < 1 || id > len(members) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": members[id-1]})
	})
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id": "734", "name": body["name"], "job": body["job"], "createdAt": "2025-01-01T00:00:00.000Z",
		})
	})
	mux.HandleFunc("PUT /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name": body["name"], "job": body["job"], "updatedAt": "2025-01-01T00:00:00.000Z",
		})
	})
	mux.HandleFunc("DELETE /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	router   http.Handler
	sessions *service.SessionStore
	records  *service.RecordStore
	storage  *storage.Memory
}

func newEnv(t *testing.T, st *storage.Memory, latency identity.Latency, opts httpapi.Options) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	idp, err := identity.NewService(latency, identity.DefaultSeeds())
	require.NoError(t, err)

	if st == nil {
		st = storage.NewMemory()
	}
	api := newRecordAPI(t)
	repo := repository.NewMemberRepo(repository.MemberRepoConfig{BaseURL: api.URL, APIKey: "test", Timeout: 5 * time.Second})

	sessions := service.NewSessionStore(context.Background(), idp, st, logger)
	records := service.NewRecordStore(repo, logger)
	h := httpapi.NewHandler(sessions, records, logger, opts)

	return &testEnv{router: h.Router(), sessions: sessions, records: records, storage: st}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	w := e.do(http.MethodPost, "/auth/login", `{"email":"admin@teamhub.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

type errorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var p errorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

// Сессия, восстановленная из хранилища без проверки.
func seededStorage(t *testing.T, token string) *storage.Memory {
	t.Helper()
	st := storage.NewMemory()
	raw, err := json.Marshal(model.SessionUser{ID: 1, Email: "admin@teamhub.com", FirstName: "Admin", LastName: "User"})
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), storage.KeyToken, token))
	require.NoError(t, st.Set(context.Background(), storage.KeyUser, string(raw)))
	return st
}

func TestHandler_Health(t *testing.T) {
	e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})

	w := e.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
}

func TestHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			body:           `{"email":"admin@teamhub.com","password":"admin123"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bad Request: Invalid JSON",
			body:           `{"email": "broken`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidationFailed,
		},
		{
			name:           "Bad Request: Missing password",
			body:           `{"email":"admin@teamhub.com"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidationFailed,
		},
		{
			name:           "Unauthorized: Wrong password",
			body:           `{"email":"admin@teamhub.com","password":"nope"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   service.CodeInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})

			w := e.do(http.MethodPost, "/auth/login", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
				assert.False(t, e.sessions.Snapshot().IsAuthenticated)
				return
			}

			var resp struct {
				Token string            `json:"token"`
				User  model.SessionUser `json:"user"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, strings.HasPrefix(resp.Token, "mock_jwt_token_1_"))
			assert.Equal(t, "admin@teamhub.com", resp.User.Email)

			stored, ok, err := e.storage.Get(context.Background(), storage.KeyToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, resp.Token, stored)
		})
	}
}

func TestHandler_WrongPasswordMessage(t *testing.T) {
	e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})

	w := e.do(http.MethodPost, "/auth/login", `{"email":"admin@teamhub.com","password":"wrong"}`)

	assert.Contains(t, decodeError(t, w).Error.Message, "Invalid email or password")
	assert.Equal(t, "Invalid email or password", e.sessions.Snapshot().Login.Err)
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			body:           `{"email":"new@teamhub.com","password":"secret1","first_name":"New","last_name":"User"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Conflict: Duplicate email",
			body:           `{"email":"john@teamhub.com","password":"secret1","first_name":"John","last_name":"Doe"}`,
			expectedStatus: http.StatusConflict,
			expectedCode:   service.CodeDuplicateEmail,
		},
		{
			name:           "Bad Request: Short password",
			body:           `{"email":"new@teamhub.com","password":"123","first_name":"New","last_name":"User"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidationFailed,
		},
		{
			name:           "Bad Request: Name of spaces",
			body:           `{"email":"new@teamhub.com","password":"secret1","first_name":"  A ","last_name":"User"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidationFailed,
		},
		{
			name:           "Bad Request: Bad email",
			body:           `{"email":"new@teamhub","password":"secret1","first_name":"New","last_name":"User"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})

			w := e.do(http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
				return
			}

			var resp struct {
				ID    int    `json:"id"`
				Token string `json:"token"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, 3, resp.ID)
			assert.Equal(t, service.StatusAuthenticated, e.sessions.Snapshot().Status)
		})
	}
}

func TestHandler_PasswordReset(t *testing.T) {
	e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})

	w := e.do(http.MethodPost, "/auth/password-reset", `{"email":"john@teamhub.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Password reset instructions have been sent to your email address"}`, w.Body.String())

	w = e.do(http.MethodPost, "/auth/password-reset", `{"email":"ghost@teamhub.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No user found with this email address", decodeError(t, w).Error.Message)
	assert.Equal(t, "No user found with this email address", e.sessions.Snapshot().Reset.Err)
}

func TestHandler_Guard(t *testing.T) {
	t.Run("Anonymous is sent to sign in", func(t *testing.T) {
		e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})

		w := e.do(http.MethodGet, "/members", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "/auth/login", w.Header().Get("Location"))
		assert.Equal(t, service.CodeUnauthenticated, decodeError(t, w).Error.Code)
	})

	t.Run("Authenticated is sent home from login", func(t *testing.T) {
		e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})
		e.login(t)

		w := e.do(http.MethodPost, "/auth/login", `{"email":"john@teamhub.com","password":"password123"}`)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/members", w.Header().Get("Location"))
		// Сессия не сменилась
		assert.Equal(t, 1, e.sessions.Snapshot().User.ID)
	})

	t.Run("Optimistic session renders by default", func(t *testing.T) {
		st := seededStorage(t, "mock_jwt_token_1_1700000000000")
		e := newEnv(t, st, identity.Latency{}, httpapi.Options{})

		assert.Equal(t, service.StatusOptimistic, e.sessions.Snapshot().Status)
		w := e.do(http.MethodGet, "/members", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Strict guard waits for verification", func(t *testing.T) {
		st := seededStorage(t, "mock_jwt_token_1_1700000000000")
		e := newEnv(t, st, identity.Latency{}, httpapi.Options{StrictGuard: true})

		w := e.do(http.MethodGet, "/members", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
		assert.Equal(t, "SESSION_RESOLVING", decodeError(t, w).Error.Code)

		w = e.do(http.MethodPost, "/auth/verify", "")
		require.Equal(t, http.StatusOK, w.Code)

		w = e.do(http.MethodGet, "/members", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Verification in flight means wait", func(t *testing.T) {
		st := seededStorage(t, "mock_jwt_token_1_1700000000000")
		e := newEnv(t, st, identity.Latency{Verify: 300 * time.Millisecond}, httpapi.Options{})

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = e.sessions.Verify(context.Background())
		}()
		require.Eventually(t, func() bool { return e.sessions.Snapshot().Loading() }, time.Second, 5*time.Millisecond)

		w := e.do(http.MethodGet, "/members", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Empty(t, w.Header().Get("Location"))

		<-done
		w = e.do(http.MethodGet, "/members", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandler_VerifyFailure(t *testing.T) {
	st := seededStorage(t, "mock_jwt_token_99_1700000000000")
	e := newEnv(t, st, identity.Latency{}, httpapi.Options{})

	w := e.do(http.MethodPost, "/auth/verify", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeError(t, w).Error.Message)

	snap := e.sessions.Snapshot()
	assert.Equal(t, service.StatusVerificationFailed, snap.Status)
	assert.False(t, snap.IsAuthenticated)
	_, ok, err := st.Get(context.Background(), storage.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	w = e.do(http.MethodGet, "/members", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Session(t *testing.T) {
	e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})

	w := e.do(http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	var snap service.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, service.StatusAnonymous, snap.Status)
	assert.Nil(t, snap.User)
}

func TestHandler_Logout(t *testing.T) {
	e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})
	e.login(t)

	w := e.do(http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)

	var snap service.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, service.StatusAnonymous, snap.Status)
	assert.Empty(t, snap.Logout.Err)

	_, ok, err := e.storage.Get(context.Background(), storage.KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)

	w = e.do(http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_ProfileUpdate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedFirst  string
	}{
		{name: "Success: partial", body: `{"first_name":" Ada "}`, expectedStatus: http.StatusOK, expectedFirst: "Ada"},
		{name: "Success: empty patch", body: `{}`, expectedStatus: http.StatusOK, expectedFirst: "Admin"},
		{name: "Bad Request: short name", body: `{"first_name":"A"}`, expectedStatus: http.StatusBadRequest, expectedFirst: "Admin"},
		{name: "Bad Request: empty email", body: `{"email":""}`, expectedStatus: http.StatusBadRequest, expectedFirst: "Admin"},
		{name: "Bad Request: avatar not url", body: `{"avatar":"picture"}`, expectedStatus: http.StatusBadRequest, expectedFirst: "Admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})
			e.login(t)

			w := e.do(http.MethodPatch, "/auth/profile", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedFirst, e.sessions.Snapshot().User.FirstName)
		})
	}
}

func TestHandler_MemberList(t *testing.T) {
	e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})
	e.login(t)

	type listResp struct {
		Data       []model.Member `json:"data"`
		Page       int            `json:"page"`
		TotalPages int            `json:"total_pages"`
		Total      int            `json:"total"`
	}

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedLen    int
		expectedPage   int
	}{
		{name: "Success: default page", path: "/members", expectedStatus: http.StatusOK, expectedLen: 6, expectedPage: 1},
		{name: "Success: second page", path: "/members?page=2", expectedStatus: http.StatusOK, expectedLen: 6, expectedPage: 2},
		{name: "Success: search", path: "/members?page=1&search=janet", expectedStatus: http.StatusOK, expectedLen: 1, expectedPage: 1},
		{name: "Success: search by email", path: "/members?search=MEMBER3@", expectedStatus: http.StatusOK, expectedLen: 1, expectedPage: 1},
		{name: "Bad Request: page zero", path: "/members?page=0", expectedStatus: http.StatusBadRequest},
		{name: "Bad Request: page text", path: "/members?page=two", expectedStatus: http.StatusBadRequest},
		{name: "Not Found: beyond last page", path: "/members?page=3", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(http.MethodGet, tt.path, "")

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp listResp
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Len(t, resp.Data, tt.expectedLen)
			assert.Equal(t, tt.expectedPage, resp.Page)
			assert.Equal(t, 2, resp.TotalPages)
			assert.Equal(t, 12, resp.Total)
		})
	}
}

func TestHandler_MemberGet(t *testing.T) {
	e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})
	e.login(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "Success", path: "/members/2", expectedStatus: http.StatusOK},
		{name: "Bad Request: not a number", path: "/members/abc", expectedStatus: http.StatusBadRequest},
		{name: "Not Found", path: "/members/99", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(http.MethodGet, tt.path, "")
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}

	require.NotNil(t, e.records.Snapshot().Selected)
	assert.Equal(t, "Janet", e.records.Snapshot().Selected.FirstName)
}

func TestHandler_MemberWrites(t *testing.T) {
	e := newEnv(t, nil, identity.Latency{}, httpapi.Options{})
	e.login(t)
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/members", "").Code)

	t.Run("Create", func(t *testing.T) {
		w := e.do(http.MethodPost, "/members", `{"first_name":"Ann","last_name":"Lee","email":"ann@lee.io","job":"QA"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created model.CreatedMember
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, 734, created.ID)
		assert.Equal(t, "Ann Lee", created.Name)
		assert.Len(t, e.records.Snapshot().Members, 6)
	})

	t.Run("Create: validation runs before the API", func(t *testing.T) {
		w := e.do(http.MethodPost, "/members", `{"first_name":"A","last_name":"Lee","email":"ann","job":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		msg := decodeError(t, w).Error.Message
		assert.Contains(t, msg, "first_name must be at least 2 characters")
		assert.Contains(t, msg, "email must be a valid email")
		assert.Contains(t, msg, "job is required")
	})

	t.Run("Update", func(t *testing.T) {
		w := e.do(http.MethodPut, "/members/2", `{"first_name":"Janet","last_name":"Weaver","email":"janet@reqres.in","job":"Lead"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated model.UpdatedMember
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, 2, updated.ID)
		assert.Equal(t, "Lead", updated.Job)
	})

	t.Run("Update: bad id", func(t *testing.T) {
		w := e.do(http.MethodPut, "/members/x", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid member ID", decodeError(t, w).Error.Message)
	})

	t.Run("Delete", func(t *testing.T) {
		w := e.do(http.MethodDelete, "/members/2", "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		ids := make([]int, 0)
		for _, m := range e.records.Snapshot().Members {
			ids = append(ids, m.ID)
		}
		assert.Equal(t, []int{1, 3, 4, 5, 6}, ids)
	})
}
