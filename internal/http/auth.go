package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"teamhub/internal/service"
)

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	const handlerName = "auth_login"

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, handlerName, service.ErrValidation("invalid JSON"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validateRequest(req); err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	// Новая попытка входа скрывает ошибку предыдущей
	h.Sessions.ClearLoginError()

	res, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	const handlerName = "auth_register"

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, handlerName, service.ErrValidation("invalid JSON"))
		return
	}
	req.trim()

	if err := validateRequest(req); err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	h.Sessions.ClearRegisterError()

	res, err := h.Sessions.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{ID: res.ID, Token: res.Token, User: res.User})
}

func (h *Handler) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	const handlerName = "auth_password_reset"

	var req passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, handlerName, service.ErrValidation("invalid JSON"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validateRequest(req); err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	h.Sessions.ClearResetError()

	msg, err := h.Sessions.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	const handlerName = "auth_verify"

	user, err := h.Sessions.Verify(r.Context())
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// handleLogout всегда отвечает 200: сессия закрывается даже при сбое удалённого вызова,
// а сама ошибка видна в снимке сессии.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(r.Context())
	writeJSON(w, http.StatusOK, h.Sessions.Snapshot())
}

func (h *Handler) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	const handlerName = "auth_profile"

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, handlerName, service.ErrValidation("invalid JSON"))
		return
	}
	patch := req.patch()

	if err := validateRequest(req); err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	user, err := h.Sessions.UpdateProfile(r.Context(), patch)
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user})
}
