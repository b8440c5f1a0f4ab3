package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"teamhub/internal/service"
)

func (h *Handler) handleMemberList(w http.ResponseWriter, r *http.Request) {
	const handlerName = "member_list"

	page := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, handlerName, service.ErrValidation("page must be a positive number"))
			return
		}
		page = n
	}

	res, err := h.Records.FetchList(r.Context(), page)
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	resp := memberListResponse{
		Members:    res.Members,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		Total:      res.Total,
	}
	// Поиск идёт только по странице из этого же ответа
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		resp.Members = service.FilterMembers(res.Members, search)
		resp.Search = search
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMemberGet(w http.ResponseWriter, r *http.Request) {
	const handlerName = "member_get"

	m, err := h.Records.FetchDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	writeJSON(w, http.StatusOK, memberResponse{Member: m})
}

func (h *Handler) handleMemberCreate(w http.ResponseWriter, r *http.Request) {
	const handlerName = "member_create"

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, handlerName, service.ErrValidation("invalid JSON"))
		return
	}
	in := req.input()

	if err := validateRequest(req); err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	created, err := h.Records.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleMemberUpdate(w http.ResponseWriter, r *http.Request) {
	const handlerName = "member_update"

	id, err := memberID(r)
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, handlerName, service.ErrValidation("invalid JSON"))
		return
	}
	in := req.input()

	if err := validateRequest(req); err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	updated, err := h.Records.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleMemberDelete(w http.ResponseWriter, r *http.Request) {
	const handlerName = "member_delete"

	id, err := memberID(r)
	if err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	if err := h.Records.Delete(r.Context(), id); err != nil {
		h.writeError(w, handlerName, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func memberID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, service.ErrValidation("Invalid member ID")
	}
	return id, nil
}
