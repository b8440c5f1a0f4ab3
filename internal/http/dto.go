// Package http реализует HTTP-обработчики и DTO поверх сторов сессии и участников.
package http

import (
	"strings"

	"teamhub/internal/model"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type redirectResponse struct {
	Location string `json:"location"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email_shape"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
}

func (r *registerRequest) trim() {
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email_shape"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	ID    int               `json:"id,omitempty"`
	Token string            `json:"token"`
	User  model.SessionUser `json:"user"`
}

type userResponse struct {
	User model.SessionUser `json:"user"`
}

// profileRequest: отсутствующие поля не меняются, присланные проверяются по тем же правилам, что и при регистрации.
type profileRequest struct {
	Email     *string `json:"email" validate:"omitnil,email_shape"`
	FirstName *string `json:"first_name" validate:"omitnil,min=2"`
	LastName  *string `json:"last_name" validate:"omitnil,min=2"`
	Avatar    *string `json:"avatar" validate:"omitnil,url"`
}

func (r *profileRequest) patch() model.ProfilePatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	r.Email = trim(r.Email)
	r.FirstName = trim(r.FirstName)
	r.LastName = trim(r.LastName)
	r.Avatar = trim(r.Avatar)
	return model.ProfilePatch{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Avatar:    r.Avatar,
	}
}

// memberRequest: форма создания и редактирования участника.
type memberRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email_shape"`
	Job       string `json:"job" validate:"required,min=2"`
}

func (r *memberRequest) input() model.MemberInput {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Job = strings.TrimSpace(r.Job)
	return model.MemberInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Job:       r.Job,
	}
}

type memberListResponse struct {
	Members    []model.Member `json:"data"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
	Search     string         `json:"search,omitempty"`
}

type memberResponse struct {
	Member model.Member `json:"data"`
}
