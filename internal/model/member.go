// Package model содержит доменные структуры участников команды, сессии и пагинации.
package model

import "time"

// Member описывает участника команды в том виде, в каком его отдаёт внешний Record API.
type Member struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// FullName возвращает имя и фамилию через пробел.
func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// MemberInput: поля формы создания и редактирования участника.
type MemberInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Job       string `json:"job"`
}

// Name собирает поле name, которое ожидает Record API.
func (in MemberInput) Name() string {
	return in.FirstName + " " + in.LastName
}

// MemberPage: одна страница списка участников вместе с метаданными пагинации.
type MemberPage struct {
	Members    []Member `json:"data"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
}

// CreatedMember: эхо-ответ API на создание участника с присвоенным сервером ID.
type CreatedMember struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Job       string     `json:"job"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// UpdatedMember: эхо-ответ API на обновление участника.
type UpdatedMember struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Job       string     `json:"job"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
