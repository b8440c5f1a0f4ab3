package model

// SessionUser описывает аутентифицированного пользователя дашборда.
type SessionUser struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
	Token     string `json:"token,omitempty"`
}

// ProfilePatch: частичное обновление профиля; nil-поля не меняются.
type ProfilePatch struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

// Apply возвращает копию пользователя с применённым патчем.
func (p ProfilePatch) Apply(u SessionUser) SessionUser {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}

// AuthResult: результат успешного входа или регистрации.
type AuthResult struct {
	ID    int         `json:"id,omitempty"`
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}
