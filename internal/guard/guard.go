// Package guard решает, что делать с запросом к экрану в зависимости от состояния сессии.
package guard

// Access описывает требования маршрута к сессии.
type Access int

const (
	// RequireAuth: маршрут только для аутентифицированного пользователя.
	RequireAuth Access = iota
	// PublicOnly: маршрут только для анонимного пользователя (вход, регистрация).
	PublicOnly
)

// Outcome: итог проверки.
type Outcome int

const (
	Render Outcome = iota
	Wait
	RedirectSignIn
	RedirectHome
)

// Пути перенаправлений.
const (
	SignInPath = "/auth/login"
	HomePath   = "/members"
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Wait:
		return "wait"
	case RedirectSignIn:
		return "redirect_sign_in"
	case RedirectHome:
		return "redirect_home"
	}
	return "unknown"
}

// Decision: итог проверки и адрес перенаправления, если он нужен.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide: чистая функция без побочных эффектов.
// Пока сессия загружается, перенаправлений нет.
func Decide(isAuthenticated, loading bool, access Access) Decision {
	if loading {
		return Decision{Outcome: Wait}
	}
	switch {
	case access == RequireAuth && !isAuthenticated:
		return Decision{Outcome: RedirectSignIn, Location: SignInPath}
	case access == PublicOnly && isAuthenticated:
		return Decision{Outcome: RedirectHome, Location: HomePath}
	}
	return Decision{Outcome: Render}
}
