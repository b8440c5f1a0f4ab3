package identity

import "errors"

var (
	// ErrInvalidCredentials возвращается при неизвестном email или неверном пароле.
	ErrInvalidCredentials = errors.New("Invalid email or password")

	// ErrDuplicateEmail возвращается при регистрации на уже занятый email.
	ErrDuplicateEmail = errors.New("User with this email already exists")

	// ErrInvalidToken возвращается, если токен не удаётся разобрать.
	ErrInvalidToken = errors.New("Invalid token")

	// ErrUserNotFound возвращается, если ID из токена не соответствует ни одному пользователю.
	ErrUserNotFound = errors.New("User not found")

	// ErrUnknownEmail возвращается при сбросе пароля для неизвестного email.
	ErrUnknownEmail = errors.New("No user found with this email address")
)
