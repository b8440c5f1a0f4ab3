package repository

import "errors"

var (
	// ErrMemberNotFound возвращается, если Record API не вернул участника.
	ErrMemberNotFound = errors.New("member not found")

	// ErrUnexpectedStatus возвращается при неожиданном HTTP-статусе ответа.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrInvalidID возвращается, если API прислал нечисловой или неположительный ID.
	ErrInvalidID = errors.New("invalid member id in response")
)
