package services

import "errors"

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrEntrantNameRequired    = errors.New("every entrant needs a name")
	ErrTooManyEntrants        = errors.New("too many entrants for a single bracket")
	ErrInvalidPlacement       = errors.New("placements must list every participant of the match exactly once")

	// Ошибки состояния матчей
	ErrMatchAlreadyResolved = errors.New("match has already been resolved")
	ErrMatchNotReady        = errors.New("match is waiting for earlier results")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
)
