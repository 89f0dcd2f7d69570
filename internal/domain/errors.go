package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrAccountDisabled cuenta inactiva o suspendida: el login se rechaza sin contar como intento fallido.
	ErrAccountDisabled = errors.New("usuario deshabilitado")
	// ErrTooManyAttempts el email superó el máximo de intentos fallidos de login.
	ErrTooManyAttempts = errors.New("demasiados intentos fallidos")
	// ErrProfileMissing identidad autenticada sin perfil resoluble: inconsistencia fatal para la sesión.
	ErrProfileMissing = errors.New("perfil de usuario no encontrado")
)
