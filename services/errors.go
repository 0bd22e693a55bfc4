package services

import "errors"

var (
	ErrConflict           = errors.New("conflict")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordTooLong はbcryptが扱えるバイト長を超えた場合
	ErrPasswordTooLong = errors.New("password too long")
	// ErrInvalidToken は署名不正・期限切れ・形式不正を区別しない
	ErrInvalidToken = errors.New("invalid or expired token")
)
