package constants

// ユーザーロール
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const TokenTypeBearer = "bearer"

// エラーメッセージ
const (
	ErrItemNotFound       = "Item not found"
	ErrUnexpected         = "Unexpected error"
	ErrInvalidID          = "Invalid id"
	ErrInvalidInput       = "Invalid input"
	ErrUserExists         = "Username or email already registered"
	ErrInvalidCredentials = "Invalid credentials"
	ErrUnauthenticated    = "Invalid or expired token"
	ErrForbidden          = "Not allowed to perform this action"
)
