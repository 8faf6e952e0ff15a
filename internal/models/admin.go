package models

// Admin is the single management account. The password hash never leaves
// the store layer in API responses.
type Admin struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password" json:"-"`
	CreatedAt    int64  `db:"created_at" json:"-"`
}

// SessionInfo is what the auth endpoints hand back about the current
// session: type is "admin", "student" or null.
type SessionInfo struct {
	Type *string     `json:"type"`
	User interface{} `json:"user,omitempty"`
}
