// Package emailpassword implements the email-password recipe: tenant-scoped
// users and app-scoped password reset tokens.
package emailpassword

// User is a tenant-scoped email-password user. TimeJoined is unix millis.
type User struct {
	UserID       string
	Email        string
	PasswordHash string
	TimeJoined   int64
}

// ResetTokenInfo is one password reset token. Only the token hash is ever
// persisted; Expiry is unix millis.
type ResetTokenInfo struct {
	UserID    string
	TokenHash string
	Expiry    int64
}
