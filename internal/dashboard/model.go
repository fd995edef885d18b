// Package dashboard implements the dashboard-admin recipe: app-scoped
// users with bcrypt-hashed passwords and their sign-in sessions.
package dashboard

// User is an app-scoped dashboard admin. TimeJoined is unix millis.
type User struct {
	UserID       string
	Email        string
	PasswordHash string
	TimeJoined   int64
}

// SessionInfo is one dashboard sign-in session. TimeCreated and Expiry are
// unix millis. A session whose expiry has passed is logically expired even
// before the sweep physically removes the row.
type SessionInfo struct {
	SessionID   string
	UserID      string
	TimeCreated int64
	Expiry      int64
}

// Expired reports whether the session is logically expired at now (millis).
func (s SessionInfo) Expired(now int64) bool {
	return s.Expiry <= now
}
