package domain

import "time"

// DefaultUsername is reserved for the implicit single user of the instance.
const DefaultUsername = "default"

// User owns homepages. Values are immutable: helpers return modified copies.
type User struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	ID       UserID
	Username string

	// DefaultHomepageID points at the homepage opened first.
	// Nil until one is chosen.
	DefaultHomepageID *HomepageID

	// ─────────────────────────────
	// Timestamps (UTC)
	// ─────────────────────────────

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser builds a user with a fresh identifier.
func NewUser(username string) User {
	now := Now()
	return User{
		ID:        NewUserID(),
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithDefaultHomepage returns a copy pointing at id. A nil id clears it.
func (u User) WithDefaultHomepage(id *HomepageID) User {
	out := u
	if id != nil {
		v := *id
		out.DefaultHomepageID = &v
	} else {
		out.DefaultHomepageID = nil
	}
	out.UpdatedAt = Now()
	return out
}

// Clone detaches the optional pointer field.
func (u User) Clone() User {
	if u.DefaultHomepageID != nil {
		v := *u.DefaultHomepageID
		u.DefaultHomepageID = &v
	}
	return u
}
