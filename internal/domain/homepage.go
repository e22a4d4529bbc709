package domain

import "time"

// Homepage is a named collection of widgets belonging to one user.
//
// Per user there is at least one homepage and at most one default.
// Those rules live in the service layer; repositories store what they are told.
type Homepage struct {
	ID        HomepageID
	UserID    UserID
	Name      string
	IsDefault bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewHomepage(userID UserID, name string, isDefault bool) Homepage {
	now := Now()
	return Homepage{
		ID:        NewHomepageID(),
		UserID:    userID,
		Name:      name,
		IsDefault: isDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (h Homepage) WithName(name string) Homepage {
	h.Name = name
	h.UpdatedAt = Now()
	return h
}

func (h Homepage) SetAsDefault() Homepage {
	h.IsDefault = true
	h.UpdatedAt = Now()
	return h
}

func (h Homepage) UnsetAsDefault() Homepage {
	h.IsDefault = false
	h.UpdatedAt = Now()
	return h
}
