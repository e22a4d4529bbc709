package domain

import "github.com/google/uuid"

// Identifiers are plain strings at runtime but distinct types at compile
// time, so a WidgetID can never be passed where a HomepageID is expected.
type (
	UserID     string
	HomepageID string
	WidgetID   string
)

func NewUserID() UserID         { return UserID(uuid.NewString()) }
func NewHomepageID() HomepageID { return HomepageID(uuid.NewString()) }
func NewWidgetID() WidgetID     { return WidgetID(uuid.NewString()) }

func (id UserID) String() string     { return string(id) }
func (id HomepageID) String() string { return string(id) }
func (id WidgetID) String() string   { return string(id) }
