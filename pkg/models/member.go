package models

import (
	"time"

	"gorm.io/gorm"
)

// PermissionFlags is the per-module flag set. Plain data; module-specific
// variants just leave unused flags false.
type PermissionFlags struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// Permissions maps a permission-module name ("orders", "materials",
// "promo_codes", ...) to its flags. Treated as an immutable value: readers
// get a copy, writers replace the whole map.
type Permissions map[string]PermissionFlags

// Can reports whether the action is allowed for the module. Unknown
// modules and unknown actions deny.
func (p Permissions) Can(module, action string) bool {
	f, ok := p[module]
	if !ok {
		return false
	}
	switch action {
	case "view":
		return f.View
	case "create":
		return f.Create
	case "edit":
		return f.Edit
	case "delete":
		return f.Delete
	}
	return false
}

// Clone returns an independent copy so callers can hand it out without
// exposing the stored map.
func (p Permissions) Clone() Permissions {
	out := make(Permissions, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Member is a back-office employee.
type Member struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Email       string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Permissions Permissions    `gorm:"serializer:json;type:text" json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string {
	return "members"
}
