package domain

import "time"

// ApplicationKind distinguishes organization and professional registrations.
type ApplicationKind string

const (
	KindOrganization ApplicationKind = "organization"
	KindProfessional ApplicationKind = "professional"
)

// Valid reports whether k is a known kind.
func (k ApplicationKind) Valid() bool {
	return k == KindOrganization || k == KindProfessional
}

// ApplicationStatus is the moderation state of an Application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether an application may move from one status to
// another. Only pending applications can be decided, and decisions are final.
func CanTransition(from, to ApplicationStatus) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusRejected)
}

// Application is a registration request waiting in the moderation queue.
type Application struct {
	ID         string            `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string            `json:"user_id"     gorm:"type:varchar(64);not null;index"`
	Kind       ApplicationKind   `json:"kind"        gorm:"type:varchar(16);not null;check:kind IN ('organization','professional')"`
	Name       string            `json:"name"        gorm:"type:varchar(255);not null"`
	Details    string            `json:"details"     gorm:"type:text"`
	Status     ApplicationStatus `json:"status"      gorm:"type:varchar(16);not null;default:'pending';index:idx_app_status,priority:1"`
	ReviewerID *string           `json:"reviewer_id,omitempty" gorm:"type:varchar(64)"`
	ReviewedAt *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"  gorm:"index:idx_app_status,priority:2"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// TableName returns the database table name for Application.
func (Application) TableName() string { return "applications" }

// Organization is created when an organization application is approved.
type Organization struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	ApplicationID string    `json:"application_id" gorm:"type:char(36);not null;uniqueIndex"`
	OwnerID       string    `json:"owner_id"       gorm:"type:varchar(64);not null;index"`
	Name          string    `json:"name"           gorm:"type:varchar(255);not null"`
	Details       string    `json:"details"        gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`

	Application Application `json:"-" gorm:"foreignKey:ApplicationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Organization.
func (Organization) TableName() string { return "organizations" }
