// Package domain defines the persistence models for assessment results,
// the content blacklist, community forums, and moderation applications.
// These types are mapped with GORM and are shared across the repository,
// service, and HTTP layers.
package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssessmentResult is the persisted outcome of one completed self-assessment
// session. Rows are written once and never updated; a user may delete all of
// their rows at once ("clear all logs").
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner of the result; indexed together with CreatedAt for listing.
//   - PHQ9Total / GAD7Total / PSSTotal: instrument totals after reverse scoring.
//   - *Interpretation: band labels for each total.
//   - Answers: the raw per-question answers, keyed "<scale>.<question>".
//   - CreatedAt: assembly time of the result (not the first answer).
type AssessmentResult struct {
	ID                 string            `json:"id"                  gorm:"type:char(36);primaryKey"`
	UserID             string            `json:"user_id"             gorm:"type:varchar(64);not null;index:idx_user_results,priority:1"`
	PHQ9Total          int               `json:"phq9_total"          gorm:"not null;check:phq9_total >= 0"`
	GAD7Total          int               `json:"gad7_total"          gorm:"not null;check:gad7_total >= 0"`
	PSSTotal           int               `json:"pss_total"           gorm:"not null;check:pss_total >= 0"`
	PHQ9Interpretation string            `json:"phq9_interpretation" gorm:"type:varchar(64);not null"`
	GAD7Interpretation string            `json:"gad7_interpretation" gorm:"type:varchar(64);not null"`
	PSSInterpretation  string            `json:"pss_interpretation"  gorm:"type:varchar(64);not null"`
	Answers            datatypes.JSONMap `json:"answers,omitempty"`
	CreatedAt          time.Time         `json:"created_at"          gorm:"index:idx_user_results,priority:2"`
}

// TableName returns the database table name for AssessmentResult.
func (AssessmentResult) TableName() string { return "assessment_results" }

// BlacklistEntry is a word (or stem) that user content must not contain.
// Words are stored normalized (trimmed, lower-case) and are unique.
type BlacklistEntry struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Word        string    `json:"word"        gorm:"type:varchar(128);not null;uniqueIndex:ux_blacklist_word"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for BlacklistEntry.
func (BlacklistEntry) TableName() string { return "blacklist" }

// Forum is a community discussion space.
type Forum struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	OwnerID   string         `json:"owner_id"   gorm:"type:varchar(64);not null;index"`
	Title     string         `json:"title"      gorm:"type:varchar(255);not null"`
	Body      string         `json:"body"       gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Forum.
func (Forum) TableName() string { return "forums" }

// Post is a thread inside a forum. Posts are cascade-deleted with their forum.
type Post struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	ForumID   string         `json:"forum_id"   gorm:"type:char(36);not null;index:idx_forum_posts,priority:1"`
	AuthorID  string         `json:"author_id"  gorm:"type:varchar(64);not null;index"`
	Title     string         `json:"title"      gorm:"type:varchar(255);not null"`
	Content   string         `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_forum_posts,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	Forum Forum `json:"-" gorm:"foreignKey:ForumID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }

// Comment is a reply to a post. Comments are cascade-deleted with their post.
type Comment struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	PostID    string         `json:"post_id"    gorm:"type:char(36);not null;index:idx_post_comments,priority:1"`
	AuthorID  string         `json:"author_id"  gorm:"type:varchar(64);not null"`
	Content   string         `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_post_comments,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }
