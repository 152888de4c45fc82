// Package domain contains persistence models and contracts for
// per-user favorite sets.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	eventdomain "github.com/goodenergy/backend/internal/event/domain"
	knowledgedomain "github.com/goodenergy/backend/internal/knowledge/domain"
	newsdomain "github.com/goodenergy/backend/internal/news/domain"
	organizationdomain "github.com/goodenergy/backend/internal/organization/domain"
)

// TargetType names what kind of entity a favorite points at.
type TargetType string

const (
	TargetOrganization TargetType = "organization"
	TargetEvent        TargetType = "event"
	TargetNews         TargetType = "news"
	TargetKnowledge    TargetType = "knowledge"
)

// targetTables maps each target type to the table holding its rows.
// Used to join favorites against live targets.
var targetTables = map[TargetType]string{
	TargetOrganization: "organizations",
	TargetEvent:        "events",
	TargetNews:         "news",
	TargetKnowledge:    "knowledge_items",
}

func (t TargetType) Valid() bool {
	_, ok := targetTables[t]
	return ok
}

func (t TargetType) TargetTable() string { return targetTables[t] }

// Favorite is one membership row. At most one row per
// (user, target_type, target) may be active; tombstoned duplicates
// from earlier memberships are kept as history.
type Favorite struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID     snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	TargetType TargetType   `gorm:"type:text;column:target_type;not null" json:"target_type"`
	TargetID   snowflake.ID `gorm:"column:target_id;not null" json:"target_id"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (Favorite) TableName() string { return "favorites" }

// Target is the live entity a favorite points at. Exactly one of the
// aggregate fields is set, matching Type.
type Target struct {
	Type         TargetType                    `json:"type"`
	Organization *organizationdomain.Aggregate `json:"organization,omitempty"`
	Event        *eventdomain.Aggregate        `json:"event,omitempty"`
	News         *newsdomain.Aggregate         `json:"news,omitempty"`
	Knowledge    *knowledgedomain.Aggregate    `json:"knowledge,omitempty"`
}
