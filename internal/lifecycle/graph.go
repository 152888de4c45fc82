package lifecycle

// ChildRef describes a table whose rows exist only in the context of a
// parent row, identified by a foreign-key column plus optional extra
// equality predicates (favorites are filtered by target_type).
type ChildRef struct {
	Table      string
	ForeignKey string
	Scope      map[string]any
}

// Graph is the statically declared ownership graph walked by the tombstone
// store. Cascades are one level deep: a child's own children are only
// tombstoned when that child is deleted as a parent in its own right.
var Graph = map[string][]ChildRef{
	"organizations": {
		{Table: "organization_photos", ForeignKey: "organization_id"},
		{Table: "organization_social_links", ForeignKey: "organization_id"},
		{Table: "events", ForeignKey: "organization_id"},
		{Table: "event_participations", ForeignKey: "organization_id"},
		{Table: "users", ForeignKey: "organization_id"},
		{Table: "favorites", ForeignKey: "target_id", Scope: map[string]any{"target_type": "organization"}},
	},
	"events": {
		{Table: "event_photos", ForeignKey: "event_id"},
		{Table: "event_files", ForeignKey: "event_id"},
		{Table: "event_hashtags", ForeignKey: "event_id"},
		{Table: "event_participations", ForeignKey: "event_id"},
		{Table: "favorites", ForeignKey: "target_id", Scope: map[string]any{"target_type": "event"}},
	},
	"news": {
		{Table: "news_photos", ForeignKey: "news_id"},
		{Table: "news_files", ForeignKey: "news_id"},
		{Table: "news_hashtags", ForeignKey: "news_id"},
		{Table: "favorites", ForeignKey: "target_id", Scope: map[string]any{"target_type": "news"}},
	},
	"knowledge_items": {
		{Table: "knowledge_materials", ForeignKey: "item_id"},
		{Table: "favorites", ForeignKey: "target_id", Scope: map[string]any{"target_type": "knowledge"}},
	},
	"users": {
		{Table: "event_participations", ForeignKey: "user_id"},
		{Table: "favorites", ForeignKey: "user_id"},
	},
}
