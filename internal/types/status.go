package types

// Status is the row-level lifecycle status of a resource in the database.
// This is used to soft delete and archive rows without losing traceability
// history. Any changes to this type should be reflected in the database
// schema by running migrations.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}
