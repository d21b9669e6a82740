package domain

// ChangeType describes a filesystem change.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// FileChange is one relevant change under a watched folder.
type FileChange struct {
	Type ChangeType
	Path string
}
