package domain

import "time"

// StagedFile is a regular file found in the staging directory.
type StagedFile struct {
	// Path is the full path of the file.
	Path string

	// Name is the base name, i.e. the transport filename.
	Name string

	Size    int64
	ModTime time.Time
}

// ChangeType represents the type of staging change.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a file that is still being written.
	ChangeUpdated

	// ChangeDeleted indicates a removed or renamed-away file.
	ChangeDeleted
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return unknownDescription
	}
}

// StagingEvent is a change observed while watching the staging directory.
type StagingEvent struct {
	Type ChangeType
	Path string
}
