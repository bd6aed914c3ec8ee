// Package model defines the domain models for studiodesk.
package model

// Model is the interface that models kept in the state database implement.
type Model interface {
	// SetKey sets the database key for this model.
	SetKey(key string)
	// GetKey returns the database key for this model.
	GetKey() string
}

// Key prefixes for the state database.
const (
	PrefixMirror = "mirror"
	PrefixUndo   = "undo"
)
