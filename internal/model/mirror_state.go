package model

import "time"

// MirrorState records the blob SHA last seen for a mirrored path.
type MirrorState struct {
	Key       string    `json:"key"`
	Path      string    `json:"path"`
	SHA       string    `json:"sha"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetKey sets the database key for this mirror state.
func (m *MirrorState) SetKey(key string) {
	m.Key = key
}

// GetKey returns the database key for this mirror state.
func (m *MirrorState) GetKey() string {
	return m.Key
}

// GenerateMirrorKey builds the state key for a remote path.
func GenerateMirrorKey(path string) string {
	return PrefixMirror + ":" + path
}
