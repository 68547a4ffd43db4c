package models

import "time"

// RoleUnavailable is the role summary reported when an agent file has no
// parseable "## Role" section.
const RoleUnavailable = "No description available"

// AgentDescriptor is a read-only view over a single agent prompt file.
// Descriptors are recomputed on every listing, never cached.
type AgentDescriptor struct {
	Name     string
	Path     string
	Size     int64
	Modified time.Time
	Role     string
}

// SyncResult reports the outcome of one sync invocation
type SyncResult struct {
	// ChangedFiles holds the repo-relative paths that were added, removed
	// or renamed by the pull. Content-only edits are not tracked.
	ChangedFiles []string
}
