package models

// Status is a composite snapshot of the local agent repository.
// Every field is populated best-effort; a failing sub-query leaves its
// field at the zero value without disturbing the others.
type Status struct {
	Initialized  bool
	AgentsDir    string
	RepoURL      string
	TotalAgents  int
	LastSync     string
	HasUpdates   bool
	LocalChanges []string
}
