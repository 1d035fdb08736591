package ledger

// MatchStore defines the interface for the durable match ledger.
type MatchStore interface {
	// Create validates and persists a new match record.
	Create(m *MatchRecord) error
	Get(id string) (*MatchRecord, error)
	// Delete removes a match. It fails with ErrNotFound when absent; the
	// caller is responsible for reverting the profile mutations the match
	// implied.
	Delete(id string) error
	// List returns all matches ordered by played_at descending.
	List() ([]*MatchRecord, error)
	// SetSummary attaches generated summary text to an existing match.
	SetSummary(id, summary string) error
	Clear()
}
