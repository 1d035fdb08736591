package profile

// ProfileStore defines the interface for persisting player profiles.
type ProfileStore interface {
	Create(p *PlayerProfile) error
	Get(id string) (*PlayerProfile, error)
	GetByUsername(username string) (*PlayerProfile, error)
	// Put persists a modified profile. It fails with ErrVersionConflict when
	// the stored version no longer matches the version the profile was read
	// at; callers should re-read and retry.
	Put(p *PlayerProfile) error
	List() ([]*PlayerProfile, error)
	Clear()
}
