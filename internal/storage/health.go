package storage

// Health summarizes the state of a store.
type Health struct {
	Path             string
	TotalRecords     int // stored items, readable or not
	ValidRecords     int
	CorruptedRecords int
	Warnings         []ParseWarning
}

// Healthy reports whether every stored item decoded.
func (h Health) Healthy() bool {
	return h.CorruptedRecords == 0
}

// Validate loads s and reports how many stored items decoded.
// An absent store is healthy and empty.
func Validate(s Store) (Health, error) {
	health := Health{
		Path:     s.Path(),
		Warnings: []ParseWarning{},
	}

	result, err := s.Load()
	if err != nil {
		return health, err
	}

	health.ValidRecords = len(result.Records)
	health.CorruptedRecords = len(result.Warnings)
	health.TotalRecords = health.ValidRecords + health.CorruptedRecords
	health.Warnings = result.Warnings
	return health, nil
}
