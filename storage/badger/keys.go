package badger

// Key prefixes for different data types
const (
	eventRecordPrefix = "evtrec:"
	eventDedupPrefix  = "evtkey:"
)

// makeEventKey generates a key for an event record by ID.
func makeEventKey(id string) []byte {
	return []byte(eventRecordPrefix + id)
}

// makeDedupKey generates the index key mapping a core.DedupKey to an event ID.
func makeDedupKey(key string) []byte {
	return []byte(eventDedupPrefix + key)
}
