package interfaces

// SnapshotterInterface persists a JSON-serialisable value to a compressed file.
type SnapshotterInterface interface {
	SaveToFile(fileName string, v any) error
	LoadFromFile(fileName string, v any) (bool, error)
}
