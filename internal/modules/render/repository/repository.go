package repository

// Repository defines the interface for publishing rendered artifacts.
// This abstraction allows easy replacement of the output target
// (e.g. local directory -> object storage).
type Repository interface {
	Write(name string, data []byte) error
}
