package model

// WatchedFile is a registry entry. The registry tracks existence only; file
// content is never read or held.
type WatchedFile struct {
	Path     string
	Category string
}
