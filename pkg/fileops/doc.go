// Package fileops provides secure, atomic file operation primitives.
//
// This package implements the low-level mechanics the tool executor is built
// on: atomic writes that never expose a partially written file, per-path
// advisory locking so concurrent mutations of the same file serialize, line
// ending detection and normalization, and validation helpers that keep
// workspace roots away from system directories.
//
// # Atomic Writes
//
// Use AtomicWriteFile() for writes that must appear fully or not at all:
//
//	err := fileops.AtomicWriteFile("/ws/notes.txt", []byte("hello"), 0644)
//	// The file appears atomically or remains unchanged on failure
//
// # Path Locking
//
// A PathLocker hands out a release function, guaranteeing cleanup on every
// exit path:
//
//	release := locker.Lock(path)
//	defer release()
package fileops
