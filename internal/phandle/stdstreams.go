package phandle

import "os"

// StandardInput, StandardOutput and StandardError return non-owning
// references to the current process' standard streams, for use as
// spawn endpoints (the "inherit" case). The spawner duplicates these
// into the child and must never close them.
func StandardInput() *os.File  { return os.Stdin }
func StandardOutput() *os.File { return os.Stdout }
func StandardError() *os.File  { return os.Stderr }
