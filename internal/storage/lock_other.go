//go:build !unix

package storage

import "os"

// Advisory locks are unix-only; elsewhere the in-process mutex is all we have.
func lockShared(*os.File) error    { return nil }
func lockExclusive(*os.File) error { return nil }
func unlock(*os.File) error        { return nil }
