// Package paths confines caller-supplied filenames to a base directory.
//
// A Guard owns one absolute, cleaned base directory. Resolve joins a
// filename onto it, collapses "." and ".." segments and accepts the result
// only when it lies strictly inside the base subtree. The base directory
// itself, absolute filenames and anything that climbs out are rejected
// with an errs.InvalidInput error.
//
// # Symlinks
//
// The default check is lexical. A symlink inside the base directory that
// points elsewhere is not detected. Guards built with FollowSymlinks also
// resolve links on the existing part of the path and re-check containment.
//
// # Usage
//
//	guard, err := paths.NewGuard("/srv/files")
//	full, err := guard.Resolve("notes.txt")   // /srv/files/notes.txt
//	_, err = guard.Resolve("../../etc/passwd") // errs.InvalidInput
package paths
