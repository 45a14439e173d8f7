// Package files implements the file resource: list, read, create, update,
// delete and stat over regular files beneath one base directory.
//
// Every filename goes through a paths.Guard before the filesystem is
// touched. The service keeps no state between calls and takes no locks;
// concurrent writers to the same filename race at the filesystem and the
// last writer wins.
//
// Failures are *errs.Error values: InvalidInput for rejected names or list
// patterns, NotFound for missing targets, Conflict when Create finds an
// existing entry, Internal for I/O faults.
package files
