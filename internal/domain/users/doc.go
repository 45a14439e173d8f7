// Package users implements the user resource on top of an explicit
// Repository. The service contributes field mapping and not-found
// classification; persistence is entirely the repository's concern.
package users
