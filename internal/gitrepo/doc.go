// Package gitrepo drives the local side of provisioning: initializing a repository,
// committing the working tree, wiring the origin remote, and pushing.
//
// RepositoryManager wraps the git executable through execshell. FormatRemoteURL and
// ParseRemoteURL translate between owner/repository coordinates and https or ssh
// remote URLs.
package gitrepo
