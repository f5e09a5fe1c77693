// Package githubcli wraps the GitHub CLI operations reposeed needs to provision a
// hosted repository: identity lookup, the gitignore template catalog, repository
// creation, topic updates, and opening the repository page.
//
// Every call runs through execshell so tests can substitute a recording executor.
// TemplateCache is injected into the Client and keeps the template catalog and
// sources for the lifetime of the process.
package githubcli
