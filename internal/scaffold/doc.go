// Package scaffold writes the starter files of a new project and synthesizes commented
// .gitignore files for languages the hosting service has no template for.
package scaffold
