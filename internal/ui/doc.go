// Package ui renders console feedback for reposeed: colored workflow progress
// lines and narrated git/gh invocations.
package ui
