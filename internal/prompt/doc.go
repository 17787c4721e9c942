// Package prompt asks line-oriented questions on the console.
package prompt
