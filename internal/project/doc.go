// Package project reads the package manifest and changelog of the project being released.
package project
