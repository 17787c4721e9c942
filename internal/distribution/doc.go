// Package distribution assembles the auxiliary files of a package into its build output directory.
package distribution
