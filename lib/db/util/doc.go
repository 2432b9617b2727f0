// Package util provides small helpers shared by the database packages.
package util
