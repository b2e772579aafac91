// Package repository provides a generic repository abstraction built on Bun
// for the lookups and inserts the bootstrap procedure performs.
package repository
