// Package database resolves connection URLs into connection settings and
// manages the single Bun connection used while bootstrapping, together with
// error classification, query hooks and logging.
package database
