// Package setup initializes the EcoStock database: it makes sure the users
// table exists and seeds the test account when it is missing.
package setup
