// Package service contains the business logic.
//
// It sits between the shell and the repository layer: it receives
// records collected from the user, validates them, and calls the
// repository methods that talk to the store.
package service
