// Package errs defines the application error type and its constructors.
//
// Every layer below the shell returns errors that either are, or wrap,
// an *errs.Error so the shell can print a meaningful message and decide
// whether the session can continue.
package errs
