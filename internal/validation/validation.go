// Package validation checks records before they reach the store.
//
// It uses the `validator` library to enforce the rules declared in
// struct tags and converts the failures into field errors the shell
// can print.
package validation
