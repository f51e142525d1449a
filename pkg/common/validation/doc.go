// Package validation provides the argument checks shared by the pool and
// timer constructors, so every rejected value surfaces as an
// errors.ValidationError with the same message shape.
package validation
