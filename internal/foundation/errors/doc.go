// Package errors provides the classified error type used across PageBuilder.
//
// A ClassifiedError carries a category (what part of the build failed), a severity
// (whether the run can continue) and structured context for logging. The CLI adapter
// turns a classified error into an exit code, so the only condition that ends a run
// with a non-zero status is a fatal structural error such as a missing content root.
//
// Example usage:
//
//	err := errors.StructureError("content root not found").
//		WithContext("path", root).
//		WithCause(statErr).
//		Build()
package errors
