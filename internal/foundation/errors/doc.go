// Package errors provides the classified error primitives used across nextmod.
//
// Every error that crosses a package boundary is a ClassifiedError carrying a
// category, a severity, and structured context. The site assembler inspects the
// severity to decide whether a failure aborts the run (fatal) or is logged and
// skipped (error, warning).
//
// Example usage:
//
//	err := errors.ImageError("decode failed").
//		WithCause(decodeErr).
//		WithContext("mod", modID).
//		WithContext("file", name).
//		Build()
package errors
