// Package xmldiff reconciles two versions of an XML tree by diffing their
// text content and annotating both trees in place with change markers.
package xmldiff

import (
	"errors"
	"fmt"
)

// Sentinel errors. Each of these indicates an internal inconsistency
// between the flattened text and the diff output, not a user-input
// problem; none are retryable and all abort the reconciliation of both
// documents.
var (
	// ErrBadDiffOp indicates the diff engine produced an operation
	// outside {Equal, Delete, Insert} or an edit script whose counts do
	// not partition its inputs.
	ErrBadDiffOp = errors.New("unrecognized diff operation")
	// ErrUnlocatable indicates a change region could not be matched
	// against the live span list.
	ErrUnlocatable = errors.New("change region matches no document span")
	// ErrRoleMismatch indicates merge-mode content carried a different
	// annotation role than its destination wrapper.
	ErrRoleMismatch = errors.New("annotation role mismatch")
	// ErrReservedRune indicates document text contains the internal
	// node-boundary sentinel code point U+E000.
	ErrReservedRune = errors.New("document text contains reserved code point U+E000")
	// ErrVocabulary indicates the documents hold more distinct tokens
	// than the default engine's rune alphabet can represent.
	ErrVocabulary = errors.New("token alphabet exhausted")
)

// RegionError reports the change region that could not be replayed onto a
// document.
type RegionError struct {
	Offset int
	Length int
	Err    error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("region [%d,%d): %v", e.Offset, e.Offset+e.Length, e.Err)
}

func (e *RegionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnlocatable
}
