package domain

import "errors"

var (
	// ErrOfficeNotFound means the requested office code does not resolve.
	// Distinct from ErrNoCandidates: this one is a client-input error.
	ErrOfficeNotFound = errors.New("office not found")

	// ErrNoCandidates means the post-filter pool was empty and there is
	// nothing to recommend.
	ErrNoCandidates = errors.New("no candidates to recommend")
)
