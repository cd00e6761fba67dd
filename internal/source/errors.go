package source

import (
	"errors"
	"fmt"
)

// ErrNoEligibleCandidate means the interface listing yielded addresses but
// none passed the eligibility filter for publication.
var ErrNoEligibleCandidate = errors.New("no eligible address candidate")

// ErrAllSourcesFailed means every configured address source failed and the
// run cannot continue.
var ErrAllSourcesFailed = errors.New("all address sources failed")

// IndexOutOfRangeError reports a manual selection index pointing past the
// end of the eligible candidate list.
type IndexOutOfRangeError struct {
	Requested int
	Available int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("manual address index %d out of range, %d eligible candidates", e.Requested, e.Available)
}
