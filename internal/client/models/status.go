package models

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a Document.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusPending   Status = "pending"
	StatusAnchoring Status = "anchoring"
	StatusAnchored  Status = "anchored"
	StatusVerified  Status = "verified"
	StatusRejected  Status = "rejected"

	// StatusUnknown stands for any status string the service reports that
	// this client does not recognise. It is terminal.
	StatusUnknown Status = "unknown"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// transitions lists every legal source -> target pair. Statuses missing
// from the map have no outgoing edges.
var transitions = map[Status][]Status{
	StatusUploading: {StatusAnchored, StatusAnchoring, StatusPending},
	StatusPending:   {StatusAnchoring, StatusAnchored, StatusRejected},
	StatusAnchoring: {StatusAnchored, StatusRejected},
	StatusAnchored:  {StatusVerified, StatusRejected},
	StatusVerified:  {StatusRejected},
}

// ParseStatus maps a server-reported status onto the known set.
// "blockchain-validating" is accepted as an alias of anchoring.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uploading":
		return StatusUploading
	case "pending":
		return StatusPending
	case "anchoring", "blockchain-validating":
		return StatusAnchoring
	case "anchored":
		return StatusAnchored
	case "verified":
		return StatusVerified
	case "rejected":
		return StatusRejected
	default:
		return StatusUnknown
	}
}

func (s Status) CanTransition(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string { return string(s) }

// TransitionError reports a refused status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
