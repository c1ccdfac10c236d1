// Package models defines the client-side document model of docanchor: the
// Document record rendered by the presentation layer, its status machine and
// the upload flows that produce it.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Flow selects the validation policy and progress profile of an upload.
type Flow string

const (
	FlowGeneral  Flow = "general"
	FlowIdentity Flow = "identity"
)

// IdentityKind classifies documents uploaded through the identity flow.
type IdentityKind string

const (
	KindPassport       IdentityKind = "passport"
	KindNationalID     IdentityKind = "national_id"
	KindDrivingLicense IdentityKind = "driving_license"
)

func ParseIdentityKind(s string) (IdentityKind, error) {
	switch k := IdentityKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPassport, KindNationalID, KindDrivingLicense:
		return k, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown identity document kind %q", s)
	}
}

// Document is one entry of the user's document list.
type Document struct {
	// LocalID is assigned when the record is created on this client and is
	// the key for every patch and removal.
	LocalID string

	// ID is assigned by the anchoring service; empty until it accepts the file.
	ID string

	Filename string
	FileType string
	FileSize int64

	Flow Flow
	Kind IdentityKind

	Status Status
	// Progress is 0..100; it reaches 100 only when the service confirms.
	Progress int

	// Digest is the hex content digest computed on this client.
	Digest string
	// ServerDigest is what the service reported when it differs from Digest.
	ServerDigest string
	// ContentID is a CIDv1 derived from Digest.
	ContentID string

	LedgerFileID        string
	LedgerTransactionID string
	ExplorerURL         string

	AnchoredAt time.Time

	// Unlisted marks a record anchored by this client that no service list
	// has included yet. A refresh keeps it until the service lists its ID.
	Unlisted bool
}

// HasProof reports whether the ledger identifiers are populated.
func (d Document) HasProof() bool {
	return d.LedgerFileID != "" && d.LedgerTransactionID != ""
}

// InFlight reports whether the record is a local upload the service has not
// acknowledged yet.
func (d Document) InFlight() bool {
	return d.ID == "" && d.Status == StatusUploading
}

// DigestMismatch reports whether the service computed a different digest.
func (d Document) DigestMismatch() bool {
	return d.ServerDigest != "" && !strings.EqualFold(d.ServerDigest, d.Digest)
}

// Transition moves d to status to if the status machine allows it. Setting
// the current status again is a no-op.
func (d *Document) Transition(to Status) error {
	if d.Status == to {
		return nil
	}
	if !d.Status.CanTransition(to) {
		return &TransitionError{From: d.Status, To: to}
	}
	d.Status = to
	return nil
}
