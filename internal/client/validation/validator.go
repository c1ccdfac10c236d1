package validation

import (
	"bytes"
	"fmt"

	"github.com/dmitrijs2005/docanchor/internal/common"
	"github.com/dustin/go-humanize"
)

// Reason classifies a rejection.
type Reason string

const (
	ReasonUnsupportedType Reason = "unsupported_type"
	ReasonTooLarge        Reason = "too_large"
	ReasonInvalidSize     Reason = "invalid_size"
	ReasonMalformed       Reason = "malformed"
)

// Rejection is returned for every refused file. It matches
// common.ErrorValidation with errors.Is.
type Rejection struct {
	Filename string
	Reason   Reason
	Detail   string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Filename, r.Detail)
}

func (r *Rejection) Unwrap() error { return common.ErrorValidation }

// Title is a short heading suitable for a notification.
func (r *Rejection) Title() string {
	switch r.Reason {
	case ReasonUnsupportedType:
		return "Unsupported file type"
	case ReasonTooLarge:
		return "File too large"
	case ReasonMalformed:
		return "Malformed file"
	default:
		return "Invalid file"
	}
}

// Candidate is what the validator is allowed to look at.
type Candidate struct {
	Name     string
	MIMEType string
	Size     int64
}

type Validator struct {
	policy     Policy
	inspectPDF bool
}

type Option func(*Validator)

// WithPDFInspection makes Inspect parse PDF content before it is hashed.
func WithPDFInspection(enabled bool) Option {
	return func(v *Validator) { v.inspectPDF = enabled }
}

func New(p Policy, opts ...Option) *Validator {
	v := &Validator{policy: p}
	for _, o := range opts {
		o(v)
	}
	return v
}

func (v *Validator) Policy() Policy { return v.policy }

// Validate accepts or rejects c. It has no side effects.
func (v *Validator) Validate(c Candidate) error {
	if c.Size < 0 {
		return &Rejection{Filename: c.Name, Reason: ReasonInvalidSize,
			Detail: fmt.Sprintf("file %s reports a negative size", c.Name)}
	}

	if !v.policy.allows(NormalizeType(c.MIMEType)) {
		return &Rejection{Filename: c.Name, Reason: ReasonUnsupportedType,
			Detail: fmt.Sprintf("file %s is not supported. Accepted formats: %s", c.Name, v.policy.Formats)}
	}

	if c.Size > v.policy.MaxSize {
		return &Rejection{Filename: c.Name, Reason: ReasonTooLarge,
			Detail: fmt.Sprintf("file %s exceeds the %s size limit", c.Name, humanize.IBytes(uint64(v.policy.MaxSize)))}
	}

	return nil
}

// Inspect runs content checks on an accepted file. It is a no-op unless
// PDF inspection is enabled and the file is a PDF.
func (v *Validator) Inspect(c Candidate, content []byte) error {
	if int64(len(content)) > v.policy.MaxSize {
		return &Rejection{Filename: c.Name, Reason: ReasonTooLarge,
			Detail: fmt.Sprintf("file %s exceeds the %s size limit", c.Name, humanize.IBytes(uint64(v.policy.MaxSize)))}
	}

	if !v.inspectPDF || NormalizeType(c.MIMEType) != TypePDF {
		return nil
	}

	if err := validatePDF(bytes.NewReader(content)); err != nil {
		return &Rejection{Filename: c.Name, Reason: ReasonMalformed,
			Detail: fmt.Sprintf("file %s is not a readable PDF: %v", c.Name, err)}
	}
	return nil
}
