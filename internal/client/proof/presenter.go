// Package proof renders a document's proof fields for display and clipboard
// export. It never mutates a document.
package proof

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dustin/go-humanize"
)

// Placeholder is shown for proof fields that are not populated yet.
const Placeholder = "not yet available"

var (
	ErrNotAvailable = errors.New("proof field not yet available")
	ErrUnknownField = errors.New("unknown proof field")
)

type Field string

const (
	FieldDigest        Field = "digest"
	FieldLedgerFileID  Field = "file-id"
	FieldTransactionID Field = "tx-id"
	FieldExplorerURL   Field = "url"
	FieldContentID     Field = "cid"
)

// Fields lists every exportable field in display order.
var Fields = []Field{FieldDigest, FieldLedgerFileID, FieldTransactionID, FieldExplorerURL, FieldContentID}

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

type Item struct {
	Field     Field
	Label     string
	Value     string
	Available bool
}

type View struct {
	Filename   string
	Size       string
	Type       string
	Status     models.Status
	AnchoredAt string
	Items      []Item
	// Warning is set when the service's digest differs from the local one.
	Warning string
}

// Copier writes text to the system clipboard.
type Copier interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type Presenter struct {
	explorer models.Explorer
	copier   Copier
}

type Option func(*Presenter)

func WithCopier(c Copier) Option {
	return func(p *Presenter) { p.copier = c }
}

func NewPresenter(explorer models.Explorer, opts ...Option) *Presenter {
	p := &Presenter{explorer: explorer, copier: systemClipboard{}}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Presenter) Present(doc models.Document) View {
	v := View{
		Filename:   doc.Filename,
		Size:       HumanSize(doc.FileSize),
		Type:       doc.FileType,
		Status:     doc.Status,
		AnchoredAt: Placeholder,
	}
	if !doc.AnchoredAt.IsZero() {
		v.AnchoredAt = doc.AnchoredAt.Local().Format(time.DateTime)
	}
	for _, f := range Fields {
		val := p.value(doc, f)
		it := Item{Field: f, Label: label(f), Value: val, Available: val != ""}
		if !it.Available {
			it.Value = Placeholder
		}
		v.Items = append(v.Items, it)
	}
	if doc.DigestMismatch() {
		v.Warning = fmt.Sprintf("service reported digest %s", doc.ServerDigest)
	}
	return v
}

// Copy exports one field of doc to the clipboard.
func (p *Presenter) Copy(doc models.Document, f Field) (string, error) {
	val := p.value(doc, f)
	if val == "" {
		return "", fmt.Errorf("%s: %w", label(f), ErrNotAvailable)
	}
	if err := p.copier.WriteAll(val); err != nil {
		return "", fmt.Errorf("copy %s: %w", label(f), err)
	}
	return val, nil
}

func (p *Presenter) value(doc models.Document, f Field) string {
	switch f {
	case FieldDigest:
		return doc.Digest
	case FieldLedgerFileID:
		return doc.LedgerFileID
	case FieldTransactionID:
		return doc.LedgerTransactionID
	case FieldExplorerURL:
		return p.explorer.Resolve(doc)
	case FieldContentID:
		return doc.ContentID
	}
	return ""
}

func label(f Field) string {
	switch f {
	case FieldDigest:
		return "Digest"
	case FieldLedgerFileID:
		return "Ledger file ID"
	case FieldTransactionID:
		return "Transaction ID"
	case FieldExplorerURL:
		return "Explorer"
	case FieldContentID:
		return "Content ID"
	}
	return string(f)
}

// ShortDigest abbreviates a hex digest for tables.
func ShortDigest(d string) string {
	if d == "" {
		return "-"
	}
	if len(d) <= 16 {
		return d
	}
	return d[:8] + "…" + d[len(d)-8:]
}

func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
