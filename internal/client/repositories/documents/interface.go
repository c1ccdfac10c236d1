package documents

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/docanchor/internal/client/models"
)

// ErrSkip returned from a patch function leaves that record untouched
// without failing the patch.
var ErrSkip = errors.New("skip")

// ErrDuplicate is returned by Append when the local id is already present.
var ErrDuplicate = errors.New("duplicate local id")

type Predicate func(models.Document) bool

func ByLocalID(id string) Predicate {
	return func(d models.Document) bool { return d.LocalID == id }
}

func ByID(id string) Predicate {
	return func(d models.Document) bool { return id != "" && d.ID == id }
}

// ByFilename matches on display name. Several records may share one.
func ByFilename(name string) Predicate {
	return func(d models.Document) bool { return d.Filename == name }
}

type ChangeKind string

const (
	ChangeAppend  ChangeKind = "append"
	ChangePatch   ChangeKind = "patch"
	ChangeRemove  ChangeKind = "remove"
	ChangeReplace ChangeKind = "replace"
)

// Change describes one applied mutation. Documents is a snapshot of the whole
// collection after it.
type Change struct {
	Kind      ChangeKind
	LocalIDs  []string
	Documents []models.Document
}

type Listener func(Change)

// Repository is the document state store.
type Repository interface {
	// Append adds doc at the end of the collection.
	Append(ctx context.Context, doc models.Document) error

	// Patch applies fn to every record matching pred and returns how many
	// were changed. fn works on a copy; an error other than ErrSkip aborts the
	// whole patch with nothing applied.
	Patch(ctx context.Context, pred Predicate, fn func(*models.Document) error) (int, error)

	// Remove deletes every record matching pred and returns how many went.
	Remove(ctx context.Context, pred Predicate) (int, error)

	// ReplaceAll installs an authoritative list from the service. Uploads
	// still in flight and unlisted anchored records are kept, and local-only
	// fields of matching records are carried over. A local digest is never
	// replaced; a differing service hash lands in ServerDigest.
	ReplaceAll(ctx context.Context, docs []models.Document) error

	List(ctx context.Context) ([]models.Document, error)

	// Find returns the first record matching pred or common.ErrorNotFound.
	Find(ctx context.Context, pred Predicate) (models.Document, error)

	Subscribe(l Listener) (unsubscribe func())
}
