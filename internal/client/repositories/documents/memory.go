package documents

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/common"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu   sync.Mutex
	docs []models.Document

	// notifyMu is taken before mu is released so listeners observe
	// changes in mutation order.
	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{listeners: map[int]Listener{}}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Append(ctx context.Context, doc models.Document) error {
	r.mu.Lock()
	if doc.LocalID == "" {
		doc.LocalID = uuid.NewString()
	}
	if slices.ContainsFunc(r.docs, func(d models.Document) bool { return d.LocalID == doc.LocalID }) {
		r.mu.Unlock()
		return fmt.Errorf("append %s: %w", doc.LocalID, ErrDuplicate)
	}
	r.docs = append(r.docs, doc)
	r.publish(Change{Kind: ChangeAppend, LocalIDs: []string{doc.LocalID}})
	return nil
}

func (r *MemoryRepository) Patch(ctx context.Context, pred Predicate, fn func(*models.Document) error) (int, error) {
	r.mu.Lock()

	type patched struct {
		idx int
		doc models.Document
	}
	var updates []patched

	for i, d := range r.docs {
		if !pred(d) {
			continue
		}
		cp := d
		if err := fn(&cp); err != nil {
			if errors.Is(err, ErrSkip) {
				continue
			}
			r.mu.Unlock()
			return 0, err
		}
		// local id is the key and cannot be patched away
		cp.LocalID = d.LocalID
		updates = append(updates, patched{idx: i, doc: cp})
	}

	if len(updates) == 0 {
		r.mu.Unlock()
		return 0, nil
	}

	ids := make([]string, 0, len(updates))
	for _, u := range updates {
		r.docs[u.idx] = u.doc
		ids = append(ids, u.doc.LocalID)
	}
	r.publish(Change{Kind: ChangePatch, LocalIDs: ids})
	return len(updates), nil
}

func (r *MemoryRepository) Remove(ctx context.Context, pred Predicate) (int, error) {
	r.mu.Lock()

	var ids []string
	kept := r.docs[:0:0]
	for _, d := range r.docs {
		if pred(d) {
			ids = append(ids, d.LocalID)
			continue
		}
		kept = append(kept, d)
	}

	if len(ids) == 0 {
		r.mu.Unlock()
		return 0, nil
	}

	r.docs = kept
	r.publish(Change{Kind: ChangeRemove, LocalIDs: ids})
	return len(ids), nil
}

func (r *MemoryRepository) ReplaceAll(ctx context.Context, incoming []models.Document) error {
	r.mu.Lock()

	byID := make(map[string]models.Document, len(r.docs))
	for _, d := range r.docs {
		if d.ID != "" {
			byID[d.ID] = d
		}
	}

	next := make([]models.Document, 0, len(incoming)+len(r.docs))
	seen := make(map[string]struct{}, len(incoming))
	for _, in := range incoming {
		if in.ID != "" {
			if _, dup := seen[in.ID]; dup {
				continue
			}
			seen[in.ID] = struct{}{}
		}
		if local, ok := byID[in.ID]; ok && in.ID != "" {
			in = carryOver(local, in)
		}
		if in.LocalID == "" {
			in.LocalID = uuid.NewString()
		}
		next = append(next, in)
	}

	for _, d := range r.docs {
		if d.InFlight() {
			next = append(next, d)
			continue
		}
		if _, listed := seen[d.ID]; d.Unlisted && !listed {
			next = append(next, d)
		}
	}

	r.docs = next
	r.publish(Change{Kind: ChangeReplace})
	return nil
}

// carryOver copies fields the service does not store from local into remote.
func carryOver(local, remote models.Document) models.Document {
	remote.LocalID = local.LocalID
	if remote.ContentID == "" {
		remote.ContentID = local.ContentID
	}
	if remote.Flow == "" {
		remote.Flow = local.Flow
	}
	if remote.Kind == "" {
		remote.Kind = local.Kind
	}
	if local.Digest != "" {
		switch {
		case remote.Digest == "":
			remote.ServerDigest = local.ServerDigest
		case !strings.EqualFold(remote.Digest, local.Digest):
			remote.ServerDigest = remote.Digest
		}
		remote.Digest = local.Digest
	}
	if remote.LedgerFileID == "" {
		remote.LedgerFileID = local.LedgerFileID
	}
	if remote.LedgerTransactionID == "" {
		remote.LedgerTransactionID = local.LedgerTransactionID
	}
	if remote.ExplorerURL == "" {
		remote.ExplorerURL = local.ExplorerURL
	}
	if remote.AnchoredAt.IsZero() {
		remote.AnchoredAt = local.AnchoredAt
	}
	return remote
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.docs), nil
}

func (r *MemoryRepository) Find(ctx context.Context, pred Predicate) (models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.docs, pred)
	if i < 0 {
		return models.Document{}, common.ErrorNotFound
	}
	return r.docs[i], nil
}

func (r *MemoryRepository) Subscribe(l Listener) func() {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = l

	return func() {
		r.notifyMu.Lock()
		defer r.notifyMu.Unlock()
		delete(r.listeners, id)
	}
}

// publish must be called with mu held; it releases mu.
func (r *MemoryRepository) publish(c Change) {
	c.Documents = slices.Clone(r.docs)

	r.notifyMu.Lock()
	r.mu.Unlock()
	defer r.notifyMu.Unlock()

	for _, id := range sortedKeys(r.listeners) {
		r.listeners[id](c)
	}
}

func sortedKeys(m map[int]Listener) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
