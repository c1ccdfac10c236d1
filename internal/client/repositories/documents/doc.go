// Package documents holds the client's in-memory list of documents.
//
// # Overview
//
// Repository is the single shared mutable collection the rest of the client
// writes to: upload lifecycles append and patch their own record, list
// refreshes replace the collection, and user removal filters it. Records are
// kept in insertion order and are keyed by models.Document.LocalID.
//
// # Concurrency
//
// MemoryRepository is safe for concurrent use. Listeners registered with
// Subscribe are called synchronously, one change at a time, in the order the
// mutations were applied. A listener must not call back into the repository.
//
// Typical Usage
//
//	repo := documents.NewMemoryRepository()
//	stop := repo.Subscribe(func(c documents.Change) { render(c.Documents) })
//	defer stop()
//	_ = repo.Append(ctx, doc)
//	_, _ = repo.Patch(ctx, documents.ByLocalID(doc.LocalID), func(d *models.Document) error {
//		d.Progress = 40
//		return nil
//	})
package documents
