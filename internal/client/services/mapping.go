package services

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/docanchor/internal/client/client"
	"github.com/dmitrijs2005/docanchor/internal/client/models"
)

// FromRemote converts a server record. Server records are complete, so
// their progress is always 100.
func FromRemote(rd client.RemoteDocument, explorer models.Explorer) models.Document {
	d := models.Document{
		ID:                  rd.ID.String(),
		Filename:            rd.Filename,
		FileType:            rd.FileType,
		FileSize:            rd.FileSize,
		Status:              models.ParseStatus(rd.Status),
		Progress:            100,
		Digest:              rd.FileHash,
		LedgerFileID:        rd.LedgerFileID,
		LedgerTransactionID: rd.LedgerTransactionID,
		ExplorerURL:         rd.ExplorerURL,
	}
	if d.ExplorerURL == "" {
		d.ExplorerURL = explorer.TransactionURL(d.LedgerTransactionID)
	}
	if t, ok := parseTimestamp(rd.UploadedAt); ok {
		d.AnchoredAt = t
	}
	return d
}

// timestampLayouts lists accepted uploaded_at forms. Zone-less values are
// taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromRemoteAll(rds []client.RemoteDocument, explorer models.Explorer) []models.Document {
	out := make([]models.Document, 0, len(rds))
	for _, rd := range rds {
		out = append(out, FromRemote(rd, explorer))
	}
	return out
}
