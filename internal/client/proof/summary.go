package proof

import "github.com/dmitrijs2005/docanchor/internal/client/models"

type Summary struct {
	Total     int
	Anchored  int
	Verified  int
	Pending   int
	Rejected  int
	Uploading int
	// FreeRemaining is how many more documents fit in the free allowance.
	FreeRemaining int
}

func Summarize(docs []models.Document, freeLimit int) Summary {
	s := Summary{Total: len(docs)}
	for _, d := range docs {
		switch d.Status {
		case models.StatusAnchored:
			s.Anchored++
		case models.StatusVerified:
			s.Verified++
		case models.StatusPending, models.StatusAnchoring:
			s.Pending++
		case models.StatusRejected:
			s.Rejected++
		case models.StatusUploading:
			s.Uploading++
		}
	}
	s.FreeRemaining = max(0, freeLimit-len(docs))
	return s
}
