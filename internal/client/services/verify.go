package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docanchor/internal/client/client"
	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docanchor/internal/logging"
)

// ErrProofUnavailable is returned when a document has no ledger file id yet.
var ErrProofUnavailable = errors.New("document has no ledger proof yet")

type VerificationService interface {
	// Reverify asks the service to re-check the document's ledger record
	// and moves it to verified or rejected accordingly.
	Reverify(ctx context.Context, localID string) (client.Outcome, error)
}

type verificationService struct {
	client   client.Client
	repo     documents.Repository
	notifier Notifier
	log      logging.Logger
}

func NewVerificationService(c client.Client, repo documents.Repository, notifier Notifier, log logging.Logger) VerificationService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &verificationService{client: c, repo: repo, notifier: notifier, log: log}
}

func (s *verificationService) Reverify(ctx context.Context, localID string) (client.Outcome, error) {
	doc, err := s.repo.Find(ctx, documents.ByLocalID(localID))
	if err != nil {
		return client.OutcomeInconclusive, fmt.Errorf("find %s: %w", localID, err)
	}
	if doc.LedgerFileID == "" {
		return client.OutcomeInconclusive, fmt.Errorf("verify %s: %w", doc.Filename, ErrProofUnavailable)
	}

	res, err := s.client.Reverify(ctx, doc.LedgerFileID)
	if err != nil {
		s.notifier.Notify(ctx, Notification{
			Severity: SeverityError,
			Title:    "Verification failed",
			Message:  fmt.Sprintf("Unable to verify %s: %s", doc.Filename, failureMessage(err)),
			Filename: doc.Filename,
			LocalID:  localID,
		})
		return client.OutcomeInconclusive, fmt.Errorf("verify %s: %w", doc.Filename, err)
	}

	outcome := res.Outcome()
	var target models.Status
	switch outcome {
	case client.OutcomeAuthentic:
		target = models.StatusVerified
	case client.OutcomeModified:
		target = models.StatusRejected
	}

	if target != "" {
		_, err = s.repo.Patch(ctx, documents.ByLocalID(localID), func(d *models.Document) error {
			return d.Transition(target)
		})
		if err != nil {
			return outcome, fmt.Errorf("verify %s: %w", doc.Filename, err)
		}
	}

	s.log.Info(ctx, "document reverified", "file", doc.Filename, "ledger_file_id", doc.LedgerFileID, "outcome", outcome)
	s.notifier.Notify(ctx, verificationNotice(doc, outcome, res.Message))
	return outcome, nil
}

func verificationNotice(doc models.Document, o client.Outcome, detail string) Notification {
	n := Notification{Filename: doc.Filename, LocalID: doc.LocalID, Link: doc.ExplorerURL}
	switch o {
	case client.OutcomeAuthentic:
		n.Severity, n.Title = SeveritySuccess, "Document verified"
		n.Message = fmt.Sprintf("%s matches its ledger record", doc.Filename)
	case client.OutcomeModified:
		n.Severity, n.Title = SeverityError, "Document modified"
		n.Message = fmt.Sprintf("%s no longer matches its ledger record", doc.Filename)
	default:
		n.Severity, n.Title = SeverityWarning, "Verification inconclusive"
		n.Message = fmt.Sprintf("The service did not confirm %s", doc.Filename)
	}
	if detail != "" {
		n.Message += ": " + detail
	}
	return n
}
