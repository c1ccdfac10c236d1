package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/docanchor/internal/client/client"
	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/client/payload"
	"github.com/dmitrijs2005/docanchor/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docanchor/internal/client/validation"
	"github.com/dmitrijs2005/docanchor/internal/common"
	"github.com/dmitrijs2005/docanchor/internal/cryptox"
	"github.com/dmitrijs2005/docanchor/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var errRemoved = errors.New("removed by user")

// File is an upload candidate. Open may be called once.
type File interface {
	Name() string
	Type() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type UploadRequest struct {
	UserID string
	Flow   models.Flow
	Kind   models.IdentityKind
}

type UploadOutcome struct {
	Filename string
	Document models.Document
	Err      error
}

type UploadService interface {
	// Upload runs one file's lifecycle and returns the anchored record.
	Upload(ctx context.Context, req UploadRequest, f File) (models.Document, error)
	// UploadAll runs independent lifecycles concurrently. Outcomes are in
	// input order; the error joins every failure.
	UploadAll(ctx context.Context, req UploadRequest, files ...File) ([]UploadOutcome, error)
	// Remove drops a record and cancels its upload if one is running.
	Remove(ctx context.Context, localID string) error
}

type UploadConfig struct {
	GeneralMaxSize  int64
	IdentityMaxSize int64
	StrictPDF       bool

	ProgressInterval    time.Duration
	ProgressStep        int
	GeneralProgressCap  int
	IdentityProgressCap int

	MaxParallelUploads int

	Hasher   *cryptox.Hasher
	Explorer models.Explorer
}

type uploadService struct {
	client    client.Client
	repo      documents.Repository
	refresher Refresher
	notifier  Notifier
	log       logging.Logger
	cfg       UploadConfig

	general  *validation.Validator
	identity *validation.Validator

	mu       sync.Mutex
	inflight map[string]context.CancelCauseFunc

	now func() time.Time
}

func NewUploadService(c client.Client, repo documents.Repository, refresher Refresher, notifier Notifier, cfg UploadConfig, log logging.Logger) (UploadService, error) {
	if cfg.Hasher == nil {
		h, err := cryptox.NewHasher(cryptox.SHA256)
		if err != nil {
			return nil, err
		}
		cfg.Hasher = h
	}
	if cfg.GeneralMaxSize <= 0 {
		cfg.GeneralMaxSize = validation.DefaultGeneralMaxSize
	}
	if cfg.IdentityMaxSize <= 0 {
		cfg.IdentityMaxSize = validation.DefaultIdentityMaxSize
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logging.Nop()
	}

	return &uploadService{
		client:    c,
		repo:      repo,
		refresher: refresher,
		notifier:  notifier,
		log:       log,
		cfg:       cfg,
		general:   validation.New(validation.GeneralPolicy(cfg.GeneralMaxSize), validation.WithPDFInspection(cfg.StrictPDF)),
		identity:  validation.New(validation.IdentityPolicy(cfg.IdentityMaxSize), validation.WithPDFInspection(cfg.StrictPDF)),
		inflight:  map[string]context.CancelCauseFunc{},
		now:       time.Now,
	}, nil
}

func (s *uploadService) validatorFor(f models.Flow) *validation.Validator {
	if f == models.FlowIdentity {
		return s.identity
	}
	return s.general
}

func (s *uploadService) capFor(f models.Flow) int {
	if f == models.FlowIdentity {
		return clampCap(s.cfg.IdentityProgressCap)
	}
	return clampCap(s.cfg.GeneralProgressCap)
}

func (s *uploadService) Upload(ctx context.Context, req UploadRequest, f File) (models.Document, error) {
	if req.Flow == "" {
		req.Flow = models.FlowGeneral
	}
	v := s.validatorFor(req.Flow)
	cand := validation.Candidate{Name: f.Name(), MIMEType: f.Type(), Size: f.Size()}

	if err := v.Validate(cand); err != nil {
		s.notifyRejected(ctx, f.Name(), err)
		return models.Document{}, err
	}

	doc := models.Document{
		LocalID:  uuid.NewString(),
		Filename: f.Name(),
		FileType: validation.NormalizeType(f.Type()),
		FileSize: f.Size(),
		Flow:     req.Flow,
		Kind:     req.Kind,
		Status:   models.StatusUploading,
	}
	log := s.log.With("file", doc.Filename, "local_id", doc.LocalID)

	uctx, cancel := context.WithCancelCause(ctx)
	s.track(doc.LocalID, cancel)
	defer s.untrack(doc.LocalID)
	defer cancel(nil)

	if err := s.repo.Append(ctx, doc); err != nil {
		return models.Document{}, fmt.Errorf("record upload: %w", err)
	}
	log.Info(ctx, "upload started", "size", doc.FileSize, "flow", doc.Flow)

	ceiling := s.capFor(req.Flow)
	sim := startProgress(s.cfg.ProgressInterval, func() {
		s.raise(ctx, doc.LocalID, func(cur int) int { return min(cur+s.cfg.ProgressStep, ceiling) })
	})

	res, digest, cid, err := s.anchor(uctx, req, f, v, cand, doc, ceiling)
	sim.Stop()

	if err != nil {
		return s.fail(ctx, uctx, log, doc, err)
	}

	return s.complete(ctx, log, req, doc, res, digest, cid)
}

// anchor reads, checks, hashes, encodes and submits the file.
func (s *uploadService) anchor(ctx context.Context, req UploadRequest, f File, v *validation.Validator,
	cand validation.Candidate, doc models.Document, ceiling int) (*client.SubmitResult, string, string, error) {

	rc, err := f.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	// one byte past the ceiling is enough to detect a lying Size
	content, err := io.ReadAll(io.LimitReader(rc, v.Policy().MaxSize+1))
	if err != nil {
		return nil, "", "", fmt.Errorf("read: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, "", "", err
	}

	if err := v.Inspect(cand, content); err != nil {
		return nil, "", "", err
	}

	digest, err := s.cfg.Hasher.DigestBytes(content)
	if err != nil {
		return nil, "", "", fmt.Errorf("digest: %w", err)
	}
	cid, err := s.cfg.Hasher.ContentID(digest)
	if err != nil {
		return nil, "", "", fmt.Errorf("content id: %w", err)
	}

	var lastReal atomic.Int64
	res, err := s.client.Submit(ctx, client.SubmitRequest{
		UserID:         req.UserID,
		FileName:       doc.Filename,
		EncodedContent: payload.EncodeDataURL(doc.FileType, content),
		MIMEType:       doc.FileType,
		OnProgress: func(sent, total int64) {
			p := int64(transferProgress(sent, total, ceiling))
			if lastReal.Swap(p) == p {
				return
			}
			s.raise(ctx, doc.LocalID, func(cur int) int { return max(cur, int(p)) })
		},
	})
	if err != nil {
		return nil, "", "", err
	}
	if err := res.Err(); err != nil {
		return nil, "", "", err
	}
	return res, digest, cid, nil
}

// raise moves progress forward while the record is still uploading.
func (s *uploadService) raise(ctx context.Context, localID string, next func(cur int) int) {
	_, _ = s.repo.Patch(ctx, documents.ByLocalID(localID), func(d *models.Document) error {
		if d.Status != models.StatusUploading {
			return documents.ErrSkip
		}
		p := next(d.Progress)
		if p <= d.Progress {
			return documents.ErrSkip
		}
		d.Progress = p
		return nil
	})
}

func (s *uploadService) fail(ctx, uctx context.Context, log logging.Logger, doc models.Document, cause error) (models.Document, error) {
	if _, err := s.repo.Remove(ctx, documents.ByLocalID(doc.LocalID)); err != nil {
		log.Error(ctx, "remove failed upload", "error", err)
	}

	if errors.Is(context.Cause(uctx), errRemoved) || errors.Is(ctx.Err(), context.Canceled) {
		log.Info(ctx, "upload canceled", "cause", context.Cause(uctx))
		return models.Document{}, fmt.Errorf("upload %s: %w", doc.Filename, errors.Join(common.ErrorCanceled, cause))
	}

	msg := failureMessage(cause)
	log.Warn(ctx, "upload failed", "error", cause)

	title := "Upload failed"
	var rej *validation.Rejection
	if errors.As(cause, &rej) {
		title = rej.Title()
	}
	s.notifier.Notify(ctx, Notification{
		Severity: SeverityError,
		Title:    title,
		Message:  fmt.Sprintf("Unable to upload %s: %s", doc.Filename, msg),
		Filename: doc.Filename,
		LocalID:  doc.LocalID,
	})
	return models.Document{}, fmt.Errorf("upload %s: %w", doc.Filename, cause)
}

func failureMessage(err error) string {
	var rej *client.RejectedError
	if errors.As(err, &rej) {
		return rej.Error()
	}
	var se *client.StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	var vr *validation.Rejection
	if errors.As(err, &vr) {
		return vr.Detail
	}
	if errors.Is(err, client.ErrUnavailable) {
		return client.ErrUnavailable.Error()
	}
	return err.Error()
}

func (s *uploadService) complete(ctx context.Context, log logging.Logger, req UploadRequest, doc models.Document,
	res *client.SubmitResult, digest, cid string) (models.Document, error) {

	var serverID, serverHash string
	if res.Document != nil {
		serverID = res.Document.ID.String()
		serverHash = res.Document.FileHash
	}
	if serverHash != "" && !strings.EqualFold(serverHash, digest) {
		log.Warn(ctx, "service reported a different digest", "local", digest, "server", serverHash)
	}

	var out models.Document
	n, err := s.repo.Patch(ctx, documents.ByLocalID(doc.LocalID), func(d *models.Document) error {
		if err := d.Transition(models.StatusAnchored); err != nil {
			return err
		}
		d.Progress = 100
		d.ID = serverID
		d.Digest = digest
		d.ContentID = cid
		if serverHash != "" && !strings.EqualFold(serverHash, digest) {
			d.ServerDigest = serverHash
		}
		if res.Proof != nil {
			d.LedgerFileID = res.Proof.FileID
			d.LedgerTransactionID = res.Proof.TransactionID
			d.ExplorerURL = res.Proof.TransactionURL
		}
		if d.ExplorerURL == "" {
			d.ExplorerURL = s.cfg.Explorer.TransactionURL(d.LedgerTransactionID)
		}
		d.AnchoredAt = s.now()
		d.Unlisted = true
		out = *d
		return nil
	})
	if err != nil {
		return models.Document{}, fmt.Errorf("reconcile %s: %w", doc.Filename, err)
	}
	if n == 0 {
		// removed while the request was in flight; do not resurrect it
		log.Info(ctx, "upload finished after removal; ignoring result", "id", serverID)
		return models.Document{}, fmt.Errorf("upload %s: %w", doc.Filename, common.ErrorCanceled)
	}

	log.Info(ctx, "document anchored", "id", out.ID, "tx", out.LedgerTransactionID)
	s.notifier.Notify(ctx, Notification{
		Severity: SeveritySuccess,
		Title:    "Document anchored",
		Message:  fmt.Sprintf("%s was anchored on the ledger", doc.Filename),
		Filename: doc.Filename,
		LocalID:  doc.LocalID,
		Link:     out.ExplorerURL,
	})

	if s.refresher != nil {
		s.refresher.Schedule(context.WithoutCancel(ctx), req.UserID, out.ID)
	}
	return out, nil
}

func (s *uploadService) notifyRejected(ctx context.Context, name string, err error) {
	title := "Invalid file"
	msg := err.Error()
	var rej *validation.Rejection
	if errors.As(err, &rej) {
		title = rej.Title()
		msg = rej.Detail
	}
	s.log.Info(ctx, "file rejected", "file", name, "error", err)
	s.notifier.Notify(ctx, Notification{Severity: SeverityError, Title: title, Message: msg, Filename: name})
}

func (s *uploadService) UploadAll(ctx context.Context, req UploadRequest, files ...File) ([]UploadOutcome, error) {
	out := make([]UploadOutcome, len(files))

	// a plain group: one failed file must not cancel the others
	var g errgroup.Group
	if s.cfg.MaxParallelUploads > 0 {
		g.SetLimit(s.cfg.MaxParallelUploads)
	}
	for i, f := range files {
		g.Go(func() error {
			doc, err := s.Upload(ctx, req, f)
			out[i] = UploadOutcome{Filename: f.Name(), Document: doc, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, o := range out {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return out, errors.Join(errs...)
}

func (s *uploadService) Remove(ctx context.Context, localID string) error {
	s.mu.Lock()
	cancel, running := s.inflight[localID]
	s.mu.Unlock()
	if running {
		cancel(errRemoved)
	}

	n, err := s.repo.Remove(ctx, documents.ByLocalID(localID))
	if err != nil {
		return err
	}
	if n == 0 && !running {
		return fmt.Errorf("remove %s: %w", localID, common.ErrorNotFound)
	}
	s.log.Info(ctx, "document removed", "local_id", localID, "was_uploading", running)
	return nil
}

func (s *uploadService) track(localID string, cancel context.CancelCauseFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight[localID] = cancel
}

func (s *uploadService) untrack(localID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, localID)
}
