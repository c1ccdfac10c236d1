package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/docanchor/internal/client/client"
	"github.com/dmitrijs2005/docanchor/internal/client/config"
	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/client/proof"
	"github.com/dmitrijs2005/docanchor/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docanchor/internal/client/services"
	"github.com/dmitrijs2005/docanchor/internal/common"
	"github.com/dmitrijs2005/docanchor/internal/cryptox"
	"github.com/dmitrijs2005/docanchor/internal/logging"
)

var errUserRequired = errors.New("a user id is required: pass --user or set " + config.EnvUserID)

// App wires the services for one CLI invocation.
type App struct {
	cfg *config.Config
	log logging.Logger

	in  io.Reader
	out io.Writer

	client    client.Client
	repo      documents.Repository
	refresher *services.RefreshScheduler
	uploads   services.UploadService
	verifier  services.VerificationService
	presenter *proof.Presenter
	hasher    *cryptox.Hasher
	explorer  models.Explorer
}

func NewApp(cfg *config.Config, o *options) (*App, error) {
	log := logging.New(o.stderr, cfg.LogLevel, cfg.LogFormat)

	alg, err := cryptox.ParseAlgorithm(cfg.DigestAlgorithm)
	if err != nil {
		return nil, err
	}
	hasher, err := cryptox.NewHasher(alg)
	if err != nil {
		return nil, err
	}

	explorer := models.Explorer{BaseURL: cfg.ExplorerBaseURL, Network: cfg.Network}
	out := &syncWriter{w: o.stdout}

	c := client.NewHTTPClient(cfg.ServerBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log.With("component", "client")))
	repo := documents.NewMemoryRepository()

	refresher := services.NewRefreshScheduler(c, repo, explorer, services.RefreshConfig{
		Delay:       cfg.RefreshDelay,
		MaxAttempts: cfg.RefreshMaxAttempts,
		Backoff:     cfg.RefreshBackoff,
	}, log.With("component", "refresh"))

	notifier := &terminalNotifier{w: out}

	uploads, err := services.NewUploadService(c, repo, refresher, notifier, services.UploadConfig{
		GeneralMaxSize:      cfg.GeneralMaxSize,
		IdentityMaxSize:     cfg.IdentityMaxSize,
		StrictPDF:           cfg.StrictPDF,
		ProgressInterval:    cfg.ProgressInterval,
		ProgressStep:        cfg.ProgressStep,
		GeneralProgressCap:  cfg.GeneralProgressCap,
		IdentityProgressCap: cfg.IdentityProgressCap,
		MaxParallelUploads:  cfg.MaxParallelUploads,
		Hasher:              hasher,
		Explorer:            explorer,
	}, log.With("component", "upload"))
	if err != nil {
		return nil, err
	}

	var popts []proof.Option
	if o.copier != nil {
		popts = append(popts, proof.WithCopier(o.copier))
	}

	return &App{
		cfg:       cfg,
		log:       log,
		in:        o.stdin,
		out:       out,
		client:    c,
		repo:      repo,
		refresher: refresher,
		uploads:   uploads,
		verifier:  services.NewVerificationService(c, repo, notifier, log.With("component", "verify")),
		presenter: proof.NewPresenter(explorer, popts...),
		hasher:    hasher,
		explorer:  explorer,
	}, nil
}

func (a *App) Close() {
	a.refresher.Close()
}

// requireUser returns the configured user id, prompting on a terminal.
func (a *App) requireUser() (string, error) {
	if a.cfg.UserID != "" {
		return a.cfg.UserID, nil
	}
	f, ok := a.in.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return "", errUserRequired
	}
	id, err := promptLine(a.in, a.out, "User ID")
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errUserRequired
	}
	a.cfg.UserID = id
	return id, nil
}

// load refreshes the store from the service.
func (a *App) load(ctx context.Context) ([]models.Document, error) {
	userID, err := a.requireUser()
	if err != nil {
		return nil, err
	}
	if err := a.refresher.Refresh(ctx, userID); err != nil {
		return nil, err
	}
	return a.repo.List(ctx)
}

// resolve finds a document by server id, local id or filename, in that order.
func (a *App) resolve(ctx context.Context, ref string) (models.Document, error) {
	for _, pred := range []documents.Predicate{documents.ByID(ref), documents.ByLocalID(ref), documents.ByFilename(ref)} {
		d, err := a.repo.Find(ctx, pred)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return models.Document{}, err
		}
	}
	return models.Document{}, fmt.Errorf("document %q: %w", ref, common.ErrorNotFound)
}

type terminalNotifier struct {
	w io.Writer
}

func (n *terminalNotifier) Notify(_ context.Context, note services.Notification) {
	var line string
	switch note.Severity {
	case services.SeveritySuccess:
		line = formatSuccess(note.Title + ": " + note.Message)
	case services.SeverityError:
		line = formatError(note.Title + ": " + note.Message)
	case services.SeverityWarning:
		line = formatWarning(note.Title + ": " + note.Message)
	default:
		line = formatInfo(note.Title + ": " + note.Message)
	}
	fmt.Fprintln(n.w, line)
	if note.Link != "" {
		fmt.Fprintln(n.w, "  "+formatMuted(note.Link))
	}
}
