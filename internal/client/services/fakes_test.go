package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/docanchor/internal/client/client"
	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docanchor/internal/cryptox"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	client.Client

	mu          sync.Mutex
	submitCalls []client.SubmitRequest
	listCalls   int
	verifyCalls []string

	submitFn   func(ctx context.Context, req client.SubmitRequest) (*client.SubmitResult, error)
	listFn     func(ctx context.Context, call int) ([]client.RemoteDocument, error)
	reverifyFn func(ctx context.Context, id string) (*client.Verification, error)
}

func (f *fakeClient) Submit(ctx context.Context, req client.SubmitRequest) (*client.SubmitResult, error) {
	f.mu.Lock()
	f.submitCalls = append(f.submitCalls, req)
	f.mu.Unlock()
	return f.submitFn(ctx, req)
}

func (f *fakeClient) ListByUser(ctx context.Context, userID string) ([]client.RemoteDocument, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	f.mu.Unlock()
	return f.listFn(ctx, call)
}

func (f *fakeClient) Reverify(ctx context.Context, id string) (*client.Verification, error) {
	f.mu.Lock()
	f.verifyCalls = append(f.verifyCalls, id)
	f.mu.Unlock()
	return f.reverifyFn(ctx, id)
}

func (f *fakeClient) submits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitCalls)
}

func (f *fakeClient) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func anchored(id, fileID, tx string) func(context.Context, client.SubmitRequest) (*client.SubmitResult, error) {
	return func(ctx context.Context, req client.SubmitRequest) (*client.SubmitResult, error) {
		return &client.SubmitResult{
			Success:  true,
			Document: &client.SubmittedDoc{ID: client.ID(id)},
			Proof: &client.LedgerProof{
				FileID:         fileID,
				TransactionID:  tx,
				TransactionURL: "https://hashscan.io/testnet/transaction/" + tx,
			},
		}, nil
	}
}

type memFile struct {
	name     string
	mimeType string
	size     int64
	data     []byte
}

func newMemFile(name, mimeType string, data []byte) *memFile {
	return &memFile{name: name, mimeType: mimeType, size: int64(len(data)), data: data}
}

func (f *memFile) Name() string { return f.name }
func (f *memFile) Type() string { return f.mimeType }
func (f *memFile) Size() int64  { return f.size }
func (f *memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.got...)
}

type scheduled struct {
	userID   string
	expectID string
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls []scheduled
}

func (f *fakeRefresher) Refresh(context.Context, string) error { return nil }

func (f *fakeRefresher) Schedule(_ context.Context, userID, expectID string) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, scheduled{userID: userID, expectID: expectID})
	return func() {}
}

func (f *fakeRefresher) all() []scheduled {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]scheduled(nil), f.calls...)
}

type harness struct {
	svc       UploadService
	client    *fakeClient
	repo      *documents.MemoryRepository
	notifier  *recordingNotifier
	refresher *fakeRefresher
}

func testUploadConfig(t *testing.T) UploadConfig {
	t.Helper()
	h, err := cryptox.NewHasher(cryptox.SHA256)
	require.NoError(t, err)
	return UploadConfig{
		GeneralMaxSize:      25 << 20,
		IdentityMaxSize:     10 << 20,
		ProgressInterval:    time.Millisecond,
		ProgressStep:        10,
		GeneralProgressCap:  50,
		IdentityProgressCap: 90,
		Hasher:              h,
		Explorer:            models.Explorer{BaseURL: "https://hashscan.io", Network: "testnet"},
	}
}

func newHarness(t *testing.T, fc *fakeClient, cfg UploadConfig) *harness {
	t.Helper()
	h := &harness{
		client:    fc,
		repo:      documents.NewMemoryRepository(),
		notifier:  &recordingNotifier{},
		refresher: &fakeRefresher{},
	}
	svc, err := NewUploadService(fc, h.repo, h.refresher, h.notifier, cfg, nil)
	require.NoError(t, err)
	h.svc = svc
	return h
}

func (h *harness) list(t *testing.T) []models.Document {
	t.Helper()
	docs, err := h.repo.List(context.Background())
	require.NoError(t, err)
	return docs
}
