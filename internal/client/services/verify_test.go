package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/docanchor/internal/client/client"
	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docanchor/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestReverify(t *testing.T) {
	tests := []struct {
		name       string
		start      models.Status
		res        *client.Verification
		wantStatus models.Status
		wantOut    client.Outcome
		wantErr    error
	}{
		{"authentic", models.StatusAnchored, &client.Verification{Verified: boolPtr(true)}, models.StatusVerified, client.OutcomeAuthentic, nil},
		{"modified", models.StatusAnchored, &client.Verification{Verified: boolPtr(false)}, models.StatusRejected, client.OutcomeModified, nil},
		{"inconclusive", models.StatusAnchored, &client.Verification{}, models.StatusAnchored, client.OutcomeInconclusive, nil},
		{"already verified", models.StatusVerified, &client.Verification{Verified: boolPtr(true)}, models.StatusVerified, client.OutcomeAuthentic, nil},
		{"illegal from pending", models.StatusPending, &client.Verification{Verified: boolPtr(true)}, models.StatusPending, client.OutcomeAuthentic, models.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{reverifyFn: func(context.Context, string) (*client.Verification, error) { return tt.res, nil }}
			repo := documents.NewMemoryRepository()
			ctx := context.Background()
			require.NoError(t, repo.Append(ctx, models.Document{LocalID: "l", ID: "1", Filename: "a.pdf", Status: tt.start, LedgerFileID: "0.0.5"}))
			notes := &recordingNotifier{}

			out, err := NewVerificationService(fc, repo, notes, nil).Reverify(ctx, "l")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Len(t, notes.all(), 1)
			}
			assert.Equal(t, tt.wantOut, out)
			assert.Equal(t, []string{"0.0.5"}, fc.verifyCalls)

			d, err := repo.Find(ctx, documents.ByLocalID("l"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, d.Status)
		})
	}
}

func TestReverify_NoProof(t *testing.T) {
	fc := &fakeClient{}
	repo := documents.NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, models.Document{LocalID: "l", Status: models.StatusPending}))

	svc := NewVerificationService(fc, repo, nil, nil)

	_, err := svc.Reverify(ctx, "l")
	require.ErrorIs(t, err, ErrProofUnavailable)
	assert.Empty(t, fc.verifyCalls)

	_, err = svc.Reverify(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestReverify_ServiceErrorNotifies(t *testing.T) {
	fc := &fakeClient{reverifyFn: func(context.Context, string) (*client.Verification, error) {
		return nil, &client.StatusError{Code: 404, Message: "file not found on ledger"}
	}}
	repo := documents.NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, models.Document{LocalID: "l", Filename: "a.pdf", Status: models.StatusAnchored, LedgerFileID: "0.0.5"}))
	notes := &recordingNotifier{}

	_, err := NewVerificationService(fc, repo, notes, nil).Reverify(ctx, "l")
	require.Error(t, err)

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, "Unable to verify a.pdf: file not found on ledger", got[0].Message)
}
