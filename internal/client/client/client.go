package client

import (
	"context"
)

// Client is the contract with the remote anchoring service. Each call is a
// single request/response exchange; nothing is retried internally.
type Client interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	ListByUser(ctx context.Context, userID string) ([]RemoteDocument, error)
	Reverify(ctx context.Context, ledgerFileID string) (*Verification, error)
}
