package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/api/documents/", WithHTTPClient(srv.Client())), srv
}

func TestSubmit_Success(t *testing.T) {
	var got submitBody
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/documents/upload", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = io.WriteString(w, `{
			"success": true,
			"document": {"id": 42, "fileHash": "abc"},
			"hederaProof": {
				"fileId": "0.0.5005",
				"transactionId": "0.0.1234@1700000000.000000001",
				"transactionUrl": "https://hashscan.io/testnet/transaction/0.0.1234@1700000000.000000001"
			}
		}`)
	})

	content := "data:application/pdf;base64," + strings.Repeat("QUJD", 256)
	var lastSent, lastTotal atomic.Int64
	res, err := c.Submit(context.Background(), SubmitRequest{
		UserID:         "user-1",
		FileName:       "contract.pdf",
		EncodedContent: content,
		MIMEType:       "application/pdf",
		OnProgress: func(sent, total int64) {
			lastSent.Store(sent)
			lastTotal.Store(total)
		},
	})
	require.NoError(t, err)
	require.NoError(t, res.Err())

	want := submitBody{UserID: "user-1", FileName: "contract.pdf", File: content, MIMEType: "application/pdf"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request body mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, res.Document)
	require.NotNil(t, res.Proof)
	assert.Equal(t, ID("42"), res.Document.ID)
	assert.NotEmpty(t, res.Proof.FileID)
	assert.True(t, strings.HasSuffix(res.Proof.TransactionURL, "/"+res.Proof.TransactionID))

	assert.Positive(t, lastTotal.Load())
	assert.Equal(t, lastTotal.Load(), lastSent.Load())
}

func TestSubmit_SuccessFalseIsRejectedResult(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": false, "error": "quota exceeded"}`)
	})

	res, err := c.Submit(context.Background(), SubmitRequest{UserID: "u", FileName: "a.pdf"})
	require.NoError(t, err)

	rerr := res.Err()
	require.Error(t, rerr)
	assert.ErrorIs(t, rerr, ErrRejected)

	var rej *RejectedError
	require.ErrorAs(t, rerr, &rej)
	assert.Equal(t, "quota exceeded", rej.Message)
	assert.Nil(t, res.Proof)
}

func TestSubmit_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		body    string
		wantMsg string
	}{
		{"error field", http.StatusBadRequest, `{"error":"file too large"}`, "file too large"},
		{"message field", http.StatusInternalServerError, `{"message":"boom"}`, "boom"},
		{"plain body", http.StatusServiceUnavailable, `gateway`, "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = io.WriteString(w, tt.body)
			})

			res, err := c.Submit(context.Background(), SubmitRequest{FileName: "a.pdf"})
			require.Nil(t, res)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.wantMsg, se.Message)
		})
	}
}

func TestSubmit_NoRetry(t *testing.T) {
	var calls atomic.Int32
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Submit(context.Background(), SubmitRequest{FileName: "a.pdf"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubmit_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewHTTPClient(base)
	_, err := c.Submit(context.Background(), SubmitRequest{FileName: "a.pdf"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestListByUser(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/documents/user/user 1", r.URL.Path)

		_, _ = io.WriteString(w, `{"documents": [
			{"id": "d1", "filename": "a.pdf", "file_type": "application/pdf", "file_size": 1024,
			 "status": "anchored", "hedera_file_id": "0.0.1", "hedera_transaction_id": "0.0.2@1.2",
			 "explorerUrl": "https://x/tx", "file_hash": "ff", "uploaded_at": "2024-05-01T10:00:00Z"},
			{"id": 7, "filename": "b.png", "status": "blockchain-validating",
			 "hedera_file_id": null, "hedera_transaction_id": null, "explorerUrl": null, "file_hash": null}
		]}`)
	})

	docs, err := c.ListByUser(context.Background(), "user 1")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	want := RemoteDocument{
		ID: "d1", Filename: "a.pdf", FileType: "application/pdf", FileSize: 1024,
		Status: "anchored", LedgerFileID: "0.0.1", LedgerTransactionID: "0.0.2@1.2",
		ExplorerURL: "https://x/tx", FileHash: "ff", UploadedAt: "2024-05-01T10:00:00Z",
	}
	if diff := cmp.Diff(want, docs[0]); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, ID("7"), docs[1].ID)
	assert.Empty(t, docs[1].LedgerFileID)
	assert.Empty(t, docs[1].LedgerTransactionID)
	assert.Empty(t, docs[1].ExplorerURL)
	assert.Empty(t, docs[1].FileHash)
}

func TestNewHTTPClient_TimeoutLeavesCallerClientAlone(t *testing.T) {
	shared := &http.Client{}

	for _, opts := range [][]Option{
		{WithTimeout(5 * time.Second), WithHTTPClient(shared)},
		{WithHTTPClient(shared), WithTimeout(5 * time.Second)},
	} {
		c := NewHTTPClient("http://example.invalid", opts...)
		assert.Equal(t, 5*time.Second, c.http.Timeout)
		assert.NotSame(t, shared, c.http)
	}
	assert.Zero(t, shared.Timeout)

	c := NewHTTPClient("http://example.invalid", WithHTTPClient(shared))
	assert.Same(t, shared, c.http)
}

func TestListByUser_MissingDocumentsIsEmpty(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	docs, err := c.ListByUser(context.Background(), "u")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestReverify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Outcome
	}{
		{"verified true", `{"verified": true}`, OutcomeAuthentic},
		{"verified false", `{"verified": false, "message": "hash differs"}`, OutcomeModified},
		{"valid alias", `{"valid": true}`, OutcomeAuthentic},
		{"status word", `{"status": "tampered"}`, OutcomeModified},
		{"nothing useful", `{"success": true}`, OutcomeInconclusive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/documents/verify/0.0.5005", r.URL.Path)
				_, _ = io.WriteString(w, tt.body)
			})

			v, err := c.Reverify(context.Background(), "0.0.5005")
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Outcome())
			assert.JSONEq(t, tt.body, string(v.Raw))
		})
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x1","b":12345678901,"c":null}`), &v))
	assert.Equal(t, ID("x1"), v.A)
	assert.Equal(t, ID("12345678901"), v.B)
	assert.Equal(t, ID(""), v.C)

	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestSubmitResult_ErrNil(t *testing.T) {
	var r *SubmitResult
	assert.ErrorIs(t, r.Err(), ErrRejected)
}
