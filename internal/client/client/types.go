package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SubmitRequest is one file handed to the anchoring service.
type SubmitRequest struct {
	UserID         string
	FileName       string
	EncodedContent string
	MIMEType       string

	// OnProgress, when set, is called as the request body is written.
	OnProgress func(sent, total int64)
}

type submitBody struct {
	UserID   string `json:"userId"`
	FileName string `json:"fileName"`
	File     string `json:"file"`
	MIMEType string `json:"mimeType"`
}

// SubmitResult mirrors the service response to an upload.
type SubmitResult struct {
	Success  bool          `json:"success"`
	Document *SubmittedDoc `json:"document,omitempty"`
	Proof    *LedgerProof  `json:"hederaProof,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type SubmittedDoc struct {
	ID       ID     `json:"id"`
	FileHash string `json:"fileHash"`
}

type LedgerProof struct {
	FileID         string `json:"fileId"`
	TransactionID  string `json:"transactionId"`
	TransactionURL string `json:"transactionUrl"`
}

// Err reports a success:false result as *RejectedError.
func (r *SubmitResult) Err() error {
	if r == nil {
		return &RejectedError{Message: "empty response"}
	}
	if !r.Success {
		return &RejectedError{Message: r.Error}
	}
	return nil
}

// RemoteDocument is one entry of the user's document list as the service
// stores it.
type RemoteDocument struct {
	ID                  ID     `json:"id"`
	Filename            string `json:"filename"`
	FileType            string `json:"file_type"`
	FileSize            int64  `json:"file_size"`
	Status              string `json:"status"`
	LedgerFileID        string `json:"hedera_file_id"`
	LedgerTransactionID string `json:"hedera_transaction_id"`
	ExplorerURL         string `json:"explorerUrl"`
	FileHash            string `json:"file_hash"`
	UploadedAt          string `json:"uploaded_at"`
}

type listResponse struct {
	Documents []RemoteDocument `json:"documents"`
}

// ID is a server identifier that may arrive as a JSON string or number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Outcome classifies a verification result.
type Outcome string

const (
	OutcomeAuthentic    Outcome = "authentic"
	OutcomeModified     Outcome = "modified"
	OutcomeInconclusive Outcome = "inconclusive"
)

// Verification is the service's answer to a re-check. The body shape is not
// fixed, so the raw payload is kept alongside the recognised fields.
type Verification struct {
	Verified *bool           `json:"verified,omitempty"`
	Status   string          `json:"status,omitempty"`
	Message  string          `json:"message,omitempty"`
	Raw      json.RawMessage `json:"-"`
}

func (v *Verification) UnmarshalJSON(b []byte) error {
	type plain Verification
	var p struct {
		plain
		Valid   *bool  `json:"valid,omitempty"`
		IsValid *bool  `json:"isValid,omitempty"`
		Success *bool  `json:"success,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*v = Verification(p.plain)
	if v.Verified == nil {
		if p.Valid != nil {
			v.Verified = p.Valid
		} else if p.IsValid != nil {
			v.Verified = p.IsValid
		}
	}
	if v.Message == "" {
		v.Message = p.Error
	}
	v.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// Outcome prefers an explicit verified flag, then a recognised status word.
func (v *Verification) Outcome() Outcome {
	if v == nil {
		return OutcomeInconclusive
	}
	if v.Verified != nil {
		if *v.Verified {
			return OutcomeAuthentic
		}
		return OutcomeModified
	}
	switch strings.ToLower(strings.TrimSpace(v.Status)) {
	case "verified", "valid", "authentic", "anchored":
		return OutcomeAuthentic
	case "modified", "tampered", "invalid", "mismatch", "rejected":
		return OutcomeModified
	}
	return OutcomeInconclusive
}
