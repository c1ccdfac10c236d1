package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/docanchor/internal/logging"
	"github.com/dmitrijs2005/docanchor/internal/netx"
)

// HTTPClient talks to the anchoring service over JSON/HTTPS.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	timeout    time.Duration
	hasTimeout bool
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. The client passed in
// is never modified.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout bounds every request; zero disables the bound. It applies to
// a copy of the *http.Client, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		h.timeout = d
		h.hasTimeout = true
	}
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(h)
	}
	if h.hasTimeout {
		hc := *h.http
		hc.Timeout = h.timeout
		h.http = &hc
	}
	return h
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	body := submitBody{
		UserID:   req.UserID,
		FileName: req.FileName,
		File:     req.EncodedContent,
		MIMEType: req.MIMEType,
	}

	var res SubmitResult
	err := netx.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+"/upload", body, &res, req.OnProgress)
	if err != nil {
		return nil, c.mapError(ctx, "submit", err)
	}

	c.log.Debug(ctx, "submit finished", "file", req.FileName, "success", res.Success)
	return &res, nil
}

func (c *HTTPClient) ListByUser(ctx context.Context, userID string) ([]RemoteDocument, error) {
	var res listResponse
	err := netx.DoJSON(ctx, c.http, http.MethodGet, c.baseURL+"/user/"+url.PathEscape(userID), nil, &res, nil)
	if err != nil {
		return nil, c.mapError(ctx, "list", err)
	}
	if res.Documents == nil {
		return []RemoteDocument{}, nil
	}
	return res.Documents, nil
}

func (c *HTTPClient) Reverify(ctx context.Context, ledgerFileID string) (*Verification, error) {
	var res Verification
	err := netx.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+"/verify/"+url.PathEscape(ledgerFileID), nil, &res, nil)
	if err != nil {
		return nil, c.mapError(ctx, "verify", err)
	}
	return &res, nil
}

func (c *HTTPClient) mapError(ctx context.Context, op string, err error) error {
	var se *netx.StatusError
	if errors.As(err, &se) {
		msg := http.StatusText(se.Code)
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(se.Body, &body) == nil {
			if body.Error != "" {
				msg = body.Error
			} else if body.Message != "" {
				msg = body.Message
			}
		}
		c.log.Warn(ctx, "request failed", "op", op, "status", se.Code, "error", msg)
		return &StatusError{Code: se.Code, Message: msg}
	}

	var te *netx.TransportError
	if errors.As(err, &te) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn(ctx, "server unreachable", "op", op, "error", te.Err)
		return errors.Join(ErrUnavailable, te.Err)
	}

	return err
}
