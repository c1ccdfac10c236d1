// Package client is the transport to the remote anchoring service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with three
//     operations: Submit, ListByUser and Reverify.
//  2. A concrete JSON-over-HTTPS implementation (see HTTPClient) that maps
//     responses onto typed results and errors.
//
// # Error Handling
//
// Network failures wrap ErrUnavailable. Non-2xx responses are returned as
// *StatusError carrying the body's "error" field when one is present. A
// successful HTTP exchange whose body reports success:false is not an error
// from Submit; callers check SubmitResult.Err, which yields *RejectedError
// (matching ErrRejected).
//
// No call is retried and no credential is attached; the user id in the
// payload is the only identity the service sees.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call honors ctx.
package client
