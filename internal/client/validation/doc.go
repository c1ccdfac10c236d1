// Package validation decides whether a candidate file may enter the upload
// pipeline. Decisions use only the declared name, MIME type and size, so a
// rejected file is never read, hashed or sent.
//
// Two policies exist side by side: the general document flow (PDF, JPEG, PNG,
// DOCX up to 25 MiB by default) and the identity document flow (JPEG, PNG,
// PDF up to 10 MiB by default). Their ceilings are configured separately.
package validation
