// Package payload converts file content to and from the base64 data URL
// carried in the anchoring service's JSON upload envelope.
package payload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const defaultMIMEType = "application/octet-stream"

var ErrMalformedDataURL = errors.New("malformed data url")

// EncodeDataURL returns "data:<mime>;base64,<content>".
func EncodeDataURL(mimeType string, content []byte) string {
	if mimeType == "" {
		mimeType = defaultMIMEType
	}

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(content)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(content))
	return b.String()
}

// DecodeDataURL reverses EncodeDataURL. Only base64 data URLs are accepted.
func DecodeDataURL(s string) (mimeType string, content []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: prefix", ErrMalformedDataURL)
	}

	header, data, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing comma", ErrMalformedDataURL)
	}

	mimeType, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: not base64 encoded", ErrMalformedDataURL)
	}
	if mimeType == "" {
		mimeType = defaultMIMEType
	}

	content, err = base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedDataURL, err)
	}
	return mimeType, content, nil
}
