package validation

import (
	"mime"
	"strings"
)

const (
	TypePDF  = "application/pdf"
	TypeJPEG = "image/jpeg"
	TypeJPG  = "image/jpg"
	TypePNG  = "image/png"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	DefaultGeneralMaxSize  int64 = 25 * 1024 * 1024
	DefaultIdentityMaxSize int64 = 10 * 1024 * 1024
)

// Policy is an allow-list of MIME types plus a size ceiling in bytes.
type Policy struct {
	Name         string
	AllowedTypes []string
	MaxSize      int64
	// Formats is the human-readable list shown in rejection messages.
	Formats string
}

func GeneralPolicy(maxSize int64) Policy {
	return Policy{
		Name:         "general",
		AllowedTypes: []string{TypePDF, TypeJPEG, TypePNG, TypeDOCX},
		MaxSize:      maxSize,
		Formats:      "PDF, JPG, PNG, DOCX",
	}
}

func IdentityPolicy(maxSize int64) Policy {
	return Policy{
		Name:         "identity",
		AllowedTypes: []string{TypeJPEG, TypeJPG, TypePNG, TypePDF},
		MaxSize:      maxSize,
		Formats:      "JPG, PNG, PDF",
	}
}

func (p Policy) allows(mimeType string) bool {
	for _, t := range p.AllowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// NormalizeType lowercases a MIME type and strips its parameters.
func NormalizeType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return strings.ToLower(t)
}
