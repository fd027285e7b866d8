package printing

import (
	"encoding/base64"
	"mime"
	"strings"
)

// DefaultImageType is assumed when an upload declares no content type.
const DefaultImageType = "image/jpeg"

// ImageFile is an uploaded image.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsEmpty reports whether the upload carried no content.
func (f ImageFile) IsEmpty() bool {
	return len(f.Data) == 0
}

// DeclaredType returns the declared content type without parameters, or ""
// when none was declared.
func (f ImageFile) DeclaredType() string {
	declared := strings.TrimSpace(f.ContentType)
	if declared == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		return mediaType
	}
	return strings.ToLower(declared)
}

// MediaType is the type used when embedding the image: the declared type,
// or DefaultImageType when none was declared.
func (f ImageFile) MediaType() string {
	if declared := f.DeclaredType(); declared != "" {
		return declared
	}
	return DefaultImageType
}

// ToDataURL encodes the image as data:<type>;base64,<payload>.
func ToDataURL(f ImageFile) string {
	return "data:" + f.MediaType() + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// EncodeImages converts the non-empty uploads to data URLs, in order.
func EncodeImages(files []ImageFile) []string {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsEmpty() {
			continue
		}
		urls = append(urls, ToDataURL(f))
	}
	return urls
}

// CountNonEmpty returns how many uploads carry content.
func CountNonEmpty(files []ImageFile) int {
	n := 0
	for _, f := range files {
		if !f.IsEmpty() {
			n++
		}
	}
	return n
}
