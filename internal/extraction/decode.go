package extraction

import (
	"encoding/base64"
	"mime"
	"path/filepath"
	"strings"
)

// Media types accepted for upload
const (
	MediaTypePDF      = "application/pdf"
	MediaTypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText     = "text/plain"
	MediaTypeMarkdown = "text/markdown"
	MediaTypeHTML     = "text/html"
	MediaTypePNG      = "image/png"
	MediaTypeJPEG     = "image/jpeg"
	MediaTypeWebP     = "image/webp"
)

var extensionTypes = map[string]string{
	".pdf":      MediaTypePDF,
	".docx":     MediaTypeDOCX,
	".txt":      MediaTypeText,
	".md":       MediaTypeMarkdown,
	".markdown": MediaTypeMarkdown,
	".html":     MediaTypeHTML,
	".htm":      MediaTypeHTML,
	".png":      MediaTypePNG,
	".jpg":      MediaTypeJPEG,
	".jpeg":     MediaTypeJPEG,
	".webp":     MediaTypeWebP,
}

// imageTypes are sent to the model as-is; there is no text layer to read locally.
var imageTypes = map[string]bool{
	MediaTypePNG:  true,
	MediaTypeJPEG: true,
	MediaTypeWebP: true,
}

// DecodeData decodes a base64 payload. Both alphabets are accepted, with or
// without padding, and a leading data: URL header is ignored.
func DecodeData(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, ","); idx >= 0 {
			data = data[idx+1:]
		}
	}
	data = strings.Join(strings.Fields(data), "")

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		decoded, err := enc.DecodeString(data)
		if err == nil {
			return decoded, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// ResolveMediaType returns the canonical media type of an upload, preferring
// the declared type and falling back to the filename extension. An empty
// result means the format is not supported.
func ResolveMediaType(declared, filename string) string {
	if declared != "" {
		if parsed, _, err := mime.ParseMediaType(declared); err == nil {
			declared = parsed
		}
		declared = strings.ToLower(declared)
		switch declared {
		case MediaTypePDF, MediaTypeDOCX, MediaTypeText, MediaTypeMarkdown, MediaTypeHTML,
			MediaTypePNG, MediaTypeJPEG, MediaTypeWebP:
			return declared
		case "text/x-markdown":
			return MediaTypeMarkdown
		case "image/jpg":
			return MediaTypeJPEG
		}
	}

	return extensionTypes[strings.ToLower(filepath.Ext(filename))]
}
