// Package publish stores rendered resumes in object storage and returns their
// public URLs.
package publish

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ContentTypeHTML is the content type of published resumes
const ContentTypeHTML = "text/html"

// Publisher uploads an artifact and returns a publicly retrievable URL
type Publisher interface {
	Publish(ctx context.Context, fileName, contentType string, body []byte) (string, error)
}

// PublishFailure is returned when an upload does not complete
type PublishFailure struct {
	FileName string
	Cause    error
}

func (e *PublishFailure) Error() string {
	return fmt.Sprintf("failed to publish %s: %v", e.FileName, e.Cause)
}

func (e *PublishFailure) Unwrap() error {
	return e.Cause
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName builds the object name for a resume tailored to company:
// resume-<company with whitespace runs as dashes>-<unix millis>.html
func FileName(company string, now time.Time) string {
	company = whitespaceRun.ReplaceAllString(company, "-")
	return "resume-" + company + "-" + strconv.FormatInt(now.UnixMilli(), 10) + ".html"
}

// objectKey joins an optional prefix and a file name
func objectKey(prefix, fileName string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fileName
	}
	return prefix + "/" + fileName
}
