package extraction

import "fmt"

// FailureKind classifies why a document could not be turned into a profile
type FailureKind string

const (
	// KindInvalidInput means the payload could not be decoded or was empty
	KindInvalidInput FailureKind = "invalid_input"
	// KindUnsupportedMediaType means the file format is not accepted
	KindUnsupportedMediaType FailureKind = "unsupported_media_type"
	// KindModel means the generation call failed
	KindModel FailureKind = "model_failure"
	// KindInvalidOutput means the model output did not conform to the profile schema
	KindInvalidOutput FailureKind = "invalid_output"
)

// ExtractionFailure is returned for every extraction error
type ExtractionFailure struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *ExtractionFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed (%s): %s", e.Kind, e.Message)
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Cause
}

// ClientError reports whether the failure was caused by the uploaded file
// rather than by the model.
func (e *ExtractionFailure) ClientError() bool {
	return e.Kind == KindInvalidInput || e.Kind == KindUnsupportedMediaType
}

func failure(kind FailureKind, msg string, cause error) *ExtractionFailure {
	return &ExtractionFailure{Kind: kind, Message: msg, Cause: cause}
}
