package errs

import "errors"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// GenerationError reports that the generation service call did not complete.
type GenerationError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedResponseError reports generated text that is not a usable JSON object.
type MalformedResponseError struct {
	ErrorMessage
	Err error
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

type EmptyDatasetError struct {
	ErrorMessage
}

type MissingColumnsError struct {
	ErrorMessage
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewGenerationError(service string, transient bool, message string, err error) *GenerationError {
	return &GenerationError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}

func NewMalformedResponseError(message string, err error) *MalformedResponseError {
	return &MalformedResponseError{
		ErrorMessage: ErrorMessage{Message: message},
		Err:          err,
	}
}

func NewEmptyDatasetError(message string) *EmptyDatasetError {
	return &EmptyDatasetError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewMissingColumnsError() *MissingColumnsError {
	return &MissingColumnsError{
		ErrorMessage: ErrorMessage{Message: "table visualization requires columns"},
	}
}

// Kind names the error for logging. Wrapped errors are classified by the
// first typed error in their chain.
func Kind(err error) string {
	var (
		notFound   *NotFoundError
		validation *ValidationError
		generation *GenerationError
		malformed  *MalformedResponseError
		empty      *EmptyDatasetError
		columns    *MissingColumnsError
	)
	switch {
	case err == nil:
		return "unknown"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &generation):
		return "generation_failure"
	case errors.As(err, &malformed):
		return "malformed_response"
	case errors.As(err, &empty):
		return "empty_dataset"
	case errors.As(err, &columns):
		return "missing_columns"
	default:
		return "unknown"
	}
}
