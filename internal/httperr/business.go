package httperr

import "errors"

// BusinessError is a precondition failure surfaced as a 400 with a
// machine-readable code and optional remediation details.
type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessWithDetails(code, message string, details map[string]any) error {
	return BusinessError{Code: code, Message: message, Details: details}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
