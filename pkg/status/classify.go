package status

import "sort"

// Category names a semantic outcome group.
type Category string

// Outcome categories.
const (
	CategorySuccess               Category = "success"
	CategoryError                 Category = "error"
	CategoryDuplicate             Category = "duplicate"
	CategoryNotFound              Category = "not_found"
	CategoryValidationError       Category = "validation_error"
	CategoryCapacityIssue         Category = "capacity_issue"
	CategoryAdmissionStatus       Category = "admission_status"
	CategoryAuthenticationFailure Category = "authentication_failure"
)

// Message returns the human-readable message for code, or UnknownMessage.
func Message(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return UnknownMessage
}

// Known reports whether code is in the registry.
func Known(code int) bool {
	_, ok := messages[code]
	return ok
}

// IsSuccess reports membership in the success set. It is not a range test.
func IsSuccess(code int) bool { return successCodes.has(code) }

// IsError reports whether code is not a success. This is the authoritative
// error predicate; ErrorCodes is a narrower list kept for reporting.
func IsError(code int) bool { return !IsSuccess(code) }

// IsDuplicate reports membership in the duplicate set.
func IsDuplicate(code int) bool { return duplicateCodes.has(code) }

// IsNotFound reports membership in the not-found set.
func IsNotFound(code int) bool { return notFoundCodes.has(code) }

// IsValidationError reports membership in the validation-error set.
func IsValidationError(code int) bool { return validationErrorCodes.has(code) }

// IsCapacityIssue reports membership in the capacity-issue set.
func IsCapacityIssue(code int) bool { return capacityIssueCodes.has(code) }

// IsAdmissionStatus reports membership in the admission-status set.
func IsAdmissionStatus(code int) bool { return admissionStatusCodes.has(code) }

// IsAuthenticationFailure reports whether code means the session token was
// rejected.
func IsAuthenticationFailure(code int) bool { return authenticationFailureCodes.has(code) }

// Codes returns every registered code in ascending order.
func Codes() []int {
	out := make([]int, 0, len(messages))
	for c := range messages {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// SuccessCodes returns the success set in ascending order.
func SuccessCodes() []int { return successCodes.sorted() }

// ErrorCodes returns the enumerated error codes in ascending order. The list
// omits some non-success codes (CodeAlreadyAdmitted among them), so it must
// not be used to decide whether a code is an error; use IsError.
func ErrorCodes() []int { return errorCodes.sorted() }

// DuplicateCodes returns the duplicate set in ascending order.
func DuplicateCodes() []int { return duplicateCodes.sorted() }

// NotFoundCodes returns the not-found set in ascending order.
func NotFoundCodes() []int { return notFoundCodes.sorted() }

// ValidationErrorCodes returns the validation-error set in ascending order.
func ValidationErrorCodes() []int { return validationErrorCodes.sorted() }

// CapacityIssueCodes returns the capacity-issue set in ascending order.
func CapacityIssueCodes() []int { return capacityIssueCodes.sorted() }

// AdmissionStatusCodes returns the admission-status set in ascending order.
func AdmissionStatusCodes() []int { return admissionStatusCodes.sorted() }

// AuthenticationFailureCodes returns the authentication-failure set in
// ascending order.
func AuthenticationFailureCodes() []int { return authenticationFailureCodes.sorted() }

func (s codeSet) sorted() []int {
	out := make([]int, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// Classification is the full annotation of a status code.
type Classification struct {
	Code                  int    `json:"code"`
	Message               string `json:"message"`
	Known                 bool   `json:"known"`
	Success               bool   `json:"success"`
	Error                 bool   `json:"error"`
	Duplicate             bool   `json:"duplicate"`
	NotFound              bool   `json:"notFound"`
	ValidationError       bool   `json:"validationError"`
	CapacityIssue         bool   `json:"capacityIssue"`
	AdmissionStatus       bool   `json:"admissionStatus"`
	AuthenticationFailure bool   `json:"authenticationFailure"`
}

// Classify evaluates every predicate for code.
func Classify(code int) Classification {
	return Classification{
		Code:                  code,
		Message:               Message(code),
		Known:                 Known(code),
		Success:               IsSuccess(code),
		Error:                 IsError(code),
		Duplicate:             IsDuplicate(code),
		NotFound:              IsNotFound(code),
		ValidationError:       IsValidationError(code),
		CapacityIssue:         IsCapacityIssue(code),
		AdmissionStatus:       IsAdmissionStatus(code),
		AuthenticationFailure: IsAuthenticationFailure(code),
	}
}

// Categories lists the categories that apply, success or error first.
func (c Classification) Categories() []Category {
	var out []Category
	if c.Success {
		out = append(out, CategorySuccess)
	}
	if c.Error {
		out = append(out, CategoryError)
	}
	if c.Duplicate {
		out = append(out, CategoryDuplicate)
	}
	if c.NotFound {
		out = append(out, CategoryNotFound)
	}
	if c.ValidationError {
		out = append(out, CategoryValidationError)
	}
	if c.CapacityIssue {
		out = append(out, CategoryCapacityIssue)
	}
	if c.AdmissionStatus {
		out = append(out, CategoryAdmissionStatus)
	}
	if c.AuthenticationFailure {
		out = append(out, CategoryAuthenticationFailure)
	}
	return out
}

// Has reports whether category applies.
func (c Classification) Has(category Category) bool {
	for _, got := range c.Categories() {
		if got == category {
			return true
		}
	}
	return false
}
