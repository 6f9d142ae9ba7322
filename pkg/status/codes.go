package status

// Response codes returned by the clearance authority.
const (
	CodeSuccess                     = 200
	CodePriorAdmission              = 201
	CodeClear                       = 202
	CodeAlreadyAdmitted             = 203
	CodeSessionTokenNotFound        = 204
	CodeMalformedRequest            = 205
	CodeEmptyIndexNumber            = 206
	CodeOperationFail               = 207
	CodeDuplicateRecord             = 208
	CodeResubmitted                 = 209
	CodeNotFound                    = 210
	CodeMandatoryParameters         = 211
	CodeConfirmed                   = 212
	CodeConfirmedOtherInstitution   = 213
	CodeConfirmedYourInstitution    = 214
	CodeNoMultipleAdmission         = 215
	CodeProgrammeCapacityFull       = 216
	CodeInvalidConfirmationCode     = 217
	CodeUnconfirmed                 = 218
	CodeOperationFailed             = 219
	CodeNotConfirmed                = 220
	CodeUnconfirmFailed             = 221
	CodeConfirmationCodeEmailed     = 222
	CodeConfirmationCodeEmailSMS    = 223
	CodeNoAdmissionFound            = 224
	CodeMultipleAdmission           = 225
	CodeSingleAdmission             = 226
	CodeOperationNotAllowed         = 227
	CodeNotCancelledHere            = 228
	CodeNotCancelledAnywhere        = 229
	CodeAdmissionRestored           = 230
	CodeApplicantCleared            = 231
	CodeApplicantNotCleared         = 232
	CodeConfirmedInThisProgramme    = 233
	CodeConfirmedToOtherInstitution = 234
)

// UnknownMessage is returned by Message for codes outside the registry.
const UnknownMessage = "Unknown response code"

// messages is the authoritative code table.
var messages = map[int]string{
	CodeSuccess:                     "Success",
	CodePriorAdmission:              "Prior admission",
	CodeClear:                       "Clear",
	CodeAlreadyAdmitted:             "Already admitted",
	CodeSessionTokenNotFound:        "Session token does not exist",
	CodeMalformedRequest:            "Malformed XML request",
	CodeEmptyIndexNumber:            "Empty F4 index number",
	CodeOperationFail:               "Operation fail",
	CodeDuplicateRecord:             "Duplicate record",
	CodeResubmitted:                 "Re-submitted successful",
	CodeNotFound:                    "Not found",
	CodeMandatoryParameters:         "Mandatory parameters",
	CodeConfirmed:                   "Confirmed successful",
	CodeConfirmedOtherInstitution:   "Confirm to other institution",
	CodeConfirmedYourInstitution:    "Confirm to your institution",
	CodeNoMultipleAdmission:         "No multiple admission",
	CodeProgrammeCapacityFull:       "Programme capacity full",
	CodeInvalidConfirmationCode:     "Invalid confirmation code",
	CodeUnconfirmed:                 "Unconfirmed successfully",
	CodeOperationFailed:             "Operation failed",
	CodeNotConfirmed:                "Not confirmed",
	CodeUnconfirmFailed:             "Failed to un-confirm",
	CodeConfirmationCodeEmailed:     "Confirmation code sent to email",
	CodeConfirmationCodeEmailSMS:    "Confirmation code sent to email and SMS",
	CodeNoAdmissionFound:            "No admission found",
	CodeMultipleAdmission:           "Multiple admission",
	CodeSingleAdmission:             "Single admission",
	CodeOperationNotAllowed:         "Operation not allowed",
	CodeNotCancelledHere:            "Not cancelled here",
	CodeNotCancelledAnywhere:        "Not cancelled anywhere",
	CodeAdmissionRestored:           "Admission restored",
	CodeApplicantCleared:            "Applicant cleared",
	CodeApplicantNotCleared:         "Applicant not cleared",
	CodeConfirmedInThisProgramme:    "Confirmed admission in this programme",
	CodeConfirmedToOtherInstitution: "Confirmed admission to other institution",
}

// Category sets. Sets overlap: a code may be both a success and an
// admission status, or both an error and a duplicate.
var (
	successCodes = newCodeSet(
		CodeSuccess,
		CodeClear,
		CodeResubmitted,
		CodeConfirmed,
		CodeUnconfirmed,
		CodeConfirmationCodeEmailed,
		CodeConfirmationCodeEmailSMS,
		CodeSingleAdmission,
		CodeAdmissionRestored,
		CodeApplicantCleared,
	)

	// errorCodes is an enumeration for reporting only. It is narrower than
	// the complement of successCodes: admission-status codes such as
	// CodeAlreadyAdmitted are in neither set. IsError does not consult it.
	errorCodes = newCodeSet(
		CodeSessionTokenNotFound,
		CodeMalformedRequest,
		CodeEmptyIndexNumber,
		CodeOperationFail,
		CodeDuplicateRecord,
		CodeNotFound,
		CodeMandatoryParameters,
		CodeNoMultipleAdmission,
		CodeProgrammeCapacityFull,
		CodeInvalidConfirmationCode,
		CodeOperationFailed,
		CodeNotConfirmed,
		CodeUnconfirmFailed,
		CodeNoAdmissionFound,
		CodeOperationNotAllowed,
		CodeNotCancelledHere,
		CodeNotCancelledAnywhere,
		CodeApplicantNotCleared,
	)

	duplicateCodes = newCodeSet(
		CodeAlreadyAdmitted,
		CodeDuplicateRecord,
		CodeNoMultipleAdmission,
	)

	notFoundCodes = newCodeSet(
		CodeNotFound,
		CodeNoAdmissionFound,
	)

	validationErrorCodes = newCodeSet(
		CodeMalformedRequest,
		CodeEmptyIndexNumber,
		CodeMandatoryParameters,
		CodeInvalidConfirmationCode,
	)

	capacityIssueCodes = newCodeSet(
		CodeProgrammeCapacityFull,
	)

	admissionStatusCodes = newCodeSet(
		CodePriorAdmission,
		CodeAlreadyAdmitted,
		CodeConfirmedOtherInstitution,
		CodeConfirmedYourInstitution,
		CodeMultipleAdmission,
		CodeSingleAdmission,
		CodeConfirmedInThisProgramme,
		CodeConfirmedToOtherInstitution,
	)

	authenticationFailureCodes = newCodeSet(
		CodeSessionTokenNotFound,
	)
)

type codeSet map[int]struct{}

func newCodeSet(codes ...int) codeSet {
	s := make(codeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s codeSet) has(code int) bool {
	_, ok := s[code]
	return ok
}
