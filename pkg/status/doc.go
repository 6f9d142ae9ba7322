// Package status is the registry of response codes returned by the
// clearance authority and the predicates that classify them.
//
// The registry is built once at package initialization and never mutated,
// so every function here is safe for concurrent use. No other package
// assigns meaning to a numeric code.
//
// Categories overlap. CodeSingleAdmission is both a success and an
// admission status; CodeDuplicateRecord is both a duplicate and an error.
//
// IsError is defined as !IsSuccess. ErrorCodes is a separate, narrower
// enumeration used for reporting: CodeAlreadyAdmitted is neither a success
// nor listed in ErrorCodes, yet IsError(CodeAlreadyAdmitted) is true.
package status
