package soap

import (
	"strings"

	"github.com/uniclear/clearance/pkg/value"
)

// Operation describes a remote operation and the parameters it requires.
type Operation struct {
	Name        string
	Description string
	Required    []string
}

var operations = []Operation{
	{Name: "CheckStatus", Description: "Check an applicant's admission status", Required: []string{"f4indexno"}},
	{Name: "AddApplicant", Description: "Register an applicant", Required: []string{"f4indexno", "f6indexno", "Category"}},
	{Name: "SubmitProgramme", Description: "Submit an applicant's selected programme", Required: []string{"f4indexno", "ProgrammeCode"}},
	{Name: "ConfirmAdmission", Description: "Confirm an admission with the applicant's code", Required: []string{"f4indexno", "ConfirmationCode"}},
	{Name: "UnconfirmAdmission", Description: "Withdraw a confirmed admission", Required: []string{"f4indexno", "ConfirmationCode"}},
	{Name: "RequestConfirmationCode", Description: "Send a confirmation code to the applicant", Required: []string{"f4indexno", "MobileNumber", "EmailAddress"}},
	{Name: "ResubmitApplicant", Description: "Re-submit an applicant after correction", Required: []string{"f4indexno", "ProgrammeCode"}},
	{Name: "CancelAdmission", Description: "Cancel an admission", Required: []string{"f4indexno", "ProgrammeCode"}},
	{Name: "RestoreCancelledAdmission", Description: "Restore a cancelled admission", Required: []string{"f4indexno", "ProgrammeCode"}},
	{Name: "GetAdmitted", Description: "List admitted applicants for a programme", Required: []string{"ProgrammeCode"}},
	{Name: "GetConfirmed", Description: "List confirmed applicants for a programme", Required: []string{"ProgrammeCode"}},
	{Name: "GetApplicantVerificationStatus", Description: "List verification results for a programme", Required: []string{"ProgrammeCode"}},
	{Name: "GetProgrammes", Description: "List the institution's programmes"},
	{Name: "PopulateDashboard", Description: "Report applicant counts for a programme", Required: []string{"ProgrammeCode", "Males", "Females"}},
}

// Operations returns the catalog in declaration order.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	for i, op := range operations {
		out[i] = op
		out[i].Required = append([]string(nil), op.Required...)
	}
	return out
}

// LookupOperation finds an operation by name, ignoring case.
func LookupOperation(name string) (Operation, bool) {
	for _, op := range operations {
		if strings.EqualFold(op.Name, name) {
			return op, true
		}
	}
	return Operation{}, false
}

// Check returns a BuildError naming the first required parameter that is
// absent or blank in params.
func (o Operation) Check(params *value.Map) error {
	for _, field := range o.Required {
		v, ok := params.Get(field)
		if !ok || (v.IsScalar() && strings.TrimSpace(v.Text()) == "") {
			return &BuildError{
				Field:   field,
				Message: "required by " + o.Name,
			}
		}
	}
	return nil
}
