package soap

import (
	"strings"

	"github.com/beevik/etree"
)

// Validator checks the structural sections of request and response XML.
//
// Each Validate* call clears the accumulator, parses its input once, runs
// every check even after a failure, and returns the accumulated messages.
// The accumulator stays readable through HasErrors and Errors until the
// next Validate* or ClearErrors call.
//
// A Validator is not safe for concurrent use. Use one instance per call or
// guard a shared instance with a mutex.
type Validator struct {
	errs []string
}

// NewValidator returns a Validator with an empty accumulator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateEnvelope checks for the Envelope root and its Header and Body
// sections. Header and Body count only as direct children of the root.
func (v *Validator) ValidateEnvelope(xml string) (bool, []string) {
	v.ClearErrors()
	doc, ok := v.load(xml)
	if !ok {
		return v.result()
	}

	root := doc.Root()
	if !strings.EqualFold(root.Tag, EnvelopeElement) {
		v.missing(EnvelopeElement, "element")
	}
	if childByTag(root, HeaderElement) == nil {
		v.missing(HeaderElement, "section")
	}
	if childByTag(root, BodyElement) == nil {
		v.missing(BodyElement, "section")
	}
	return v.result()
}

// ValidateAuthSection checks for the auth block and the Username and
// SessionToken elements directly inside it.
func (v *Validator) ValidateAuthSection(xml string) (bool, []string) {
	v.ClearErrors()
	doc, ok := v.load(xml)
	if !ok {
		return v.result()
	}

	auth := find(doc, AuthElement)
	if auth == nil {
		v.missing(AuthElement, "block")
	}
	for _, tag := range []string{UsernameElement, SessionTokenElement} {
		if auth == nil || childByTag(auth, tag) == nil {
			v.missing(tag, "element")
		}
	}
	return v.result()
}

// ValidateParameterSection checks for the RequestParameters container.
func (v *Validator) ValidateParameterSection(xml string) (bool, []string) {
	v.ClearErrors()
	doc, ok := v.load(xml)
	if !ok {
		return v.result()
	}

	v.require(doc, RequestParametersElement, "section")
	return v.result()
}

// ValidateResponseSection checks for a ResponseParameters container or, at
// minimum, a status code element under any of its aliases.
func (v *Validator) ValidateResponseSection(xml string) (bool, []string) {
	v.ClearErrors()
	doc, ok := v.load(xml)
	if !ok {
		return v.result()
	}

	if find(doc, ResponseParametersElement) != nil {
		return v.result()
	}
	for _, key := range responseAliases.Keys(FieldStatusCode) {
		if find(doc, key) != nil {
			return v.result()
		}
	}
	v.errs = append(v.errs, "missing "+ResponseParametersElement+" section or StatusCode element")
	return v.result()
}

// HasErrors reports whether the accumulator holds any errors.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Errors returns a copy of the accumulated errors.
func (v *Validator) Errors() []string {
	if len(v.errs) == 0 {
		return nil
	}
	out := make([]string, len(v.errs))
	copy(out, v.errs)
	return out
}

// ClearErrors empties the accumulator.
func (v *Validator) ClearErrors() {
	v.errs = v.errs[:0]
}

// Err converts the accumulator into a *ValidationError carrying every
// message, or returns nil when it is empty.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return &ValidationError{Errors: v.Errors()}
}

// load parses xml once. Parse failures are recorded as a single error.
func (v *Validator) load(xml string) (*etree.Document, bool) {
	if strings.TrimSpace(xml) == "" {
		v.errs = append(v.errs, "empty XML document")
		return nil, false
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		v.errs = append(v.errs, "malformed XML: "+err.Error())
		return nil, false
	}
	if doc.Root() == nil {
		v.errs = append(v.errs, "empty XML document")
		return nil, false
	}
	return doc, true
}

func (v *Validator) require(doc *etree.Document, tag, kind string) {
	if find(doc, tag) == nil {
		v.missing(tag, kind)
	}
}

func (v *Validator) missing(tag, kind string) {
	v.errs = append(v.errs, "missing "+tag+" "+kind)
}

func (v *Validator) result() (bool, []string) {
	return !v.HasErrors(), v.Errors()
}
