package soap

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/uniclear/clearance/pkg/credential"
	"github.com/uniclear/clearance/pkg/logging"
	"github.com/uniclear/clearance/pkg/value"
)

// Builder serializes a credential and a parameter tree into a request
// envelope. A Builder holds no per-call state and is safe for concurrent use.
type Builder struct {
	now    func() time.Time
	logger *slog.Logger
	indent int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock sets the time source for the header Timestamp.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// WithBuilderLogger sets the logger used for dropped-key diagnostics.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// WithIndent pretty-prints the envelope with the given number of spaces.
func WithIndent(spaces int) BuilderOption {
	return func(b *Builder) { b.indent = spaces }
}

// NewBuilder creates a Builder. Without options it stamps the current time,
// logs nothing and writes compact XML.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		now:    time.Now,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.Nop()
	}
	return b
}

// Build returns the request envelope for cred and params.
//
// params must be a map; an empty scalar is accepted as "no parameters".
// Map keys become element names after value.SanitizeName with
// value.ParamPrefix. When two keys sanitize to the same name the first one
// wins and later ones are dropped.
func (b *Builder) Build(cred credential.Credential, params value.Value) (string, error) {
	if err := cred.Validate(); err != nil {
		return "", &BuildError{Message: "invalid credential", Err: err}
	}

	m, err := paramMap(params)
	if err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = true
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement(EnvelopePrefix + ":" + EnvelopeElement)
	env.CreateAttr("xmlns:"+EnvelopePrefix, SOAP11Namespace)

	header := env.CreateElement(EnvelopePrefix + ":" + HeaderElement)
	auth := header.CreateElement(AuthElement)
	b.writeMap(auth, cred.AuthFragment().Map(), value.ParamPrefix)
	auth.CreateElement(TimestampElement).SetText(b.now().UTC().Format(TimestampLayout))

	body := env.CreateElement(EnvelopePrefix + ":" + BodyElement)
	b.writeMap(body.CreateElement(RequestParametersElement), m, value.ParamPrefix)

	if b.indent > 0 {
		doc.Indent(b.indent)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", &BuildError{Message: "failed to serialize envelope", Err: err}
	}
	return out, nil
}

// BuildOperation checks params against the catalog entry for op, adds the
// Operation parameter when absent, and builds the envelope.
func (b *Builder) BuildOperation(cred credential.Credential, op string, params value.Value) (string, error) {
	def, ok := LookupOperation(op)
	if !ok {
		return "", &BuildError{Field: OperationElement, Message: "unknown operation " + op}
	}

	m, err := paramMap(params)
	if err != nil {
		return "", err
	}

	if !m.Has(OperationElement) {
		withOp := value.NewMap().SetText(OperationElement, def.Name)
		m.Range(func(k string, v value.Value) bool {
			withOp.Set(k, v)
			return true
		})
		m = withOp
	}

	if err := def.Check(m); err != nil {
		return "", err
	}

	return b.Build(cred, value.FromMap(m))
}

// paramMap returns a copy of the parameter map, so callers' trees are never
// modified.
func paramMap(params value.Value) (*value.Map, error) {
	switch {
	case params.IsMap():
		return params.Map().Clone(), nil
	case params.IsScalar() && params.Text() == "":
		return value.NewMap(), nil
	default:
		return nil, &BuildError{Message: "parameters must be a map, got " + params.Kind().String()}
	}
}

// writeMap emits m under parent. prefix is passed to value.SanitizeName:
// ParamPrefix for requests, ElementPrefix for responses.
func (b *Builder) writeMap(parent *etree.Element, m *value.Map, prefix string) {
	seen := make(map[string]string, m.Len())
	m.Range(func(key string, v value.Value) bool {
		name := value.SanitizeName(key, prefix)
		if kept, dup := seen[name]; dup {
			b.logger.Debug("dropping parameter with colliding element name",
				"key", key, "element", name, "kept", kept)
			return true
		}
		seen[name] = key
		b.writeNamed(parent, name, v, prefix)
		return true
	})
}

// writeNamed emits v under name. Lists repeat name once per item, so nested
// lists flatten into siblings.
func (b *Builder) writeNamed(parent *etree.Element, name string, v value.Value, prefix string) {
	switch v.Kind() {
	case value.KindList:
		for _, item := range v.Items() {
			b.writeNamed(parent, name, item, prefix)
		}
	case value.KindMap:
		b.writeMap(parent.CreateElement(name), v.Map(), prefix)
	default:
		parent.CreateElement(name).SetText(v.Text())
	}
}

// BuildResponse serializes resp as the authority would answer op: the
// canonical fields first under their primary names, then resp.Data. It
// serves fake authorities in tests and tooling.
func (b *Builder) BuildResponse(op string, resp *Response) (string, error) {
	data := value.NewMap()
	if resp.IndexID != "" {
		data.SetText(responseAliases.Keys(FieldIndexID)[0], resp.IndexID)
	}
	data.SetText(responseAliases.Keys(FieldStatusCode)[0], strconv.Itoa(resp.StatusCode))
	if resp.StatusDescription != "" {
		data.SetText(responseAliases.Keys(FieldStatusDescription)[0], resp.StatusDescription)
	}
	if extra := resp.Data.Map(); extra != nil {
		extra.Range(func(k string, v value.Value) bool {
			if !data.Has(k) {
				data.Set(k, v)
			}
			return true
		})
	}

	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = true
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement(EnvelopePrefix + ":" + EnvelopeElement)
	env.CreateAttr("xmlns:"+EnvelopePrefix, SOAP11Namespace)
	body := env.CreateElement(EnvelopePrefix + ":" + BodyElement)
	wrapper := body.CreateElement(value.SanitizeName(op+"Response", value.ElementPrefix))
	b.writeMap(wrapper.CreateElement(ResponseParametersElement), data, value.ElementPrefix)

	if b.indent > 0 {
		doc.Indent(b.indent)
	}
	out, err := doc.WriteToString()
	if err != nil {
		return "", &BuildError{Message: "failed to serialize response", Err: err}
	}
	return out, nil
}
