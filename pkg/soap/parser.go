package soap

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/uniclear/clearance/pkg/logging"
	"github.com/uniclear/clearance/pkg/value"
)

// Parser decodes response XML into canonical records. A Parser holds no
// per-call state and is safe for concurrent use.
type Parser struct {
	now     func() time.Time
	logger  *slog.Logger
	aliases AliasTable
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserClock sets the time source for Response.Timestamp.
func WithParserClock(now func() time.Time) ParserOption {
	return func(p *Parser) { p.now = now }
}

// WithParserLogger sets the logger used for lenient-parse diagnostics.
func WithParserLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) { p.logger = logger }
}

// NewParser creates a Parser using the standard alias table.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		now:     time.Now,
		logger:  logging.Nop(),
		aliases: responseAliases,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.Nop()
	}
	return p
}

var defaultParser = NewParser()

// Parse decodes raw with the default parser.
func Parse(raw string) (*Response, error) {
	return defaultParser.Parse(raw)
}

// Parse decodes raw into a canonical record.
//
// An Envelope root is unwrapped to the single wrapper element inside Body.
// When Body holds several elements, or one leaf, Body itself is the payload.
// A bare payload is used as is. A payload whose only child is ResponseParameters is
// unwrapped once more. The payload's children are flattened into a map where
// repeated names become lists.
func (p *Parser) Parse(raw string) (*Response, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Raw: raw, Message: "empty response"}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return nil, &ParseError{Raw: raw, Message: "invalid XML", Err: err}
	}

	root := doc.Root()
	if root == nil {
		return nil, &ParseError{Raw: raw, Message: "no root element"}
	}

	payload, err := unwrapPayload(root)
	if err != nil {
		return nil, &ParseError{Raw: raw, Message: "no payload", Err: err}
	}

	flat := flatten(payload)
	data := flat.Map()
	if data == nil {
		// A leaf payload carries no named fields.
		data = value.NewMap()
	}

	resp := &Response{
		Raw:       raw,
		Timestamp: p.now().UTC(),
	}

	if key, v, ok := p.aliases.Resolve(data, FieldIndexID); ok {
		resp.IndexID = v.Text()
		data.Delete(key)
	}

	if key, v, ok := p.aliases.Resolve(data, FieldStatusCode); ok {
		code, convErr := strconv.Atoi(strings.TrimSpace(v.Text()))
		if convErr != nil {
			p.logger.Debug("unparsable status code", "key", key, "value", v.Text())
			code = 0
		}
		resp.StatusCode = code
		data.Delete(key)
	}

	if key, v, ok := p.aliases.Resolve(data, FieldStatusDescription); ok {
		resp.StatusDescription = v.Text()
		data.Delete(key)
	}

	resp.Data = value.FromMap(data)
	return resp, nil
}

// unwrapPayload strips transport framing and returns the response node.
func unwrapPayload(root *etree.Element) (*etree.Element, error) {
	payload := root
	if strings.EqualFold(root.Tag, EnvelopeElement) {
		body := childByTag(root, BodyElement)
		if body == nil {
			body = root.FindElement(".//" + BodyElement)
		}
		if body == nil {
			return nil, errors.New("envelope has no Body")
		}
		children := body.ChildElements()
		switch {
		case len(children) == 0:
			return nil, errors.New("empty Body element")
		case len(children) == 1 && (len(children[0].ChildElements()) > 0 || isContainer(children[0])):
			payload = children[0]
		default:
			// Fields placed directly under Body.
			payload = body
		}
	}

	if !strings.EqualFold(payload.Tag, ResponseParametersElement) {
		children := payload.ChildElements()
		if len(children) == 1 && strings.EqualFold(children[0].Tag, ResponseParametersElement) {
			payload = children[0]
		}
	}
	return payload, nil
}

// isContainer reports whether e is a parameter container, which stays the
// payload even when empty.
func isContainer(e *etree.Element) bool {
	return strings.EqualFold(e.Tag, ResponseParametersElement) ||
		strings.EqualFold(e.Tag, RequestParametersElement)
}

// flatten converts an element into a value tree. A leaf becomes its trimmed
// text; an element with children becomes a map keyed by local name.
func flatten(e *etree.Element) value.Value {
	children := e.ChildElements()
	if len(children) == 0 {
		return value.Scalar(strings.TrimSpace(charData(e)))
	}

	m := value.NewMap()
	for _, c := range children {
		key := value.SanitizeName(c.Tag, value.ElementPrefix)
		v := flatten(c)
		if existing, ok := m.Get(key); ok {
			// Child values are never lists, so an existing list means an
			// earlier repeat already promoted this key.
			m.Set(key, existing.Append(v))
			continue
		}
		m.Set(key, v)
	}
	return value.FromMap(m)
}

// charData concatenates the element's direct character data, skipping
// comments and processing instructions.
func charData(e *etree.Element) string {
	var b strings.Builder
	for _, t := range e.Child {
		if cd, ok := t.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return b.String()
}

func childByTag(e *etree.Element, tag string) *etree.Element {
	for _, c := range e.ChildElements() {
		if strings.EqualFold(c.Tag, tag) {
			return c
		}
	}
	return nil
}

// IsSuccessResponse parses raw and reports whether its status is a success.
// It returns false when raw cannot be parsed.
func IsSuccessResponse(raw string) bool {
	resp, err := Parse(raw)
	if err != nil {
		return false
	}
	return resp.IsSuccess()
}

// ExtractStatusCode parses raw and returns its status code, or -1 when raw
// cannot be parsed.
func ExtractStatusCode(raw string) int {
	resp, err := Parse(raw)
	if err != nil {
		return -1
	}
	return resp.StatusCode
}

// ExtractStatusDescription parses raw and returns its status description, or
// an explanation when raw cannot be parsed.
func ExtractStatusDescription(raw string) string {
	resp, err := Parse(raw)
	if err != nil {
		return "Unable to parse response: " + err.Error()
	}
	return resp.StatusDescription
}
