package soap

import (
	"strings"

	"github.com/beevik/etree"
)

// find locates the first element named tag anywhere in doc. Unprefixed
// paths match any namespace prefix, so "Body" finds soap:Body and
// SOAP-ENV:Body alike.
func find(doc *etree.Document, tag string) *etree.Element {
	return doc.FindElement("//" + tag)
}

// ExtractXPath returns the trimmed text at path in xml, or "" when xml does
// not parse or nothing matches.
//
// Supported path syntax is etree's:
//   - /path/to/element - absolute path
//   - //element - find anywhere in document
//   - /path/to/element/@attr - attribute value
//   - /path/to/element[1] - indexed access (1-based)
func ExtractXPath(xml, path string) string {
	doc, ok := readDocument(xml)
	if !ok || path == "" {
		return ""
	}
	return extract(doc, path)
}

func extract(doc *etree.Document, path string) string {
	if elem := findPath(doc, path); elem != nil {
		return strings.TrimSpace(elem.Text())
	}

	if elemPath, attrName, ok := strings.Cut(path, "/@"); ok {
		if elem := findPath(doc, elemPath); elem != nil {
			if attr := elem.SelectAttr(attrName); attr != nil {
				return attr.Value
			}
		}
	}
	return ""
}

// findPath is FindElement for caller-supplied paths, which may not compile.
func findPath(doc *etree.Document, path string) *etree.Element {
	compiled, err := etree.CompilePath(path)
	if err != nil {
		return nil
	}
	return doc.FindElementPath(compiled)
}

// FindAllByXPath returns the trimmed text of every element matching path.
func FindAllByXPath(xml, path string) []string {
	doc, ok := readDocument(xml)
	if !ok || path == "" {
		return nil
	}

	compiled, err := etree.CompilePath(path)
	if err != nil {
		return nil
	}
	elems := doc.FindElementsPath(compiled)
	if len(elems) == 0 {
		return nil
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = strings.TrimSpace(e.Text())
	}
	return out
}

// BuildXPath joins path segments into an absolute path.
func BuildXPath(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}

	var b strings.Builder
	for i, seg := range segments {
		if i == 0 && !strings.HasPrefix(seg, "/") {
			b.WriteString("/")
		}
		if i > 0 && !strings.HasPrefix(seg, "/") && !strings.HasPrefix(seg, "[") {
			b.WriteString("/")
		}
		b.WriteString(seg)
	}
	return b.String()
}

func readDocument(xml string) (*etree.Document, bool) {
	if strings.TrimSpace(xml) == "" {
		return nil, false
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil || doc.Root() == nil {
		return nil, false
	}
	return doc, true
}
