// Package value provides the recursive parameter tree shared by the request
// builder and the response parser.
//
// A Value is one of three kinds:
//
//   - Scalar: a string leaf, serialized as element text
//   - List: an ordered sequence, serialized by repeating the enclosing element
//   - Map: an insertion-ordered set of unique keys, serialized as child elements
//
// # Building Parameters
//
//	params := value.NewMap().
//	    Set("Operation", value.Scalar("CheckStatus")).
//	    Set("f4indexno", value.Scalar("S0123/0001/2023"))
//
//	xml, err := builder.Build(cred, value.FromMap(params))
//
// # Element Names
//
// Keys are sanitized before they become XML element names. Every character
// outside [A-Za-z0-9_-] becomes an underscore, and a name that is empty or
// does not start with a letter or underscore gets a prefix:
//
//	value.SanitizeName("123abc", value.ParamPrefix)   // "param_123abc"
//	value.SanitizeName("123abc", value.ElementPrefix) // "element_123abc"
//	value.SanitizeName("", value.ParamPrefix)         // "param_unnamed"
//
// # YAML and JSON
//
// FromYAML decodes a YAML mapping into a Map while keeping document order,
// which lets callers keep request parameters in files. Value implements
// json.Marshaler with the same ordering.
package value
