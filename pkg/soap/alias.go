package soap

import "github.com/uniclear/clearance/pkg/value"

// Canonical response fields.
const (
	FieldIndexID           = "indexId"
	FieldStatusCode        = "statusCode"
	FieldStatusDescription = "statusDescription"
)

// Alias lists the wire keys that may carry a canonical field, in precedence
// order.
type Alias struct {
	Field string
	Keys  []string
}

// AliasTable is an ordered set of aliases.
type AliasTable []Alias

var responseAliases = AliasTable{
	{Field: FieldIndexID, Keys: []string{"f4indexno", "F4IndexNo"}},
	{Field: FieldStatusCode, Keys: []string{"StatusCode", "status_code"}},
	{Field: FieldStatusDescription, Keys: []string{"StatusDescription", "status_description"}},
}

// ResponseAliases returns a copy of the alias table used by the parser.
func ResponseAliases() AliasTable {
	out := make(AliasTable, len(responseAliases))
	for i, a := range responseAliases {
		out[i] = Alias{Field: a.Field, Keys: append([]string(nil), a.Keys...)}
	}
	return out
}

// Keys returns the keys for field, or nil.
func (t AliasTable) Keys(field string) []string {
	for _, a := range t {
		if a.Field == field {
			return a.Keys
		}
	}
	return nil
}

// Resolve returns the first key of field present in m together with its
// value. A present key wins even when its value is empty.
func (t AliasTable) Resolve(m *value.Map, field string) (string, value.Value, bool) {
	for _, key := range t.Keys(field) {
		if v, ok := m.Get(key); ok {
			return key, v, true
		}
	}
	return "", value.Value{}, false
}
