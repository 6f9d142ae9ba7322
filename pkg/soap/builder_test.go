package soap

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclear/clearance/pkg/credential"
	"github.com/uniclear/clearance/pkg/value"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func testCredential(t *testing.T) credential.Credential {
	t.Helper()
	cred, err := credential.NewAt("jdoe", "abcdefghij0123", fixedNow)
	require.NoError(t, err)
	return cred
}

func checkStatusParams() value.Value {
	return value.FromMap(value.NewMap().
		SetText("Operation", "CheckStatus").
		SetText("f4indexno", "S0123/0001/2023"))
}

func mustReadDoc(t *testing.T, xml string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	return doc
}

func TestBuilder_Build_EnvelopeShape(t *testing.T) {
	b := NewBuilder(WithClock(func() time.Time { return fixedNow }))

	xml, err := b.Build(testCredential(t), checkStatusParams())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`))

	doc := mustReadDoc(t, xml)
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "soap", root.Space)
	assert.Equal(t, EnvelopeElement, root.Tag)
	assert.Equal(t, SOAP11Namespace, root.SelectAttrValue("xmlns:soap", ""))

	assert.Equal(t, "jdoe", doc.FindElement("/Envelope/Header/UsernameToken/Username").Text())
	assert.Equal(t, "abcdefghij0123", doc.FindElement("/Envelope/Header/UsernameToken/SessionToken").Text())
	assert.Equal(t, "2024-03-09T14:05:00Z", doc.FindElement("/Envelope/Header/UsernameToken/Timestamp").Text())

	params := doc.FindElement("/Envelope/Body/RequestParameters")
	require.NotNil(t, params)
	children := params.ChildElements()
	require.Len(t, children, 2)
	assert.Equal(t, "Operation", children[0].Tag)
	assert.Equal(t, "CheckStatus", children[0].Text())
	assert.Equal(t, "f4indexno", children[1].Tag)
	assert.Equal(t, "S0123/0001/2023", children[1].Text())
}

func TestBuilder_Build_PassesAllValidatorChecks(t *testing.T) {
	xml, err := NewBuilder().Build(testCredential(t), checkStatusParams())
	require.NoError(t, err)

	v := NewValidator()
	for name, check := range map[string]func(string) (bool, []string){
		"envelope":   v.ValidateEnvelope,
		"auth":       v.ValidateAuthSection,
		"parameters": v.ValidateParameterSection,
	} {
		ok, errs := check(xml)
		assert.True(t, ok, name)
		assert.Empty(t, errs, name)
	}
}

func TestBuilder_Build_RoundTripThroughParser(t *testing.T) {
	xml, err := NewBuilder().Build(testCredential(t), checkStatusParams())
	require.NoError(t, err)

	resp, err := Parse(xml)
	require.NoError(t, err)
	assert.Equal(t, "S0123/0001/2023", resp.IndexID)
	assert.Equal(t, 0, resp.StatusCode)
	assert.Equal(t, "CheckStatus", resp.Field("Operation"))
}

func TestBuilder_Build_EscapesText(t *testing.T) {
	params := value.FromMap(value.NewMap().SetText("Note", `a < b & "c"`))

	xml, err := NewBuilder().Build(testCredential(t), params)
	require.NoError(t, err)
	assert.NotContains(t, xml, `a < b &`)

	doc := mustReadDoc(t, xml)
	assert.Equal(t, `a < b & "c"`, doc.FindElement("//RequestParameters/Note").Text())
}

func TestBuilder_Build_SanitizesNames(t *testing.T) {
	params := value.FromMap(value.NewMap().
		SetText("first name", "Amina").
		SetText("1st", "x").
		SetText("", "y"))

	xml, err := NewBuilder().Build(testCredential(t), params)
	require.NoError(t, err)

	doc := mustReadDoc(t, xml)
	assert.Equal(t, "Amina", doc.FindElement("//RequestParameters/first_name").Text())
	assert.Equal(t, "x", doc.FindElement("//RequestParameters/param_1st").Text())
	assert.Equal(t, "y", doc.FindElement("//RequestParameters/param_unnamed").Text())
}

func TestBuilder_Build_CollisionFirstWins(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	params := value.FromMap(value.NewMap().
		SetText("a b", "first").
		SetText("a.b", "second"))

	xml, err := NewBuilder(WithBuilderLogger(logger)).Build(testCredential(t), params)
	require.NoError(t, err)

	doc := mustReadDoc(t, xml)
	elems := doc.FindElements("//RequestParameters/a_b")
	require.Len(t, elems, 1)
	assert.Equal(t, "first", elems[0].Text())
	assert.Contains(t, logs.String(), "colliding element name")
}

func TestBuilder_Build_ListsRepeatElement(t *testing.T) {
	params := value.FromMap(value.NewMap().
		Set("Programme", value.List(value.Scalar("P1"), value.Scalar("P2"))).
		Set("Applicant", value.FromMap(value.NewMap().
			SetText("f4indexno", "S1").
			Set("Subject", value.List(value.Scalar("Math"), value.List(value.Scalar("Bio")))))))

	xml, err := NewBuilder().Build(testCredential(t), params)
	require.NoError(t, err)

	doc := mustReadDoc(t, xml)
	progs := doc.FindElements("//RequestParameters/Programme")
	require.Len(t, progs, 2)
	assert.Equal(t, "P1", progs[0].Text())
	assert.Equal(t, "P2", progs[1].Text())

	subjects := doc.FindElements("//RequestParameters/Applicant/Subject")
	require.Len(t, subjects, 2)
	assert.Equal(t, "Bio", subjects[1].Text())
}

func TestBuilder_Build_EmptyParams(t *testing.T) {
	for name, params := range map[string]value.Value{
		"zero":      {},
		"empty map": value.FromMap(value.NewMap()),
	} {
		t.Run(name, func(t *testing.T) {
			xml, err := NewBuilder().Build(testCredential(t), params)
			require.NoError(t, err)
			assert.Contains(t, xml, "<RequestParameters></RequestParameters>")
		})
	}
}

func TestBuilder_Build_RejectsNonMapParams(t *testing.T) {
	_, err := NewBuilder().Build(testCredential(t), value.List(value.Scalar("x")))
	require.Error(t, err)
	assert.True(t, IsBuildError(err))
	assert.Contains(t, err.Error(), "parameters must be a map")

	_, err = NewBuilder().Build(testCredential(t), value.Scalar("x"))
	assert.True(t, IsBuildError(err))
}

func TestBuilder_Build_InvalidCredential(t *testing.T) {
	_, err := NewBuilder().Build(credential.Credential{}, checkStatusParams())
	require.Error(t, err)
	assert.True(t, IsBuildError(err))
	assert.True(t, credential.IsAuthenticationError(err))
}

func TestBuilder_Build_DoesNotModifyParams(t *testing.T) {
	params := value.FromMap(value.NewMap().SetText("f4indexno", "S1"))
	before := params.String()

	_, err := NewBuilder().BuildOperation(testCredential(t), "CheckStatus", params)
	require.NoError(t, err)
	assert.Equal(t, before, params.String())
	assert.False(t, params.Map().Has(OperationElement))
}

func TestBuilder_Build_Indent(t *testing.T) {
	xml, err := NewBuilder(WithIndent(2)).Build(testCredential(t), checkStatusParams())
	require.NoError(t, err)
	assert.Contains(t, xml, "\n  <soap:Header>")
}

func TestBuilder_BuildOperation(t *testing.T) {
	b := NewBuilder()
	cred := testCredential(t)

	t.Run("adds operation first", func(t *testing.T) {
		xml, err := b.BuildOperation(cred, "checkstatus", value.FromMap(value.NewMap().SetText("f4indexno", "S1")))
		require.NoError(t, err)

		children := mustReadDoc(t, xml).FindElement("//RequestParameters").ChildElements()
		require.Len(t, children, 2)
		assert.Equal(t, "Operation", children[0].Tag)
		assert.Equal(t, "CheckStatus", children[0].Text())
	})

	t.Run("unknown operation", func(t *testing.T) {
		_, err := b.BuildOperation(cred, "Nope", value.Value{})
		var be *BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, OperationElement, be.Field)
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := b.BuildOperation(cred, "AddApplicant", value.FromMap(value.NewMap().
			SetText("f4indexno", "S1").
			SetText("f6indexno", "  ")))
		var be *BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "f6indexno", be.Field)
	})

	t.Run("no required fields", func(t *testing.T) {
		_, err := b.BuildOperation(cred, "GetProgrammes", value.Value{})
		assert.NoError(t, err)
	})
}

func TestOperations_Catalog(t *testing.T) {
	ops := Operations()
	require.Len(t, ops, 14)
	assert.Equal(t, "CheckStatus", ops[0].Name)

	ops[0].Required[0] = "mutated"
	op, ok := LookupOperation("CheckStatus")
	require.True(t, ok)
	assert.Equal(t, []string{"f4indexno"}, op.Required)

	_, ok = LookupOperation("")
	assert.False(t, ok)
}

func TestBuildResponse_RoundTrip(t *testing.T) {
	extra := value.NewMap().
		SetText("Programme", "BSc Computer Science").
		Set("Applicant", value.FromMap(value.NewMap().SetText("Surname", "Doe")))
	want := &Response{
		IndexID:           "S0123/0001/2023",
		StatusCode:        208,
		StatusDescription: "Already exists",
		Data:              value.FromMap(extra),
	}

	raw, err := NewBuilder(WithIndent(2)).BuildResponse("CheckStatus", want)
	require.NoError(t, err)

	ok, errs := NewValidator().ValidateResponseSection(raw)
	assert.True(t, ok, errs)
	assert.NotEmpty(t, ExtractXPath(raw, "//CheckStatusResponse/ResponseParameters/StatusCode"))

	got, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, want.IndexID, got.IndexID)
	assert.Equal(t, want.StatusCode, got.StatusCode)
	assert.Equal(t, want.StatusDescription, got.StatusDescription)
	assert.True(t, want.Data.Equal(got.Data), "data: %s", got.Data)
}

func TestBuildResponse_CanonicalFieldsWin(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Data:       value.FromMap(value.NewMap().SetText("StatusCode", "999").SetText("Note", "x")),
	}
	raw, err := NewBuilder().BuildResponse("GetProgrammes", resp)
	require.NoError(t, err)

	got, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 200, got.StatusCode)
	assert.Empty(t, got.IndexID)
	assert.Equal(t, "x", got.Field("Note"))
}

func TestBuildResponse_SanitizesWithElementPrefix(t *testing.T) {
	resp := &Response{
		StatusCode: 200,
		Data:       value.FromMap(value.NewMap().SetText("1x", "a")),
	}
	raw, err := NewBuilder().BuildResponse("GetProgrammes", resp)
	require.NoError(t, err)
	assert.Contains(t, raw, "<element_1x>a</element_1x>")
	assert.NotContains(t, raw, "param_1x")

	got, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"element_1x"}, got.Data.Map().Keys())
	assert.Equal(t, "a", got.Field("element_1x"))
}
