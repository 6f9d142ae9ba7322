package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclear/clearance/pkg/client"
	"github.com/uniclear/clearance/pkg/credential"
	"github.com/uniclear/clearance/pkg/soap"
	"github.com/uniclear/clearance/pkg/status"
	clearancetest "github.com/uniclear/clearance/pkg/testing"
	"github.com/uniclear/clearance/pkg/value"
)

const testToken = "abcdefghij0123"

// resetFlags restores every flag to its default so commands can run
// repeatedly in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	configPath = ""
	jsonOutput = false
	logLevel = ""
	logFormat = ""
	interactive = func() bool { return false }

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	captured := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		captured <- string(b)
	}()

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	_ = w.Close()
	os.Stdout = oldStdout
	return <-captured, runErr
}

func withCredentialEnv(t *testing.T) {
	t.Setenv("CLEARANCE_USERNAME", "jdoe")
	t.Setenv("CLEARANCE_SESSION_TOKEN", testToken)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func statusResponse(index string, code int) string {
	return fmt.Sprintf(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <CheckStatusResponse>
      <ResponseParameters>
        <f4indexno>%s</f4indexno>
        <StatusCode>%d</StatusCode>
        <StatusDescription>desc</StatusDescription>
        <Programme>BSc</Programme>
      </ResponseParameters>
    </CheckStatusResponse>
  </soap:Body>
</soap:Envelope>`, index, code)
}

// authority fakes the remote service, answering CheckStatus with code and
// echoing the request's index number.
func authority(t *testing.T, code int) *clearancetest.Authority {
	t.Helper()
	auth := clearancetest.New(t)
	auth.On("CheckStatus").WithStatus(code, "desc").WithField("Programme", "BSc").Reply()
	auth.Start()
	return auth
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "clearance.yaml", fmt.Sprintf(`baseURL: %s
username: jdoe
sessionToken: %s
logging:
  level: error
`, baseURL, testToken))
}

// =============================================================================
// status / operations
// =============================================================================

func TestStatus_ClassifiesCodes(t *testing.T) {
	out, err := runCLI(t, "status", "208", "999", "--json")
	require.NoError(t, err)

	var got []status.Classification
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.True(t, got[0].Duplicate)
	assert.False(t, got[0].Success)
	assert.False(t, got[1].Known)
	assert.True(t, got[1].Error)
}

func TestStatus_ListGroupsByCategory(t *testing.T) {
	out, err := runCLI(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Duplicate (")
	assert.Contains(t, out, "Not Found (")
	assert.Contains(t, out, "Success (")
}

func TestStatus_CategoryFilter(t *testing.T) {
	out, err := runCLI(t, "status", "--category", "duplicate", "--json")
	require.NoError(t, err)

	var got []categoryListing
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, status.CategoryDuplicate, got[0].Category)
	assert.Len(t, got[0].Codes, len(status.DuplicateCodes()))
}

func TestStatus_Errors(t *testing.T) {
	_, err := runCLI(t, "status", "abc")
	assert.ErrorContains(t, err, "invalid status code")

	_, err = runCLI(t, "status", "--category", "bogus")
	assert.ErrorContains(t, err, "unknown category")
}

func TestOperations_JSON(t *testing.T) {
	out, err := runCLI(t, "operations", "--json")
	require.NoError(t, err)

	var ops []soap.Operation
	require.NoError(t, json.Unmarshal([]byte(out), &ops))
	require.NotEmpty(t, ops)
	assert.Equal(t, "CheckStatus", ops[0].Name)
}

// =============================================================================
// build
// =============================================================================

func TestBuild_Operation(t *testing.T) {
	withCredentialEnv(t)

	out, err := runCLI(t, "build", "CheckStatus", "-p", "f4indexno=S0123/0001/2023", "--json")
	require.NoError(t, err)

	var got buildOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "CheckStatus", got.Operation)
	assert.Equal(t, "S0123/0001/2023", soap.ExtractXPath(got.Envelope, "//RequestParameters/f4indexno"))
	assert.Equal(t, "CheckStatus", soap.ExtractXPath(got.Envelope, "//RequestParameters/Operation"))
	assert.Equal(t, testToken, soap.ExtractXPath(got.Envelope, "//UsernameToken/SessionToken"))

	v := soap.NewValidator()
	ok, errs := v.ValidateEnvelope(got.Envelope)
	assert.True(t, ok, errs)
}

func TestBuild_ParamsFileAndPairs(t *testing.T) {
	withCredentialEnv(t)
	file := writeFile(t, t.TempDir(), "params.yaml", "f4indexno: S1\nApplicant:\n  Surname: Doe\n")

	out, err := runCLI(t, "build", "--params", file, "-p", "Applicant.First=Jane", "-p", "Tag=a", "-p", "Tag=b", "--indent", "0")
	require.NoError(t, err)

	assert.Equal(t, "Doe", soap.ExtractXPath(out, "//Applicant/Surname"))
	assert.Equal(t, "Jane", soap.ExtractXPath(out, "//Applicant/First"))
	assert.Equal(t, []string{"a", "b"}, soap.FindAllByXPath(out, "//RequestParameters/Tag"))
	assert.Empty(t, soap.ExtractXPath(out, "//RequestParameters/Operation"))
}

func TestBuild_Errors(t *testing.T) {
	t.Setenv("CLEARANCE_USERNAME", "")
	t.Setenv("CLEARANCE_SESSION_TOKEN", "")
	_, err := runCLI(t, "build", "CheckStatus", "-p", "f4indexno=S1")
	assert.True(t, credential.IsAuthenticationError(err), "got %v", err)

	withCredentialEnv(t)
	_, err = runCLI(t, "build", "CheckStatus")
	assert.True(t, soap.IsBuildError(err), "got %v", err)

	_, err = runCLI(t, "build", "CheckStatus", "-p", "novalue")
	assert.ErrorContains(t, err, "expected key=value")
}

func TestLoadParams(t *testing.T) {
	v, err := loadParams("", []string{"a=1", "a=2", "b.c=3", "b.d=4"})
	require.NoError(t, err)

	a, ok := v.Get("a")
	require.True(t, ok)
	assert.True(t, a.Equal(value.List(value.Scalar("1"), value.Scalar("2"))))

	b, ok := v.Get("b")
	require.True(t, ok)
	assert.Equal(t, []string{"c", "d"}, b.Map().Keys())

	_, err = loadParams("", []string{"a=1", "a.b=2"})
	assert.ErrorContains(t, err, "already holds a value")

	_, err = loadParams("", []string{"a..b=1"})
	assert.Error(t, err)

	file := writeFile(t, t.TempDir(), "list.yaml", "- a\n- b\n")
	_, err = loadParams(file, nil)
	assert.ErrorContains(t, err, "must be a mapping")
}

// =============================================================================
// parse / validate
// =============================================================================

func TestParse_File(t *testing.T) {
	file := writeFile(t, t.TempDir(), "resp.xml", statusResponse("S0123/0001/2023", 208))

	out, err := runCLI(t, "parse", file, "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "S0123/0001/2023", got["indexId"])
	assert.Equal(t, float64(208), got["statusCode"])
	assert.Equal(t, false, got["success"])
	assert.Contains(t, got["categories"], "duplicate")
	assert.Equal(t, map[string]any{"Programme": "BSc"}, got["data"])
}

func TestParse_Stdin(t *testing.T) {
	stdin = strings.NewReader(statusResponse("S1", 200))
	defer func() { stdin = os.Stdin }()

	out, err := runCLI(t, "parse", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Index:       S1")
	assert.Contains(t, out, "Programme: BSc")
}

func TestParse_Malformed(t *testing.T) {
	file := writeFile(t, t.TempDir(), "bad.xml", "<a><b></a>")
	_, err := runCLI(t, "parse", file)
	assert.True(t, soap.IsParseError(err))
}

func TestValidate_RequestsByGlob(t *testing.T) {
	cred, err := credential.New("jdoe", testToken)
	require.NoError(t, err)
	envelope, err := soap.NewBuilder().BuildOperation(cred, "CheckStatus",
		value.FromMap(value.NewMap().SetText("f4indexno", "S1")))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, dir, "good.xml", envelope)
	writeFile(t, filepath.Join(dir, "nested"), "bad.xml", "<Envelope><Body/></Envelope>")

	out, err := runCLI(t, "validate", filepath.Join(dir, "**", "*.xml"))
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out, "OK    "+filepath.Join(dir, "good.xml"))
	assert.Contains(t, out, "FAIL  "+filepath.Join(dir, "nested", "bad.xml"))
	assert.Contains(t, out, "missing Header section")
	assert.Contains(t, out, "missing UsernameToken block")
	assert.Contains(t, out, "2 checked, 1 failed")
}

func TestValidate_ResponseKind(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "resp.xml", statusResponse("S1", 200))
	malformed := writeFile(t, dir, "broken.xml", "<a>")

	out, err := runCLI(t, "validate", "--kind", "response", good, malformed, "--json")
	assert.ErrorIs(t, err, ErrValidationFailed)

	var got []validationResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.True(t, got[0].Valid)
	assert.False(t, got[1].Valid)
	require.Len(t, got[1].Errors, 1)
	assert.Contains(t, got[1].Errors[0], "malformed XML")
}

func TestValidate_Errors(t *testing.T) {
	_, err := runCLI(t, "validate", "--kind", "bogus", "x.xml")
	assert.ErrorContains(t, err, "unknown --kind")

	_, err = runCLI(t, "validate", filepath.Join(t.TempDir(), "*.xml"))
	assert.ErrorIs(t, err, ErrNoInput)
}

// =============================================================================
// call / check
// =============================================================================

func TestCall_PrintsResponse(t *testing.T) {
	auth := authority(t, 200)
	cfgFile := writeConfig(t, auth.URL())

	out, err := runCLI(t, "--config", cfgFile, "call", "CheckStatus", "-p", "f4indexno=S0123/0001/2023", "--json")
	require.NoError(t, err)
	auth.AssertCalledTimes(t, "CheckStatus", 1)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "S0123/0001/2023", got["indexId"])
	assert.Equal(t, true, got["success"])
}

func TestCall_StrictAndExpect(t *testing.T) {
	auth := authority(t, 208)
	cfgFile := writeConfig(t, auth.URL())

	_, err := runCLI(t, "--config", cfgFile, "call", "CheckStatus", "-p", "f4indexno=S1")
	require.NoError(t, err)

	_, err = runCLI(t, "--config", cfgFile, "call", "CheckStatus", "-p", "f4indexno=S1", "--strict")
	assert.True(t, client.IsStatusError(err), "got %v", err)

	_, err = runCLI(t, "--config", cfgFile, "call", "CheckStatus", "-p", "f4indexno=S1",
		"--expect", `"duplicate" in Categories && Data.Programme == "BSc"`)
	require.NoError(t, err)

	_, err = runCLI(t, "--config", cfgFile, "call", "CheckStatus", "-p", "f4indexno=S1", "--expect", "Success")
	assert.ErrorIs(t, err, ErrExpectationFailed)
}

func TestCall_Errors(t *testing.T) {
	_, err := runCLI(t, "call", "NoSuchOperation")
	assert.ErrorContains(t, err, "unknown operation")

	withCredentialEnv(t)
	_, err = runCLI(t, "call", "CheckStatus", "-p", "f4indexno=S1")
	assert.ErrorContains(t, err, "baseURL")
}

func TestCheck_Batch(t *testing.T) {
	auth := authority(t, 200)
	cfgFile := writeConfig(t, auth.URL())
	list := writeFile(t, t.TempDir(), "candidates.txt", "# intake\nS3\n\nS4\n")

	out, err := runCLI(t, "--config", cfgFile, "check", "S1,S2", "--file", list, "--json")
	require.NoError(t, err)
	auth.AssertCalledTimes(t, "CheckStatus", 4)

	var got []checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 4)
	for i, want := range []string{"S1", "S2", "S3", "S4"} {
		assert.Equal(t, want, got[i].IndexID)
		assert.Equal(t, 200, got[i].StatusCode)
		assert.True(t, got[i].Success)
	}
}

func TestCheck_NoInput(t *testing.T) {
	_, err := runCLI(t, "check")
	assert.ErrorContains(t, err, "no index numbers")
}

func TestEvalExpect(t *testing.T) {
	resp, err := soap.Parse(statusResponse("S1", 230))
	require.NoError(t, err)

	ok, err := evalExpect("StatusCode == 230 && IndexID == 'S1'", resp)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = evalExpect("StatusCode +", resp)
	assert.ErrorContains(t, err, "compile --expect")

	_, err = evalExpect("StatusCode", resp)
	assert.Error(t, err)
}

// =============================================================================
// config / version
// =============================================================================

func TestConfigShow_RedactsToken(t *testing.T) {
	cfgFile := writeConfig(t, "https://authority.example/soap")

	out, err := runCLI(t, "--config", cfgFile, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "baseURL: https://authority.example/soap")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, testToken)
}

func TestConfigValidate(t *testing.T) {
	cfgFile := writeConfig(t, "https://authority.example/soap")
	out, err := runCLI(t, "--config", cfgFile, "config", "validate", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)

	bad := writeFile(t, t.TempDir(), "bad.yaml", "timeout: -1s\n")
	_, err = runCLI(t, "--config", bad, "config", "validate")
	assert.Error(t, err)
}

func TestLogLevelOverride(t *testing.T) {
	_, err := runCLI(t, "--log-level", "loud", "config", "show")
	assert.ErrorContains(t, err, "invalid --log-level")
}

func TestVersion_JSON(t *testing.T) {
	out, err := runCLI(t, "version", "--json")
	require.NoError(t, err)

	var got VersionOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.Go)
}
