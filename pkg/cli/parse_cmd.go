package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uniclear/clearance/pkg/soap"
	"github.com/uniclear/clearance/pkg/value"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE|-",
	Short: "Parse a response document into its canonical record",
	Long: `Parse a response document into its canonical record.

The index number, status code and description are resolved through their
known aliases; every other field is listed under data.

Examples:
  clearance parse response.xml
  cat response.xml | clearance parse - --json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// parseOutput is the JSON shape of parse.
type parseOutput struct {
	*soap.Response
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Categories []string `json:"categories"`
}

func newParseOutput(resp *soap.Response) parseOutput {
	cats := resp.Status().Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return parseOutput{
		Response:   resp,
		Message:    resp.Message(),
		Success:    resp.IsSuccess(),
		Categories: names,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := readInput(args[0])
	if err != nil {
		return err
	}
	resp, err := soap.Parse(string(raw))
	if err != nil {
		return err
	}
	out := newParseOutput(resp)
	return printResult(out, func() { printResponse(out) })
}

func printResponse(out parseOutput) {
	indexID := out.IndexID
	if indexID == "" {
		indexID = "-"
	}
	fmt.Printf("Index:       %s\n", indexID)
	fmt.Printf("Status:      %d %s\n", out.StatusCode, out.Message)
	if out.StatusDescription != "" {
		fmt.Printf("Description: %s\n", out.StatusDescription)
	}
	fmt.Printf("Categories:  %s\n", strings.Join(out.Categories, ", "))
	if out.Data.Len() > 0 {
		fmt.Println("Data:")
		printValue(out.Data, "  ")
	}
}

// printValue writes a value tree as indented key: value lines.
func printValue(v value.Value, indent string) {
	v.Map().Range(func(k string, item value.Value) bool {
		printField(k, item, indent)
		return true
	})
}

func printField(key string, v value.Value, indent string) {
	switch v.Kind() {
	case value.KindMap:
		fmt.Printf("%s%s:\n", indent, key)
		printValue(v, indent+"  ")
	case value.KindList:
		for _, item := range v.Items() {
			printField(key, item, indent)
		}
	default:
		fmt.Printf("%s%s: %s\n", indent, key, v.Text())
	}
}
