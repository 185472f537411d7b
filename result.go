package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// AssertionStatus is the outcome of one evaluated rule predicate.
type AssertionStatus string

const (
	Passed AssertionStatus = "PASSED"
	Failed AssertionStatus = "FAILED"
)

// Location identifies where in the traversal a TestAssertion fired.
type Location struct {
	RootType    string
	ContextPath string
}

// TestAssertion is one PASS/FAIL record. Immutable once appended to a
// ValidationResult's Assertions (§3 invariant: "immutable once appended
// to the results sequence").
type TestAssertion struct {
	Ordinal       int
	RuleID        string
	Status        AssertionStatus
	Description   string
	Location      Location
	ObjectContext string
	ErrorMessage  string
	Arguments     []ErrorArgument
}

// ValidationResult is the final report of one Engine.Validate run.
type ValidationResult struct {
	IsCompliant  bool
	Assertions   []TestAssertion
	FailedCounts map[string]int
	TotalTests   int
	JobEndStatus JobEndStatus
}

// String renders the full assertions sequence as a table, in the
// teacher's go-pretty/StyleLight convention.
func (r *ValidationResult) String() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Rule", "Status", "Context", "Description", "Error"})
	for _, a := range r.Assertions {
		t.AppendRow(table.Row{a.Ordinal, a.RuleID, a.Status, a.Location.ContextPath, a.Description, a.ErrorMessage})
	}
	var b strings.Builder
	fmt.Fprintf(&b, "compliant: %v, total_tests: %d, job_end_status: %s\n", r.IsCompliant, r.TotalTests, r.JobEndStatus)
	b.WriteString(t.Render())
	return b.String()
}

// Summary renders a one-rule-per-row compliance summary.
func (r *ValidationResult) Summary() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rule", "Failures"})
	for ruleID, n := range r.FailedCounts {
		t.AppendRow(table.Row{ruleID, n})
	}
	return t.Render()
}

// renderTemplate applies the §6 substitution grammar: "%NAME%" and
// "%N" (1-based positional) tokens are replaced by the corresponding
// argument's value, processed from the last argument to the first so a
// longer positional index ("%10") is substituted before a shorter one
// that could otherwise match as its prefix ("%1").
func renderTemplate(tmpl string, arguments []ErrorArgument) string {
	out := tmpl
	for i := len(arguments) - 1; i >= 0; i-- {
		arg := arguments[i]
		rendered := "null"
		if arg.Evaluated {
			rendered = fmt.Sprintf("%v", arg.Value)
		}
		out = strings.ReplaceAll(out, "%"+arg.Name+"%", rendered)
		out = strings.ReplaceAll(out, "%"+strconv.Itoa(i+1), rendered)
	}
	return out
}
