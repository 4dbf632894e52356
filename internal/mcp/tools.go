package mcp

import (
	"context"
	"errors"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lifers/kalkucilik/pkg/diagnostics"
	"github.com/lifers/kalkucilik/pkg/evaluator"
	"github.com/lifers/kalkucilik/pkg/formatter"
	"github.com/lifers/kalkucilik/pkg/runtime"
)

// sessionFor resolves the calculator session of an incoming request.
type sessionFor func(*sdk.ServerSession) *runtime.Session

func registerTools(server *sdk.Server, lookup sessionFor) {
	sdk.AddTool(server, EvaluateTool(), EvaluateHandler(lookup))
	sdk.AddTool(server, VariablesTool(), VariablesHandler(lookup))
	sdk.AddTool(server, HistoryTool(), HistoryHandler(lookup))
}

// EvaluateInput represents the MCP tool input for evaluating a line.
type EvaluateInput struct {
	Input  string `json:"input" jsonschema:"one line such as '2 + 3 * 4' or 'let x = 5'"`
	Commit bool   `json:"commit,omitempty" jsonschema:"store assignments and record history; false only previews"`
}

// EvaluateResult represents the MCP tool output for evaluating a line.
type EvaluateResult struct {
	Kind       string                  `json:"kind" jsonschema:"invalid, expression or assignment"`
	Name       string                  `json:"name,omitempty" jsonschema:"variable bound by an assignment"`
	Text       string                  `json:"text" jsonschema:"result rendered with up to 100 significant digits"`
	Status     string                  `json:"status" jsonschema:"display text; 'Invalid expression' when invalid"`
	Committed  bool                    `json:"committed" jsonschema:"whether the line changed session state"`
	Diagnostic *diagnostics.Diagnostic `json:"diagnostic,omitempty" jsonschema:"why the line is invalid"`
}

// EvaluateTool defines the MCP tool schema for evaluating a line.
func EvaluateTool() *sdk.Tool {
	return &sdk.Tool{
		Name:        "evaluate",
		Description: "Evaluates one calculator line with 100-digit decimal arithmetic. Set commit to store an assignment.",
	}
}

// EvaluateHandler executes an evaluate request against the caller's session.
func EvaluateHandler(lookup sessionFor) sdk.ToolHandlerFor[EvaluateInput, EvaluateResult] {
	return func(_ context.Context, req *sdk.CallToolRequest, input EvaluateInput) (*sdk.CallToolResult, EvaluateResult, error) {
		calc := lookup(req.Session)

		var (
			res  evaluator.Result
			diag *diagnostics.Diagnostic
		)
		if input.Commit {
			var err error
			res, err = calc.Commit(input.Input)
			var derr *runtime.DiagnosticError
			if errors.As(err, &derr) && len(derr.Diagnostics) > 0 {
				diag = &derr.Diagnostics[0]
			} else if err != nil {
				return nil, EvaluateResult{}, err
			}
		} else {
			res, diag = calc.Explain(input.Input)
		}

		return nil, EvaluateResult{
			Kind:       res.Kind.String(),
			Name:       res.Name,
			Text:       res.Text,
			Status:     formatter.Status(res),
			Committed:  input.Commit && res.Valid(),
			Diagnostic: diag,
		}, nil
	}
}

// VariablesInput represents the MCP tool input for listing variables.
type VariablesInput struct{}

// Variable is one binding in a VariablesResult.
type Variable struct {
	Name  string `json:"name" jsonschema:"variable name"`
	Value string `json:"value" jsonschema:"canonical decimal value"`
}

// VariablesResult represents the MCP tool output for listing variables.
type VariablesResult struct {
	Variables []Variable `json:"variables" jsonschema:"bindings ordered by name"`
}

// VariablesTool defines the MCP tool schema for listing variables.
func VariablesTool() *sdk.Tool {
	return &sdk.Tool{
		Name:        "variables",
		Description: "Lists the variables committed in this session.",
	}
}

// VariablesHandler lists the caller's variables.
func VariablesHandler(lookup sessionFor) sdk.ToolHandlerFor[VariablesInput, VariablesResult] {
	return func(_ context.Context, req *sdk.CallToolRequest, _ VariablesInput) (*sdk.CallToolResult, VariablesResult, error) {
		bindings := lookup(req.Session).Variables()
		out := VariablesResult{Variables: make([]Variable, 0, len(bindings))}
		for _, b := range bindings {
			out.Variables = append(out.Variables, Variable{Name: b.Name, Value: b.Value})
		}
		return nil, out, nil
	}
}

// HistoryInput represents the MCP tool input for listing history.
type HistoryInput struct{}

// HistoryEntry is one committed line in a HistoryResult.
type HistoryEntry struct {
	Input  string `json:"input" jsonschema:"line as submitted"`
	Kind   string `json:"kind" jsonschema:"expression or assignment"`
	Result string `json:"result" jsonschema:"value the line evaluated to"`
}

// HistoryResult represents the MCP tool output for listing history.
type HistoryResult struct {
	Entries []HistoryEntry `json:"entries" jsonschema:"committed lines, oldest first"`
}

// HistoryTool defines the MCP tool schema for listing history.
func HistoryTool() *sdk.Tool {
	return &sdk.Tool{
		Name:        "history",
		Description: "Lists the lines committed in this session, oldest first.",
	}
}

// HistoryHandler lists the caller's history.
func HistoryHandler(lookup sessionFor) sdk.ToolHandlerFor[HistoryInput, HistoryResult] {
	return func(_ context.Context, req *sdk.CallToolRequest, _ HistoryInput) (*sdk.CallToolResult, HistoryResult, error) {
		entries := lookup(req.Session).History()
		out := HistoryResult{Entries: make([]HistoryEntry, 0, len(entries))}
		for _, e := range entries {
			out.Entries = append(out.Entries, HistoryEntry{
				Input:  e.Input,
				Kind:   e.Result.Kind.String(),
				Result: e.Result.Text,
			})
		}
		return nil, out, nil
	}
}
