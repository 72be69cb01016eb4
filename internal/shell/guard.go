package shell

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ConstructReport names one bash construct this shell's own grammar does
// not support, detected in a line before the simple tokenizer would have
// silently mis-split it.
type ConstructReport struct {
	Kind   string
	Detail string
}

// DetectUnsupportedConstructs parses line with a full bash-grammar parser
// purely for analysis (dispatch never runs through this parser — see
// SPEC_FULL.md §4.H) and reports every construct outside the supported
// subset: command substitution, arithmetic expansion, function
// definitions, background jobs, subshells, heredocs/here-strings, and
// top-level command lists (&&, ||, or more than one statement).
//
// A parse failure is not itself reported: this shell's own tokenizer
// tolerates things (like unmatched quotes) that are not valid bash, so a
// failed parse here just means the guard has nothing to say.
func DetectUnsupportedConstructs(line string) []ConstructReport {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	f, err := parser.Parse(strings.NewReader(line), "")
	if err != nil {
		return nil
	}

	var reports []ConstructReport
	add := func(kind, detail string) {
		reports = append(reports, ConstructReport{Kind: kind, Detail: detail})
	}

	if len(f.Stmts) > 1 {
		add("statement-list", "multiple ;-separated statements")
	}

	syntax.Walk(f, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.CmdSubst:
			add("command-substitution", "$(...) or `...`")
		case *syntax.ArithmExp:
			add("arithmetic-expansion", "$((...))")
		case *syntax.ArithmCmd:
			add("arithmetic-expansion", "((...))")
		case *syntax.FuncDecl:
			add("function-definition", n.Name.Value)
		case *syntax.Subshell:
			add("subshell", "(...)")
		case *syntax.Stmt:
			if n.Background {
				add("background-job", "&")
			}
			for _, r := range n.Redirs {
				if r.Hdoc != nil || r.Op == syntax.WordHdoc {
					add("heredoc", "<< or <<<")
				}
			}
		case *syntax.BinaryCmd:
			if n.Op == syntax.AndStmt || n.Op == syntax.OrStmt {
				add("command-list", n.Op.String())
			}
		}
		return true
	})

	return reports
}
