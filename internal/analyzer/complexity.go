package analyzer

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// decisionKinds are the node kinds that open an extra execution path,
// following the usual cyclomatic counting for Python.
var decisionKinds = map[string]bool{
	"if_statement":           true,
	"elif_clause":            true,
	"for_statement":          true,
	"while_statement":        true,
	"except_clause":          true,
	"case_clause":            true,
	"boolean_operator":       true,
	"conditional_expression": true,
}

// MaxComplexity returns the maximum cyclomatic complexity of any single
// function in source (decision points + 1), or 0 if source defines no
// functions. It is the built-in stand-in for an external complexity
// analyzer; callers treat a syntax error as "no signal".
func (a *Analyzer) MaxComplexity(source []byte) (int, error) {
	root, cleanup, err := a.parse(source)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	if root.HasError() {
		return 0, ErrSyntax
	}

	maxCC := 0
	collectComplexity(root, &maxCC)
	return maxCC, nil
}

func collectComplexity(node *tree_sitter.Node, maxCC *int) {
	if node.Kind() == "function_definition" {
		cc := 1 + countDecisions(node)
		if cc > *maxCC {
			*maxCC = cc
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		collectComplexity(node.NamedChild(i), maxCC)
	}
}

func countDecisions(node *tree_sitter.Node) int {
	count := 0
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if decisionKinds[child.Kind()] {
			count++
		}
		count += countDecisions(child)
	}
	return count
}
