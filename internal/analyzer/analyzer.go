package analyzer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// ErrSyntax reports that the parsed tree contains syntax errors. The
// accompanying result is empty; callers that want the legacy silent-empty
// behavior simply ignore this error.
var ErrSyntax = errors.New("source contains syntax errors")

// DefaultDepthSensitivity is the coefficient k applied when finalizing
// block energy: total = base × (1 + (depth−1)×k) + penalties.
const DefaultDepthSensitivity = 0.3

// Result holds everything one traversal produces: issues in visit order and
// blocks in the order they were closed (post-order).
type Result struct {
	Issues []energy.Issue        `json:"issues"`
	Blocks []energy.BlockMetrics `json:"blocks"`
}

// Analyzer parses Python source with tree-sitter and runs the energy
// visitor over the tree. A new tree-sitter parser is created per call, so
// one Analyzer may serve sequential calls; concurrent callers should use
// one Analyzer each (they are cheap).
type Analyzer struct {
	language         *tree_sitter.Language
	depthSensitivity float64
}

// NewAnalyzer creates an Analyzer with the Python grammar registered and
// the default depth sensitivity.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		language:         tree_sitter.NewLanguage(tree_sitter_python.Language()),
		depthSensitivity: DefaultDepthSensitivity,
	}
}

// AnalyzeSource parses source and collects energy issues and block metrics.
// A tree containing ERROR nodes yields an empty Result and ErrSyntax.
func (a *Analyzer) AnalyzeSource(source []byte, filename string) (*Result, error) {
	root, cleanup, err := a.parse(source)
	if err != nil {
		return &Result{}, err
	}
	defer cleanup()

	if root.HasError() {
		return &Result{}, fmt.Errorf("%s: %w", displayName(filename), ErrSyntax)
	}

	v := &visitor{source: source, depthSensitivity: a.depthSensitivity}
	v.walk(root, &scope{})
	return &Result{Issues: v.issues, Blocks: v.blocks}, nil
}

// AnalyzeFile reads path and analyzes its contents.
func (a *Analyzer) AnalyzeFile(path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return a.AnalyzeSource(source, path)
}

// AnalyzeFragment analyzes a code fragment out of full-file context, for
// live-editing feedback. Loop and function fragments are wrapped in a
// synthetic header so they parse standalone; reported line numbers are
// shifted back into the original file's coordinates using startLine (the
// 1-based line the fragment begins on).
func (a *Analyzer) AnalyzeFragment(fragment string, blockType energy.BlockType, startLine int) ([]energy.Issue, error) {
	wrapped, headerLines := wrapFragment(fragment, blockType)

	root, cleanup, err := a.parse([]byte(wrapped))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if root.HasError() {
		return nil, fmt.Errorf("fragment: %w", ErrSyntax)
	}

	target := fragmentTarget(root, blockType)
	if target == nil {
		return nil, nil
	}

	v := &visitor{source: []byte(wrapped), depthSensitivity: a.depthSensitivity}
	v.walk(target, &scope{})

	shift := startLine - 1 - headerLines
	for i := range v.issues {
		if v.issues[i].Line > 0 {
			v.issues[i].Line += shift
		}
	}
	return v.issues, nil
}

// parse runs tree-sitter over source and returns the root node plus a
// cleanup func releasing the C-side tree and parser.
func (a *Analyzer) parse(source []byte) (*tree_sitter.Node, func(), error) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(a.language); err != nil {
		parser.Close()
		return nil, nil, fmt.Errorf("set language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		parser.Close()
		return nil, nil, errors.New("tree-sitter returned nil tree")
	}

	cleanup := func() {
		tree.Close()
		parser.Close()
	}
	return tree.RootNode(), cleanup, nil
}

// wrapFragment makes a loop or function fragment parseable on its own by
// prefixing a synthetic header and indenting the body. Returns the wrapped
// source and the number of header lines added.
func wrapFragment(fragment string, blockType energy.BlockType) (string, int) {
	var header string
	switch blockType {
	case energy.BlockLoop:
		header = "for _ in range(1):\n"
	case energy.BlockFunction:
		header = "def _wrapper():\n"
	default:
		return fragment, 0
	}

	lines := strings.Split(fragment, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = "    " + line
		}
	}
	return header + strings.Join(lines, "\n"), 1
}

// fragmentTarget finds the node the fragment visitor should start from:
// the synthetic loop or function for wrapped fragments, the module root
// otherwise.
func fragmentTarget(root *tree_sitter.Node, blockType energy.BlockType) *tree_sitter.Node {
	switch blockType {
	case energy.BlockLoop:
		return findFirst(root, "for_statement", "while_statement")
	case energy.BlockFunction:
		return findFirst(root, "function_definition")
	default:
		return root
	}
}

// findFirst returns the first descendant (depth-first) whose kind matches
// one of kinds, or nil.
func findFirst(node *tree_sitter.Node, kinds ...string) *tree_sitter.Node {
	for _, k := range kinds {
		if node.Kind() == k {
			return node
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if found := findFirst(node.NamedChild(i), kinds...); found != nil {
			return found
		}
	}
	return nil
}

// CountLines counts lines the way Python's splitlines does: a trailing
// newline terminates the last line instead of opening an extra empty one.
func CountLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	return bytes.Count(bytes.TrimSuffix(source, []byte{'\n'}), []byte{'\n'}) + 1
}

func displayName(filename string) string {
	if filename == "" {
		return "<string>"
	}
	return filename
}
