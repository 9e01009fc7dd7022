package analyzer

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// expensiveNames are calls carrying a fixed extra energy cost: dynamic
// evaluation, file and directory I/O, sorting, regex compilation, and
// (de)serialization.
var expensiveNames = map[string]bool{
	"eval":         true,
	"exec":         true,
	"compile":      true,
	"open":         true,
	"re.compile":   true,
	"sorted":       true,
	"glob.glob":    true,
	"os.walk":      true,
	"os.listdir":   true,
	"subprocess":   true,
	"pickle.loads": true,
	"pickle.dumps": true,
	"json.loads":   true,
	"json.dumps":   true,
}

// expensivePrefixes widen the match to whole stdlib namespaces whose calls
// are I/O- or regex-shaped.
var expensivePrefixes = []string{"re.", "os.", "glob."}

func isExpensiveName(name string) bool {
	return expensiveNames[name]
}

func hasExpensivePrefix(name string) bool {
	for _, p := range expensivePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// qualifiedName rebuilds a dotted path like "os.path.join" from nested
// attribute nodes.
func qualifiedName(node *tree_sitter.Node, source []byte) string {
	obj := node.ChildByFieldName("object")
	attr := node.ChildByFieldName("attribute")
	if attr == nil {
		return ""
	}
	attrText := attr.Utf8Text(source)
	if obj == nil {
		return attrText
	}
	switch obj.Kind() {
	case "identifier":
		return obj.Utf8Text(source) + "." + attrText
	case "attribute":
		return qualifiedName(obj, source) + "." + attrText
	default:
		return attrText
	}
}
