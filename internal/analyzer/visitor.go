package analyzer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// visitor accumulates issues and finalized blocks during one depth-first
// walk. Traversal state (loop depth, open blocks, enclosing function names)
// lives in the scope threaded through walk, keeping the walk re-entrant.
type visitor struct {
	source           []byte
	depthSensitivity float64
	issues           []energy.Issue
	blocks           []energy.BlockMetrics
}

// scope is the nesting context at the current point of the walk.
type scope struct {
	loopDepth  int
	blockStack []*energy.BlockMetrics
	funcStack  []string
}

// current returns the innermost open block, or nil at the very start.
func (sc *scope) current() *energy.BlockMetrics {
	if len(sc.blockStack) == 0 {
		return nil
	}
	return sc.blockStack[len(sc.blockStack)-1]
}

// walk dispatches on the node kind. Unhandled kinds fall through to a plain
// visit of the named children.
func (v *visitor) walk(node *tree_sitter.Node, sc *scope) {
	switch node.Kind() {
	case "module":
		v.startBlock(sc, energy.BlockModule, node, energy.CostStatement)
		v.walkChildren(node, sc)
		v.endBlock(sc)

	case "function_definition":
		name := v.fieldText(node, "name")
		sc.funcStack = append(sc.funcStack, name)
		v.startBlock(sc, energy.BlockFunction, node, energy.CostFunctionCall)
		v.checkRecursion(node, sc)
		v.walkChildren(node, sc)
		v.endBlock(sc)
		sc.funcStack = sc.funcStack[:len(sc.funcStack)-1]

	case "for_statement", "while_statement":
		v.visitLoop(node, sc)

	case "if_statement":
		v.startBlock(sc, energy.BlockConditional, node, energy.CostConditional)
		v.walkChildren(node, sc)
		v.endBlock(sc)

	case "list_comprehension":
		v.startBlock(sc, energy.BlockComprehension, node, energy.CostComprehension)
		if sc.loopDepth >= 1 {
			impact := energy.CostComprehension * (1 + float64(sc.loopDepth)*0.3)
			v.addIssue(energy.Issue{
				Category:        energy.CategoryListCreationInLoop,
				Message:         "List comprehension inside loop (consider pre-allocating)",
				Severity:        1,
				EstimatedImpact: impact,
			}, node)
			v.addPenalty(sc, impact)
		}
		v.walkChildren(node, sc)
		v.endBlock(sc)

	case "dictionary_comprehension":
		v.startBlock(sc, energy.BlockComprehension, node, energy.CostComprehension)
		if sc.loopDepth >= 1 {
			v.allocationInLoop(node, sc, "dict comprehension")
		}
		v.walkChildren(node, sc)
		v.endBlock(sc)

	case "set_comprehension":
		v.startBlock(sc, energy.BlockComprehension, node, energy.CostComprehension)
		if sc.loopDepth >= 1 {
			v.allocationInLoop(node, sc, "set comprehension")
		}
		v.walkChildren(node, sc)
		v.endBlock(sc)

	case "list":
		if sc.loopDepth >= 1 {
			v.allocationInLoop(node, sc, "list")
		}
		v.walkChildren(node, sc)

	case "dictionary":
		if sc.loopDepth >= 1 {
			v.allocationInLoop(node, sc, "dict")
		}
		v.walkChildren(node, sc)

	case "set":
		if sc.loopDepth >= 1 {
			v.allocationInLoop(node, sc, "set")
		}
		v.walkChildren(node, sc)

	case "call":
		v.visitCall(node, sc)

	case "binary_operator":
		// Background hum: arithmetic costs a fractional penalty on the
		// enclosing block, with no discrete issue.
		v.addPenalty(sc, energy.CostArithmetic*0.05)
		v.walkChildren(node, sc)

	default:
		v.walkChildren(node, sc)
	}
}

func (v *visitor) walkChildren(node *tree_sitter.Node, sc *scope) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		v.walk(node.NamedChild(i), sc)
	}
}

// visitLoop opens a loop block, raises loop depth, and checks the nesting
// rules. The block's depth is its own loop-nesting level: 1 for an
// outermost loop, captured at push time and never re-evaluated.
func (v *visitor) visitLoop(node *tree_sitter.Node, sc *scope) {
	v.startBlock(sc, energy.BlockLoop, node, energy.CostLoop)
	sc.loopDepth++
	depth := sc.loopDepth

	if depth >= 2 {
		impact := 6.0 * (1 + float64(depth)*0.4)
		v.addIssue(energy.Issue{
			Category:        energy.CategoryNestedLoops,
			Message:         "Nested loops detected",
			Detail:          fmt.Sprintf("depth %d", depth),
			Severity:        2,
			EstimatedImpact: impact,
		}, node)
		v.addPenalty(sc, impact)
	}

	if depth > 2 {
		impact := 8.0 * float64(depth)
		severity := depth
		if severity > 3 {
			severity = 3
		}
		v.addIssue(energy.Issue{
			Category:        energy.CategoryLoopDepth,
			Message:         "High loop nesting depth",
			Detail:          fmt.Sprintf("depth %d", depth),
			Severity:        severity,
			EstimatedImpact: impact,
		}, node)
		v.addPenalty(sc, impact)
	}

	v.walkChildren(node, sc)
	sc.loopDepth--
	v.endBlock(sc)
}

// visitCall classifies a call node. Builtin container constructors are
// allocations and uppercase names are class instantiations; both return
// without descending so the call is not double-reported. Everything else
// is checked against the expensive set, then descended into.
func (v *visitor) visitCall(node *tree_sitter.Node, sc *scope) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		v.walkChildren(node, sc)
		return
	}

	expensive := false
	fullName := ""

	switch fn.Kind() {
	case "identifier":
		name := fn.Utf8Text(v.source)
		switch {
		case name == "list" || name == "dict" || name == "set" || name == "tuple":
			if sc.loopDepth >= 1 {
				v.allocationInLoop(node, sc, name)
			}
			return

		case startsUpper(name):
			if sc.loopDepth >= 1 {
				impact := energy.CostFunctionCall * (1 + float64(sc.loopDepth)*0.3)
				v.addIssue(energy.Issue{
					Category:        energy.CategoryObjectCreationInLoop,
					Message:         "Object creation inside loop: " + name,
					Detail:          name,
					Severity:        2,
					EstimatedImpact: impact,
				}, node)
				v.addPenalty(sc, impact)
			}
			return

		case isExpensiveName(name):
			expensive = true
			fullName = name
		}

	case "attribute":
		fullName = qualifiedName(fn, v.source)
		if isExpensiveName(fullName) || hasExpensivePrefix(fullName) {
			expensive = true
		}
	}

	if expensive {
		if sc.loopDepth >= 1 {
			impact := energy.CostFunctionCall * (1.5 + float64(sc.loopDepth)*0.4)
			v.addIssue(energy.Issue{
				Category:        energy.CategoryExpensiveOperation,
				Message:         "Expensive operation inside loop: " + fullName,
				Detail:          fullName,
				Severity:        2,
				EstimatedImpact: impact,
			}, node)
			v.addPenalty(sc, impact)
		} else {
			v.addIssue(energy.Issue{
				Category:        energy.CategoryExpensiveOperation,
				Message:         "Expensive operation: " + fullName,
				Detail:          fullName,
				Severity:        1,
				EstimatedImpact: energy.CostFunctionCall,
			}, node)
		}
	}

	v.walkChildren(node, sc)
}

// allocationInLoop records a container allocation under at least one loop.
func (v *visitor) allocationInLoop(node *tree_sitter.Node, sc *scope, kind string) {
	impact := energy.CostAllocation * (1 + float64(sc.loopDepth)*0.6)
	v.addPenalty(sc, impact)
	v.addIssue(energy.Issue{
		Category:        energy.CategoryAllocationInLoop,
		Message:         capitalize(kind) + " allocation inside loop",
		Detail:          kind,
		Severity:        2,
		EstimatedImpact: impact,
	}, node)
}

// checkRecursion scans a function's subtree for a call to the function's
// own name, either bare or self-qualified. The first match wins; how many
// times the function recurses does not matter.
func (v *visitor) checkRecursion(fnNode *tree_sitter.Node, sc *scope) {
	name := sc.funcStack[len(sc.funcStack)-1]
	if name == "" {
		return
	}
	v.findRecursiveCall(fnNode, sc, name)
}

func (v *visitor) findRecursiveCall(node *tree_sitter.Node, sc *scope, name string) bool {
	if node.Kind() == "call" {
		if fn := node.ChildByFieldName("function"); fn != nil {
			switch fn.Kind() {
			case "identifier":
				if fn.Utf8Text(v.source) == name {
					v.addRecursionIssue(node, sc, name, "Recursion detected")
					return true
				}
			case "attribute":
				obj := fn.ChildByFieldName("object")
				attr := fn.ChildByFieldName("attribute")
				if obj != nil && attr != nil &&
					obj.Kind() == "identifier" &&
					obj.Utf8Text(v.source) == "self" &&
					attr.Utf8Text(v.source) == name {
					v.addRecursionIssue(node, sc, name, "Recursive method call detected")
					return true
				}
			}
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if v.findRecursiveCall(node.NamedChild(i), sc, name) {
			return true
		}
	}
	return false
}

func (v *visitor) addRecursionIssue(node *tree_sitter.Node, sc *scope, name, message string) {
	const impact = 12.0
	v.addIssue(energy.Issue{
		Category:        energy.CategoryRecursion,
		Message:         message,
		Detail:          name,
		Severity:        2,
		EstimatedImpact: impact,
	}, node)
	v.addPenalty(sc, impact)
}

// --- Block and issue bookkeeping ---

// startBlock opens a block with depth = current loop depth + 1, captured
// once at push time.
func (v *visitor) startBlock(sc *scope, t energy.BlockType, node *tree_sitter.Node, baseEnergy float64) {
	block := &energy.BlockMetrics{
		Type:       t,
		StartLine:  int(node.StartPosition().Row) + 1,
		EndLine:    int(node.EndPosition().Row) + 1,
		BaseEnergy: baseEnergy,
		Depth:      sc.loopDepth + 1,
	}
	sc.blockStack = append(sc.blockStack, block)
}

// endBlock finalizes the innermost block and moves it to the result list;
// blocks therefore appear in close (post-order) order.
func (v *visitor) endBlock(sc *scope) {
	if len(sc.blockStack) == 0 {
		return
	}
	block := sc.blockStack[len(sc.blockStack)-1]
	sc.blockStack = sc.blockStack[:len(sc.blockStack)-1]
	block.Finalize(v.depthSensitivity)
	v.blocks = append(v.blocks, *block)
}

// addPenalty charges the innermost open block.
func (v *visitor) addPenalty(sc *scope, penalty float64) {
	if block := sc.current(); block != nil {
		block.OperationPenalties += penalty
	}
}

// addIssue stamps the node's location onto the issue and records it.
func (v *visitor) addIssue(issue energy.Issue, node *tree_sitter.Node) {
	if node != nil {
		issue.Line = int(node.StartPosition().Row) + 1
		issue.Column = int(node.StartPosition().Column)
	}
	v.issues = append(v.issues, issue)
}

func (v *visitor) fieldText(node *tree_sitter.Node, field string) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Utf8Text(v.source)
}

// startsUpper reports whether the first rune of s is uppercase. Class
// instantiation is detected by naming convention, so the first rune must
// be decoded rather than the first byte.
func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
