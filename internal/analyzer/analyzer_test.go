package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// analyze runs the analyzer over source and fails the test on any error.
func analyze(t *testing.T, source string) *Result {
	t.Helper()
	res, err := NewAnalyzer().AnalyzeSource([]byte(source), "test.py")
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

// issuesOf filters issues by category.
func issuesOf(res *Result, cat energy.IssueCategory) []energy.Issue {
	var out []energy.Issue
	for _, is := range res.Issues {
		if is.Category == cat {
			out = append(out, is)
		}
	}
	return out
}

// blocksOf filters blocks by type.
func blocksOf(res *Result, bt energy.BlockType) []energy.BlockMetrics {
	var out []energy.BlockMetrics
	for _, b := range res.Blocks {
		if b.Type == bt {
			out = append(out, b)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// TestAnalyzeSource basics
// ---------------------------------------------------------------------------

func TestAnalyzeSource_Empty(t *testing.T) {
	res := analyze(t, "")
	assert.Empty(t, res.Issues)
	require.Len(t, res.Blocks, 1, "empty source still yields the module block")
	assert.Equal(t, energy.BlockModule, res.Blocks[0].Type)
	assert.Equal(t, 1, res.Blocks[0].Depth)
	assert.InDelta(t, energy.CostStatement, res.Blocks[0].TotalEnergy, 1e-9)
}

func TestAnalyzeSource_SyntaxError(t *testing.T) {
	res, err := NewAnalyzer().AnalyzeSource([]byte("def broken(:\n    pass\n"), "bad.py")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), "bad.py")
	assert.Empty(t, res.Issues)
	assert.Empty(t, res.Blocks)
}

func TestAnalyzeSource_Deterministic(t *testing.T) {
	src := `
def work(rows):
    out = []
    for r in rows:
        for c in r:
            out.append([c])
    return out
`
	a := analyze(t, src)
	b := analyze(t, src)
	assert.Equal(t, a.Issues, b.Issues)
	assert.Equal(t, a.Blocks, b.Blocks)
}

// ---------------------------------------------------------------------------
// TestAnalyzeSource loop rules
// ---------------------------------------------------------------------------

func TestAnalyzeSource_AllocationInLoop(t *testing.T) {
	src := "for i in range(10):\n    x = [1, 2, 3]\n"
	res := analyze(t, src)

	allocs := issuesOf(res, energy.CategoryAllocationInLoop)
	require.Len(t, allocs, 1)
	assert.Equal(t, "List allocation inside loop", allocs[0].Message)
	assert.Equal(t, "list", allocs[0].Detail)
	assert.Equal(t, 2, allocs[0].Line)
	assert.Equal(t, 2, allocs[0].Severity)
	// Impact scales with loop depth: 2.0 × (1 + 1×0.6).
	assert.InDelta(t, 3.2, allocs[0].EstimatedImpact, 1e-9)
	assert.Len(t, res.Issues, 1, "a single list in a single loop is one issue")
}

func TestAnalyzeSource_NoAllocationIssueOutsideLoop(t *testing.T) {
	res := analyze(t, "x = [1, 2, 3]\nd = {}\n")
	assert.Empty(t, res.Issues)
}

func TestAnalyzeSource_TripleNestedLoops(t *testing.T) {
	src := `for i in range(3):
    for j in range(3):
        for k in range(3):
            pass
`
	res := analyze(t, src)

	nested := issuesOf(res, energy.CategoryNestedLoops)
	require.Len(t, nested, 2, "loops at depth 2 and 3 each flag nesting")
	assert.Equal(t, "depth 2", nested[0].Detail)
	assert.Equal(t, "depth 3", nested[1].Detail)

	deep := issuesOf(res, energy.CategoryLoopDepth)
	require.Len(t, deep, 1, "only depth > 2 flags high nesting")
	assert.Equal(t, 3, deep[0].Severity)
	assert.InDelta(t, 24.0, deep[0].EstimatedImpact, 1e-9)

	loops := blocksOf(res, energy.BlockLoop)
	require.Len(t, loops, 3)
	depths := map[int]bool{}
	for _, b := range loops {
		depths[b.Depth] = true
	}
	assert.True(t, depths[1] && depths[2] && depths[3],
		"loop blocks carry their own nesting level: %v", loops)
}

func TestAnalyzeSource_SiblingLoopsAreNotNested(t *testing.T) {
	src := `for i in range(3):
    pass
for j in range(3):
    pass
`
	res := analyze(t, src)
	assert.Empty(t, issuesOf(res, energy.CategoryNestedLoops))
	for _, b := range blocksOf(res, energy.BlockLoop) {
		assert.Equal(t, 1, b.Depth)
	}
}

// ---------------------------------------------------------------------------
// TestAnalyzeSource calls
// ---------------------------------------------------------------------------

func TestAnalyzeSource_ExpensiveOperation(t *testing.T) {
	t.Run("outside loop", func(t *testing.T) {
		res := analyze(t, "x = sorted([3, 1, 2])\n")
		ops := issuesOf(res, energy.CategoryExpensiveOperation)
		require.Len(t, ops, 1)
		assert.Equal(t, "Expensive operation: sorted", ops[0].Message)
		assert.Equal(t, 1, ops[0].Severity)
		assert.InDelta(t, energy.CostFunctionCall, ops[0].EstimatedImpact, 1e-9)
	})

	t.Run("inside loop", func(t *testing.T) {
		src := "for line in lines:\n    m = re.compile(line)\n"
		res := analyze(t, src)
		ops := issuesOf(res, energy.CategoryExpensiveOperation)
		require.Len(t, ops, 1)
		assert.Equal(t, "Expensive operation inside loop: re.compile", ops[0].Message)
		assert.Equal(t, 2, ops[0].Severity)
		// 2.5 × (1.5 + 1×0.4)
		assert.InDelta(t, 4.75, ops[0].EstimatedImpact, 1e-9)
	})

	t.Run("prefix match", func(t *testing.T) {
		res := analyze(t, "p = os.path.join(a, b)\n")
		ops := issuesOf(res, energy.CategoryExpensiveOperation)
		require.Len(t, ops, 1)
		assert.Equal(t, "os.path.join", ops[0].Detail)
	})
}

func TestAnalyzeSource_ObjectCreationInLoop(t *testing.T) {
	src := "for i in range(5):\n    w = Widget(i)\n"
	res := analyze(t, src)
	objs := issuesOf(res, energy.CategoryObjectCreationInLoop)
	require.Len(t, objs, 1)
	assert.Equal(t, "Object creation inside loop: Widget", objs[0].Message)
	assert.Equal(t, 2, objs[0].Severity)

	// Outside a loop the same call is silent.
	res = analyze(t, "w = Widget(1)\n")
	assert.Empty(t, issuesOf(res, energy.CategoryObjectCreationInLoop))
}

func TestAnalyzeSource_ObjectCreationNonASCIIClassName(t *testing.T) {
	// The uppercase check must decode the first rune, not the first byte.
	src := "for i in range(5):\n    w = Ärger(i)\n"
	res := analyze(t, src)
	objs := issuesOf(res, energy.CategoryObjectCreationInLoop)
	require.Len(t, objs, 1)
	assert.Equal(t, "Ärger", objs[0].Detail)

	res = analyze(t, "for i in range(5):\n    w = ärger(i)\n")
	assert.Empty(t, issuesOf(res, energy.CategoryObjectCreationInLoop))
}

func TestAnalyzeSource_BuiltinConstructorInLoop(t *testing.T) {
	src := "for i in range(5):\n    d = dict()\n"
	res := analyze(t, src)
	allocs := issuesOf(res, energy.CategoryAllocationInLoop)
	require.Len(t, allocs, 1)
	assert.Equal(t, "dict", allocs[0].Detail)
}

// ---------------------------------------------------------------------------
// TestAnalyzeSource comprehensions
// ---------------------------------------------------------------------------

func TestAnalyzeSource_ListComprehensionInLoop(t *testing.T) {
	src := "for row in rows:\n    squares = [c * c for c in row]\n"
	res := analyze(t, src)

	lcs := issuesOf(res, energy.CategoryListCreationInLoop)
	require.Len(t, lcs, 1)
	assert.Equal(t, 1, lcs[0].Severity)
	assert.Contains(t, lcs[0].Message, "List comprehension inside loop")

	comps := blocksOf(res, energy.BlockComprehension)
	require.Len(t, comps, 1)
}

func TestAnalyzeSource_ComprehensionOutsideLoop(t *testing.T) {
	res := analyze(t, "squares = [x * x for x in range(10)]\n")
	assert.Empty(t, issuesOf(res, energy.CategoryListCreationInLoop))
	assert.Len(t, blocksOf(res, energy.BlockComprehension), 1,
		"comprehension still opens its block outside loops")
}

func TestAnalyzeSource_DictComprehensionInLoop(t *testing.T) {
	src := "for row in rows:\n    d = {k: v for k, v in row}\n"
	res := analyze(t, src)
	allocs := issuesOf(res, energy.CategoryAllocationInLoop)
	require.Len(t, allocs, 1)
	assert.Equal(t, "dict comprehension", allocs[0].Detail)
}

// ---------------------------------------------------------------------------
// TestAnalyzeSource recursion
// ---------------------------------------------------------------------------

func TestAnalyzeSource_Recursion(t *testing.T) {
	src := `def factorial(n):
    if n <= 1:
        return 1
    return n * factorial(n - 1)
`
	res := analyze(t, src)
	recs := issuesOf(res, energy.CategoryRecursion)
	require.Len(t, recs, 1, "recursion is reported once per function")
	assert.Equal(t, "Recursion detected", recs[0].Message)
	assert.Equal(t, "factorial", recs[0].Detail)
	assert.InDelta(t, 12.0, recs[0].EstimatedImpact, 1e-9)
}

func TestAnalyzeSource_RecursiveMethod(t *testing.T) {
	src := `class Walker:
    def descend(self, node):
        for child in node.children:
            self.descend(child)
`
	res := analyze(t, src)
	recs := issuesOf(res, energy.CategoryRecursion)
	require.Len(t, recs, 1)
	assert.Equal(t, "Recursive method call detected", recs[0].Message)
}

func TestAnalyzeSource_NoFalseRecursion(t *testing.T) {
	src := `def outer(n):
    return inner(n)

def inner(n):
    return n + 1
`
	res := analyze(t, src)
	assert.Empty(t, issuesOf(res, energy.CategoryRecursion))
}

// ---------------------------------------------------------------------------
// TestAnalyzeFragment
// ---------------------------------------------------------------------------

func TestAnalyzeFragment_LoopBody(t *testing.T) {
	// A loop body fragment starting at file line 10.
	issues, err := NewAnalyzer().AnalyzeFragment("items = [1, 2]", energy.BlockLoop, 10)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, energy.CategoryAllocationInLoop, issues[0].Category)
	assert.Equal(t, 10, issues[0].Line, "fragment lines map back to file coordinates")
}

func TestAnalyzeFragment_Function(t *testing.T) {
	fragment := "for i in data:\n    for j in i:\n        pass"
	issues, err := NewAnalyzer().AnalyzeFragment(fragment, energy.BlockFunction, 5)
	require.NoError(t, err)
	nested := 0
	for _, is := range issues {
		if is.Category == energy.CategoryNestedLoops {
			nested++
			assert.Equal(t, 6, is.Line)
		}
	}
	assert.Equal(t, 1, nested)
}

func TestAnalyzeFragment_SyntaxError(t *testing.T) {
	_, err := NewAnalyzer().AnalyzeFragment("x = (", energy.BlockLoop, 1)
	assert.ErrorIs(t, err, ErrSyntax)
}

// ---------------------------------------------------------------------------
// TestCountLines
// ---------------------------------------------------------------------------

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, CountLines(nil))
	assert.Equal(t, 1, CountLines([]byte("x = 1")))
	assert.Equal(t, 1, CountLines([]byte("x = 1\n")))
	assert.Equal(t, 2, CountLines([]byte("x = 1\ny = 2")))
	assert.Equal(t, 2, CountLines([]byte("a\nb\n")), "trailing newline does not open a new line")
	assert.Equal(t, 3, CountLines([]byte("a\n\nb\n")))
}
