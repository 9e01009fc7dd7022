package energy

// Base energy costs per construct, calibrated for realistic penalties.
const (
	CostStatement     = 0.8
	CostArithmetic    = 1.2
	CostConditional   = 2.0
	CostLoop          = 4.0
	CostFunctionCall  = 2.5
	CostComprehension = 3.0
	CostAllocation    = 2.0
)

// DefaultWeightFallback is the penalty weight for categories absent from a
// weight table.
const DefaultWeightFallback = 3

// WeightTable maps issue categories to integer penalty weights. Tables are
// built once and never mutated; engines share them freely.
type WeightTable map[IssueCategory]int

// DefaultWeights is the stock penalty table. Callers override by passing
// their own table to the scoring engine, not by mutating this one.
func DefaultWeights() WeightTable {
	return WeightTable{
		CategoryNestedLoops:          8,
		CategoryLoopDepth:            5,
		CategoryAllocationInLoop:     6,
		CategoryListCreationInLoop:   5,
		CategoryObjectCreationInLoop: 6,
		CategoryRecursion:            7,
		CategoryExpensiveOperation:   6,
		CategoryCyclomaticComplexity: 4, // per log-point over threshold
		CategoryStructuralWarning:    2,
	}
}

// Weight returns the penalty weight for a category, falling back to
// DefaultWeightFallback for unlisted categories.
func (w WeightTable) Weight(cat IssueCategory) int {
	if v, ok := w[cat]; ok {
		return v
	}
	return DefaultWeightFallback
}
