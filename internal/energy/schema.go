package energy

// --- Enums ---

// IssueCategory classifies detected energy-impacting patterns.
type IssueCategory string

const (
	CategoryNestedLoops          IssueCategory = "nested_loops"
	CategoryLoopDepth            IssueCategory = "loop_depth"
	CategoryAllocationInLoop     IssueCategory = "allocation_in_loop"
	CategoryListCreationInLoop   IssueCategory = "list_creation_in_loop"
	CategoryObjectCreationInLoop IssueCategory = "object_creation_in_loop"
	CategoryRecursion            IssueCategory = "recursion"
	CategoryExpensiveOperation   IssueCategory = "expensive_operation"
	CategoryCyclomaticComplexity IssueCategory = "cyclomatic_complexity"
	CategoryStructuralWarning    IssueCategory = "structural_warning"
)

// BlockType classifies the syntactic region a BlockMetrics accounts for.
type BlockType string

const (
	BlockModule        BlockType = "module"
	BlockFunction      BlockType = "function"
	BlockLoop          BlockType = "loop"
	BlockConditional   BlockType = "conditional"
	BlockComprehension BlockType = "comprehension"
)

// --- Models ---

// Issue is a single detected energy-impacting pattern occurrence.
// Line and Column are 1-based; zero means "no location". Severity is 1-3.
// EstimatedImpact, when positive, takes precedence over the weight table
// during scoring.
type Issue struct {
	Category        IssueCategory `json:"category"`
	Message         string        `json:"message"`
	Line            int           `json:"line,omitempty"`
	Column          int           `json:"column,omitempty"`
	Severity        int           `json:"severity"`
	Detail          string        `json:"detail,omitempty"`
	EstimatedImpact float64       `json:"estimatedImpact,omitempty"`
}

// BlockMetrics is the energy accounting unit for one syntactic block.
// TotalEnergy and EnergyPerLine stay zero until Finalize runs, once, when
// the block is popped off the visitor's block stack.
type BlockMetrics struct {
	Type               BlockType `json:"blockType"`
	StartLine          int       `json:"startLine"`
	EndLine            int       `json:"endLine"`
	BaseEnergy         float64   `json:"baseEnergy"`
	Depth              int       `json:"depth"`
	OperationPenalties float64   `json:"operationPenalties"`
	TotalEnergy        float64   `json:"totalEnergy"`
	EnergyPerLine      float64   `json:"energyPerLine"`
}

// Lines returns the inclusive line count of the block, floored at 1.
func (b *BlockMetrics) Lines() int {
	n := b.EndLine - b.StartLine + 1
	if n < 1 {
		return 1
	}
	return n
}

// Finalize computes the derived energy fields:
//
//	TotalEnergy = BaseEnergy × (1 + (Depth−1)×k) + OperationPenalties
//	EnergyPerLine = TotalEnergy / max(1, lines)
//
// k is the depth sensitivity coefficient (0.3 by default).
func (b *BlockMetrics) Finalize(depthSensitivity float64) {
	multiplier := 1 + float64(b.Depth-1)*depthSensitivity
	b.TotalEnergy = b.BaseEnergy*multiplier + b.OperationPenalties
	b.EnergyPerLine = b.TotalEnergy / float64(b.Lines())
}

// Grade is one of the six contiguous A-F score bands.
type Grade struct {
	Letter      string `json:"letter"`
	ScoreMin    int    `json:"scoreMin"`
	ScoreMax    int    `json:"scoreMax"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// grades covers 0-100 contiguously, best band first.
var grades = []Grade{
	{"A", 90, 100, "Excellent efficiency", "🌟"},
	{"B", 75, 89, "Good efficiency", "👍"},
	{"C", 60, 74, "Moderate inefficiencies", "⚠️"},
	{"D", 45, 59, "Needs optimization", "🔋"},
	{"E", 30, 44, "Poor efficiency", "🔥"},
	{"F", 0, 29, "Critical inefficiencies", "💀"},
}

// GradeForScore maps a score to its band. Scores outside 0-100 are clamped.
func GradeForScore(score int) Grade {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	for _, g := range grades {
		if score >= g.ScoreMin && score <= g.ScoreMax {
			return g
		}
	}
	return grades[len(grades)-1]
}

// Components is the named breakdown of the scoring intermediates, kept on
// the report for transparency. Values are rounded for display.
type Components struct {
	TotalPenalty        float64 `json:"totalPenalty"`
	EnergyComponent     float64 `json:"energyComponent"`
	IssueComponent      float64 `json:"issueComponent"`
	ComplexityComponent float64 `json:"complexityComponent"`
	Score               int     `json:"score"`
	ScalingConstant     float64 `json:"scalingConstant"`
	Alpha               float64 `json:"alpha"`
	Beta                float64 `json:"beta"`
	Gamma               float64 `json:"gamma"`
	Formula             string  `json:"formula"`
}

// Report is the full result of analyzing one source unit. Hotspot points
// into Blocks (a reference, not a copy's owner); it is nil when no
// non-module block exists.
type Report struct {
	Score       int            `json:"score"`
	Grade       Grade          `json:"grade"`
	Issues      []Issue        `json:"issues"`
	Blocks      []BlockMetrics `json:"blocks"`
	Hotspot     *BlockMetrics  `json:"hotspot,omitempty"`
	Filename    string         `json:"filename"`
	SourceLines int            `json:"sourceLines"`
	RawPenalty  float64        `json:"rawPenalty"`
	Components  Components     `json:"components"`
}

// IssuesByCategory groups the report's issues for presentation, preserving
// first-seen category order.
func (r *Report) IssuesByCategory() ([]IssueCategory, map[IssueCategory][]Issue) {
	var order []IssueCategory
	byCat := make(map[IssueCategory][]Issue)
	for _, is := range r.Issues {
		if _, ok := byCat[is.Category]; !ok {
			order = append(order, is.Category)
		}
		byCat[is.Category] = append(byCat[is.Category], is)
	}
	return order, byCat
}

// HotspotRegion returns the hotspot's inclusive line range, or ok=false
// when the report has no hotspot.
func (r *Report) HotspotRegion() (start, end int, ok bool) {
	if r.Hotspot == nil {
		return 0, 0, false
	}
	return r.Hotspot.StartLine, r.Hotspot.EndLine, true
}
