// Package scoring turns issues and block metrics into a bounded efficiency
// score through a three-component weighted model with exponential
// normalization:
//
//	RawPenalty = α×Energy + β×Issue + γ×Complexity
//	Score      = round(100 × e^(-RawPenalty / S))
package scoring

import (
	"math"

	"github.com/ritikaseth1003/GreenLint/internal/analyzer"
	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// Defaults for the engine parameters.
const (
	DefaultAlpha            = 0.6 // energy component weight
	DefaultBeta             = 0.6 // issue component weight
	DefaultGamma            = 0.2 // complexity component weight
	DefaultDepthSensitivity = 0.3
	DefaultScalingConstant  = 50.0
	DefaultCCThreshold      = 10
)

// scoreFormula is surfaced in the component breakdown for transparency.
const scoreFormula = "Score = 100 × e^(-Penalty / S)"

// Config holds the engine parameters. The zero value means "use the
// defaults"; any field set to a non-zero value overrides independently.
type Config struct {
	Weights          energy.WeightTable
	DisableSeverity  bool // when true, weights are not multiplied by severity
	CCThreshold      int
	Alpha            float64
	Beta             float64
	Gamma            float64
	DepthSensitivity float64
	ScalingConstant  float64
}

// Engine computes energy reports. It carries only immutable configuration,
// so a single Engine is safe for concurrent use; each ComputeReport call is
// a pure function of its inputs.
type Engine struct {
	weights         energy.WeightTable
	useSeverity     bool
	ccThreshold     int
	alpha           float64
	beta            float64
	gamma           float64
	depthK          float64
	scalingConstant float64
}

// NewEngine creates an Engine, filling unset Config fields with defaults.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		weights:         cfg.Weights,
		useSeverity:     !cfg.DisableSeverity,
		ccThreshold:     cfg.CCThreshold,
		alpha:           cfg.Alpha,
		beta:            cfg.Beta,
		gamma:           cfg.Gamma,
		depthK:          cfg.DepthSensitivity,
		scalingConstant: cfg.ScalingConstant,
	}
	if e.weights == nil {
		e.weights = energy.DefaultWeights()
	}
	if e.ccThreshold == 0 {
		e.ccThreshold = DefaultCCThreshold
	}
	if e.alpha == 0 {
		e.alpha = DefaultAlpha
	}
	if e.beta == 0 {
		e.beta = DefaultBeta
	}
	if e.gamma == 0 {
		e.gamma = DefaultGamma
	}
	if e.depthK == 0 {
		e.depthK = DefaultDepthSensitivity
	}
	if e.scalingConstant == 0 {
		e.scalingConstant = DefaultScalingConstant
	}
	return e
}

// Input bundles everything ComputeReport consumes beyond the analysis
// result itself. CyclomaticComplexity below or at the threshold, or left
// zero, contributes nothing; StructuralWarnings synthesizes that many
// low-severity issues before scoring.
type Input struct {
	Source               []byte
	Filename             string
	CyclomaticComplexity int
	StructuralWarnings   int
}

// ComputeReport runs the full scoring pipeline over issues and blocks and
// assembles the report.
func (e *Engine) ComputeReport(issues []energy.Issue, blocks []energy.BlockMetrics, in Input) *energy.Report {
	// Fold external structural warnings into the issue pipeline.
	for i := 0; i < in.StructuralWarnings; i++ {
		issues = append(issues, energy.Issue{
			Category:        energy.CategoryStructuralWarning,
			Message:         "Structural warning (linter)",
			Severity:        1,
			EstimatedImpact: 2.0,
		})
	}

	energyComp := e.energyComponent(blocks)
	issueComp := e.issueComponent(issues)
	complexityComp := e.complexityComponent(in.CyclomaticComplexity)

	rawPenalty := e.alpha*energyComp + e.beta*issueComp + e.gamma*complexityComp
	if rawPenalty < 0.1 {
		rawPenalty = 0.1
	}

	score := e.efficiencyScore(rawPenalty)
	grade := energy.GradeForScore(score)
	hotspot := FindHotspot(blocks)

	return &energy.Report{
		Score:       score,
		Grade:       grade,
		Issues:      issues,
		Blocks:      blocks,
		Hotspot:     hotspot,
		Filename:    in.Filename,
		SourceLines: analyzer.CountLines(in.Source),
		RawPenalty:  rawPenalty,
		Components: energy.Components{
			TotalPenalty:        round2(rawPenalty),
			EnergyComponent:     round2(energyComp),
			IssueComponent:      round2(issueComp),
			ComplexityComponent: round2(complexityComp),
			Score:               score,
			ScalingConstant:     e.scalingConstant,
			Alpha:               e.alpha,
			Beta:                e.beta,
			Gamma:               e.gamma,
			Formula:             scoreFormula,
		},
	}
}

// energyComponent sums finalized block energy, normalized per 20-line unit
// so tiny snippets cannot trivially score as perfect while large files are
// not punished linearly.
func (e *Engine) energyComponent(blocks []energy.BlockMetrics) float64 {
	if len(blocks) == 0 {
		return 0
	}
	total := 0.0
	totalLines := 0
	for i := range blocks {
		total += blocks[i].TotalEnergy
		totalLines += blocks[i].Lines()
	}
	return total / math.Max(1, float64(totalLines)/20)
}

// issueComponent sums per-issue penalties: the estimated impact when
// present, otherwise category weight (× severity when enabled), then
// applies a near-linear sub-linear dampening.
func (e *Engine) issueComponent(issues []energy.Issue) float64 {
	if len(issues) == 0 {
		return 0
	}
	total := 0.0
	for _, is := range issues {
		switch {
		case is.EstimatedImpact > 0:
			total += is.EstimatedImpact
		case e.useSeverity:
			total += float64(e.weights.Weight(is.Category) * is.Severity)
		default:
			total += float64(e.weights.Weight(is.Category))
		}
	}
	if total <= 0 {
		return 0
	}
	return math.Pow(total, 0.95) * 2.0
}

// complexityComponent penalizes excess over the cyclomatic threshold
// logarithmically, so a single pathological function cannot run away with
// the score.
func (e *Engine) complexityComponent(cc int) float64 {
	if cc <= e.ccThreshold {
		return 0
	}
	excess := float64(cc - e.ccThreshold)
	weight := float64(e.weights.Weight(energy.CategoryCyclomaticComplexity))
	return math.Log(1+excess) * weight
}

// efficiencyScore converts the raw penalty into 0-100 via exponential
// decay and rounds to the nearest integer.
func (e *Engine) efficiencyScore(rawPenalty float64) int {
	if rawPenalty <= 0 {
		return 100
	}
	score := 100 * math.Exp(-rawPenalty/e.scalingConstant)
	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

// FindHotspot picks the non-module block most worth refactoring. Blocks
// over 10 lines are ranked mostly by total energy; small blocks mostly by
// energy density, because a small hot block is the more actionable target.
// Ties keep the first maximal block in close order. Returns nil when only
// the module block exists.
func FindHotspot(blocks []energy.BlockMetrics) *energy.BlockMetrics {
	var best *energy.BlockMetrics
	bestScore := math.Inf(-1)
	for i := range blocks {
		b := &blocks[i]
		if b.Type == energy.BlockModule {
			continue
		}
		s := hotspotWeight(b)
		if s > bestScore {
			best = b
			bestScore = s
		}
	}
	return best
}

func hotspotWeight(b *energy.BlockMetrics) float64 {
	lines := float64(b.Lines())
	if lines > 10 {
		return b.TotalEnergy*0.7 + b.EnergyPerLine*lines*0.3
	}
	return b.TotalEnergy*0.4 + b.EnergyPerLine*lines*0.6
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
