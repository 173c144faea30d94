// Package params names every fixed coefficient of the behaviour model.
// No magic numbers inside the update rules — each constant traces back here.
package params

// Threat appraisal weights. Perceived utility counts for the agent, perceived
// cost and risk count against it; the three must stay a risk/cost-discounted
// utility heuristic, so UtilityWeight - CostWeight - RiskWeight > 0.
const (
	UtilityWeight = 0.7
	CostWeight    = 0.2
	RiskWeight    = 0.1
)

// ValueBlend is the equal split between the attitude-threshold gap and the
// threat-appraisal-threshold gap when deriving behavioural values.
const ValueBlend = 0.5

// ThresholdDriftSigma is the standard deviation of the unbiased random walk
// applied to adoption thresholds each step (default mode only). Thresholds
// are clamped to [0, 1] after every draw.
const ThresholdDriftSigma = 0.03

// Quasi-hyperbolic discount defaults. The memory weight on the most recent
// step is 1; every older step k gets PresentBias × DiscountFactor^k before
// normalization. PresentBias < 1 makes the drop from "now" to "one step ago"
// steeper than pure exponential decay.
const (
	DiscountFactor = 0.8
	PresentBias    = 0.6
)

// Behavioural value domain. Values above GreenCutoff mean the green
// alternative is performed for that behaviour.
const GreenCutoff = 0.0
