package runtime

import (
	"errors"

	"github.com/lox/dcfr-holdem/sdk/solver"
)

// Policy exposes read-only access to a solver blueprint for sampling actions
// during live play.
type Policy struct {
	blueprint *solver.Blueprint
}

// NewPolicy wraps an in-memory blueprint.
func NewPolicy(bp *solver.Blueprint) *Policy {
	return &Policy{blueprint: bp}
}

// Load constructs a runtime policy from a stored blueprint file.
func Load(path string) (*Policy, error) {
	bp, err := solver.LoadBlueprint(path)
	if err != nil {
		return nil, err
	}
	return &Policy{blueprint: bp}, nil
}

// Blueprint returns the underlying blueprint metadata (read-only).
func (p *Policy) Blueprint() *solver.Blueprint {
	if p == nil {
		return nil
	}
	return p.blueprint
}

// ActionWeights returns a distribution over labels for the information set
// key. Labels missing from the stored row get no weight; when nothing
// matches, or the key is unknown, the result is uniform. The bool reports
// whether the blueprint row was used.
func (p *Policy) ActionWeights(key string, labels []string) ([]float64, bool, error) {
	if p == nil || p.blueprint == nil {
		return nil, false, errors.New("nil policy")
	}
	if len(labels) == 0 {
		return nil, false, errors.New("no actions to weigh")
	}

	out := make([]float64, len(labels))
	if row, ok := p.blueprint.Strategy(key); ok {
		probs := make(map[string]float64, len(row))
		for _, ap := range row {
			probs[ap.Action] = ap.Probability
		}
		total := 0.0
		for i, l := range labels {
			if v := probs[l]; v > 0 {
				out[i] = v
				total += v
			}
		}
		if total > 0 {
			for i := range out {
				out[i] /= total
			}
			return out, true, nil
		}
	}

	// Uniform fallback.
	v := 1.0 / float64(len(labels))
	for i := range out {
		out[i] = v
	}
	return out, false, nil
}
