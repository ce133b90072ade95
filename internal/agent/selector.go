package agent

import (
	"math/rand"

	"chirp/internal/config"
)

// replyProbability is the chance of choosing a reply under the
// strategic mix mode.
const replyProbability = 0.40

// Selector chooses post-vs-reply for a run. The random source is
// injected; production wires an unseeded one, tests pin theirs.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a selector over the given random source.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Choose returns the action for this run. reply_only always replies,
// strategic_mix replies with probability 0.40, every other mode posts.
// Pure selection over configuration and one random draw.
func (s *Selector) Choose(mode string) Action {
	switch mode {
	case config.ModeReplyOnly:
		return ActionReply
	case config.ModeStrategicMix:
		if s.rng.Float64() < replyProbability {
			return ActionReply
		}
		return ActionPost
	default:
		return ActionPost
	}
}
