package solver

// Difficulty selects the frequency weight CandidateScore applies.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Config carries every recognized solver option from spec.md §4.4.1.
type Config struct {
	TimeoutMs          int64
	MaxBacktrack        int
	BeamWidth           int
	Difficulty          Difficulty
	FrequencyWeights    map[Difficulty]float64
	ParallelCandidates  bool
	DepthSafety         int // 0 means "derive as 3*len(slots)"
	PlacementCacheLimit int // LRU bound, default 2^20
}

// DefaultFrequencyWeights matches spec.md §6: easy:+1, medium:0, hard:-1.
func DefaultFrequencyWeights() map[Difficulty]float64 {
	return map[Difficulty]float64{Easy: 1, Medium: 0, Hard: -1}
}

// DefaultConfig returns the spec.md §6 defaults, including the 120s
// timeout. Use this rather than a zero-value Config unless a specific
// (possibly zero) timeout is intended.
func DefaultConfig() Config {
	c := Config{TimeoutMs: 120_000}
	c.setDefaults()
	return c
}

// setDefaults fills zero-valued fields with spec.md §6 defaults.
//
// TimeoutMs is deliberately excluded: 0 is a meaningful caller value
// ("fail the very first node without placing anything", spec.md §8
// boundary case) rather than "unset". Callers that want the 120s
// default ask for it explicitly via DefaultConfig.
func (c *Config) setDefaults() {
	if c.MaxBacktrack == 0 {
		c.MaxBacktrack = 500
	}
	if c.BeamWidth == 0 {
		c.BeamWidth = 500
	}
	if c.FrequencyWeights == nil {
		c.FrequencyWeights = DefaultFrequencyWeights()
	}
	if c.PlacementCacheLimit == 0 {
		c.PlacementCacheLimit = 1 << 20
	}
}
