package ranker

import "math/rand"

// ApplyExplorationMix takes the top floor(N*exploit) ranked candidates plus
// a random sample of the rest, then shuffles the combined set with an
// explicit Fisher-Yates pass so callers get a reproducible result under a
// seeded rng.
func ApplyExplorationMix(ranked []Scored, exploit float64, rng *rand.Rand) []Scored {
	n := len(ranked)
	if n == 0 {
		return ranked
	}

	exploitCount := int(float64(n) * exploit)
	if exploitCount > n {
		exploitCount = n
	}

	restCount := n - exploitCount

	mixed := make([]Scored, 0, n)
	mixed = append(mixed, ranked[:exploitCount]...)

	rest := make([]Scored, len(ranked[exploitCount:]))
	copy(rest, ranked[exploitCount:])
	fisherYatesShuffle(rest, rng)
	if restCount > len(rest) {
		restCount = len(rest)
	}
	mixed = append(mixed, rest[:restCount]...)

	fisherYatesShuffle(mixed, rng)
	return mixed
}

// fisherYatesShuffle shuffles s in place using rng, so tests can supply a
// seeded source for deterministic output.
func fisherYatesShuffle(s []Scored, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
