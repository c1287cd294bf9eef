package domain

import m "gooze.dev/pkg/playground/internal/model"

// MutationScore is the percentage of detected mutants among those that
// could have been detected. Compile errors and ignored mutants are left out.
// An empty denominator scores 100.
func MutationScore(results []m.MutantResult) float64 {
	detected := 0
	total := 0

	for _, result := range results {
		switch result.Status {
		case m.Killed, m.Timeout:
			detected++
			total++
		case m.Survived, m.NoCoverage:
			total++
		case m.NotRun, m.CompileError, m.Ignored:
			// Excluded from the score denominator.
		}
	}

	if total == 0 {
		return 100.0
	}

	return float64(detected) / float64(total) * 100
}
