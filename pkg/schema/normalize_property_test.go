//go:build property

package schema

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/adwikataware/Hackcrypt/pkg/types"
)

func TestConfidenceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("result is always within 0-100", prop.ForAll(
		func(v float64) bool {
			pct := NormalizeConfidence(v)
			return pct >= 0 && pct <= 100
		},
		gen.Float64Range(-1e6, 1e6),
	))

	// Inputs at or below 0.01 scale into the fraction range themselves and
	// are re-scaled on a second pass; the fixpoint holds everywhere else.
	properties.Property("idempotent outside the fraction ambiguity zone", prop.ForAll(
		func(v float64) bool {
			once := NormalizeConfidence(v)
			return NormalizeConfidence(once) == once
		},
		gen.Float64Range(0.011, 1e6),
	))

	properties.Property("monotonic over the fraction range", prop.ForAll(
		func(a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			return NormalizeConfidence(a) <= NormalizeConfidence(b)
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	properties.Property("percent inputs pass through unchanged", prop.ForAll(
		func(v float64) bool {
			return NormalizeConfidence(v) == v
		},
		gen.Float64Range(1.0001, 100),
	))

	properties.TestingRun(t)
}

func TestDerivationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("threat level rank never decreases with confidence", prop.ForAll(
		func(a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			return DeriveThreatLevel(a).Rank() <= DeriveThreatLevel(b).Rank()
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.Property("explicit is_fake always wins", prop.ForAll(
		func(fake bool, verdict string) bool {
			got := DeriveAuthenticity(&fake, verdict, types.ThreatCritical)
			if fake {
				return got == types.AuthenticityFake
			}
			return got == types.AuthenticityReal
		},
		gen.Bool(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
