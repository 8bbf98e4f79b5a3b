package catalog

import (
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ana Silva":          "ana-silva",
		"Beatriz Costa":      "beatriz-costa",
		"  Júlia  D'Ávila! ": "julia-d-avila",
		"Conceição São João": "conceicao-sao-joao",
		"---":                "",
		"Zoë 2026":           "zoe-2026",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

var fragments = []string{"Ana", "Ávila", "São", "Çedilha", " ", "-", "!", "Émile", "ñ", "42"}

var slugShape = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

func TestSlugifyProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	names := gen.OneGenOf(
		gen.AnyString(),
		gen.AlphaString(),
		gen.SliceOf(gen.IntRange(0, len(fragments)-1)).
			Map(func(idx []int) string {
				parts := make([]string, len(idx))
				for i, j := range idx {
					parts[i] = fragments[j]
				}
				return strings.Join(parts, "")
			}),
	)

	properties.Property("idempotent", prop.ForAll(
		func(name string) bool {
			s := Slugify(name)
			return Slugify(s) == s
		},
		names,
	))

	properties.Property("deterministic", prop.ForAll(
		func(name string) bool {
			return Slugify(name) == Slugify(name)
		},
		names,
	))

	properties.Property("lower-case ascii with inner hyphens only", prop.ForAll(
		func(name string) bool {
			return slugShape.MatchString(Slugify(name))
		},
		names,
	))

	properties.TestingRun(t)
}
