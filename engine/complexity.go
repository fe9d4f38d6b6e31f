package engine

import (
	"time"

	"github.com/springforge/springforge"
	"github.com/springforge/springforge/compiler/load"
)

// ComplexityLevel buckets a diagram by generation effort.
type ComplexityLevel string

const (
	Simple      ComplexityLevel = "SIMPLE"
	Medium      ComplexityLevel = "MEDIUM"
	Complex     ComplexityLevel = "COMPLEX"
	VeryComplex ComplexityLevel = "VERY_COMPLEX"
)

// Complexity is the effort estimate for generating a diagram.
type Complexity struct {
	Classes       int             `json:"classes"`
	Relationships int             `json:"relationships"`
	Score         int             `json:"score"`
	Level         ComplexityLevel `json:"level"`
	// Estimate is the predicted wall-clock generation time.
	Estimate time.Duration `json:"estimate"`
}

// Estimate scores a diagram: two points per class plus one per
// relationship. The duration estimate adds a flat cost for full-project
// runs, which also emit build and configuration files.
func Estimate(d *load.Diagram, scope springforge.GenerationScope) Complexity {
	c := Complexity{
		Classes:       len(d.Classes),
		Relationships: len(d.Relationships),
	}
	c.Score = 2*c.Classes + c.Relationships
	switch {
	case c.Score <= 10:
		c.Level = Simple
	case c.Score <= 25:
		c.Level = Medium
	case c.Score <= 50:
		c.Level = Complex
	default:
		c.Level = VeryComplex
	}
	seconds := 5 + 2*c.Classes + c.Relationships
	if scope == springforge.ScopeFullProject {
		seconds += 10
	}
	c.Estimate = time.Duration(seconds) * time.Second
	return c
}
