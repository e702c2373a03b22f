package pipeline

import "math"

// Dimension names the side of an image a resize rule holds fixed.
type Dimension string

const (
	FixWidth  Dimension = "width"
	FixHeight Dimension = "height"
)

// Rule fixes one dimension of every image in a matching folder to a
// target value; the other dimension follows the aspect ratio.
type Rule struct {
	Match  func(folder string) bool
	Fix    Dimension
	Target int
}

// Apply computes the derivative dimensions for a source image. Both
// sides are scaled by the same ratio and rounded, so the fixed side
// always comes out exactly at the target.
func (r Rule) Apply(srcWidth, srcHeight int) (width, height int) {
	fixed := srcHeight
	if r.Fix == FixWidth {
		fixed = srcWidth
	}
	ratio := float64(r.Target) / float64(fixed)
	width = int(math.Round(float64(srcWidth) * ratio))
	height = int(math.Round(float64(srcHeight) * ratio))
	return width, height
}

// Policy is an ordered rule table keyed on folder name. The first
// matching rule wins; the fallback applies when none match.
type Policy struct {
	rules    []Rule
	fallback Rule
}

// NewPolicy builds the default gallery policy: the wide folder is
// resized to a fixed width, every other folder to a fixed height.
func NewPolicy(wideFolder string, targetWidth, targetHeight int) Policy {
	return Policy{
		rules: []Rule{
			{
				Match:  func(folder string) bool { return folder == wideFolder },
				Fix:    FixWidth,
				Target: targetWidth,
			},
		},
		fallback: Rule{Fix: FixHeight, Target: targetHeight},
	}
}

// Resolve returns the rule governing a folder.
func (p Policy) Resolve(folder string) Rule {
	for _, r := range p.rules {
		if r.Match != nil && r.Match(folder) {
			return r
		}
	}
	return p.fallback
}
