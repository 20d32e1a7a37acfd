// Package render provides output renderers for defect report patterns.
package render

import "github.com/dkoosis/zdefects/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) (string, error)
}

// collected holds patterns split by kind; the first summary and table win.
type collected struct {
	summary      *pattern.Summary
	leaderboards []*pattern.Leaderboard
	table        *pattern.DefectTable
}

func collect(patterns []pattern.Pattern) collected {
	var c collected
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			if c.summary == nil {
				c.summary = v
			}
		case *pattern.Leaderboard:
			c.leaderboards = append(c.leaderboards, v)
		case *pattern.DefectTable:
			if c.table == nil {
				c.table = v
			}
		}
	}
	return c
}

func (c collected) leaderboard(dim pattern.Dimension) *pattern.Leaderboard {
	for _, lb := range c.leaderboards {
		if lb.Dimension == dim {
			return lb
		}
	}
	return &pattern.Leaderboard{Dimension: dim}
}
