package locator

import (
	"sort"
	"strings"
)

// Consolidator merges overlapping or word-fragmented OCR detections into
// logical regions. OCR routinely splits one button label into word-by-word
// detections, or reports near-duplicate boxes for the same text; both cases
// collapse to a single ConsolidatedRegion here.
type Consolidator struct {
	iouThreshold float64
	gapFactor    float64
}

// NewConsolidator creates a consolidator. Regions merge when their boxes
// overlap by more than iouThreshold, or when they are horizontally adjacent
// within gapFactor times the open cluster's average character height and
// vertically aligned.
func NewConsolidator(iouThreshold, gapFactor float64) *Consolidator {
	return &Consolidator{iouThreshold: iouThreshold, gapFactor: gapFactor}
}

// cluster accumulates regions while open. Closed clusters become
// ConsolidatedRegions and are never re-merged.
type cluster struct {
	texts       []string
	box         Box
	sourceCount int
	confSum     float64
	heightSum   int
}

func newCluster(r TextRegion) *cluster {
	return &cluster{
		texts:       []string{collapseWhitespace(r.Text)},
		box:         r.Box,
		sourceCount: 1,
		confSum:     r.Confidence,
		heightSum:   r.Box.Height,
	}
}

func (c *cluster) absorb(r TextRegion) {
	c.texts = append(c.texts, collapseWhitespace(r.Text))
	c.box = c.box.Union(r.Box)
	c.sourceCount++
	c.confSum += r.Confidence
	c.heightSum += r.Box.Height
}

// avgHeight approximates the cluster's character height as the mean height
// of its source boxes.
func (c *cluster) avgHeight() float64 {
	return float64(c.heightSum) / float64(c.sourceCount)
}

func (c *cluster) close() ConsolidatedRegion {
	return ConsolidatedRegion{
		Text:        strings.Join(c.texts, " "),
		Box:         c.box,
		SourceCount: c.sourceCount,
		Confidence:  c.confSum / float64(c.sourceCount),
	}
}

// Consolidate merges regions in a single greedy pass over a deterministic
// row-major ordering. The sort makes the merge result independent of the
// iteration order the OCR engine happened to produce; shuffled input yields
// the same set of consolidated regions.
//
// Merged text fragments are joined with a single space, so two adjacent
// detections "Sub" and "mit" consolidate to "Sub mit". The embedding model
// is relied upon to place such joins near their unsplit form.
func (c *Consolidator) Consolidate(regions []TextRegion) []ConsolidatedRegion {
	if len(regions) == 0 {
		return []ConsolidatedRegion{}
	}

	sorted := make([]TextRegion, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Box.Y != b.Box.Y {
			return a.Box.Y < b.Box.Y
		}
		if a.Box.X != b.Box.X {
			return a.Box.X < b.Box.X
		}
		if a.Box.Width != b.Box.Width {
			return a.Box.Width < b.Box.Width
		}
		if a.Box.Height != b.Box.Height {
			return a.Box.Height < b.Box.Height
		}
		return a.Text < b.Text
	})

	consolidated := make([]ConsolidatedRegion, 0, len(sorted))
	open := newCluster(sorted[0])

	for _, r := range sorted[1:] {
		if c.shouldMerge(open, r) {
			open.absorb(r)
			continue
		}
		consolidated = append(consolidated, open.close())
		open = newCluster(r)
	}
	consolidated = append(consolidated, open.close())

	return consolidated
}

// shouldMerge reports whether r belongs in the open cluster: either its box
// overlaps the cluster box by more than the IoU threshold (duplicate
// detections), or it sits on the same line within the gap tolerance
// (word-fragment joins, which often have zero or negative overlap).
func (c *Consolidator) shouldMerge(open *cluster, r TextRegion) bool {
	if open.box.IoU(r.Box) > c.iouThreshold {
		return true
	}

	if open.box.verticalOverlap(r.Box) < 0.5 {
		return false
	}
	gap := float64(r.Box.X - open.box.Right())
	return gap <= c.gapFactor*open.avgHeight()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
