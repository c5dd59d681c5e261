package locator

// Box is an axis-aligned rectangle in pixel coordinates with the origin in
// the upper-left corner of the image.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge (X + Width).
func (b Box) Right() int { return b.X + b.Width }

// Bottom returns the exclusive bottom edge (Y + Height).
func (b Box) Bottom() int { return b.Y + b.Height }

// Area returns the box area in pixels. Degenerate boxes have area 0.
func (b Box) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Union returns the minimal box covering both b and o.
func (b Box) Union(o Box) Box {
	x1 := minInt(b.X, o.X)
	y1 := minInt(b.Y, o.Y)
	x2 := maxInt(b.Right(), o.Right())
	y2 := maxInt(b.Bottom(), o.Bottom())
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// IoU returns the intersection-over-union ratio of two boxes in [0, 1].
func (b Box) IoU(o Box) float64 {
	ix := maxInt(b.X, o.X)
	iy := maxInt(b.Y, o.Y)
	ix2 := minInt(b.Right(), o.Right())
	iy2 := minInt(b.Bottom(), o.Bottom())
	if ix2 <= ix || iy2 <= iy {
		return 0
	}
	inter := (ix2 - ix) * (iy2 - iy)
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// verticalOverlap returns the fraction of the shorter box's height covered by
// the vertical intersection of the two boxes.
func (b Box) verticalOverlap(o Box) float64 {
	top := maxInt(b.Y, o.Y)
	bottom := minInt(b.Bottom(), o.Bottom())
	if bottom <= top {
		return 0
	}
	minH := minInt(b.Height, o.Height)
	if minH <= 0 {
		return 0
	}
	return float64(bottom-top) / float64(minH)
}

// TextRegion is one raw OCR detection: recognized text, its bounding box, and
// the engine's confidence in [0, 1]. Immutable once created.
type TextRegion struct {
	Text       string  `json:"text"`
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence"`
}

// ConsolidatedRegion is a logical text region produced by merging one or more
// TextRegions. Box is the minimal rectangle covering every merged source box,
// SourceCount is the number of merged detections, and Confidence is the mean
// of the merged confidences. A ConsolidatedRegion is never re-merged.
type ConsolidatedRegion struct {
	Text        string  `json:"text"`
	Box         Box     `json:"box"`
	SourceCount int     `json:"source_count"`
	Confidence  float64 `json:"confidence"`
}

// MatchResult pairs a consolidated region with its similarity score against
// the query. Rank starts at 1 and increases as Score decreases.
type MatchResult struct {
	Region ConsolidatedRegion `json:"region"`
	Score  float64            `json:"score"`
	Rank   int                `json:"rank"`
}

// LocateQuery describes one locate call: the target description, how many
// matches to return, and the minimum acceptable score. Immutable per call.
type LocateQuery struct {
	QueryText string
	TopK      int
	MinScore  float64
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
