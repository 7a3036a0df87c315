package region

// Type enumerates the region shapes spec.md §3 defines.
type Type int

const (
	WholeImage Type = iota
	Point
	Rectangle
	Polygon
	Ellipse
)

// ReservedWholeImageID and ReservedCursorID are the two reserved region
// ids from spec.md §3.
const (
	ReservedWholeImageID = -1
	ReservedCursorID     = 0
)

// ControlPoint is a single (x, y) vertex of a region's geometry.
type ControlPoint struct {
	X, Y float64
}

// Region composes Stats and Profiler with the geometry fields from
// spec.md §3/§4.5. It never references its owning Frame (spec.md §9).
type Region struct {
	Name          string
	Type          Type
	ControlPoints []ControlPoint
	RotationDeg   float64
	MinChan       int
	MaxChan       int
	StokesSet     []int

	Stats    *Stats
	Profiler *Profiler
}

// New constructs a Region with fresh, empty Stats/Profiler.
func New(name string, t Type) *Region {
	return &Region{
		Name:     name,
		Type:     t,
		Stats:    NewStats(),
		Profiler: NewProfiler(),
	}
}

// NewWholeImage constructs the automatically-created region -1 covering
// the full image with the default histogram config (channel: current,
// numBins: auto), per spec.md §4.6.
func NewWholeImage(width, height, depth int) *Region {
	r := New("whole image", WholeImage)
	r.ControlPoints = []ControlPoint{{X: 0, Y: 0}, {X: float64(width), Y: float64(height)}}
	r.MinChan, r.MaxChan = 0, depth-1
	r.Stats.SetHistogramConfigs([]HistogramConfig{{Channel: -1, NumBins: -1}})
	return r
}

// NewCursor constructs region 0, always a Point, per spec.md §3.
func NewCursor() *Region {
	r := New("cursor", Point)
	r.ControlPoints = []ControlPoint{{X: 0, Y: 0}}
	return r
}

// SetChannels is a pure mutator; any geometry change clears the stats
// memo (spec.md §4.5).
func (r *Region) SetChannels(minChan, maxChan int, stokes []int) {
	r.MinChan = minChan
	r.MaxChan = maxChan
	r.StokesSet = append([]int(nil), stokes...)
	r.Stats.ResetMemo()
}

// SetControlPoints replaces the region's vertices and resets the memo.
func (r *Region) SetControlPoints(points []ControlPoint) {
	r.ControlPoints = append([]ControlPoint(nil), points...)
	r.Stats.ResetMemo()
}

// SetRotation replaces the rotation and resets the memo.
func (r *Region) SetRotation(deg float64) {
	r.RotationDeg = deg
	r.Stats.ResetMemo()
}

// Cursor returns the region's first control point, used as the (cx, cy)
// for spatial profile extraction on the cursor region.
func (r *Region) Cursor() (x, y int) {
	if len(r.ControlPoints) == 0 {
		return 0, 0
	}
	return int(r.ControlPoints[0].X), int(r.ControlPoints[0].Y)
}
