package camview

import (
	"fmt"
	"image"
	"strings"

	"gocv.io/x/gocv"
)

// Mode selects the per-frame processing step.
type Mode int

const (
	ModeNone Mode = iota
	ModeEdges
	ModeMotion
)

var modeNames = map[Mode]string{
	ModeNone:   "none",
	ModeEdges:  "edges",
	ModeMotion: "motion",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("unknown filter mode: %q", s)
}

// Filter highlights edges or motion with a Gaussian blur followed by an
// absolute difference. The output always matches the input's size and type.
type Filter struct {
	mode   Mode
	kernel image.Point

	blurred  gocv.Mat
	previous gocv.Mat
}

func NewFilter(mode Mode, kernel int) *Filter {
	return &Filter{
		mode:     mode,
		kernel:   image.Pt(kernel, kernel),
		blurred:  gocv.NewMat(),
		previous: gocv.NewMat(),
	}
}

func (f *Filter) Mode() Mode {
	return f.mode
}

func (f *Filter) Apply(src gocv.Mat, dst *gocv.Mat) error {
	if src.Empty() {
		return ErrNoFrame
	}

	switch f.mode {
	case ModeNone:
		if err := src.CopyTo(dst); err != nil {
			return fmt.Errorf("filter: copy: %w", err)
		}
	case ModeEdges:
		if err := gocv.GaussianBlur(src, &f.blurred, f.kernel, 0, 0, gocv.BorderDefault); err != nil {
			return fmt.Errorf("filter: blur: %w", err)
		}
		if err := gocv.AbsDiff(src, f.blurred, dst); err != nil {
			return fmt.Errorf("filter: diff: %w", err)
		}
	case ModeMotion:
		if err := gocv.GaussianBlur(src, &f.blurred, f.kernel, 0, 0, gocv.BorderDefault); err != nil {
			return fmt.Errorf("filter: blur: %w", err)
		}
		if f.previous.Empty() || !sameShape(f.previous, f.blurred) {
			// nothing to compare against yet
			if err := f.blurred.CopyTo(&f.previous); err != nil {
				return fmt.Errorf("filter: copy: %w", err)
			}
			zero := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), src.Rows(), src.Cols(), src.Type())
			defer zero.Close()
			if err := zero.CopyTo(dst); err != nil {
				return fmt.Errorf("filter: copy: %w", err)
			}
			return nil
		}
		if err := gocv.AbsDiff(f.blurred, f.previous, dst); err != nil {
			return fmt.Errorf("filter: diff: %w", err)
		}
		if err := f.blurred.CopyTo(&f.previous); err != nil {
			return fmt.Errorf("filter: copy: %w", err)
		}
	default:
		return fmt.Errorf("filter: unsupported mode %v", f.mode)
	}
	return nil
}

func (f *Filter) Close() error {
	if err := f.blurred.Close(); err != nil {
		return err
	}
	return f.previous.Close()
}

func sameShape(a, b gocv.Mat) bool {
	return a.Rows() == b.Rows() && a.Cols() == b.Cols() && a.Type() == b.Type()
}
