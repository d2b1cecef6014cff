package camview

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Pipeline pulls frames from a source and runs them through a Filter.
type Pipeline struct {
	src         FrameSource
	filter      *Filter
	maxFailures int

	raw      gocv.Mat
	out      gocv.Mat
	failures int
}

func NewPipeline(src FrameSource, filter *Filter, maxFailures int) *Pipeline {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &Pipeline{
		src:         src,
		filter:      filter,
		maxFailures: maxFailures,
		raw:         gocv.NewMat(),
		out:         gocv.NewMat(),
	}
}

// Next returns the next processed frame. The Mat is owned by the pipeline and
// stays valid until the following call. ErrNoFrame means this iteration has
// nothing new to show; ErrCameraLost means the source kept failing.
func (p *Pipeline) Next() (gocv.Mat, error) {
	if ok := p.src.Read(&p.raw); !ok || p.raw.Empty() {
		p.failures++
		if p.failures >= p.maxFailures {
			return p.out, fmt.Errorf("%w: %d consecutive reads failed", ErrCameraLost, p.failures)
		}
		return p.out, ErrNoFrame
	}
	p.failures = 0

	if err := p.filter.Apply(p.raw, &p.out); err != nil {
		return p.out, fmt.Errorf("pipeline: %w", err)
	}
	return p.out, nil
}

func (p *Pipeline) Failures() int {
	return p.failures
}

// Close releases the pipeline's buffers. The source and filter are left to
// their owners.
func (p *Pipeline) Close() error {
	if err := p.raw.Close(); err != nil {
		return err
	}
	return p.out.Close()
}
