//go:build !withcv
// +build !withcv

package detect

import (
	"github.com/LdDl/anttrack/mot"
)

// VideoSource replaces the OpenCV video reader when built without the withcv tag.
type VideoSource struct{}

// OpenVideoSource always fails with ErrNoOpenCV.
func OpenVideoSource(path string, params Params) (*VideoSource, error) {
	return nil, ErrNoOpenCV
}

// Info returns zero clip info.
func (source *VideoSource) Info() mot.ClipInfo { return mot.ClipInfo{} }

// Next always fails with ErrNoOpenCV.
func (source *VideoSource) Next() (mot.Frame, []mot.Detection, error) {
	return mot.Frame{}, nil, ErrNoOpenCV
}

// Close does nothing.
func (source *VideoSource) Close() error { return nil }
