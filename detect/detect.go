// Package detect finds ant blobs in video frames.
//
// The OpenCV based implementation is built with the withcv build tag.
// Without it OpenVideoSource returns ErrNoOpenCV.
package detect

import (
	"io"

	"github.com/pkg/errors"
)

// ErrNoOpenCV is returned when the binary was built without OpenCV support.
var ErrNoOpenCV = errors.New("built without OpenCV support, rebuild with -tags withcv")

// ErrFrameDecode is returned when a frame before the end of the video cannot be decoded.
var ErrFrameDecode = errors.New("can't decode frame")

// Params holds blob detector settings.
type Params struct {
	// Blob area bounds (pixels): only MinBlob < area < MaxBlob are reported
	MinBlob float64 `json:"min_blob"`
	MaxBlob float64 `json:"max_blob"`
	// Number of frames the background model remembers
	KNNHistory int `json:"knn_history"`
	// Squared distance threshold of the KNN background subtractor
	KNNThreshold float64 `json:"knn_threshold"`
	// Gaussian blur kernel size (odd, pixels)
	BlurKernel int `json:"blur_kernel"`
}

// DefaultParams returns settings tuned for ants filmed from above.
func DefaultParams() Params {
	return Params{
		MinBlob:      20,
		MaxBlob:      500,
		KNNHistory:   500,
		KNNThreshold: 400,
		BlurKernel:   5,
	}
}

// Validate checks detector settings.
func (p Params) Validate() error {
	if p.MinBlob < 0 || p.MaxBlob <= p.MinBlob {
		return errors.Errorf("blob area bounds must satisfy 0 <= min_blob < max_blob, got %v and %v", p.MinBlob, p.MaxBlob)
	}
	if p.KNNHistory <= 0 {
		return errors.Errorf("knn_history must be positive, got %d", p.KNNHistory)
	}
	if p.KNNThreshold <= 0 {
		return errors.Errorf("knn_threshold must be positive, got %v", p.KNNThreshold)
	}
	if p.BlurKernel < 1 || p.BlurKernel%2 == 0 {
		return errors.Errorf("blur_kernel must be a positive odd number, got %d", p.BlurKernel)
	}
	return nil
}

// acceptArea reports whether blob area lies within the configured bounds.
func (p Params) acceptArea(area float64) bool {
	return area > p.MinBlob && area < p.MaxBlob
}

// readFailure classifies a failed read of frame index.
// Past the last frame, or when the container does not report a frame count, it is the end of the video.
func readFailure(index, frameCount int) error {
	if frameCount <= 0 || index >= frameCount {
		return io.EOF
	}
	return errors.Wrapf(ErrFrameDecode, "frame %d of %d", index, frameCount)
}
