//go:build withcv
// +build withcv

package detect

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/LdDl/anttrack/mot"
)

// VideoSource reads a video file and runs the KNN detector over every frame.
type VideoSource struct {
	capture *gocv.VideoCapture
	knn     *KNN
	frame   gocv.Mat
	info    mot.ClipInfo
	index   int

	// Reported by the container, 0 when unknown
	frameCount int
}

// OpenVideoSource opens the video file at path.
func OpenVideoSource(path string, params Params) (*VideoSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open video %s", path)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.Errorf("can't open video %s", path)
	}
	knn, err := NewKNN(params)
	if err != nil {
		capture.Close()
		return nil, errors.Wrap(err, "invalid detector params")
	}
	info := mot.ClipInfo{
		Bounds: mot.NewRectFrom(image.Rect(0, 0, int(capture.Get(gocv.VideoCaptureFrameWidth)), int(capture.Get(gocv.VideoCaptureFrameHeight)))),
		FPS:    capture.Get(gocv.VideoCaptureFPS),
	}
	if err := info.Validate(); err != nil {
		capture.Close()
		knn.Close()
		return nil, errors.Wrapf(err, "bad stream properties of %s", path)
	}
	return &VideoSource{
		capture:    capture,
		knn:        knn,
		frame:      gocv.NewMat(),
		info:       info,
		frameCount: int(capture.Get(gocv.VideoCaptureFrameCount)),
	}, nil
}

// Info returns frame size and frame rate of the video.
func (source *VideoSource) Info() mot.ClipInfo {
	return source.info
}

// Next decodes the next frame and returns its detections. It returns io.EOF at the end of the video
// and ErrFrameDecode when a frame before the end cannot be read.
func (source *VideoSource) Next() (mot.Frame, []mot.Detection, error) {
	if ok := source.capture.Read(&source.frame); !ok || source.frame.Empty() {
		return mot.Frame{}, nil, readFailure(source.index, source.frameCount)
	}
	if source.frame.Cols() != int(source.info.Bounds.Width) || source.frame.Rows() != int(source.info.Bounds.Height) {
		return mot.Frame{}, nil, errors.Errorf("frame %d has size %dx%d, stream reports %vx%v", source.index, source.frame.Cols(), source.frame.Rows(), source.info.Bounds.Width, source.info.Bounds.Height)
	}
	frame := mot.Frame{
		Index:     source.index,
		Timestamp: float64(source.index) / source.info.FPS,
	}
	source.index++
	return frame, source.knn.Detect(source.frame), nil
}

// Close releases the capture and detector.
func (source *VideoSource) Close() error {
	source.frame.Close()
	source.knn.Close()
	return source.capture.Close()
}
