//go:build withcv
// +build withcv

package detect

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/LdDl/anttrack/mot"
)

// KNN finds moving blobs using a K-Nearest Neighbours background model.
type KNN struct {
	params Params
	bs     *gocv.BackgroundSubtractorKNN // Uses the KNN algorithm to find the difference between the current and background frame.
	gray   gocv.Mat
	delta  gocv.Mat
}

// NewKNN returns a pointer to a new KNN blob detector.
func NewKNN(params Params) (*KNN, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	bs := gocv.NewBackgroundSubtractorKNNWithParams(params.KNNHistory, float32(params.KNNThreshold), false)
	return &KNN{
		params: params,
		bs:     &bs,
		gray:   gocv.NewMat(),
		delta:  gocv.NewMat(),
	}, nil
}

// Close frees resources used by gocv. It has to be done manually,
// due to gocv using c-go.
func (m *KNN) Close() error {
	m.bs.Close()
	m.gray.Close()
	m.delta.Close()
	return nil
}

// Detect returns blobs of the frame whose area lies within the configured bounds.
// Centers are rounded to whole pixels.
func (m *KNN) Detect(img gocv.Mat) []mot.Detection {
	if img.Channels() > 1 {
		gocv.CvtColor(img, &m.gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&m.gray)
	}

	// Seperate foreground and background.
	m.bs.Apply(m.gray, &m.delta)

	// Smooth the mask so one ant gives one contour.
	gocv.GaussianBlur(m.delta, &m.delta, image.Pt(m.params.BlurKernel, m.params.BlurKernel), 0, 0, gocv.BorderDefault)
	gocv.Threshold(m.delta, &m.delta, 25, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(m.delta, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	detections := make([]mot.Detection, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if !m.params.acceptArea(area) {
			continue
		}
		x, y, _ := gocv.MinEnclosingCircle(contour)
		detections = append(detections, mot.Detection{
			Position: mot.NewPointFrom(image.Pt(int(math.Round(float64(x))), int(math.Round(float64(y))))),
			Area:     area,
		})
	}
	return detections
}
