package camera

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Webcam captures frames from a local video device via OpenCV.
type Webcam struct {
	cap      *gocv.VideoCapture
	frame    gocv.Mat
	settings Settings
}

// OpenWebcam opens the capture device described by the settings.
func OpenWebcam(s Settings) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(s.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", s.DeviceID, err)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(s.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(s.Height))
	cap.Set(gocv.VideoCaptureFPS, float64(s.FPS))

	return &Webcam{
		cap:      cap,
		frame:    gocv.NewMat(),
		settings: s,
	}, nil
}

// Capture grabs the next frame and encodes it as JPEG.
func (w *Webcam) Capture() ([]byte, error) {
	if ok := w.cap.Read(&w.frame); !ok {
		return nil, fmt.Errorf("read frame from camera %d", w.settings.DeviceID)
	}
	if w.frame.Empty() {
		return nil, fmt.Errorf("empty frame from camera %d", w.settings.DeviceID)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.frame,
		[]int{gocv.IMWriteJpegQuality, w.settings.Quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// Copy out: the native buffer is freed on Close.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

// Settings returns the capture settings in effect.
func (w *Webcam) Settings() Settings {
	return w.settings
}

// Close releases the device.
func (w *Webcam) Close() error {
	w.frame.Close()
	return w.cap.Close()
}
