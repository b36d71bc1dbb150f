package landmarks

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/vigil-labs/go-vigil/pkg/ear"
)

// Config holds DNN provider configuration.
type Config struct {
	// FaceModelPath is the YuNet face detection ONNX model.
	FaceModelPath string

	// LandmarkModelPath is the 68-point landmark regressor ONNX model.
	// The regressor runs on each detected face crop and outputs 136
	// values: 68 (x, y) pairs normalized to the crop.
	LandmarkModelPath string

	// ConfidenceThresh is the minimum face detection confidence.
	ConfidenceThresh float64

	// FaceInputWidth/Height is the face detector input size.
	FaceInputWidth  int
	FaceInputHeight int

	// LandmarkInputSize is the square input size of the regressor.
	LandmarkInputSize int

	// CropMargin expands the face box before landmark regression, as a
	// fraction of the box size. Eye corners sit near the box edge, so
	// a small margin keeps them inside the crop.
	CropMargin float64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		FaceModelPath:     "models/face_detection_yunet.onnx",
		LandmarkModelPath: "models/face_landmarks_68.onnx",
		ConfidenceThresh:  0.5,
		FaceInputWidth:    320,
		FaceInputHeight:   320,
		LandmarkInputSize: 112,
		CropMargin:        0.1,
	}
}

// DNNProvider detects faces with OpenCV's FaceDetectorYN and regresses
// the 68 landmark points with an ONNX model run through the gocv DNN
// module.
type DNNProvider struct {
	detector gocv.FaceDetectorYN
	net      gocv.Net
	config   Config
	mu       sync.Mutex // Protects inference
}

// NewDNN creates a new DNN landmark provider.
func NewDNN(cfg Config) (*DNNProvider, error) {
	// Check model files exist first
	if _, err := os.Stat(cfg.FaceModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("face model not found: %s", cfg.FaceModelPath)
	}
	if _, err := os.Stat(cfg.LandmarkModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("landmark model not found: %s", cfg.LandmarkModelPath)
	}

	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.FaceModelPath,
		"",                                                // No config file needed for ONNX
		image.Pt(cfg.FaceInputWidth, cfg.FaceInputHeight), // Initial input size
		float32(cfg.ConfidenceThresh),                     // Score threshold
		0.3,                                               // NMS threshold
		5000,                                              // Top K
		int(gocv.NetBackendDefault),                       // Backend
		int(gocv.NetTargetCPU),                            // Target
	)

	net := gocv.ReadNetFromONNX(cfg.LandmarkModelPath)
	if net.Empty() {
		detector.Close()
		return nil, fmt.Errorf("failed to load landmark model from %s", cfg.LandmarkModelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &DNNProvider{
		detector: detector,
		net:      net,
		config:   cfg,
	}, nil
}

// Detect finds faces in the JPEG image and regresses their landmarks.
func (d *DNNProvider) Detect(jpeg []byte) ([]Face, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	imgW := float64(img.Cols())
	imgH := float64(img.Rows())

	// Update detector input size to match image
	d.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	boxes := gocv.NewMat()
	defer boxes.Close()

	d.detector.Detect(img, &boxes)

	var faces []Face
	for r := 0; r < boxes.Rows(); r++ {
		// YuNet output: 0-3 = x, y, w, h in pixels, 14 = face score
		x := float64(boxes.GetFloatAt(r, 0))
		y := float64(boxes.GetFloatAt(r, 1))
		w := float64(boxes.GetFloatAt(r, 2))
		h := float64(boxes.GetFloatAt(r, 3))
		score := float64(boxes.GetFloatAt(r, 14))

		rect := d.cropRect(x, y, w, h, img.Cols(), img.Rows())
		if rect.Empty() {
			continue
		}

		points, err := d.regressLandmarks(img, rect)
		if err != nil {
			return nil, fmt.Errorf("landmarks for face %d: %w", r, err)
		}

		faces = append(faces, Face{
			Points:     points,
			X:          x / imgW,
			Y:          y / imgH,
			W:          w / imgW,
			H:          h / imgH,
			Confidence: score,
		})
	}

	return faces, nil
}

// cropRect expands the face box by the configured margin and clamps it
// to the image bounds.
func (d *DNNProvider) cropRect(x, y, w, h float64, imgW, imgH int) image.Rectangle {
	mx := w * d.config.CropMargin
	my := h * d.config.CropMargin

	x1 := int(x - mx)
	y1 := int(y - my)
	x2 := int(x + w + mx)
	y2 := int(y + h + my)

	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > imgW {
		x2 = imgW
	}
	if y2 > imgH {
		y2 = imgH
	}

	return image.Rect(x1, y1, x2, y2)
}

// regressLandmarks runs the 68-point regressor on one face crop and
// maps the normalized output back to frame pixel coordinates.
func (d *DNNProvider) regressLandmarks(img gocv.Mat, rect image.Rectangle) ([NumPoints]ear.Point, error) {
	var points [NumPoints]ear.Point

	crop := img.Region(rect)
	defer crop.Close()

	size := image.Pt(d.config.LandmarkInputSize, d.config.LandmarkInputSize)
	blob := gocv.BlobFromImage(crop, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return points, fmt.Errorf("read output tensor: %w", err)
	}
	if len(data) < NumPoints*2 {
		return points, fmt.Errorf("unexpected output size %d, want %d", len(data), NumPoints*2)
	}

	cropW := float64(rect.Dx())
	cropH := float64(rect.Dy())

	for i := 0; i < NumPoints; i++ {
		points[i] = ear.Point{
			X: float64(rect.Min.X) + float64(data[i*2])*cropW,
			Y: float64(rect.Min.Y) + float64(data[i*2+1])*cropH,
		}
	}

	return points, nil
}

// Close releases the detector and network resources.
func (d *DNNProvider) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return d.net.Close()
}
