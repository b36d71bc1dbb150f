package monitor

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/vigil-labs/go-vigil/internal/log"
	"github.com/vigil-labs/go-vigil/pkg/drowsiness"
	"github.com/vigil-labs/go-vigil/pkg/ear"
	"github.com/vigil-labs/go-vigil/pkg/landmarks"
)

// Renderer displays one processed frame. Returning ErrQuit ends the
// session.
type Renderer interface {
	Render(frame []byte, st drowsiness.Status, face *landmarks.Face) error
	Close() error
}

// NopRenderer discards frames. Used for headless runs and tests.
type NopRenderer struct{}

// Render does nothing.
func (NopRenderer) Render([]byte, drowsiness.Status, *landmarks.Face) error { return nil }

// Close does nothing.
func (NopRenderer) Close() error { return nil }

// Status line colors by state.
var (
	colorAlert   = color.RGBA{0, 255, 0, 0}
	colorWarning = color.RGBA{255, 255, 0, 0}
	colorDanger  = color.RGBA{255, 0, 0, 0}
	colorInfo    = color.RGBA{255, 255, 255, 0}
)

// WindowRenderer shows annotated frames in an OpenCV window.
// 'q' quits the session, 's' saves the current annotated frame.
type WindowRenderer struct {
	window        *gocv.Window
	img           gocv.Mat
	threshold     float64
	showLandmarks bool
	savePrefix    string
}

// NewWindowRenderer opens the display window. savePrefix names saved
// frames: <savePrefix>_<unix>.jpg.
func NewWindowRenderer(title string, threshold float64, showLandmarks bool, savePrefix string) *WindowRenderer {
	return &WindowRenderer{
		window:        gocv.NewWindow(title),
		img:           gocv.NewMat(),
		threshold:     threshold,
		showLandmarks: showLandmarks,
		savePrefix:    savePrefix,
	}
}

// Render decodes, annotates and displays the frame, and handles keys.
func (r *WindowRenderer) Render(frame []byte, st drowsiness.Status, face *landmarks.Face) error {
	img, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	img.CopyTo(&r.img)
	img.Close()

	r.annotate(st, face)

	r.window.IMShow(r.img)
	switch r.window.WaitKey(1) {
	case 'q':
		return ErrQuit
	case 's':
		name := fmt.Sprintf("%s_%d.jpg", r.savePrefix, time.Now().Unix())
		if gocv.IMWrite(name, r.img) {
			log.Info("frame saved", "file", name)
		} else {
			log.Warn("frame save failed", "file", name)
		}
	}
	return nil
}

func (r *WindowRenderer) annotate(st drowsiness.Status, face *landmarks.Face) {
	statusColor := colorInfo
	switch st.State {
	case drowsiness.StateAlert:
		statusColor = colorAlert
	case drowsiness.StateClosing:
		statusColor = colorWarning
	case drowsiness.StateNoFace, drowsiness.StateAlarm:
		statusColor = colorDanger
	}

	putText := func(text string, pt image.Point, c color.RGBA) {
		gocv.PutText(&r.img, text, pt, gocv.FontHersheySimplex, 0.7, c, 2)
	}

	putText(st.Text, image.Pt(10, 30), statusColor)
	if st.State == drowsiness.StateAlarm {
		putText("Wake up!", image.Pt(10, 70), colorDanger)
	}

	if st.State != drowsiness.StateNoFace {
		h := r.img.Rows()
		putText(fmt.Sprintf("EAR: %.3f", st.EAR), image.Pt(10, h-20), colorInfo)
		putText(fmt.Sprintf("Threshold: %.2f", r.threshold), image.Pt(10, h-50), colorInfo)
	}

	if r.showLandmarks && face != nil {
		r.drawEye(face.LeftEye())
		r.drawEye(face.RightEye())
	}
}

func (r *WindowRenderer) drawEye(c ear.Contour) {
	pts := make([]image.Point, len(c))
	for i, p := range c {
		pts[i] = image.Pt(int(p.X), int(p.Y))
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.Polylines(&r.img, pv, true, colorAlert, 1)
}

// Close releases the window.
func (r *WindowRenderer) Close() error {
	r.img.Close()
	return r.window.Close()
}
