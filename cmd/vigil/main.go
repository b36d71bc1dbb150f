// Vigil - driver drowsiness monitoring from a live camera feed.
//
// Tracks eye closure via facial landmarks and sounds an alarm when
// sustained closure suggests the driver is falling asleep.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vigil-labs/go-vigil/internal/config"
	"github.com/vigil-labs/go-vigil/internal/log"
	"github.com/vigil-labs/go-vigil/pkg/alarm"
	"github.com/vigil-labs/go-vigil/pkg/camera"
	"github.com/vigil-labs/go-vigil/pkg/drowsiness"
	"github.com/vigil-labs/go-vigil/pkg/landmarks"
	"github.com/vigil-labs/go-vigil/pkg/monitor"
	"github.com/vigil-labs/go-vigil/pkg/web"
)

func main() {
	opts := parseFlags()
	log.InitFile(opts.logLevel, opts.logFile)

	if errs := opts.drowsy.Validate(); len(errs) > 0 {
		log.Error("invalid drowsiness configuration", "errors", strings.Join(errs, "; "))
		os.Exit(1)
	}
	if errs := opts.cam.Validate(); len(errs) > 0 {
		log.Error("invalid camera configuration", "errors", strings.Join(errs, "; "))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		log.Error("monitoring failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	provider, err := landmarks.NewDNN(opts.dnn)
	if err != nil {
		return fmt.Errorf("initialize landmark provider: %w", err)
	}
	defer provider.Close()

	cam, err := camera.OpenWebcam(opts.cam)
	if err != nil {
		return fmt.Errorf("initialize camera: %w", err)
	}
	defer cam.Close()

	dispatcher, err := buildAlarm(opts)
	if err != nil {
		return err
	}
	defer dispatcher.Wait()

	sess := monitor.New(opts.drowsy, cam, provider, dispatcher)

	if !opts.headless {
		renderer := monitor.NewWindowRenderer("Driver Drowsiness Monitor",
			opts.drowsy.EARThreshold, opts.showLandmarks,
			"vigil_"+sess.ID().String()[:8])
		defer renderer.Close()
		sess.SetRenderer(renderer)
	}

	if opts.dashboard {
		srv := web.NewServer(opts.dashboardPort)
		srv.StartAsync()
		defer srv.Shutdown()
		sess.SetStatusSink(srv)
	}

	return sess.Run(ctx)
}

// buildAlarm sets up the alarm sound and player. A missing audio
// player downgrades to a disabled alarm rather than refusing to start.
func buildAlarm(opts options) (*alarm.Dispatcher, error) {
	if !opts.drowsy.AlarmEnabled {
		return alarm.NewDispatcher(nil, false), nil
	}

	if err := alarm.EnsureSoundFile(opts.alarmSound); err != nil {
		return nil, fmt.Errorf("prepare alarm sound: %w", err)
	}

	player, err := alarm.NewExecPlayer(opts.alarmSound)
	if err != nil {
		log.Warn("audio alerts disabled", "error", err)
		return alarm.NewDispatcher(nil, false), nil
	}

	return alarm.NewDispatcher(player, true), nil
}

type options struct {
	drowsy        drowsiness.Config
	cam           camera.Settings
	dnn           landmarks.Config
	alarmSound    string
	logLevel      string
	logFile       string
	headless      bool
	showLandmarks bool
	dashboard     bool
	dashboardPort string
}

// parseFlags parses command line flags, with environment variables as
// fallback for deployment-style configuration.
func parseFlags() options {
	config.LoadEnvFile()

	opts := options{
		drowsy: drowsiness.DefaultConfig(),
		cam:    camera.DefaultSettings(),
		dnn:    landmarks.DefaultConfig(),
	}

	// Environment fallbacks
	opts.drowsy.EARThreshold = config.EnvFloat("VIGIL_EAR_THRESHOLD", opts.drowsy.EARThreshold)
	opts.drowsy.ConsecFrames = config.EnvInt("VIGIL_CONSEC_FRAMES", opts.drowsy.ConsecFrames)
	opts.drowsy.WindowSize = config.EnvInt("VIGIL_WINDOW_SIZE", opts.drowsy.WindowSize)
	opts.drowsy.AlarmEnabled = config.EnvBool("VIGIL_ALARM_ENABLED", opts.drowsy.AlarmEnabled)
	opts.cam.DeviceID = config.EnvInt("VIGIL_CAMERA", opts.cam.DeviceID)
	opts.dnn.FaceModelPath = config.Env("VIGIL_FACE_MODEL", config.DefaultFaceModel)
	opts.dnn.LandmarkModelPath = config.Env("VIGIL_LANDMARK_MODEL", config.DefaultLandmarkModel)

	preset := flag.String("preset", "default", "Decision preset: default, strict, relaxed")
	flag.Float64Var(&opts.drowsy.EARThreshold, "ear-threshold", opts.drowsy.EARThreshold, "Smoothed EAR below this counts as eyes closed")
	flag.IntVar(&opts.drowsy.ConsecFrames, "consec-frames", opts.drowsy.ConsecFrames, "Consecutive low frames before alarming")
	flag.BoolVar(&opts.drowsy.AlarmEnabled, "alarm", opts.drowsy.AlarmEnabled, "Enable audio alarm")
	flag.IntVar(&opts.cam.DeviceID, "camera", opts.cam.DeviceID, "Camera device index")
	flag.StringVar(&opts.alarmSound, "alarm-sound", config.Env("VIGIL_ALARM_SOUND", config.DefaultAlarmSound), "Alarm WAV file (generated if missing)")
	flag.StringVar(&opts.logLevel, "log-level", config.Env("VIGIL_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.StringVar(&opts.logFile, "log-file", config.Env("VIGIL_LOG_FILE", ""), "Also append logs to this file")
	flag.BoolVar(&opts.headless, "headless", false, "Run without a display window")
	flag.BoolVar(&opts.showLandmarks, "show-landmarks", true, "Draw eye contours on the display")
	flag.BoolVar(&opts.dashboard, "dashboard", false, "Serve the web dashboard")
	flag.StringVar(&opts.dashboardPort, "dashboard-port", config.Env("VIGIL_DASHBOARD_PORT", "8321"), "Dashboard port")

	earFlagSet := false
	consecFlagSet := false
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		earFlagSet = earFlagSet || f.Name == "ear-threshold"
		consecFlagSet = consecFlagSet || f.Name == "consec-frames"
	})

	// Presets pick the tuned pair unless overridden explicitly.
	if *preset != "default" {
		base := opts.drowsy
		switch *preset {
		case "strict":
			base = drowsiness.StrictConfig()
		case "relaxed":
			base = drowsiness.RelaxedConfig()
		default:
			fmt.Fprintf(os.Stderr, "Unknown preset %q (want default, strict or relaxed)\n", *preset)
			os.Exit(2)
		}
		if !earFlagSet {
			opts.drowsy.EARThreshold = base.EARThreshold
		}
		if !consecFlagSet {
			opts.drowsy.ConsecFrames = base.ConsecFrames
		}
	}

	return opts
}
