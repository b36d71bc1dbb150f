// Package web provides a real-time dashboard for the monitoring
// session: a JSON status API plus websocket streams of per-frame
// status and camera frames.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/vigil-labs/go-vigil/internal/log"
	"github.com/vigil-labs/go-vigil/pkg/hub"
	"github.com/vigil-labs/go-vigil/pkg/monitor"
)

// LogEntry is one log line shown on the dashboard.
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, alarm, face
	Message string `json:"message"`
}

// Server is the web dashboard server. It implements
// monitor.StatusSink, so it can be attached directly to a session.
type Server struct {
	app  *fiber.App
	port string

	// Last published status
	status   monitor.Update
	statusMu sync.RWMutex

	// Log buffer (last 500 entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	cameraHub *hub.Hub
}

// NewServer creates a new dashboard server listening on port.
func NewServer(port string) *Server {
	s := &Server{
		port:      port,
		logs:      make([]LogEntry, 0, 500),
		statusHub: hub.New("status"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Vigil Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/logs", s.handleGetLogs)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start starts the dashboard server and blocks.
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)

	go s.statusHub.Run()
	go s.cameraHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the dashboard server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Warn("dashboard server error", "error", err)
		}
	}()
}

// PublishStatus records the latest per-frame status and broadcasts it.
// Part of monitor.StatusSink.
func (s *Server) PublishStatus(u monitor.Update) {
	s.statusMu.Lock()
	prev := s.status
	s.status = u
	s.statusMu.Unlock()

	s.statusHub.BroadcastJSON(u)

	// Log state edges, not every frame.
	if u.State != prev.State {
		typ := "face"
		if u.State == "alarm" {
			typ = "alarm"
		}
		s.addLog(typ, u.Text)
	}
}

// PublishFrame broadcasts a camera frame to connected clients.
// Part of monitor.StatusSink.
func (s *Server) PublishFrame(jpeg []byte) {
	if s.cameraHub.ClientCount() == 0 {
		return
	}
	s.cameraHub.BroadcastBinary(jpeg)
}

// addLog appends a log entry, bounded to the last 500.
func (s *Server) addLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()
}

// Shutdown gracefully stops the dashboard server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
