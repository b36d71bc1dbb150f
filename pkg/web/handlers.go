package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/vigil-labs/go-vigil/pkg/hub"
)

// handleStatus returns the latest per-frame status.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return c.JSON(s.status)
}

// handleGetLogs returns the buffered log entries.
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// handleStatusWS streams per-frame status JSON.
func (s *Server) handleStatusWS(conn *websocket.Conn) {
	hub.NewClient(s.statusHub, conn).Run()
}

// handleCameraWS streams camera frames as binary JPEG.
func (s *Server) handleCameraWS(conn *websocket.Conn) {
	hub.NewClient(s.cameraHub, conn).Run()
}
