package status

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const serviceName = "insta-pilot"

// Server serves the read-only status surface.
type Server struct {
	echo *echo.Echo
	cell *Cell
}

// NewServer builds the echo server around a status cell.
func NewServer(cell *Cell) *Server {
	s := &Server{
		echo: echo.New(),
		cell: cell,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleHome)
	s.echo.GET("/status", s.handleStatus)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/ping", s.handlePing)
}

// Start blocks serving HTTP on the given port.
func (s *Server) Start(port int) error {
	return s.echo.Start(fmt.Sprintf(":%d", port))
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHome(c echo.Context) error {
	st := s.cell.Get()
	page := fmt.Sprintf(`<html>
	<head>
		<title>Insta Pilot</title>
		<meta charset="utf-8">
		<style>
			body { font-family: Arial, sans-serif; margin: 40px; }
			.status { padding: 10px; border-radius: 5px; background: #f0f0f0; }
		</style>
	</head>
	<body>
		<h1>Insta Pilot</h1>
		<div class="status"><strong>Status:</strong> %s</div>
		<p>The bot is running in the background.</p>
		<p><a href="/health">Health Check</a> | <a href="/status">Status API</a></p>
	</body>
</html>`, st.String())
	return c.HTML(http.StatusOK, page)
}

func (s *Server) handleStatus(c echo.Context) error {
	st := s.cell.Get()
	return c.JSON(http.StatusOK, map[string]any{
		"status":     "running",
		"bot_status": st.String(),
		"service":    serviceName,
		"timestamp":  float64(time.Now().UnixNano()) / float64(time.Second),
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handlePing(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}
