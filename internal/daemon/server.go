package daemon

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"mdsync/internal/logger"
	"mdsync/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server exposes the running daemon's state on localhost so the status,
// history and stop commands can talk to it from another process.
type Server struct {
	echo    *echo.Echo
	manager *Manager
	port    int
	stopCh  chan struct{}
}

func NewServer(manager *Manager, port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		manager: manager,
		port:    port,
		stopCh:  make(chan struct{}, 1),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/status", s.handleStatus)
	s.echo.GET("/history", s.handleHistory)
	s.echo.GET("/history/stats", s.handleHistoryStats)
	s.echo.POST("/stop", s.handleStop)
}

func (s *Server) Start() {
	go func() {
		addr := "127.0.0.1:" + strconv.Itoa(s.port)
		logger.Log.Info("daemon server started",
			zap.String("addr", addr))

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("daemon server error", zap.Error(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) StopCh() <-chan struct{} {
	return s.stopCh
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.manager.Snapshot())
}

func (s *Server) handleHistory(c echo.Context) error {
	n, err := strconv.Atoi(c.QueryParam("n"))
	if err != nil || n <= 0 {
		n = 20
	}

	var histories []model.History
	if c.QueryParam("failed") == "true" {
		histories, err = s.manager.History().GetFailed()
		if err == nil && len(histories) > n {
			histories = histories[:n]
		}
	} else {
		histories, err = s.manager.History().GetRecent(n)
	}

	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, histories)
}

func (s *Server) handleHistoryStats(c echo.Context) error {
	stats, err := s.manager.History().GetStats()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleStop(c echo.Context) error {
	select {
	case s.stopCh <- struct{}{}:
	default:
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "stopping"})
}
