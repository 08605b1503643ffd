// Package frontend wires the HTTP surface: the websocket analysis queue,
// direct analysis of uploaded fights and metrics.
package frontend

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"combatlog_check/analysispool"
	"combatlog_check/metrics"
	"combatlog_check/parser"
)

const maxUploadSize = 32 << 20

var (
	websocketUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

type Server struct {
	Pool    *analysispool.Pool
	Metrics *metrics.Metrics
	Parser  parser.Options
}

func Route(g *gin.Engine, s *Server) {
	g.Use(gin.ErrorLogger())
	g.Use(gin.Recovery())

	g.NoMethod(func(c *gin.Context) { c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"}) })
	g.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}) })

	g.GET("/analysis", s.routeAnalysis)
	g.POST("/api/analyze", s.routeAnalyze)
	g.GET("/api/classes", s.routeClasses)
	g.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	g.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
}
