package frontend

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"combatlog_check/game"
	"combatlog_check/logger"
	"combatlog_check/parser"
)

func (s *Server) routeAnalysis(c *gin.Context) {
	ws, err := websocketUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade")
		return
	}

	s.Pool.Do(c.Request.Context(), ws, remoteAddr(c))
}

// routeAnalyze analyzes one uploaded fight. ?format=text returns the plain
// text summary instead of JSON.
func (s *Server) routeAnalyze(c *gin.Context) {
	start := time.Now()

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fight, err := parser.ReadFight(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fight"})
		return
	}

	r, err := parser.Analyze(c.Request.Context(), fight, s.Parser)
	if err != nil {
		s.Metrics.AnalysisDone("error", time.Since(start), 0, 0)

		switch {
		case errors.Is(err, parser.ErrUnknownClass), errors.Is(err, parser.ErrUnsupportedClass), errors.Is(err, parser.ErrNoEvents):
			c.JSON(http.StatusBadRequest, gin.H{"error": errors.Cause(err).Error()})
		default:
			logger.CaptureError(err, "analyze upload")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		}
		return
	}
	s.Metrics.AnalysisDone("ok", time.Since(start), r.Dispatched, len(r.Highlights))

	if c.Query("format") == "text" {
		summary, err := r.Summary()
		if err != nil {
			logger.CaptureError(err, "render summary")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
			return
		}
		c.String(http.StatusOK, summary)
		return
	}

	b, err := jsoniter.Marshal(r)
	if err != nil {
		logger.CaptureError(err, "encode result")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func remoteAddr(c *gin.Context) string {
	var remoteAddr string
	if v := c.GetHeader("X-Forwarded-For"); v != "" {
		remoteAddr = strings.TrimSpace(strings.Split(v, ",")[0])
	}
	if remoteAddr == "" {
		if v := c.GetHeader("X-Real-Ip"); v != "" {
			remoteAddr = v
		}
	}
	if remoteAddr == "" {
		remoteAddr = c.Request.RemoteAddr
		if idx := strings.LastIndexByte(remoteAddr, ':'); idx >= 0 {
			remoteAddr = remoteAddr[:idx]
		}
	}
	return remoteAddr
}

type classSpell struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// routeClasses lists the analyzed classes and the spells known for each.
func (s *Server) routeClasses(c *gin.Context) {
	spells := s.Parser.Spells
	if spells == nil {
		spells = game.Spells
	}

	type class struct {
		Class  string       `json:"class"`
		Spells []classSpell `json:"spells"`
	}

	list := make([]class, 0, len(parser.Modules))
	for _, name := range parser.SupportedClasses() {
		cl := class{Class: name}
		for _, id := range spells.ByClass[name] {
			sd, _ := spells.Get(id)
			cl.Spells = append(cl.Spells, classSpell{ID: sd.ID, Name: sd.Name, Icon: sd.Icon})
		}
		list = append(list, cl)
	}

	b, err := jsoniter.Marshal(list)
	if err != nil {
		logger.CaptureError(err, "encode classes")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}
