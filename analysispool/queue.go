// Package analysispool serves analyses over websockets. Requests that need
// the log service wait in a single queue so only one is downloaded at a
// time.
package analysispool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"combatlog_check/fflogs"
	"combatlog_check/logger"
	"combatlog_check/parser"
)

type Fetcher interface {
	GetFight(ctx context.Context, code string, fightID int, sourceName string) (*parser.Fight, error)
}

type Observer interface {
	AnalysisDone(status string, took time.Duration, dispatched, highlights int)
	SetWaiting(n int)
}

// Verifier checks a reCAPTCHA response for the client at remoteAddr.
type Verifier func(remoteAddr, token string) (bool, error)

type Options struct {
	Fetcher  Fetcher
	Observer Observer
	// nil skips verification
	Verify   Verifier

	Parser       parser.Options
	ResultExpire time.Duration
}

type Pool struct {
	fetcher   Fetcher
	observer  Observer
	verify    Verifier
	parserOpt parser.Options

	results *resultCache

	queueLock sync.Mutex
	queue     []*queueData
	queueWake chan struct{}
}

func New(opt Options) *Pool {
	return &Pool{
		fetcher:   opt.Fetcher,
		observer:  opt.Observer,
		verify:    opt.Verify,
		parserOpt: opt.Parser,
		results:   newResultCache(opt.ResultExpire),
		queue:     make([]*queueData, 0, 16),
		queueWake: make(chan struct{}, 1),
	}
}

type queueResult struct {
	data []byte
	err  error
}

type queueData struct {
	id      string
	reqData RequestData

	ws        *websocket.Conn
	ctx       context.Context
	ctxCancel func()

	chanResult chan queueResult

	msgLock sync.Mutex
}

var (
	eventReady = []byte(`{"event":"ready"}`)
	eventStart = []byte(`{"event":"start"}`)
)

// Run is the queue worker. It returns when ctx is done.
func (p *Pool) Run(ctx context.Context) {
	for {
		q := p.dequeue()
		if q == nil {
			select {
			case <-p.queueWake:
			case <-ctx.Done():
				return
			}
			continue
		}

		log.Info().Str("job", q.id).Str("report", q.reqData.ReportCode).Str("char", q.reqData.CharName).Msg("start")
		q.Start()

		if q.ctx.Err() != nil {
			continue
		}

		data, err := p.analyze(q)
		select {
		case <-q.ctx.Done():
		case q.chanResult <- queueResult{data: data, err: err}:
		}

		log.Info().Str("job", q.id).Err(err).Msg("end")
	}
}

// enqueue tells q its position before the worker can pick it up.
func (p *Pool) enqueue(q *queueData) {
	p.queueLock.Lock()
	p.queue = append(p.queue, q)
	n := len(p.queue)
	q.Reorder(n)
	p.queueLock.Unlock()

	if p.observer != nil {
		p.observer.SetWaiting(n)
	}

	select {
	case p.queueWake <- struct{}{}:
	default:
	}
}

func (p *Pool) dequeue() *queueData {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()

	if len(p.queue) == 0 {
		return nil
	}

	q := p.queue[0]
	for i := 1; i < len(p.queue); i++ {
		go p.queue[i].Reorder(i)
		p.queue[i-1] = p.queue[i]
	}
	p.queue[len(p.queue)-1] = nil
	p.queue = p.queue[:len(p.queue)-1]

	if p.observer != nil {
		p.observer.SetWaiting(len(p.queue))
	}

	return q
}

func (p *Pool) analyze(q *queueData) (data []byte, err error) {
	start := time.Now()
	dispatched, highlights := 0, 0
	defer func() {
		if p.observer == nil {
			return
		}
		status := "ok"
		if err != nil {
			status = "error"
		}
		p.observer.AnalysisDone(status, time.Since(start), dispatched, highlights)
	}()

	n := len(q.reqData.FightIDs)
	fights := make([]*parser.Fight, 0, n)
	for i, fightID := range q.reqData.FightIDs {
		q.Progress(fmt.Sprintf("Downloading fight %d (%d/%d)", fightID, i+1, n))

		fight, err := p.fetcher.GetFight(q.ctx, q.reqData.ReportCode, fightID, q.reqData.CharName)
		if err != nil {
			return nil, err
		}
		fights = append(fights, fight)
	}

	q.Progress("Analyzing")

	results, err := parser.AnalyzeAll(q.ctx, fights, p.parserOpt)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		dispatched += r.Dispatched
		highlights += len(r.Highlights)
	}

	data, err = jsoniter.Marshal(results)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}

func (q *queueData) MessageJson(resp interface{}) error {
	b, err := jsoniter.Marshal(resp)
	if err != nil {
		return errors.WithStack(err)
	}

	return q.MessageBytes(b)
}

func (q *queueData) MessageBytes(data []byte) error {
	q.msgLock.Lock()
	defer q.msgLock.Unlock()

	return q.ws.WriteMessage(websocket.TextMessage, data)
}

func (q *queueData) send(resp interface{}) {
	err := q.MessageJson(resp)
	if err != nil {
		if err != websocket.ErrCloseSent {
			logger.CaptureError(err, "websocket write")
		}
		q.ctxCancel()
	}
}

func (q *queueData) Reorder(order int) {
	q.send(struct {
		Event string `json:"event"`
		Data  int    `json:"data"`
	}{
		Event: "waiting",
		Data:  order,
	})
}

func (q *queueData) Start() {
	err := q.MessageBytes(eventStart)
	if err != nil {
		if err != websocket.ErrCloseSent {
			logger.CaptureError(err, "websocket write")
		}
		q.ctxCancel()
	}
}

func (q *queueData) Progress(s string) {
	q.send(struct {
		Event string `json:"event"`
		Data  string `json:"data"`
	}{
		Event: "progress",
		Data:  s,
	})
}

func (q *queueData) Error(msg string) {
	q.send(struct {
		Event string `json:"event"`
		Data  string `json:"data"`
	}{
		Event: "error",
		Data:  msg,
	})
}

func (q *queueData) Succ(data []byte) {
	q.send(struct {
		Event string              `json:"event"`
		Data  jsoniter.RawMessage `json:"data"`
	}{
		Event: "complete",
		Data:  data,
	})
}

// errorMessage is what the client is told about err.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, fflogs.ErrNotFound):
		return "The report, fight or character was not found."
	case errors.Is(err, parser.ErrUnknownClass), errors.Is(err, parser.ErrUnsupportedClass):
		return "This class is not supported."
	case errors.Is(err, parser.ErrNoEvents):
		return "The character has no events in this fight."
	}

	logger.CaptureError(err, "analysis failed")
	return "The analysis failed. Please try again later."
}
