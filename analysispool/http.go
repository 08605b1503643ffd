package analysispool

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"combatlog_check/logger"
)

var websockEmptyClosure = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")

// Do talks to one websocket client until its analysis is delivered or the
// client goes away.
func (p *Pool) Do(ctx context.Context, ws *websocket.Conn, remoteAddr string) {
	ctx, ctxCancel := context.WithCancel(ctx)
	defer ctxCancel()
	defer ws.Close()

	q := queueData{
		id:         uuid.NewString(),
		ws:         ws,
		ctx:        ctx,
		ctxCancel:  ctxCancel,
		chanResult: make(chan queueResult, 1),
	}

	err := q.MessageBytes(eventReady)
	if err != nil {
		logger.CaptureError(err, "websocket write")
		return
	}

	ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, msg, err := ws.ReadMessage()
	if err != nil {
		log.Debug().Err(err).Msg("websocket read")
		return
	}
	ws.SetReadDeadline(time.Time{})

	err = jsoniter.Unmarshal(msg, &q.reqData)
	if err != nil || !q.reqData.CheckOptionValidation() {
		q.Error("Invalid request.")
		p.close(ws)
		return
	}

	if p.verify != nil {
		ok, err := p.verify(remoteAddr, q.reqData.Token)
		if err != nil || !ok {
			log.Debug().Err(err).Str("remote", remoteAddr).Msg("recaptcha rejected")
			q.Error("reCAPTCHA verification failed.")
			p.close(ws)
			return
		}
	}

	go func() {
		defer ctxCancel()
		for {
			_, r, err := ws.NextReader()
			if err != nil {
				return
			}

			_, err = io.Copy(io.Discard, r)
			if err != nil {
				return
			}
		}
	}()

	h := q.reqData.Hash()
	if data, ok := p.results.Load(h); ok {
		q.Succ(data)
		p.close(ws)
		return
	}

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				err := ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(5*time.Second))
				if err != nil {
					if err != websocket.ErrCloseSent {
						log.Debug().Err(err).Msg("websocket ping")
					}
					ctxCancel()
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	p.enqueue(&q)

	select {
	case <-ctx.Done():
	case res := <-q.chanResult:
		if res.err != nil {
			q.Error(errorMessage(res.err))
		} else {
			p.results.Save(h, res.data)
			q.Succ(res.data)
		}
	}

	p.close(ws)
}

func (p *Pool) close(ws *websocket.Conn) {
	err := ws.WriteControl(websocket.CloseMessage, websockEmptyClosure, time.Now().Add(time.Second))
	if err != nil && err != websocket.ErrCloseSent {
		log.Debug().Err(err).Msg("websocket close")
	}
}
