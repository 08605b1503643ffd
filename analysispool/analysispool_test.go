package analysispool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combatlog_check/events"
	"combatlog_check/fflogs"
	"combatlog_check/game"
	"combatlog_check/parser"
)

const player = 7

type fakeFetcher struct {
	lock  sync.Mutex
	calls int
	err   error
}

func (f *fakeFetcher) GetFight(ctx context.Context, code string, fightID int, sourceName string) (*parser.Fight, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	return &parser.Fight{
		ReportCode: code,
		FightID:    fightID,
		SourceID:   player,
		Class:      "Mage",
		EndTime:    60000,
		Events: []events.Event{
			{Timestamp: 0, Kind: events.KindCombatantInfo, SourceID: player, Talents: []events.Talent{{ID: game.TalentFlameOn, Rank: 1}}},
			{Timestamp: 1000, Kind: events.KindCast, SourceID: player, AbilityID: game.SpellFireBlast},
			{Timestamp: 3000, Kind: events.KindCast, SourceID: player, AbilityID: game.SpellFireBlast},
		},
	}, nil
}

func (f *fakeFetcher) Calls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls
}

type fakeObserver struct {
	lock   sync.Mutex
	status []string
}

func (o *fakeObserver) AnalysisDone(status string, took time.Duration, dispatched, highlights int) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.status = append(o.status, status)
}

func (o *fakeObserver) SetWaiting(n int) {}

type message struct {
	Event string              `json:"event"`
	Data  jsoniter.RawMessage `json:"data"`
}

func startPool(t *testing.T, opt Options) *httptest.Server {
	p := New(opt)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go p.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		p.Do(r.Context(), ws, "127.0.0.1")
	}))
	t.Cleanup(srv.Close)

	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws
}

// readUntilDone collects messages up to and including complete or error.
func readUntilDone(t *testing.T, ws *websocket.Conn) []message {
	var list []message
	for {
		var m message
		_, b, err := ws.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, jsoniter.Unmarshal(b, &m))

		list = append(list, m)
		if m.Event == "complete" || m.Event == "error" {
			return list
		}
	}
}

func eventsOf(list []message) []string {
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = m.Event
	}
	return out
}

func request(t *testing.T, ws *websocket.Conn, rd RequestData) {
	b, err := jsoniter.Marshal(rd)
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, b))
}

var validRequest = RequestData{
	ReportCode: "aBcD1234efGH5678",
	FightIDs:   []int{3},
	CharName:   "Pyro",
}

func TestDo_QueueAndCache(t *testing.T) {
	f := &fakeFetcher{}
	obs := &fakeObserver{}
	srv := startPool(t, Options{Fetcher: f, Observer: obs, ResultExpire: time.Minute})

	ws := dial(t, srv)
	request(t, ws, validRequest)

	list := readUntilDone(t, ws)
	assert.Equal(t, []string{"ready", "waiting", "start", "progress", "progress", "complete"}, eventsOf(list))
	assert.Equal(t, "1", string(list[1].Data))
	assert.Equal(t, `"Downloading fight 3 (1/1)"`, string(list[3].Data))

	var results []parser.Result
	require.NoError(t, jsoniter.Unmarshal(list[len(list)-1].Data, &results))
	require.Len(t, results, 1)
	assert.Len(t, results[0].Highlights, 1)

	second := validRequest
	second.CharName = "PYRO"
	ws = dial(t, srv)
	request(t, ws, second)

	list = readUntilDone(t, ws)
	assert.Equal(t, []string{"ready", "complete"}, eventsOf(list))
	assert.Equal(t, 1, f.Calls())

	obs.lock.Lock()
	assert.Equal(t, []string{"ok"}, obs.status)
	obs.lock.Unlock()
}

func TestDo_InvalidRequest(t *testing.T) {
	srv := startPool(t, Options{Fetcher: &fakeFetcher{}})

	ws := dial(t, srv)
	request(t, ws, RequestData{ReportCode: "x", CharName: "Pyro"})

	list := readUntilDone(t, ws)
	assert.Equal(t, []string{"ready", "error"}, eventsOf(list))
	assert.Equal(t, `"Invalid request."`, string(list[1].Data))
}

func TestDo_Verifier(t *testing.T) {
	gotToken := make(chan string, 1)
	srv := startPool(t, Options{
		Fetcher: &fakeFetcher{},
		Verify: func(remoteAddr, token string) (bool, error) {
			gotToken <- token
			return false, nil
		},
	})

	rd := validRequest
	rd.Token = "captcha"

	ws := dial(t, srv)
	request(t, ws, rd)

	list := readUntilDone(t, ws)
	assert.Equal(t, []string{"ready", "error"}, eventsOf(list))
	assert.Equal(t, "captcha", <-gotToken)
}

func TestDo_FetchError(t *testing.T) {
	obs := &fakeObserver{}
	srv := startPool(t, Options{
		Fetcher:  &fakeFetcher{err: errors.Wrap(fflogs.ErrNotFound, "player")},
		Observer: obs,
	})

	ws := dial(t, srv)
	request(t, ws, validRequest)

	list := readUntilDone(t, ws)
	last := list[len(list)-1]
	assert.Equal(t, "error", last.Event)
	assert.Equal(t, `"The report, fight or character was not found."`, string(last.Data))

	obs.lock.Lock()
	assert.Equal(t, []string{"error"}, obs.status)
	obs.lock.Unlock()
}

func TestRequestData(t *testing.T) {
	rd := RequestData{ReportCode: " aBcD1234 ", FightIDs: []int{2, 1}, CharName: " Pyro "}
	require.True(t, rd.CheckOptionValidation())
	assert.Equal(t, "aBcD1234", rd.ReportCode)
	assert.Equal(t, "Pyro", rd.CharName)

	other := RequestData{ReportCode: "aBcD1234", FightIDs: []int{1, 2}, CharName: "pyro"}
	assert.Equal(t, rd.Hash(), other.Hash())

	other.FightIDs = []int{1}
	assert.NotEqual(t, rd.Hash(), other.Hash())

	bad := []RequestData{
		{ReportCode: "aBcD1234", CharName: "Pyro"},
		{ReportCode: "aBcD-1234", FightIDs: []int{1}, CharName: "Pyro"},
		{ReportCode: "aBcD1234", FightIDs: []int{0}, CharName: "Pyro"},
		{ReportCode: "aBcD1234", FightIDs: []int{1}, CharName: "P"},
		{ReportCode: "aBcD1234", FightIDs: make([]int, maxFights+1), CharName: "Pyro"},
	}
	for _, b := range bad {
		assert.False(t, b.CheckOptionValidation(), "%+v", b)
	}
}

func TestResultCache(t *testing.T) {
	c := newResultCache(time.Minute)
	c.Save(1, []byte("a"))

	b, ok := c.Load(1)
	require.True(t, ok)
	assert.Equal(t, "a", string(b))

	c.m[1] = resultEntry{data: []byte("a"), expires: time.Now().Add(-time.Second)}
	_, ok = c.Load(1)
	assert.False(t, ok)

	off := newResultCache(0)
	off.Save(1, []byte("a"))
	_, ok = off.Load(1)
	assert.False(t, ok)
}
