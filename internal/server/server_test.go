package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/storage"
)

func seededStore(t *testing.T) (*storage.Store, string) {
	t.Helper()

	st := storage.New(t.TempDir())
	require.NoError(t, st.Init())
	runID, err := st.Create("H")
	require.NoError(t, err)

	cfg := collision.DefaultConfig()
	cfg.Rounds = 2
	rounds := []collision.RoundResult{
		{Round: 0, ImpactParameter: 1, Outcome: collision.Ionization, Status: collision.StatusOK},
		{Round: 1, ImpactParameter: 2, Outcome: collision.Elastic, Status: collision.StatusOK},
	}
	tally := collision.NewTally(cfg.B2Max)
	for _, r := range rounds {
		tally.Add(r)
	}
	_, err = st.Save(runID, &collision.Result{
		Config:   cfg,
		Rounds:   rounds,
		Tally:    tally,
		Started:  time.Now(),
		Duration: time.Second,
	})
	require.NoError(t, err)
	return st, runID
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	st, runID := seededStore(t)

	log := logrus.New()
	log.SetOutput(io.Discard)

	ts := httptest.NewServer(New(st, log).Routes())
	t.Cleanup(ts.Close)
	return ts, runID
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestListRuns(t *testing.T) {
	ts, runID := newTestServer(t)

	var runs []storage.RunMetadata
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/runs", &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
}

func TestGetRun(t *testing.T) {
	ts, runID := newTestServer(t)

	var meta storage.RunMetadata
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/runs/"+runID, &meta))
	assert.Equal(t, 2, meta.Successful)
	assert.Equal(t, 1, meta.Tally.Outcomes[collision.Ionization])

	var rounds []collision.RoundResult
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/runs/"+runID+"/rounds", &rounds))
	require.Len(t, rounds, 2)
	assert.Equal(t, collision.Elastic, rounds[1].Outcome)
}

func TestUnknownRun(t *testing.T) {
	ts, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/runs/nope", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/runs/nope/rounds", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/runs/nope/stream", nil))
}

func TestStream(t *testing.T) {
	ts, runID := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/runs/" + runID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var messages []Message
	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "%v", err)
			break
		}
		messages = append(messages, msg)
	}

	require.Len(t, messages, 3)
	for i, msg := range messages[:2] {
		assert.Equal(t, MessageRound, msg.Type)
		require.NotNil(t, msg.Round)
		assert.Equal(t, i, msg.Round.Round)
	}
	assert.Equal(t, MessageSummary, messages[2].Type)
	require.NotNil(t, messages[2].Summary)
	assert.Equal(t, runID, messages[2].Summary.ID)
}
