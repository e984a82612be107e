package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sidereal-labs/powertrace/internal/model"
)

func TestHubBroadcastsRuns(t *testing.T) {
	srv := newTestServer(&stubClient{})

	ts := httptest.NewServer(srv.routes())
	defer ts.Close()
	defer srv.hub.stop()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the hub a moment to register the client before broadcasting.
	time.Sleep(50 * time.Millisecond)

	run := srv.engine.RunRandom(3)
	srv.hub.BroadcastRun(run)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var envelope struct {
		Type string          `json:"type"`
		Data model.RunResult `json:"data"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Type != EventTypeRun {
		t.Errorf("type = %q, want run", envelope.Type)
	}
	if len(envelope.Data.Records) != 3 {
		t.Errorf("got %d records, want 3", len(envelope.Data.Records))
	}
	if envelope.Data.ID != run.ID {
		t.Errorf("run ID mismatch: %s vs %s", envelope.Data.ID, run.ID)
	}
}
