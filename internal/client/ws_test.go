package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"
)

func TestDispatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want interface{}
	}{
		{
			name: "sensor data",
			raw:  `{"type":"sensor_data","station_id":3,"sensor_type":"gnss","timestamp":1700000000,"data":{"speed_2d_mm_s":1.2}}`,
			want: SensorDataMsg{StationID: 3, SensorType: "gnss", Timestamp: 1700000000, Data: json.RawMessage(`{"speed_2d_mm_s":1.2}`)},
		},
		{
			name: "station status",
			raw:  `{"type":"station_status","station_id":7,"risk_level":"EXTREME"}`,
			want: StationStatusMsg{StationID: 7, RiskLevel: "EXTREME"},
		},
		{
			name: "alert",
			raw:  `{"type":"alert","station_id":7,"timestamp":1700000001,"level":"CRITICAL","category":"gnss","message":"displacement spike"}`,
			want: AlertMsg{StationID: 7, Timestamp: 1700000001, Level: "CRITICAL", Category: "gnss", Message: "displacement spike"},
		},
		{
			name: "pong ignored",
			raw:  `{"type":"pong"}`,
			want: nil,
		},
		{
			name: "unknown type ignored",
			raw:  `{"type":"firmware_update","station_id":1}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			if err := json.Unmarshal([]byte(tt.raw), &env); err != nil {
				t.Fatal(err)
			}
			got := Dispatch(env)
			switch want := tt.want.(type) {
			case nil:
				if got != nil {
					t.Errorf("Dispatch() = %#v, want nil", got)
				}
			case SensorDataMsg:
				g, ok := got.(SensorDataMsg)
				if !ok || g.StationID != want.StationID || g.SensorType != want.SensorType ||
					g.Timestamp != want.Timestamp || string(g.Data) != string(want.Data) {
					t.Errorf("Dispatch() = %#v, want %#v", got, want)
				}
			default:
				if got != tt.want {
					t.Errorf("Dispatch() = %#v, want %#v", got, tt.want)
				}
			}
		})
	}
}

func TestDispatchBatch(t *testing.T) {
	raw := `{"type":"batch_update","data":[
		{"type":"sensor_data","station_id":1,"sensor_type":"rain","timestamp":10,"data":{"rainfall_mm":2}},
		{"type":"station_status","station_id":1,"risk_level":"MEDIUM"}
	]}`
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatal(err)
	}

	msg, ok := Dispatch(env).(BatchMsg)
	if !ok {
		t.Fatalf("Dispatch() = %T, want BatchMsg", Dispatch(env))
	}
	if len(msg.Events) != 2 {
		t.Fatalf("batch length = %d, want 2", len(msg.Events))
	}
	if msg.Events[0].Type != MsgSensorData || msg.Events[1].RiskLevel != "MEDIUM" {
		t.Errorf("batch events decoded wrong: %+v", msg.Events)
	}
}

func TestDispatchMalformedBatch(t *testing.T) {
	env := Envelope{Type: MsgBatchUpdate, Data: json.RawMessage(`{"not":"an array"}`)}
	if got := Dispatch(env); got != nil {
		t.Errorf("Dispatch() = %#v, want nil for malformed batch", got)
	}
}

func TestWSEndpoint(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://192.168.1.10:8000", "ws://192.168.1.10:8000/ws/updates"},
		{"https://monitor.example.com", "wss://monitor.example.com/ws/updates"},
		{"http://localhost:8000/", "ws://localhost:8000/ws/updates"},
	}
	for _, tt := range tests {
		if got := WSEndpoint(tt.base); got != tt.want {
			t.Errorf("WSEndpoint(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

// wsTestServer upgrades connections and runs fn per connection, counting
// how many transports were ever opened.
func wsTestServer(t *testing.T, fn func(*websocket.Conn)) (*httptest.Server, *int32) {
	t.Helper()
	var upgrades int32
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		atomic.AddInt32(&upgrades, 1)
		fn(conn)
	}))
	t.Cleanup(srv.Close)
	return srv, &upgrades
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestListenAndRead(t *testing.T) {
	srv, _ := wsTestServer(t, func(conn *websocket.Conn) {
		// A garbage frame must be dropped without killing the stream.
		conn.WriteMessage(websocket.TextMessage, []byte("{{{ not json"))
		conn.WriteMessage(websocket.TextMessage, []byte(
			`{"type":"station_status","station_id":7,"risk_level":"HIGH"}`))
	})

	c := NewWSClient(wsURL(srv), nil)
	defer c.Close()
	ctx := context.Background()

	if msg := c.Listen(ctx)(); msg != (WSConnectedMsg{}) {
		t.Fatalf("Listen() = %#v, want WSConnectedMsg", msg)
	}
	if !c.Connected() {
		t.Fatal("Connected() = false after WSConnectedMsg")
	}

	msg := c.ReadLoop(ctx)()
	status, ok := msg.(StationStatusMsg)
	if !ok {
		t.Fatalf("ReadLoop() = %#v, want StationStatusMsg", msg)
	}
	if status.StationID != 7 || status.RiskLevel != "HIGH" {
		t.Errorf("status = %+v", status)
	}
}

func TestListenIdempotentWhileOpen(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	srv, upgrades := wsTestServer(t, func(conn *websocket.Conn) {
		<-block
		conn.Close()
	})

	c := NewWSClient(wsURL(srv), nil)
	defer c.Close()
	ctx := context.Background()

	if msg := c.Listen(ctx)(); msg != (WSConnectedMsg{}) {
		t.Fatalf("first Listen() = %#v", msg)
	}
	// A second Listen while open must not dial a second transport.
	if msg := c.Listen(ctx)(); msg != nil {
		t.Fatalf("second Listen() = %#v, want nil", msg)
	}
	if n := atomic.LoadInt32(upgrades); n != 1 {
		t.Errorf("transports opened = %d, want 1", n)
	}
}

func TestReadLoopReportsDisconnect(t *testing.T) {
	srv, _ := wsTestServer(t, func(conn *websocket.Conn) {
		conn.Close()
	})

	c := NewWSClient(wsURL(srv), nil)
	defer c.Close()
	ctx := context.Background()

	if msg := c.Listen(ctx)(); msg != (WSConnectedMsg{}) {
		t.Fatalf("Listen() = %#v", msg)
	}
	msg := c.ReadLoop(ctx)()
	if _, ok := msg.(WSDisconnectedMsg); !ok {
		t.Fatalf("ReadLoop() = %#v, want WSDisconnectedMsg", msg)
	}
	if c.Connected() {
		t.Error("Connected() = true after disconnect")
	}
}

func TestCloseStopsReconnect(t *testing.T) {
	srv, upgrades := wsTestServer(t, func(conn *websocket.Conn) {
		conn.Close()
	})

	c := NewWSClient(wsURL(srv), nil)
	c.Close()

	if msg := c.Listen(context.Background())(); msg != nil {
		t.Fatalf("Listen() after Close = %#v, want nil", msg)
	}
	if n := atomic.LoadInt32(upgrades); n != 0 {
		t.Errorf("transports opened after Close = %d, want 0", n)
	}
}
