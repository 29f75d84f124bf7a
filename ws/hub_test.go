package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// server test: upgrade rồi Register thẳng vào hub theo query params
func newHubServer(lobbyCode string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		member := Member{
			ID:   r.URL.Query().Get("id"),
			Name: r.URL.Query().Get("id"),
		}
		isAdmin := r.URL.Query().Get("admin") == "1"
		H.Register(lobbyCode, conn, member, isAdmin)
	}))
}

func dialHub(t *testing.T, srv *httptest.Server, id string, admin bool) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?id=" + id
	if admin {
		url += "&admin=1"
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed for %s: %v", id, err)
	}
	return conn
}

func waitForMembers(t *testing.T, lobbyCode string, want []string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		members := H.Members(lobbyCode)
		if len(members) == len(want) {
			match := true
			for i, m := range members {
				if m.ID != want[i] {
					match = false
					break
				}
			}
			if match {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("members of %s never became %v, got %v", lobbyCode, want, H.Members(lobbyCode))
}

func TestHubPresenceJoinOrder(t *testing.T) {
	const lobby = "test-join-order"
	srv := newHubServer(lobby)
	defer srv.Close()

	a := dialHub(t, srv, "aaa", false)
	defer a.Close()
	waitForMembers(t, lobby, []string{"aaa"})

	b := dialHub(t, srv, "bbb", false)
	defer b.Close()
	c := dialHub(t, srv, "ccc", false)
	defer c.Close()

	// Ring giữ đúng thứ tự join
	waitForMembers(t, lobby, []string{"aaa", "bbb", "ccc"})

	// Người rời lobby biến mất khỏi ring, thứ tự còn lại không đổi
	b.Close()
	waitForMembers(t, lobby, []string{"aaa", "ccc"})
}

func TestHubAdminNotInRing(t *testing.T) {
	const lobby = "test-admin-ring"
	srv := newHubServer(lobby)
	defer srv.Close()

	admin := dialHub(t, srv, "admin-1", true)
	defer admin.Close()
	p := dialHub(t, srv, "ppp", false)
	defer p.Close()

	waitForMembers(t, lobby, []string{"ppp"})
}

func TestHubBroadcastEvent(t *testing.T) {
	const lobby = "test-broadcast"
	srv := newHubServer(lobby)
	defer srv.Close()

	conn := dialHub(t, srv, "listener", false)
	defer conn.Close()
	waitForMembers(t, lobby, []string{"listener"})

	SendLobbyEvent(lobby, "processing_started", map[string]int{"round_number": 2})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("never received processing_started: %v", err)
		}
		var event LobbyEvent
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("invalid event JSON: %v", err)
		}
		// Bỏ qua presence_sync xen giữa
		if event.Event == "processing_started" {
			return
		}
	}
}
