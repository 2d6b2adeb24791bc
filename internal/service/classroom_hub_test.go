package service

import (
	"encoding/json"
	"os"
	"reflect"
	"testing"

	"smart_classroom_backend/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestClient(connID, userID string) *ClassroomClient {
	return &ClassroomClient{
		ID:              connID,
		UserID:          userID,
		Send:            make(chan []byte, 16),
		rooms:           make(map[string]bool),
		presenceClasses: make(map[string]string),
	}
}

func recvEvent(t *testing.T, c *ClassroomClient) *WSEvent {
	t.Helper()
	select {
	case raw := <-c.Send:
		var ev WSEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return &ev
	default:
		t.Fatal("no message in send buffer")
		return nil
	}
}

func drain(c *ClassroomClient) {
	for {
		select {
		case <-c.Send:
		default:
			return
		}
	}
}

func TestBroadcastReachesRoomMembersOnly(t *testing.T) {
	hub := NewClassroomHub(nil)
	a := newTestClient("conn-a", "u1")
	b := newTestClient("conn-b", "u2")
	outsider := newTestClient("conn-c", "u3")

	hub.JoinRoom(a, "class_c1")
	hub.JoinRoom(b, "class_c1")
	hub.JoinRoom(outsider, "class_c2")

	hub.Broadcast("class_c1", Encode(EvStateChanged, map[string]string{"status": "MAIN_SESSION"}), nil)

	if ev := recvEvent(t, a); ev.Event != EvStateChanged {
		t.Errorf("a got %q", ev.Event)
	}
	if ev := recvEvent(t, b); ev.Event != EvStateChanged {
		t.Errorf("b got %q", ev.Event)
	}
	if len(outsider.Send) != 0 {
		t.Error("outsider received a message for another room")
	}
}

func TestBroadcastExcludesOriginator(t *testing.T) {
	hub := NewClassroomHub(nil)
	sender := newTestClient("conn-a", "u1")
	peer := newTestClient("conn-b", "u2")
	hub.JoinRoom(sender, "group_c1_1")
	hub.JoinRoom(peer, "group_c1_1")

	hub.Broadcast("group_c1_1", Encode(EvTypingIndicator, map[string]bool{"isTyping": true}), sender)

	if len(sender.Send) != 0 {
		t.Error("originator received its own transient event")
	}
	if ev := recvEvent(t, peer); ev.Event != EvTypingIndicator {
		t.Errorf("peer got %q", ev.Event)
	}
}

func TestPresenceBroadcastsOnlineList(t *testing.T) {
	hub := NewClassroomHub(nil)
	a := newTestClient("conn-a", "u1")
	hub.JoinRoom(a, ClassRoomKey("c1"))
	hub.RegisterPresence(a, "c1", "u1")

	ev := recvEvent(t, a)
	if ev.Event != EvUsersOnline {
		t.Fatalf("event = %q, want %q", ev.Event, EvUsersOnline)
	}
	var data struct {
		OnlineUsers []string `json:"onlineUsers"`
	}
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if !reflect.DeepEqual(data.OnlineUsers, []string{"u1"}) {
		t.Fatalf("onlineUsers = %v", data.OnlineUsers)
	}
}

func TestPresenceCountsConnectionsPerUser(t *testing.T) {
	hub := NewClassroomHub(nil)
	first := newTestClient("conn-1", "u1")
	second := newTestClient("conn-2", "u1")

	hub.RegisterPresence(first, "c1", "u1")
	hub.RegisterPresence(second, "c1", "u1")

	// 同一用户断开一条连接后仍然在线
	hub.Disconnect(first)
	if got := hub.OnlineUsers("c1"); !reflect.DeepEqual(got, []string{"u1"}) {
		t.Fatalf("after first disconnect: %v, want [u1]", got)
	}

	hub.Disconnect(second)
	if got := hub.OnlineUsers("c1"); len(got) != 0 {
		t.Fatalf("after second disconnect: %v, want empty", got)
	}
}

func TestOnlineUsersSorted(t *testing.T) {
	hub := NewClassroomHub(nil)
	for _, id := range []string{"zoe", "amy", "mia"} {
		hub.RegisterPresence(newTestClient("conn-"+id, id), "c1", id)
	}
	want := []string{"amy", "mia", "zoe"}
	if got := hub.OnlineUsers("c1"); !reflect.DeepEqual(got, want) {
		t.Fatalf("OnlineUsers = %v, want %v", got, want)
	}
}

func TestDisconnectRemovesFromAllRooms(t *testing.T) {
	hub := NewClassroomHub(nil)
	c := newTestClient("conn-a", "u1")
	peer := newTestClient("conn-b", "u2")
	hub.JoinRoom(c, ClassRoomKey("c1"))
	hub.JoinRoom(c, GroupRoomKey("c1", 2))
	hub.JoinRoom(peer, ClassRoomKey("c1"))
	hub.RegisterPresence(c, "c1", "u1")
	hub.RegisterPresence(peer, "c1", "u2")
	drain(c)
	drain(peer)

	hub.Disconnect(c)

	// 掉线后在线列表重播给剩余成员
	ev := recvEvent(t, peer)
	if ev.Event != EvUsersOnline {
		t.Fatalf("event = %q, want %q", ev.Event, EvUsersOnline)
	}
	var data struct {
		OnlineUsers []string `json:"onlineUsers"`
	}
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if !reflect.DeepEqual(data.OnlineUsers, []string{"u2"}) {
		t.Fatalf("onlineUsers = %v, want [u2]", data.OnlineUsers)
	}

	if hub.InRoom(c, ClassRoomKey("c1")) || hub.InRoom(c, GroupRoomKey("c1", 2)) {
		t.Error("disconnected client still in rooms")
	}

	// 后续广播不会再投递给已关闭的连接
	hub.Broadcast(ClassRoomKey("c1"), Encode(EvStateChanged, nil), nil)
	if ev := recvEvent(t, peer); ev.Event != EvStateChanged {
		t.Errorf("peer got %q", ev.Event)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	hub := NewClassroomHub(nil)
	c := newTestClient("conn-a", "u1")
	hub.JoinRoom(c, ClassRoomKey("c1"))
	hub.RegisterPresence(c, "c1", "u1")

	hub.Disconnect(c)
	hub.Disconnect(c) // 二次掉线不应 panic 或改变状态

	if got := hub.OnlineUsers("c1"); len(got) != 0 {
		t.Fatalf("OnlineUsers = %v, want empty", got)
	}
}
