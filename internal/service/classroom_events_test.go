package service

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseEventAcceptsKnownEvents(t *testing.T) {
	for event := range inboundEvents {
		raw := []byte(`{"event":"` + event + `","data":{"classId":"c1"}}`)
		ev, err := ParseEvent(raw)
		if err != nil {
			t.Errorf("event %q rejected: %v", event, err)
			continue
		}
		if ev.Event != event {
			t.Errorf("parsed event = %q, want %q", ev.Event, event)
		}
	}
}

func TestParseEventRejectsUnknownEvent(t *testing.T) {
	_, err := ParseEvent([]byte(`{"event":"admin:drop-tables","data":{}}`))
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("err = %v, want ErrUnknownEvent", err)
	}
}

func TestParseEventRejectsServerSideEvents(t *testing.T) {
	// 下行事件名不允许从客户端上行
	_, err := ParseEvent([]byte(`{"event":"class:state-changed","data":{}}`))
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("err = %v, want ErrUnknownEvent", err)
	}
}

func TestParseEventRejectsMalformed(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{}`),
		[]byte(`{"data":{}}`),
		[]byte(`{"event":""}`),
	}
	for _, raw := range cases {
		if _, err := ParseEvent(raw); !errors.Is(err, ErrMalformedEvent) {
			t.Errorf("ParseEvent(%q) err = %v, want ErrMalformedEvent", raw, err)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	raw := Encode(EvStateChanged, map[string]string{"status": "MAIN_SESSION"})

	var ev WSEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Event != EvStateChanged {
		t.Fatalf("event = %q, want %q", ev.Event, EvStateChanged)
	}
	var data map[string]string
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data["status"] != "MAIN_SESSION" {
		t.Fatalf("status = %q", data["status"])
	}
}

func TestPayloadValidation(t *testing.T) {
	neg := -1
	two := 2

	if err := (&JoinRoomPayload{ClassID: ""}).Validate(); err == nil {
		t.Error("join without classId accepted")
	}
	if err := (&JoinRoomPayload{ClassID: "c1", GroupNumber: &neg}).Validate(); err == nil {
		t.Error("join with negative group accepted")
	}
	if err := (&JoinRoomPayload{ClassID: "c1", GroupNumber: &two}).Validate(); err != nil {
		t.Errorf("valid group join rejected: %v", err)
	}

	if err := (&NoteUpdatePayload{ClassID: "c1", GroupNumber: 0}).Validate(); err == nil {
		t.Error("note update without group accepted")
	}

	if err := (&ChatMessagePayload{ClassID: "c1", Message: "   "}).Validate(); err == nil {
		t.Error("whitespace-only chat message accepted")
	}
	if err := (&ChatMessagePayload{ClassID: "c1", Message: "hi"}).Validate(); err != nil {
		t.Errorf("valid chat message rejected: %v", err)
	}

	if err := (&TeacherActionPayload{}).Validate(); err == nil {
		t.Error("teacher action without classId accepted")
	}
}

func TestRoomKeys(t *testing.T) {
	if got := ClassRoomKey("c1"); got != "class_c1" {
		t.Errorf("ClassRoomKey = %q", got)
	}
	if got := GroupRoomKey("c1", 3); got != "group_c1_3" {
		t.Errorf("GroupRoomKey = %q", got)
	}
	// 不同小组必须落在不同广播域
	if GroupRoomKey("c1", 1) == GroupRoomKey("c1", 2) {
		t.Error("group rooms collide")
	}
	if GroupRoomKey("c1", 1) == GroupRoomKey("c2", 1) {
		t.Error("group rooms collide across classes")
	}
}
