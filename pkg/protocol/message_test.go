package protocol

import (
	"bufio"
	"bytes"
	"testing"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	tests := []Message{
		NewAction(ActionHandshake),
		{Action: ActionHandshake, Version: Version, Githash: "abc123"},
		{Action: ActionStartRender, ThreadCount: 4},
		{Action: ActionSubmitWork, Tile: &Tile{Num: 3, BeginX: 0, BeginY: 0, EndX: 16, EndY: 16},
			Result: &EncodedTexture{Width: 2, Height: 1, Channels: 3, Data: "AAAAAAAA"}},
		{Action: ActionStats, Completed: 42, AvgPerPass: 1.5},
		NewError("scene load failed"),
	}
	for _, m := range tests {
		var buf bytes.Buffer
		if err := Send(&buf, m); err != nil {
			t.Fatalf("Send(%+v): %v", m, err)
		}
		got, err := Receive(bufio.NewReader(&buf))
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		if got.Action != m.Action || got.Version != m.Version || got.Githash != m.Githash ||
			got.ThreadCount != m.ThreadCount || got.Completed != m.Completed || got.AvgPerPass != m.AvgPerPass ||
			got.Error != m.Error {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
		}
		if (got.Tile == nil) != (m.Tile == nil) {
			t.Errorf("Tile presence mismatch: got %v, want %v", got.Tile, m.Tile)
		} else if m.Tile != nil && *got.Tile != *m.Tile {
			t.Errorf("Tile mismatch: got %+v, want %+v", got.Tile, m.Tile)
		}
		if (got.Result == nil) != (m.Result == nil) {
			t.Errorf("Result presence mismatch: got %v, want %v", got.Result, m.Result)
		} else if m.Result != nil && *got.Result != *m.Result {
			t.Errorf("Result mismatch: got %+v, want %+v", got.Result, m.Result)
		}
	}
}

func TestIsErrorAndIsGoodbye(t *testing.T) {
	if !NewError("boom").IsError() {
		t.Error("NewError message should report IsError")
	}
	if NewAction(ActionOK).IsError() {
		t.Error("ok message should not report IsError")
	}
	if !NewAction(ActionGoodbye).IsGoodbye() {
		t.Error("goodbye message should report IsGoodbye")
	}
	if NewAction(ActionOK).IsGoodbye() {
		t.Error("ok message should not report IsGoodbye")
	}
}
