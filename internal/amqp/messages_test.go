package amqp

import "testing"

func TestSyncMessageRoundTrip(t *testing.T) {
	msg := NewSyncMessage(OpAppend, 1700000001, 1)
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := SyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Op != OpAppend || got.ID != 1700000001 || got.Version != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSyncMessageRejectsGarbage(t *testing.T) {
	if _, err := SyncMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
