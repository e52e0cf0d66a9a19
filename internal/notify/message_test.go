package notify

import "testing"

func TestEventRoundTrip(t *testing.T) {
	sent := SubmissionEvent{
		ClientID:           "client-1",
		BrokerID:           "broker-1",
		LinkToken:          "tok-1",
		ClientName:         "Jane Doe",
		ClientEmail:        "jane@example.com",
		DocumentsProcessed: 3,
		ExtractionOccurred: true,
		CompletedAt:        "2026-08-31T12:00:00Z",
		Version:            1,
	}

	payload, err := EncodeEvent(sent)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeEvent(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != sent {
		t.Errorf("round trip = %+v, want %+v", got, sent)
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
