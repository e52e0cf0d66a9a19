package notify

import "encoding/json"

// SubmissionEvent is the payload sent when a client finishes onboarding.
type SubmissionEvent struct {
	ClientID           string `json:"clientId"`
	BrokerID           string `json:"brokerId"`
	LinkToken          string `json:"linkToken"`
	ClientName         string `json:"clientName"`
	ClientEmail        string `json:"clientEmail"`
	DocumentsProcessed int    `json:"documentsProcessed"`
	ExtractionOccurred bool   `json:"extractionOccurred"`
	CompletedAt        string `json:"completedAt"`
	Version            int    `json:"version"`
}

// EncodeEvent returns the JSON representation of an event.
func EncodeEvent(event SubmissionEvent) ([]byte, error) {
	return json.Marshal(event)
}

// DecodeEvent parses a JSON payload into a SubmissionEvent.
func DecodeEvent(payload []byte) (SubmissionEvent, error) {
	var event SubmissionEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return SubmissionEvent{}, err
	}
	return event, nil
}
