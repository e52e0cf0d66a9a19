package documents

import "time"

// Status is the lifecycle of a document record. Records are created pending
// right after upload and finalized completed exactly once, whether or not
// extraction produced anything.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Document is one uploaded file belonging to a client. DocumentType is the
// form role the file was attached to ("id", "paystub"). AIExtractedData is
// nil when no extraction ran or the extraction call failed.
type Document struct {
	ID              string         `json:"id"`
	ClientID        string         `json:"clientId"`
	BrokerID        string         `json:"brokerId"`
	FileName        string         `json:"fileName"`
	StoragePath     string         `json:"storagePath"`
	StorageURL      string         `json:"storageUrl"`
	FileType        FileType       `json:"fileType"`
	DocumentType    string         `json:"documentType"`
	Status          Status         `json:"status"`
	AIExtractedData map[string]any `json:"aiExtractedData,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
