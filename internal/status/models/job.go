package models

// ============================================================
// Job Model
// ============================================================

// Статусы конвертации. Поток: uploading → converting → converted | failed.
const (
	StatusUploading  = "uploading"
	StatusConverting = "converting"
	StatusConverted  = "converted"
	StatusFailed     = "failed"
)

// Job — запись о конвертации одного загруженного SVG.
type Job struct {
	RequestID   string `json:"request_id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	PESKey      string `json:"pes_key,omitempty"`
	StitchCount int    `json:"stitch_count,omitempty"`
	Quality     string `json:"quality,omitempty"`
	Error       string `json:"error,omitempty"`
}
