package domain

import "time"

// GenerationStatus enumerates generation lifecycle states.
type GenerationStatus string

const (
	StatusProcessing GenerationStatus = "processing"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
)

// Defaults applied to optional creation fields.
const (
	DefaultPrecision      = "float32"
	DefaultRealtimeFactor = 1.0
	DefaultDuration       = 30.0
	DefaultSampleRate     = 32000
	DefaultModelVersion   = "musicgen-small"
)

// GenerationRecord is one persisted unit of generated audio together with its
// engagement counters.
type GenerationRecord struct {
	ID             int64            `json:"id"`
	GenerationID   string           `json:"generation_id"`
	Prompt         string           `json:"prompt"`
	Status         GenerationStatus `json:"status"`
	Device         string           `json:"device"`
	Precision      string           `json:"precision"`
	GenerationTime float64          `json:"generation_time"`
	RealtimeFactor float64          `json:"realtime_factor"`
	FilePath       *string          `json:"file_path"`
	AudioURL       *string          `json:"audio_url"`
	FileSizeMB     float64          `json:"file_size_mb"`
	Duration       float64          `json:"duration"`
	SampleRate     int              `json:"sample_rate"`
	PlayCount      int              `json:"play_count"`
	DownloadCount  int              `json:"download_count"`
	IsFavorited    bool             `json:"is_favorited"`
	LastPlayed     *time.Time       `json:"last_played"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      *time.Time       `json:"updated_at"`
	UserID         *int64           `json:"user_id"`
	ErrorMessage   *string          `json:"error_message"`
	ModelVersion   string           `json:"model_version"`
}

// GenerationInput carries caller-supplied creation data. Required fields are
// GenerationID, Prompt, Device, GenerationTime and FileSizeMB; the rest fall
// back to defaults in Validate.
type GenerationInput struct {
	GenerationID   string
	Prompt         string
	Status         GenerationStatus
	Device         string
	Precision      string
	GenerationTime float64
	RealtimeFactor float64
	FileSizeMB     float64
	Duration       float64
	SampleRate     int
	UserID         *int64
	ErrorMessage   *string
	ModelVersion   string
}

// Validate checks required fields, applies defaults and enforces value ranges.
// A non-positive realtime factor is reset to 1.0 rather than rejected.
func (in *GenerationInput) Validate() error {
	if in.GenerationID == "" {
		return &ValidationError{Field: "generation_id", Reason: "required"}
	}
	if in.Prompt == "" {
		return &ValidationError{Field: "prompt", Reason: "required"}
	}
	if in.Device == "" {
		return &ValidationError{Field: "device", Reason: "required"}
	}
	if in.GenerationTime <= 0 {
		return &ValidationError{Field: "generation_time", Reason: "must be positive"}
	}
	if in.FileSizeMB <= 0 {
		return &ValidationError{Field: "file_size_mb", Reason: "must be positive"}
	}

	if in.Status == "" {
		in.Status = StatusCompleted
	}
	switch in.Status {
	case StatusProcessing, StatusCompleted, StatusFailed:
	default:
		return &ValidationError{Field: "status", Reason: "unknown status " + string(in.Status)}
	}
	if in.Precision == "" {
		in.Precision = DefaultPrecision
	}
	if in.RealtimeFactor <= 0 {
		in.RealtimeFactor = DefaultRealtimeFactor
	}
	if in.Duration <= 0 {
		in.Duration = DefaultDuration
	}
	if in.SampleRate <= 0 {
		in.SampleRate = DefaultSampleRate
	}
	if in.ModelVersion == "" {
		in.ModelVersion = DefaultModelVersion
	}
	return nil
}
