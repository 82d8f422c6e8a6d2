package audit

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RecorderRepository persists audit records.
type RecorderRepository interface {
	Insert(log *Log) error
}

// Recorder appends one audit record per mutating action. Writes are
// best-effort: by the time the recorder runs the business operation has
// already succeeded, so a failed write is logged and swallowed, never
// surfaced to the caller.
type Recorder struct {
	repo   RecorderRepository
	logger *slog.Logger
}

func NewRecorder(repo RecorderRepository, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// Record writes one audit entry. It never returns an error.
func (r *Recorder) Record(entry Entry) {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		r.logger.Error("failed to serialize audit details",
			"error", err,
			"action", entry.Action,
			"resource_type", entry.ResourceType)
		details = []byte("{}")
	}

	log := &Log{
		ID:             uuid.NewString(),
		OrganisationID: entry.OrganisationID,
		UserID:         entry.UserID,
		Action:         entry.Action,
		ResourceType:   entry.ResourceType,
		Details:        string(details),
		CreatedAt:      time.Now(),
	}
	if entry.ResourceID != "" {
		log.ResourceID = &entry.ResourceID
	}
	if entry.Meta.IPAddress != "" {
		log.IPAddress = &entry.Meta.IPAddress
	}
	if entry.Meta.UserAgent != "" {
		log.UserAgent = &entry.Meta.UserAgent
	}

	if err := r.repo.Insert(log); err != nil {
		r.logger.Error("failed to write audit log",
			"error", err,
			"action", entry.Action,
			"resource_type", entry.ResourceType,
			"resource_id", entry.ResourceID,
			"organisation_id", entry.OrganisationID)
		return
	}

	r.logger.Info("audit",
		"action", entry.Action,
		"resource_type", entry.ResourceType,
		"resource_id", entry.ResourceID)
}
