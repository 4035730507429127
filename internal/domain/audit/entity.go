package audit

import (
	"context"
	"encoding/json"
	"time"
)

type Action string

const (
	ActionCorrectionApproved Action = "attendance_correction.approved"
	ActionCorrectionRejected Action = "attendance_correction.rejected"
	ActionManualAttendance   Action = "attendance.manual_recorded"
	ActionAutoClockOut       Action = "attendance.auto_clock_out"
	ActionSettingsUpdated    Action = "settings.updated"
	ActionProfileDeactivated Action = "profile.deactivated"
)

const (
	EntityAttendance           = "attendance_record"
	EntityAttendanceCorrection = "attendance_correction"
	EntitySettings             = "organization_settings"
	EntityProfile              = "profile"
)

type Log struct {
	ID         string
	UserID     *string
	Action     Action
	EntityType string
	EntityID   *string
	OldValues  json.RawMessage
	NewValues  json.RawMessage
	IPAddress  *string
	UserAgent  *string
	CreatedAt  time.Time
}

// RequestMeta is the client information captured by the HTTP layer.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type requestMetaCtxKey struct{}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaCtxKey{}, meta)
}

func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaCtxKey{}).(RequestMeta)
	return meta
}

// NewLog builds an entry for action by userID, filling client details from ctx. Values are
// marshalled to JSON; nil values are stored as NULL.
func NewLog(ctx context.Context, userID string, action Action, entityType string, entityID string, oldValues, newValues any) (Log, error) {
	entry := Log{
		Action:     action,
		EntityType: entityType,
	}
	if userID != "" {
		entry.UserID = &userID
	}
	if entityID != "" {
		entry.EntityID = &entityID
	}

	var err error
	if entry.OldValues, err = marshalValues(oldValues); err != nil {
		return Log{}, err
	}
	if entry.NewValues, err = marshalValues(newValues); err != nil {
		return Log{}, err
	}

	meta := RequestMetaFromContext(ctx)
	if meta.IPAddress != "" {
		entry.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		entry.UserAgent = &meta.UserAgent
	}
	return entry, nil
}

func marshalValues(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
