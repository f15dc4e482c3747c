package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldProvider   = "ai_provider"
	FieldModel      = "ai_model"
	FieldListingID  = "listing_id"
	FieldCompany    = "company"
	FieldPercentage = "match_percentage"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, dropping entries
// with an empty key or value.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields attaches fields to logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// WithCommonFields tags every entry with the AI provider and model.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)...)
}

// ListingFields identifies a listing in log entries.
func ListingFields(id int, company string) []zap.Field {
	return append([]zap.Field{zap.Int(FieldListingID, id)},
		StringFields(StringField{Key: FieldCompany, Value: company})...)
}

// MatchFields identifies a scored listing in log entries.
func MatchFields(id int, company string, percentage int) []zap.Field {
	return append(ListingFields(id, company), zap.Int(FieldPercentage, percentage))
}
