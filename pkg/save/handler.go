// Package save persists contributed field values when the host saves a menu
// item.
package save

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-menufields/pkg/field"
)

// Results reported to a Recorder.
const (
	ResultSaved   = "saved"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
)

// Recorder receives one result per field processed.
type Recorder interface {
	RecordSave(result string)
}

// Result is the outcome for one field of one item.
type Result struct {
	Field  string
	ItemID int
	Err    error
}

// Option customises a Handler.
type Option func(*Handler)

// WithLogger logs save failures at warn level.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRecorder reports every field outcome to rec.
func WithRecorder(rec Recorder) Option {
	return func(h *Handler) {
		h.recorder = rec
	}
}

// Handler runs on field.ActionItemSaved and saves every contributed field of
// the saved item.
type Handler struct {
	collector *field.Collector
	logger    *zap.Logger
	recorder  Recorder
}

// NewHandler constructs a Handler collecting fields through collector.
func NewHandler(collector *field.Collector, options ...Option) *Handler {
	h := &Handler{
		collector: collector,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h
}

// Handle is the action callback. It expects (menuID, itemID) and ignores
// malformed arguments. Failures are logged, never returned, because the save
// action has no result channel.
func (h *Handler) Handle(ctx context.Context, args ...any) {
	if len(args) < 2 {
		h.logger.Debug("menu item save without item id", zap.Int("args", len(args)))
		return
	}
	itemID, ok := toInt(args[1])
	if !ok {
		h.logger.Debug("menu item save with non-numeric item id", zap.Any("item_id", args[1]))
		return
	}
	h.SaveItem(ctx, itemID)
}

// SaveItem saves every valid field of itemID and returns one Result per
// collected field. Invalid values are reported with field.ErrInvalidItem and
// never saved.
func (h *Handler) SaveItem(ctx context.Context, itemID int) []Result {
	if h.collector == nil {
		return nil
	}
	descriptors := h.collector.AllFields(ctx, itemID)
	if len(descriptors) == 0 {
		return nil
	}

	factory := field.NewValueFactory(h.collector.Backend(), itemID)
	results := make([]Result, 0, len(descriptors))
	for _, d := range descriptors {
		value := factory.Create(ctx, d.Name(), d.Sanitize)
		result := Result{Field: d.Name(), ItemID: itemID}
		if !value.IsValid() {
			result.Err = field.ErrInvalidItem
			h.record(ResultInvalid)
			results = append(results, result)
			continue
		}

		if err := value.Save(ctx); err != nil {
			result.Err = err
			h.record(ResultFailed)
			h.logger.Warn("menu item field not saved",
				zap.Int("item_id", itemID),
				zap.String("field", d.Name()),
				zap.Bool("outside_save", errors.Is(err, field.ErrNotSaving)),
				zap.Error(err),
			)
		} else {
			h.record(ResultSaved)
		}
		results = append(results, result)
	}
	return results
}

func (h *Handler) record(result string) {
	if h.recorder != nil {
		h.recorder.RecordSave(result)
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case uint:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), v == float64(int(v))
	}
	return 0, false
}
