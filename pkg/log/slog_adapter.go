package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes elaboration events to an slog.Logger.
// Useful for development when you want to see elaboration events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Errors are logged at Error level,
// everything else at Debug.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("elab_id", event.ElaborationID),
		slog.String("stage", event.Stage.String()),
		slog.String("category", event.Category.String()),
	}
	if event.Subject != "" {
		attrs = append(attrs, slog.String("subject", event.Subject))
	}

	level := slog.LevelDebug
	switch {
	case event.Field != nil:
		attrs = append(attrs,
			slog.String("path", event.Field.Path),
			slog.Uint64("start", event.Field.Start),
			slog.Uint64("end", event.Field.End),
			slog.String("kind", event.Field.Kind),
		)
		if event.Field.Interface != "" {
			attrs = append(attrs,
				slog.String("interface", event.Field.Interface),
				slog.Int("data_width", event.Field.DataWidth),
			)
		}
		if event.Field.Access != "" {
			attrs = append(attrs, slog.String("access", event.Field.Access))
		}
	case event.Region != nil:
		attrs = append(attrs,
			slog.Uint64("offset_in", event.Region.OffsetIn),
			slog.Uint64("size", event.Region.Size),
			slog.Uint64("offset_out", event.Region.OffsetOut),
			slog.Bool("aligned", event.Region.Aligned),
		)
	case event.Summary != nil:
		attrs = append(attrs,
			slog.Int("entries", event.Summary.Entries),
			slog.Uint64("min_addr", event.Summary.MinAddr),
			slog.Uint64("max_addr", event.Summary.MaxAddr),
			slog.Int("addr_width", event.Summary.AddrWidth),
		)
		if event.Summary.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Summary.Duration))
		}
	case event.Connection != nil:
		attrs = append(attrs,
			slog.String("path", event.Connection.Path),
			slog.String("conn_kind", event.Connection.Kind),
		)
		if event.Connection.Target != "" {
			attrs = append(attrs, slog.String("target", event.Connection.Target))
		}
	case event.Error != nil:
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("error_stage", event.Error.Stage.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Class != "" {
			attrs = append(attrs, slog.String("error_class", event.Error.Class))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "elaboration", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
