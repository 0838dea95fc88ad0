package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Index records an index name under the key "index".
func Index(name string) slog.Attr {
	return slog.String("index", name)
}

// ShardNumber records a logical shard number under the key "shard".
func ShardNumber(n int) slog.Attr {
	return slog.Int("shard", n)
}

// NodeID records a cluster node identifier under the key "node_id".
// If id is empty, it returns an empty Attr.
func NodeID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("node_id", id)
}

// ScrollID records a scroll cursor under the key "scroll_id".
// If id is empty, it returns an empty Attr.
func ScrollID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("scroll_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
