package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func record(msg, tag string) slog.Record {
	r := slog.NewRecord(time.Now(), slog.LevelInfo, msg, 0)
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	return r
}

func TestFilteringHandlerTags(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		tag  string
		want bool
	}{
		{"no filters", Config{}, "history", true},
		{"disabled tag", Config{DisabledTags: []string{"History"}}, "history", false},
		{"enabled other tag", Config{EnabledTags: []string{"input"}}, "history", false},
		{"enabled tag", Config{EnabledTags: []string{"history"}}, "history", true},
		{"untagged with enabled list", Config{EnabledTags: []string{"history"}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := tt.cfg
			cfg.process()
			h := newFilteringHandler(slog.NewTextHandler(&buf, nil), &cfg)

			assert.NoError(t, h.Handle(context.Background(), record("hello", tt.tag)))
			assert.Equal(t, tt.want, bytes.Contains(buf.Bytes(), []byte("hello")))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("err"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
