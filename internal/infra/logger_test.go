package infra

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerFromPrefersContextLogger(t *testing.T) {
	var ctxBuf, fallbackBuf bytes.Buffer
	fallback := zerolog.New(&fallbackBuf)
	ctx := zerolog.New(&ctxBuf).With().Str("request_id", "req-1").Logger().WithContext(context.Background())

	LoggerFrom(ctx, &fallback).Info().Msg("hello")

	if !strings.Contains(ctxBuf.String(), `"request_id":"req-1"`) {
		t.Fatalf("context logger not used: %q", ctxBuf.String())
	}
	if fallbackBuf.Len() != 0 {
		t.Fatalf("fallback logger written: %q", fallbackBuf.String())
	}
}

func TestLoggerFromFallsBack(t *testing.T) {
	var buf bytes.Buffer
	fallback := zerolog.New(&buf)

	LoggerFrom(context.Background(), &fallback).Info().Msg("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("fallback logger not used: %q", buf.String())
	}
	if LoggerFrom(context.Background(), nil) == nil {
		t.Fatal("nil fallback should yield a discard logger")
	}
}
