package main

import "testing"

func setLogFlags(t *testing.T, level, format string) {
	t.Helper()
	prevLevel, prevFmt := logLevel, logFmt
	logLevel, logFmt = level, format
	t.Cleanup(func() {
		logLevel, logFmt = prevLevel, prevFmt
	})
}

func TestBuildLogger(t *testing.T) {
	for _, tc := range []struct {
		level, format string
	}{
		{"debug", "text"},
		{"info", "json"},
		{"warn", "pretty"},
		{"error", "auto"},
		{"", ""},
	} {
		setLogFlags(t, tc.level, tc.format)
		log, err := buildLogger()
		if err != nil {
			t.Fatalf("buildLogger(%q, %q): %v", tc.level, tc.format, err)
		}
		if log == nil {
			t.Fatalf("buildLogger(%q, %q) returned nil", tc.level, tc.format)
		}
	}
}

func TestBuildLoggerRejectsUnknown(t *testing.T) {
	setLogFlags(t, "verbose", "text")
	if _, err := buildLogger(); err == nil {
		t.Fatal("expected an error for an unknown level")
	}

	setLogFlags(t, "info", "xml")
	if _, err := buildLogger(); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
