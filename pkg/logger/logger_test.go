package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStandardLoggerPrefixes(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(log.New(&buf, "", 0))
	l.Info("hello %s", "world")
	l.Warning("watch out")
	l.Error("boom")
	out := buf.String()
	for _, want := range []string{"[INFO] hello world", "[WARNING] watch out", "[ERROR] boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestMockLoggerRecords(t *testing.T) {
	m := NewMockLogger()
	m.Info("a %d", 1)
	m.Warning("b")
	m.Error("c")
	if len(m.InfoCalls) != 1 || m.InfoCalls[0] != "a 1" {
		t.Errorf("InfoCalls = %v", m.InfoCalls)
	}
	if len(m.WarningCalls) != 1 || len(m.ErrorCalls) != 1 {
		t.Errorf("expected one warning and one error, got %v / %v", m.WarningCalls, m.ErrorCalls)
	}
	if err := m.Close(); err != nil || !m.CloseCalled {
		t.Error("Close not recorded")
	}
}

func TestMultiLoggerFanout(t *testing.T) {
	a, b := NewMockLogger(), NewMockLogger()
	m := NewMultiLogger(a, b)
	m.Info("x")
	m.Error("y")
	for _, ml := range []*MockLogger{a, b} {
		if len(ml.InfoCalls) != 1 || len(ml.ErrorCalls) != 1 {
			t.Errorf("backend missed messages: %+v", ml)
		}
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !a.CloseCalled || !b.CloseCalled {
		t.Error("Close not propagated to all backends")
	}
}

func TestToStdLogger(t *testing.T) {
	m := NewMockLogger()
	std := ToStdLogger(m)
	std.Println("forwarded")
	if len(m.InfoCalls) != 1 || !strings.Contains(m.InfoCalls[0], "forwarded") {
		t.Errorf("InfoCalls = %v", m.InfoCalls)
	}
}
