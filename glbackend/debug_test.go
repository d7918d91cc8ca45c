package glbackend

import (
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
)

func TestDebugMessageString(t *testing.T) {
	cases := []struct {
		m    DebugMessage
		want string
	}{
		{DebugMessage{Severity: gl.DEBUG_SEVERITY_HIGH, Text: "shader recompiled"}, "[high] shader recompiled"},
		{DebugMessage{Severity: gl.DEBUG_SEVERITY_MEDIUM, Text: "x"}, "[medium] x"},
		{DebugMessage{Severity: gl.DEBUG_SEVERITY_LOW, Text: "x"}, "[low] x"},
		{DebugMessage{Severity: gl.DEBUG_SEVERITY_NOTIFICATION, Text: "x"}, "[note] x"},
		{DebugMessage{Severity: 0x1234, Text: "x"}, "[severity(0x1234)] x"},
	}
	for _, c := range cases {
		if got := c.m.String(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestDebugMessageNotification(t *testing.T) {
	if (DebugMessage{Severity: gl.DEBUG_SEVERITY_HIGH}).Notification() {
		t.Errorf("high severity is not a notification")
	}
	if !(DebugMessage{Severity: gl.DEBUG_SEVERITY_NOTIFICATION}).Notification() {
		t.Errorf("notification severity not recognized")
	}
}
