package glbackend

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// DebugMessage is one entry from the context's debug output queue. Driver
// diagnostics about rejected shader constructs arrive here with more detail
// than the compile info logs carry.
type DebugMessage struct {
	ID       uint32
	Source   uint32
	Type     uint32
	Severity uint32
	Text     string
}

// Notification reports whether the message is informational chatter rather
// than a warning or error.
func (m DebugMessage) Notification() bool {
	return m.Severity == gl.DEBUG_SEVERITY_NOTIFICATION
}

func (m DebugMessage) severity() string {
	switch m.Severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return "medium"
	case gl.DEBUG_SEVERITY_LOW:
		return "low"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		return "note"
	}
	return fmt.Sprintf("severity(%#x)", m.Severity)
}

func (m DebugMessage) String() string {
	return fmt.Sprintf("[%s] %s", m.severity(), m.Text)
}

// DebugOutput enables the context's debug message queue and streams it
// through a channel. The context has to expose GL_KHR_debug, which
// Offscreen requests. Messages arriving faster than the reader drains them
// are dropped rather than blocking the GL thread.
func DebugOutput() <-chan DebugMessage {
	ch := make(chan DebugMessage, 32)
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.DebugMessageControl(gl.DONT_CARE, gl.DONT_CARE, gl.DONT_CARE, 0, nil, true)
	gl.DebugMessageCallback(func(source, typ, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		m := DebugMessage{
			ID:       id,
			Source:   source,
			Type:     typ,
			Severity: severity,
			Text:     message,
		}
		select {
		case ch <- m:
		default:
		}
	}, nil)
	return ch
}
