package shader

import (
	"fmt"

	"github.com/polyfloyd/meshvis"
)

// CompileError is reported when the driver rejects a shader stage. With a
// validated config this indicates a bug in the source assembly rather than a
// caller error.
type CompileError struct {
	Stage Stage
	Log   string
}

func (err CompileError) Error() string {
	var str string
	switch err.Stage {
	case StageVertex:
		str = "error compiling vertex shader:\n"
	case StageFragment:
		str = "error compiling fragment shader:\n"
	case StageGeometry:
		str = "error compiling geometry shader:\n"
	}
	return str + err.Log
}

// LinkError is reported when linking fails after all stages compiled. Like
// CompileError this is an internal consistency failure, not recoverable by
// retrying.
type LinkError struct {
	Log string
}

func (err LinkError) Error() string {
	return "error linking program: " + err.Log
}

func contractErr(op, format string, args ...interface{}) error {
	return meshvis.ContractError{
		Op:     "shader: " + op,
		Reason: fmt.Sprintf(format, args...),
	}
}
