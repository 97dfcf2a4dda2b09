package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Error is one code drained from glGetError.
type Error struct {
	Code uint32
}

func (e Error) Error() string {
	return fmt.Sprintf("GL error %s (0x%04X)", ErrorName(e.Code), e.Code)
}

// ErrorName maps a glGetError code to its symbolic name.
func ErrorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "UNKNOWN"
	}
}

// maxDrainedErrors bounds the drain loop; without a live context glGetError
// can keep returning the same code.
const maxDrainedErrors = 32

// Errors drains the GL error queue.
func (d *Device) Errors() []error {
	var errs []error
	for i := 0; i < maxDrainedErrors; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		errs = append(errs, Error{Code: code})
	}
	return errs
}
