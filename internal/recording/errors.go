package recording

import (
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"syscall"

	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

// Raw device classifications. Device implementations wrap these so the
// controller can map them to user-facing messages.
var (
	ErrPermission  = errors.New("capture permission denied")
	ErrNoDevice    = errors.New("capture device not found")
	ErrDeviceBusy  = errors.New("capture device busy")
	ErrUnsupported = errors.New("capture not supported")
)

const (
	msgUnsupported      = "Audio recording is not supported in this environment."
	msgPermissionDenied = "Microphone permission denied. Please allow access to your microphone."
	msgDeviceNotFound   = "No microphone found. Please connect a microphone and try again."
	msgDeviceBusy       = "Microphone is already in use by another application."
	msgStartFailed      = "Failed to start recording"
	msgRecordingError   = "Recording error"
)

// classifyDeviceError maps a raw device failure to a *voiceerr.Error. detail
// is optional diagnostic text from the device, such as its stderr.
func classifyDeviceError(err error, detail string) *voiceerr.Error {
	var ve *voiceerr.Error
	if errors.As(err, &ve) {
		return ve
	}

	text := strings.ToLower(detail)
	if err != nil {
		text += " " + strings.ToLower(err.Error())
	}

	switch {
	case errors.Is(err, ErrUnsupported), errors.Is(err, exec.ErrNotFound):
		return voiceerr.New(voiceerr.Unsupported, msgUnsupported, err)

	case errors.Is(err, ErrPermission), errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EACCES),
		errors.Is(err, syscall.EPERM), strings.Contains(text, "permission denied"), strings.Contains(text, "access denied"):
		return voiceerr.New(voiceerr.PermissionDenied, msgPermissionDenied, err)

	case errors.Is(err, ErrNoDevice), errors.Is(err, syscall.ENODEV), strings.Contains(text, "no such device"),
		strings.Contains(text, "target not found"), strings.Contains(text, "no source"):
		return voiceerr.New(voiceerr.DeviceNotFound, msgDeviceNotFound, err)

	case errors.Is(err, ErrDeviceBusy), errors.Is(err, syscall.EBUSY), strings.Contains(text, "resource busy"),
		strings.Contains(text, "device busy"):
		return voiceerr.New(voiceerr.DeviceBusy, msgDeviceBusy, err)
	}

	msg := msgStartFailed
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return voiceerr.New(voiceerr.DeviceOther, msg, err)
}
