package recording

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"slices"
	"syscall"
	"testing"

	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.PreferredMIME != "audio/webm" {
		t.Errorf("default preferred MIME should be audio/webm, got %s", config.PreferredMIME)
	}
	if config.BitsPerSecond != 128000 {
		t.Errorf("default bitrate should be 128000, got %d", config.BitsPerSecond)
	}
	if config.Interval.Milliseconds() != 100 {
		t.Errorf("default interval should be 100ms, got %v", config.Interval)
	}
	if config.SampleRate != 16000 || config.Channels != 1 {
		t.Errorf("default audio should be 16kHz mono, got %d/%d", config.SampleRate, config.Channels)
	}
}

func TestSelectFormat(t *testing.T) {
	supportOnly := func(mimes ...string) func(string) bool {
		return func(m string) bool { return slices.Contains(mimes, m) }
	}

	tests := []struct {
		name      string
		preferred string
		supports  func(string) bool
		want      string
	}{
		{"preferred supported", "audio/webm", supportOnly("audio/webm", "audio/wav"), "audio/webm"},
		{"first supported candidate", "audio/flac", supportOnly("audio/ogg;codecs=opus", "audio/wav"), "audio/ogg;codecs=opus"},
		{"priority order", "", supportOnly("audio/wav", "audio/webm;codecs=opus"), "audio/webm;codecs=opus"},
		{"only wav", "audio/webm", supportOnly("audio/wav"), "audio/wav"},
		{"nothing supported keeps preferred", "audio/webm", supportOnly(), "audio/webm"},
		{"nothing supported and no preference", "", supportOnly(), "audio/webm;codecs=opus"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SelectFormat(tc.preferred, DefaultFormats, tc.supports)
			if got.MIME != tc.want {
				t.Errorf("SelectFormat() = %s, want %s", got.MIME, tc.want)
			}
		})
	}
}

func TestFormatForMIME(t *testing.T) {
	tests := []struct {
		mime string
		ext  string
	}{
		{"audio/webm;codecs=opus", "webm"},
		{"audio/ogg;codecs=opus", "ogg"},
		{"audio/mp4", "mp4"},
		{"audio/wav", "wav"},
		{"audio/x-flac", "flac"},
		{"garbage", "bin"},
	}
	for _, tc := range tests {
		if got := FormatForMIME(tc.mime).Ext; got != tc.ext {
			t.Errorf("FormatForMIME(%q).Ext = %q, want %q", tc.mime, got, tc.ext)
		}
	}
}

func TestFormatForExt(t *testing.T) {
	tests := []struct {
		ext    string
		want   Format
		wantOK bool
	}{
		{".webm", FormatWebM, true},
		{"WEBM", FormatWebM, true},
		{".ogg", FormatOggOpus, true},
		{"mp4", FormatMP4, true},
		{".wav", FormatWAV, true},
		{".flac", Format{}, false},
		{"", Format{}, false},
	}
	for _, tt := range tests {
		got, ok := FormatForExt(tt.ext)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("FormatForExt(%q) = %+v, %v; want %+v, %v", tt.ext, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewArtifact(t *testing.T) {
	a := NewArtifact(FormatWebM, [][]byte{{1, 2}, {3}, {4, 5, 6}}, 0)

	if a.Size() != 6 {
		t.Errorf("Size() = %d, want 6", a.Size())
	}
	if a.Chunks != 3 {
		t.Errorf("Chunks = %d, want 3", a.Chunks)
	}
	if a.Filename() != "recording.webm" {
		t.Errorf("Filename() = %q, want recording.webm", a.Filename())
	}

	b := NewArtifact(FormatWebM, [][]byte{{1, 2}}, 0)
	if a.ID == b.ID {
		t.Error("artifacts should have distinct IDs")
	}
}

func TestWAVFinalize(t *testing.T) {
	header := wavHeader(16000, 1)
	if len(header) != wavHeaderSize {
		t.Fatalf("header length = %d, want %d", len(header), wavHeaderSize)
	}

	pcm := make([]byte, 3200)
	a := NewArtifact(FormatWAV, [][]byte{header, pcm[:1600], pcm[1600:]}, 0)

	if got := binary.LittleEndian.Uint32(a.Data[4:8]); got != uint32(len(a.Data)-8) {
		t.Errorf("RIFF size = %d, want %d", got, len(a.Data)-8)
	}
	if got := binary.LittleEndian.Uint32(a.Data[40:44]); got != 3200 {
		t.Errorf("data size = %d, want 3200", got)
	}
	if got := binary.LittleEndian.Uint32(a.Data[24:28]); got != 16000 {
		t.Errorf("sample rate = %d, want 16000", got)
	}
}

func TestWAVFinalizeIgnoresForeignData(t *testing.T) {
	data := []byte("not a wav file at all, just some bytes here....")
	orig := append([]byte(nil), data...)
	finalizeWAV(data)
	if string(data) != string(orig) {
		t.Error("finalizeWAV should leave non-WAV data untouched")
	}
}

func TestClassifyDeviceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		detail string
		kind   voiceerr.Kind
		msg    string
	}{
		{"sentinel permission", fmt.Errorf("open: %w", ErrPermission), "", voiceerr.PermissionDenied, msgPermissionDenied},
		{"fs permission", fs.ErrPermission, "", voiceerr.PermissionDenied, msgPermissionDenied},
		{"eacces", syscall.EACCES, "", voiceerr.PermissionDenied, msgPermissionDenied},
		{"stderr permission", errors.New("exit status 1"), "Permission denied", voiceerr.PermissionDenied, msgPermissionDenied},
		{"no device", fmt.Errorf("probe: %w", ErrNoDevice), "", voiceerr.DeviceNotFound, msgDeviceNotFound},
		{"enodev", syscall.ENODEV, "", voiceerr.DeviceNotFound, msgDeviceNotFound},
		{"target not found", errors.New("exit status 1"), "error: target not found", voiceerr.DeviceNotFound, msgDeviceNotFound},
		{"busy", syscall.EBUSY, "", voiceerr.DeviceBusy, msgDeviceBusy},
		{"busy text", errors.New("Device or resource busy"), "", voiceerr.DeviceBusy, msgDeviceBusy},
		{"binary missing", &exec.Error{Name: "pw-record", Err: exec.ErrNotFound}, "", voiceerr.Unsupported, msgUnsupported},
		{"other", errors.New("codec exploded"), "", voiceerr.DeviceOther, "codec exploded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyDeviceError(tc.err, tc.detail)
			if got.Kind != tc.kind {
				t.Errorf("Kind = %v, want %v", got.Kind, tc.kind)
			}
			if got.Message != tc.msg {
				t.Errorf("Message = %q, want %q", got.Message, tc.msg)
			}
		})
	}

	t.Run("already classified passes through", func(t *testing.T) {
		in := voiceerr.New(voiceerr.DeviceBusy, "busy", nil)
		if got := classifyDeviceError(in, ""); got != in {
			t.Errorf("classifyDeviceError() = %v, want the same error", got)
		}
	})
}

func TestBuildPwRecordArgs(t *testing.T) {
	tests := []struct {
		name string
		c    Constraints
		want []string
	}{
		{
			name: "default device",
			c:    Constraints{SampleRate: 16000, Channels: 1},
			want: []string{"--format", "s16", "--rate", "16000", "--channels", "1", "-"},
		},
		{
			name: "explicit target",
			c:    Constraints{SampleRate: 48000, Channels: 2, Device: "alsa_input.usb"},
			want: []string{"--format", "s16", "--rate", "48000", "--channels", "2", "--target", "alsa_input.usb", "-"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := buildPwRecordArgs(tc.c); !slices.Equal(got, tc.want) {
				t.Errorf("buildPwRecordArgs() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidateConstraints(t *testing.T) {
	if err := validateConstraints(Constraints{SampleRate: 16000, Channels: 1}); err != nil {
		t.Errorf("valid constraints rejected: %v", err)
	}
	if err := validateConstraints(Constraints{SampleRate: 0, Channels: 1}); err == nil {
		t.Error("zero sample rate should be rejected")
	}
	if err := validateConstraints(Constraints{SampleRate: 16000, Channels: 0}); err == nil {
		t.Error("zero channels should be rejected")
	}
}

func TestPipeWireDeviceFormats(t *testing.T) {
	d := NewPipeWireDevice()
	if !d.SupportsFormat("audio/wav") {
		t.Error("PipeWire device should support audio/wav")
	}
	if d.SupportsFormat("audio/webm") {
		t.Error("PipeWire device should not claim audio/webm")
	}

	f := SelectFormat(DefaultConfig().PreferredMIME, DefaultFormats, d.SupportsFormat)
	if f != FormatWAV {
		t.Errorf("negotiated format = %+v, want wav", f)
	}
}

func TestStateActive(t *testing.T) {
	tests := map[State]bool{
		Idle:      false,
		Capturing: true,
		Paused:    true,
		Stopping:  true,
		Stopped:   false,
	}
	for s, want := range tests {
		if s.Active() != want {
			t.Errorf("%s.Active() = %v, want %v", s, s.Active(), want)
		}
	}
}
