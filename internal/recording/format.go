package recording

import "strings"

// Format is an encoding a capture device can produce.
type Format struct {
	MIME string
	Ext  string
}

var (
	FormatWebMOpus = Format{MIME: "audio/webm;codecs=opus", Ext: "webm"}
	FormatWebM     = Format{MIME: "audio/webm", Ext: "webm"}
	FormatOggOpus  = Format{MIME: "audio/ogg;codecs=opus", Ext: "ogg"}
	FormatMP4      = Format{MIME: "audio/mp4", Ext: "mp4"}
	FormatWAV      = Format{MIME: "audio/wav", Ext: "wav"}
)

// DefaultFormats is the candidate list in priority order.
var DefaultFormats = []Format{
	FormatWebMOpus,
	FormatWebM,
	FormatOggOpus,
	FormatMP4,
	FormatWAV,
}

// FormatForMIME maps a MIME type to a known format. Unknown types get an
// extension derived from the subtype.
func FormatForMIME(mime string) Format {
	for _, f := range DefaultFormats {
		if f.MIME == mime {
			return f
		}
	}
	base := mime
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	ext := "bin"
	if i := strings.Index(base, "/"); i >= 0 && i+1 < len(base) {
		ext = strings.TrimPrefix(base[i+1:], "x-")
	}
	return Format{MIME: mime, Ext: ext}
}

// SelectFormat returns preferred when the device supports it, otherwise the
// first supported candidate. When nothing matches the preferred format is
// returned unchanged and the device falls back to its own default.
func SelectFormat(preferred string, candidates []Format, supports func(mime string) bool) Format {
	if preferred != "" && supports(preferred) {
		return FormatForMIME(preferred)
	}
	for _, f := range candidates {
		if supports(f.MIME) {
			return f
		}
	}
	if preferred == "" && len(candidates) > 0 {
		return candidates[0]
	}
	return FormatForMIME(preferred)
}

// FormatForExt maps a file extension, with or without the dot, to the known
// format using it. Plain MIME types win over ones carrying codec parameters.
func FormatForExt(ext string) (Format, bool) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	var found Format
	ok := false
	for _, f := range DefaultFormats {
		if f.Ext != ext {
			continue
		}
		if !ok || !strings.Contains(f.MIME, ";") {
			found, ok = f, true
		}
	}
	return found, ok
}
