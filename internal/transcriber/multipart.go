package transcriber

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/wardscribe/voicepanel/internal/recording"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeAudioPart adds the artifact as a file part tagged with its MIME type.
func writeAudioPart(w *multipart.Writer, field string, a *recording.Artifact) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(a.Filename())))
	contentType := a.MIME
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, a.Reader()); err != nil {
		return fmt.Errorf("copy audio data: %w", err)
	}
	return nil
}
