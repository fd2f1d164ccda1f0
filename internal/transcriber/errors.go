package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

var (
	// ErrInFlight is returned when the same recording is already being
	// transcribed. No backend call is made.
	ErrInFlight = errors.New("transcription already in flight for this recording")
	// ErrNoArtifact is returned when there is nothing to transcribe.
	ErrNoArtifact = errors.New("no recording to transcribe")
)

const (
	msgInvalidKey  = "Invalid API key. Please check your API key."
	msgRateLimited = "Rate limit exceeded. Please try again later."
	msgBadAudio    = "Invalid audio format. Please try recording again."
	msgNetwork     = "Network error. Please check your internet connection."
	msgFailed      = "Failed to transcribe audio"
	msgAborted     = "Transcription cancelled"
	msgNoArtifact  = "No recording to transcribe"
)

// StatusError is a non-2xx reply from a direct provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API status %d", e.StatusCode)
	}
	return fmt.Sprintf("API status %d: %s", e.StatusCode, e.Body)
}

// Classify maps a backend failure to a *voiceerr.Error. Cancellation becomes
// Aborted; everything else is NetworkOrServer with a message chosen by cause.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var ve *voiceerr.Error
	if errors.As(err, &ve) {
		return ve
	}

	if errors.Is(err, context.Canceled) {
		return voiceerr.New(voiceerr.Aborted, msgAborted, err)
	}

	if code := statusCode(err); code != 0 {
		return voiceerr.New(voiceerr.NetworkOrServer, messageForStatus(code, err), err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return voiceerr.New(voiceerr.NetworkOrServer, msgNetwork, err)
	}

	msg := err.Error()
	if msg == "" {
		msg = msgFailed
	}
	return voiceerr.New(voiceerr.NetworkOrServer, msg, err)
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func messageForStatus(code int, err error) string {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return msgInvalidKey
	case http.StatusTooManyRequests:
		return msgRateLimited
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		return msgBadAudio
	}
	var se *StatusError
	if errors.As(err, &se) && se.Body != "" {
		return se.Body
	}
	return fmt.Sprintf("Server error: %d", code)
}
