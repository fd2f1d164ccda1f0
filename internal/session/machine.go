package session

import (
	"strings"

	"github.com/google/uuid"

	"github.com/wardscribe/voicepanel/internal/notify"
	"github.com/wardscribe/voicepanel/internal/recording"
	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

type Phase string

const (
	Idle                Phase = "idle"
	Starting            Phase = "starting"
	Recording           Phase = "recording"
	Paused              Phase = "paused"
	Stopping            Phase = "stopping"
	Stopped             Phase = "stopped"
	Transcribing        Phase = "transcribing"
	Transcribed         Phase = "transcribed"
	TranscriptionFailed Phase = "transcription_failed"
	Cancelled           Phase = "cancelled"
)

// Capturing reports whether a capture stream is open in this phase.
func (p Phase) Capturing() bool {
	return p == Starting || p == Recording || p == Paused || p == Stopping
}

type EventType int

const (
	StartRequested EventType = iota
	StartSucceeded
	StartFailed
	PauseRequested
	ResumeRequested
	StopRequested
	ArtifactReady
	TranscriptionSucceeded
	TranscriptionErrored
	RetryRequested
	DoneRequested
	CancelRequested
	DeviceFailed
	ToggleRecording
	TogglePause
)

var eventNames = map[EventType]string{
	StartRequested:         "start",
	StartSucceeded:         "start-succeeded",
	StartFailed:            "start-failed",
	PauseRequested:         "pause",
	ResumeRequested:        "resume",
	StopRequested:          "stop",
	ArtifactReady:          "artifact-ready",
	TranscriptionSucceeded: "transcription-succeeded",
	TranscriptionErrored:   "transcription-failed",
	RetryRequested:         "retry",
	DoneRequested:          "done",
	CancelRequested:        "cancel",
	DeviceFailed:           "device-failed",
	ToggleRecording:        "toggle-recording",
	TogglePause:            "toggle-pause",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is one input to the machine. Artifact is set for ArtifactReady and
// for transcription completions, Text for TranscriptionSucceeded and Err for
// the failure events.
type Event struct {
	Type     EventType
	Artifact *recording.Artifact
	Text     string
	Err      error
}

type EffectType int

const (
	OpenDevice EffectType = iota
	PauseDevice
	ResumeDevice
	StopDevice
	// ReleaseDevice drops the capture without waiting for an acknowledgment.
	ReleaseDevice
	ClearRecording
	ClearTranscript
	Transcribe
	AbortTranscription
	Deliver
	Close
	Notify
	NotifyError
)

// Effect is an instruction for the coordinator. Step never performs I/O.
type Effect struct {
	Type     EffectType
	Artifact *recording.Artifact
	Text     string
	Message  notify.MessageType
	Err      error
}

// State is everything the machine needs to decide a transition.
type State struct {
	Phase Phase
	// Artifact is the latest finalized recording, the one retry re-sends.
	Artifact *recording.Artifact
	// LastTranscribed is the identity of the artifact most recently sent for
	// transcription. A second ArtifactReady for it is dropped.
	LastTranscribed uuid.UUID
	Transcript      string
	DeviceErr       error
	TranscribeErr   error
}

func NewState() State {
	return State{Phase: Idle}
}

// Err is the unified error: the device error if any, else the transcription
// error. Aborted calls never surface.
func (s State) Err() error {
	if s.DeviceErr != nil {
		return s.DeviceErr
	}
	if s.TranscribeErr != nil && !voiceerr.IsAborted(s.TranscribeErr) {
		return s.TranscribeErr
	}
	return nil
}

// CanRetry reports whether a failed transcription can be resubmitted.
func (s State) CanRetry() bool {
	return s.TranscribeErr != nil && voiceerr.KindOf(s.TranscribeErr).Retryable() &&
		s.Artifact != nil && !s.Phase.Capturing() && s.Phase != Cancelled
}

// Step computes the next state and the effects to run. Events that make no
// sense in the current phase return the state unchanged and no effects.
func Step(s State, ev Event) (State, []Effect) {
	if s.Phase == Cancelled {
		return s, nil
	}

	switch ev.Type {
	case StartRequested:
		return start(s, false)

	case ToggleRecording:
		switch s.Phase {
		case Recording, Paused:
			return stop(s)
		case Starting, Stopping:
			return s, nil
		}
		return start(s, true)

	case StartSucceeded:
		if s.Phase != Starting {
			return s, nil
		}
		s.Phase = Recording
		return s, []Effect{{Type: Notify, Message: notify.MsgRecordingStarted}}

	case StartFailed:
		if s.Phase != Starting {
			return s, nil
		}
		s.Phase = Idle
		s.DeviceErr = ev.Err
		return s, []Effect{{Type: NotifyError, Err: ev.Err}}

	case PauseRequested:
		return pause(s)

	case ResumeRequested:
		return resume(s)

	case TogglePause:
		switch s.Phase {
		case Recording:
			return pause(s)
		case Paused:
			return resume(s)
		}
		return s, nil

	case StopRequested:
		return stop(s)

	case ArtifactReady:
		return artifactReady(s, ev.Artifact)

	case TranscriptionSucceeded:
		if !awaiting(s, ev.Artifact) {
			return s, nil
		}
		s.Phase = Transcribed
		s.Transcript = ev.Text
		s.TranscribeErr = nil
		return s, []Effect{{Type: Notify, Message: notify.MsgTranscribed}}

	case TranscriptionErrored:
		if !awaiting(s, ev.Artifact) || ev.Err == nil || voiceerr.IsAborted(ev.Err) {
			return s, nil
		}
		s.Phase = TranscriptionFailed
		s.Transcript = ""
		s.TranscribeErr = ev.Err
		return s, []Effect{{Type: NotifyError, Err: ev.Err}}

	case RetryRequested:
		if !s.CanRetry() {
			return s, nil
		}
		s.Phase = Transcribing
		s.TranscribeErr = nil
		s.LastTranscribed = s.Artifact.ID
		return s, []Effect{
			{Type: Transcribe, Artifact: s.Artifact},
			{Type: Notify, Message: notify.MsgTranscribing},
		}

	case DoneRequested:
		effects := teardown(s)
		if text := strings.TrimSpace(s.Transcript); text != "" {
			effects = append(effects,
				Effect{Type: Deliver, Text: text},
				Effect{Type: Notify, Message: notify.MsgDelivered},
			)
		}
		s.Phase = Cancelled
		return s, append(effects, Effect{Type: Close})

	case CancelRequested:
		effects := teardown(s)
		s.Phase = Cancelled
		return s, append(effects,
			Effect{Type: Notify, Message: notify.MsgCancelled},
			Effect{Type: Close},
		)

	case DeviceFailed:
		if !s.Phase.Capturing() {
			return s, nil
		}
		s.Phase = Idle
		s.DeviceErr = ev.Err
		return s, []Effect{{Type: NotifyError, Err: ev.Err}}
	}

	return s, nil
}

// start opens the device. A fresh start (toggle) also drops the previous
// recording and transcript and forgets which artifact was transcribed.
func start(s State, fresh bool) (State, []Effect) {
	if s.Phase.Capturing() {
		return s, nil
	}

	var effects []Effect
	if s.Phase == Transcribing {
		effects = append(effects, Effect{Type: AbortTranscription})
	}
	if fresh {
		effects = append(effects, Effect{Type: ClearRecording}, Effect{Type: ClearTranscript})
		s.Artifact = nil
		s.Transcript = ""
		s.TranscribeErr = nil
		s.LastTranscribed = uuid.Nil
	}
	s.DeviceErr = nil
	s.Phase = Starting
	return s, append(effects, Effect{Type: OpenDevice})
}

func pause(s State) (State, []Effect) {
	if s.Phase != Recording {
		return s, nil
	}
	s.Phase = Paused
	return s, []Effect{
		{Type: PauseDevice},
		{Type: Notify, Message: notify.MsgRecordingPaused},
	}
}

func resume(s State) (State, []Effect) {
	if s.Phase != Paused {
		return s, nil
	}
	s.Phase = Recording
	return s, []Effect{
		{Type: ResumeDevice},
		{Type: Notify, Message: notify.MsgRecordingResumed},
	}
}

func stop(s State) (State, []Effect) {
	if s.Phase != Recording && s.Phase != Paused {
		return s, nil
	}
	s.Phase = Stopping
	return s, []Effect{{Type: StopDevice}}
}

func artifactReady(s State, a *recording.Artifact) (State, []Effect) {
	if a == nil || a.ID == s.LastTranscribed {
		return s, nil
	}

	s.Artifact = a
	s.LastTranscribed = a.ID
	s.Phase = Transcribing
	s.Transcript = ""
	s.TranscribeErr = nil
	return s, []Effect{
		{Type: Notify, Message: notify.MsgRecordingStopped},
		{Type: Transcribe, Artifact: a},
		{Type: Notify, Message: notify.MsgTranscribing},
	}
}

// awaiting reports whether a completion for a belongs to the call in flight.
func awaiting(s State, a *recording.Artifact) bool {
	return s.Phase == Transcribing && a != nil && s.Artifact != nil && a.ID == s.Artifact.ID
}

// teardown force-stops capture and abandons any transcription in flight.
func teardown(s State) []Effect {
	var effects []Effect
	if s.Phase.Capturing() {
		effects = append(effects, Effect{Type: ReleaseDevice})
	}
	if s.Phase == Transcribing {
		effects = append(effects, Effect{Type: AbortTranscription})
	}
	return effects
}
