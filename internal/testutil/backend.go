package testutil

import (
	"context"
	"sync"

	"github.com/wardscribe/voicepanel/internal/recording"
)

// FakeBackend implements transcriber.Backend. With Gate set, calls block
// until a value is sent on Gate or the context is cancelled.
type FakeBackend struct {
	Text string
	Err  error
	Gate chan struct{}
	// TranscribeFunc overrides Text and Err when set.
	TranscribeFunc func(ctx context.Context, a *recording.Artifact) (string, error)

	mu        sync.Mutex
	artifacts []*recording.Artifact
	started   chan struct{}
}

func NewFakeBackend(text string) *FakeBackend {
	return &FakeBackend{Text: text, started: make(chan struct{}, 16)}
}

func (b *FakeBackend) Name() string {
	return "fake"
}

func (b *FakeBackend) Transcribe(ctx context.Context, a *recording.Artifact) (string, error) {
	b.mu.Lock()
	b.artifacts = append(b.artifacts, a)
	started := b.started
	b.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}

	if b.Gate != nil {
		select {
		case <-b.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if b.TranscribeFunc != nil {
		return b.TranscribeFunc(ctx, a)
	}
	if b.Err != nil {
		return "", b.Err
	}
	return b.Text, nil
}

// Started receives one value per call once the backend has been entered.
func (b *FakeBackend) Started() <-chan struct{} {
	return b.started
}

func (b *FakeBackend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.artifacts)
}

func (b *FakeBackend) Artifacts() []*recording.Artifact {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*recording.Artifact(nil), b.artifacts...)
}
