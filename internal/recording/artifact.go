package recording

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/google/uuid"
)

// Artifact is the finalized audio of one recording session. It is never
// mutated after creation; the ID is what deduplicates transcription.
type Artifact struct {
	ID        uuid.UUID
	MIME      string
	Ext       string
	Data      []byte
	Chunks    int
	Duration  time.Duration
	CreatedAt time.Time
}

func (a *Artifact) Filename() string {
	ext := a.Ext
	if ext == "" {
		ext = FormatForMIME(a.MIME).Ext
	}
	return "recording." + ext
}

func (a *Artifact) Reader() io.Reader {
	return bytes.NewReader(a.Data)
}

func (a *Artifact) Size() int {
	return len(a.Data)
}

// NewArtifact concatenates chunks into a single artifact tagged with f.
func NewArtifact(f Format, chunks [][]byte, duration time.Duration) *Artifact {
	size := 0
	for _, c := range chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range chunks {
		data = append(data, c...)
	}
	if f.MIME == FormatWAV.MIME {
		finalizeWAV(data)
	}
	return &Artifact{
		ID:        uuid.New(),
		MIME:      f.MIME,
		Ext:       f.Ext,
		Data:      data,
		Chunks:    len(chunks),
		Duration:  duration,
		CreatedAt: time.Now(),
	}
}

const wavHeaderSize = 44

// wavHeader returns a canonical 16-bit PCM header with unknown sizes, used as
// the first chunk of a streamed WAV capture.
func wavHeader(sampleRate, channels int) []byte {
	var buf bytes.Buffer

	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(0xFFFFFFFF))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))            // fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))             // PCM format
	binary.Write(&buf, binary.LittleEndian, uint16(channels))      // number of channels
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))    // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))      // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))    // block align
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample)) // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(0xFFFFFFFF))

	return buf.Bytes()
}

// finalizeWAV patches the RIFF and data sizes once the total length is known.
func finalizeWAV(data []byte) {
	if len(data) < wavHeaderSize || string(data[0:4]) != "RIFF" || string(data[36:40]) != "data" {
		return
	}
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)-8))
	binary.LittleEndian.PutUint32(data[40:44], uint32(len(data)-wavHeaderSize))
}
