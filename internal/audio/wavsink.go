package audio

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Sink streams s16le PCM into a WAV file and tracks the written frame
// count so the recording's duration is known without re-reading the file.
type Sink struct {
	path   string
	file   *os.File
	enc    *wav.Encoder
	format *goaudio.Format
	frames int64
	closed bool
}

// NewSink creates the WAV file and writes its header for the pipeline's
// fixed 16kHz mono s16le format.
func NewSink(path string) (*Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create wav file: %w", err)
	}
	return &Sink{
		path:   path,
		file:   file,
		enc:    wav.NewEncoder(file, SampleRate, 16, Channels, 1),
		format: &goaudio.Format{NumChannels: Channels, SampleRate: SampleRate},
	}, nil
}

// Path returns the destination file path.
func (s *Sink) Path() string {
	return s.path
}

// Write appends one chunk of raw s16le bytes. A trailing odd byte is
// dropped; Pulse delivers whole frames so this only matters for torn
// final chunks.
func (s *Sink) Write(chunk []byte) error {
	if s.closed {
		return fmt.Errorf("wav sink already closed")
	}
	samples := len(chunk) / 2
	if samples == 0 {
		return nil
	}

	data := make([]int, samples)
	for i := 0; i < samples; i++ {
		data[i] = int(int16(binary.LittleEndian.Uint16(chunk[i*2:])))
	}

	buf := &goaudio.IntBuffer{Format: s.format, Data: data, SourceBitDepth: 16}
	if err := s.enc.Write(buf); err != nil {
		return fmt.Errorf("write wav chunk: %w", err)
	}
	s.frames += int64(samples / Channels)
	return nil
}

// Frames reports mono frames written so far.
func (s *Sink) Frames() int64 {
	return s.frames
}

// Duration derives elapsed recording time from the frame count.
func (s *Sink) Duration() time.Duration {
	return time.Duration(s.frames) * time.Second / SampleRate
}

// Close finalizes the WAV header and closes the file. Safe to call twice.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	encErr := s.enc.Close()
	fileErr := s.file.Close()
	if encErr != nil {
		return fmt.Errorf("finalize wav: %w", encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("close wav file: %w", fileErr)
	}
	return nil
}

// ReadDuration decodes an existing WAV file's duration, used when a
// recording is inspected after the sink is gone.
func ReadDuration(path string) (time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open wav file: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	duration, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("decode wav duration: %w", err)
	}
	return duration, nil
}
