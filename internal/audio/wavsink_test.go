package audio

import (
	"encoding/binary"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sineish(frames int) []byte {
	chunk := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(chunk[i*2:], uint16(int16(i%1000-500)))
	}
	return chunk
}

func TestSinkTracksFramesAndDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.wav")
	sink, err := NewSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Write(sineish(SampleRate)))     // 1s
	require.NoError(t, sink.Write(sineish(SampleRate / 2))) // 0.5s

	require.Equal(t, int64(SampleRate+SampleRate/2), sink.Frames())
	require.Equal(t, 1500*time.Millisecond, sink.Duration())
	require.NoError(t, sink.Close())
}

func TestSinkRoundTripDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.wav")
	sink, err := NewSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write(sineish(SampleRate*2)))
	require.NoError(t, sink.Close())

	duration, err := ReadDuration(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, duration)
}

func TestSinkIgnoresEmptyAndOddTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.wav")
	sink, err := NewSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Write(nil))
	require.NoError(t, sink.Write([]byte{0x01})) // torn chunk, below one frame
	require.Equal(t, int64(0), sink.Frames())

	require.NoError(t, sink.Write([]byte{0x01, 0x02, 0x03})) // one frame plus torn byte
	require.Equal(t, int64(1), sink.Frames())
	require.NoError(t, sink.Close())
}

func TestSinkCloseIsIdempotentAndRejectsLateWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.wav")
	sink, err := NewSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write(sineish(100)))

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	err = sink.Write(sineish(100))
	require.Error(t, err)
	require.Contains(t, err.Error(), "closed")
}

func TestReadDurationMissingFile(t *testing.T) {
	_, err := ReadDuration(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}
