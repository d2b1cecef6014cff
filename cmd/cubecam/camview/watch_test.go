package camview

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestShaderWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "background.vert")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(vert, []byte("#version 330 core\n"), 0644))

	sw, err := NewShaderWatcher(quietLog(), vert, "")
	require.NoError(t, err)
	defer sw.Close()

	require.NoError(t, os.WriteFile(other, []byte("unrelated"), 0644))
	select {
	case <-sw.Changed():
		t.Fatalf("Expected no signal for an unwatched file")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(vert, []byte("#version 330 core\nvoid main() {}\n"), 0644))
	select {
	case <-sw.Changed():
	case <-time.After(5 * time.Second):
		t.Fatalf("Expected a signal after writing %s", vert)
	}
}

func TestShaderWatcherMissingDir(t *testing.T) {
	_, err := NewShaderWatcher(quietLog(), filepath.Join(t.TempDir(), "gone", "a.frag"))
	require.Error(t, err)
}
