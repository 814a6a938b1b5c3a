package logger

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"winnertool/config"
)

const MaxLogSize = 50 * 1024 * 1024 // 50 MB

var (
	ReplayLogger, ScoreLogger, GlobalLogger *slog.Logger
	consoleEnabled                          = true

	globalRW, replayRW, scoreRW *rotatingWriter
)

// Thread-safe writer that rotates files when they exceed max size.
type rotatingWriter struct {
	mu      sync.Mutex
	file    *os.File
	dir     string
	prefix  string // e.g. "winnertool_20250925_101122_global"
	ext     string // ".log"
	size    int64
	maxSize int64
}

func newRotatingWriter(dir, prefix string, maxSize int64) (*rotatingWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	rw := &rotatingWriter{
		dir:     dir,
		prefix:  prefix,
		ext:     ".log",
		maxSize: maxSize,
	}
	if err := rw.rotateNew(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (w *rotatingWriter) currentName() string {
	return filepath.Join(w.dir, w.prefix+w.ext)
}

func (w *rotatingWriter) rotateNew() error {
	if w.file != nil {
		_ = w.file.Close()
	}

	f, err := os.OpenFile(w.currentName(), os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o666)
	if err != nil {
		return err
	}
	w.file = f
	w.size = 0
	return nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.maxSize {
		if err := w.rotateNew(); err != nil {
			return 0, err
		}
	}
	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *rotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func SetConsoleEnabled(enabled bool) {
	consoleEnabled = enabled
	resetLoggers()
}

// InitLogs opens the per-phase log files for one command run.
// ReplayLogger covers the ledger replay pass, ScoreLogger the winner
// calculations that follow it.
func InitLogs(cmdName string) {
	ts := time.Now().Format("20060102150405")

	var err error
	replayRW, err = newRotatingWriter(config.LogPath, fmt.Sprintf("winnertool_%s_%s_replay", ts, cmdName), MaxLogSize)
	if err != nil {
		log.Fatal(err)
	}
	scoreRW, err = newRotatingWriter(config.LogPath, fmt.Sprintf("winnertool_%s_%s_score", ts, cmdName), MaxLogSize)
	if err != nil {
		log.Fatal(err)
	}

	ReplayLogger = slog.New(newHandler(replayRW))
	ScoreLogger = slog.New(newHandler(scoreRW))
	resetLoggers()
}

func init() {
	ts := time.Now().Format("20060102150405")

	var err error
	globalRW, err = newRotatingWriter(config.LogPath, fmt.Sprintf("winnertool_%s_global", ts), MaxLogSize)
	if err != nil {
		log.Fatal(err)
	}
	GlobalLogger = slog.New(newHandler(globalRW))
	resetLoggers()
}

func CloseAll() {
	if globalRW != nil {
		_ = globalRW.Close()
	}
	if replayRW != nil {
		_ = replayRW.Close()
	}
	if scoreRW != nil {
		_ = scoreRW.Close()
	}
}

func newHandler(fileWriter io.Writer) slog.Handler {
	w := fileWriter
	if consoleEnabled {
		w = io.MultiWriter(os.Stdout, fileWriter)
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
	})
}

func resetLoggers() {
	if GlobalLogger != nil && globalRW != nil {
		GlobalLogger = slog.New(newHandler(globalRW))
	}
	if ReplayLogger != nil && replayRW != nil {
		ReplayLogger = slog.New(newHandler(replayRW))
	}
	if ScoreLogger != nil && scoreRW != nil {
		ScoreLogger = slog.New(newHandler(scoreRW))
	}
}
