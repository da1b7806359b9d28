// Package searchlog appends one audit line per catalog search to a
// log file, off the request path.
package searchlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"rockbuster/internal/domain"
)

const fileName = "searchLog.log"

type entry struct {
	at    time.Time
	msg   string
	level string
}

// Logger is a fire-and-forget file logger. Record never blocks a
// request: entries go through a buffered channel to a single writer
// goroutine, and a full buffer drops the entry.
type Logger struct {
	path    string
	entries chan entry
	log     *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// New creates the log directory if needed and starts the writer.
func New(dir string, log *slog.Logger) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("searchlog: create dir: %w", err)
	}
	l := &Logger{
		path:    filepath.Join(dir, fileName),
		entries: make(chan entry, 64),
		log:     log,
		done:    make(chan struct{}),
	}
	go l.run()
	return l, nil
}

// Record queues an audit line for a search performed by user.
func (l *Logger) Record(user *domain.User, query string, status int) {
	msg := fmt.Sprintf("UserID: %s\tUser: %s\tEmail: %s\tSearched: %s\tSTATUS: %d",
		user.ID, user.Name, user.Email, query, status)
	e := entry{at: time.Now(), msg: msg, level: "INFO"}
	select {
	case l.entries <- e:
	default:
		l.log.Warn("searchlog buffer full, dropping entry")
	}
}

// Close stops the writer after draining queued entries.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		close(l.entries)
		<-l.done
	})
}

func (l *Logger) run() {
	defer close(l.done)
	for e := range l.entries {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\n",
			e.at.Format("2006-01-02 15:04 PM"), uuid.NewString(), e.msg, e.level)

		f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			l.log.Error("searchlog open failed", "err", err)
			continue
		}
		if _, err := f.WriteString(line); err != nil {
			l.log.Error("searchlog write failed", "err", err)
		}
		_ = f.Close()
	}
}
