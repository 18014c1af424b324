package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logrus instance.
var Logger = logrus.New()
var once sync.Once

// Options controls where and how much the logger writes.
type Options struct {
	SystemName string
	// FilePath enables rotated file output. Empty means stdout.
	FilePath string
	Level    string
}

// CustomFormatter writes one line per entry: date, time, source, level, a
// fresh event id, the message, sorted fields and the caller location.
type CustomFormatter struct {
	SystemName string
	Location   *time.Location
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	location := f.Location
	if location == nil {
		location = time.UTC
	}
	localTime := entry.Time.In(location)

	fmt.Fprintf(b, "Date: %s, Time: %s, ", localTime.Format("2006-01-02"), localTime.Format("15:04:05"))
	fmt.Fprintf(b, "Event Source: %s, ", f.SystemName)
	fmt.Fprintf(b, "Event Type: %s, ", strings.ToUpper(entry.Level.String()))
	fmt.Fprintf(b, "Event ID: %s, ", uuid.New().String())
	fmt.Fprintf(b, "Message: %s", entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, ", %s=%v", k, entry.Data[k])
		}
	}

	if entry.HasCaller() {
		fmt.Fprintf(b, ", Location: %s:%d in %s", filepath.Base(entry.Caller.File), entry.Caller.Line, entry.Caller.Function)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// InitLogger configures the global Logger. Only the first call has effect.
func InitLogger(opts Options) {
	once.Do(func() {
		Logger.SetOutput(output(opts.FilePath))
		Logger.SetFormatter(&CustomFormatter{SystemName: opts.SystemName})

		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		Logger.SetLevel(level)
		Logger.SetReportCaller(true)

		Logger.Infof("Event ID: LOGGER_INITIALIZED, Description: Logger initialized for %s at level %s", opts.SystemName, level)
	})
}

func output(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		logrus.Fatalf("Event ID: LOG_DIR_CREATE_FAILED, Description: Failed to create log directory: %v", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}
