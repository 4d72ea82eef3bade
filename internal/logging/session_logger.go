package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Console output is human
// readable; level comes from the verbose flag.
func Setup(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// SessionLogger manages the file log for a single transform session. All
// methods are safe on a nil receiver so call sites don't need to guard.
type SessionLogger struct {
	sessionID string
	logFile   *os.File
	mutex     sync.Mutex
	startTime time.Time
}

// StartSessionLogging creates a timestamped log file for a transform session.
func StartSessionLogging(logDir, sessionID string) (*SessionLogger, error) {
	timestamp := time.Now().Format("20060102_150405")
	logFileName := fmt.Sprintf("transform_%s_%s.log", sessionID, timestamp)
	logPath := filepath.Join(logDir, logFileName)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &SessionLogger{
		sessionID: sessionID,
		logFile:   logFile,
		startTime: time.Now(),
	}
	logger.Log("Transform session %s started", sessionID)

	return logger, nil
}

// Log writes a message to the session log
func (s *SessionLogger) Log(format string, args ...interface{}) {
	if s == nil {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	elapsed := time.Since(s.startTime)
	message := fmt.Sprintf("[%s] [+%v] %s\n", timestamp, elapsed.Round(time.Millisecond), fmt.Sprintf(format, args...))
	s.logFile.WriteString(message)
	s.logFile.Sync()
}

// LogSection writes a section header to the log
func (s *SessionLogger) LogSection(title string) {
	if s == nil {
		return
	}
	separator := strings.Repeat("=", 80)
	s.Log(separator)
	s.Log("= %s", title)
	s.Log(separator)
}

// LogRequest records the prompt sent on one attempt.
func (s *SessionLogger) LogRequest(attempt int, model, prompt string) {
	if s == nil {
		return
	}
	s.LogSection(fmt.Sprintf("ATTEMPT %d REQUEST (model: %s)", attempt, model))
	s.Log("Prompt length: %d chars", len(prompt))
	s.Log("--- PROMPT ---\n%s\n--- END PROMPT ---", prompt)
}

// LogResponse records the raw LLM response on one attempt.
func (s *SessionLogger) LogResponse(attempt int, response string) {
	if s == nil {
		return
	}
	s.LogSection(fmt.Sprintf("ATTEMPT %d RESPONSE", attempt))
	s.Log("Response length: %d chars", len(response))
	s.Log("--- RESPONSE ---\n%s\n--- END RESPONSE ---", response)
}

// LogError records an error with context.
func (s *SessionLogger) LogError(context string, err error) {
	if s == nil {
		return
	}
	s.Log("ERROR [%s]: %v", context, err)
}

// Close finalizes the session log.
func (s *SessionLogger) Close() {
	if s == nil || s.logFile == nil {
		return
	}
	s.Log("Session %s finished (total duration: %v)", s.sessionID, time.Since(s.startTime).Round(time.Millisecond))
	s.logFile.Close()
}
