package bench

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// DefaultExtension is the required suffix of circuit files
	DefaultExtension = ".qasm"
	// DefaultMaxBytes caps how much of an upload is read
	DefaultMaxBytes int64 = 200 << 20
)

// CircuitSource is the text of the most recently uploaded circuit file
type CircuitSource struct {
	Name     string
	Text     string
	Size     int64
	LoadedAt time.Time
}

// Empty reports whether there is no circuit text to submit
func (c CircuitSource) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// IntakeOption configures an Intake
type IntakeOption func(*Intake)

// WithExtension sets the required file name suffix
func WithExtension(ext string) IntakeOption {
	return func(i *Intake) {
		i.extension = ext
	}
}

// WithMaxBytes sets the upload size limit
func WithMaxBytes(n int64) IntakeOption {
	return func(i *Intake) {
		i.maxBytes = n
	}
}

// WithIntakeLogger sets the logger used for upload events
func WithIntakeLogger(logger *zap.Logger) IntakeOption {
	return func(i *Intake) {
		i.logger = logger
	}
}

// Intake accepts circuit files and holds the current CircuitSource.
// Every entry point goes through SubmitFile, so validation is identical
// for picked and dropped files.
type Intake struct {
	extension string
	maxBytes  int64
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current CircuitSource
}

// NewIntake creates an Intake with the given options
func NewIntake(opts ...IntakeOption) *Intake {
	i := &Intake{
		extension: DefaultExtension,
		maxBytes:  DefaultMaxBytes,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Extension returns the required file name suffix
func (i *Intake) Extension() string {
	return i.extension
}

// Circuit returns the current circuit source
func (i *Intake) Circuit() CircuitSource {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.current
}

// SubmitFile validates name, reads r to text and replaces the current circuit.
// On any error the current circuit is left unchanged.
func (i *Intake) SubmitFile(name string, r io.Reader) (CircuitSource, error) {
	if err := i.checkName(name); err != nil {
		i.logger.Debug("rejected circuit file", zap.String("name", name), zap.Error(err))
		return CircuitSource{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, i.maxBytes+1))
	if err != nil {
		return CircuitSource{}, &ReadError{Name: name, Err: err}
	}
	if int64(len(data)) > i.maxBytes {
		return CircuitSource{}, &ReadError{Name: name, Err: ErrFileTooLarge}
	}
	if len(data) == 0 {
		return CircuitSource{}, &ReadError{Name: name, Err: ErrEmptyFile}
	}
	if !utf8.Valid(data) {
		return CircuitSource{}, &ReadError{Name: name, Err: ErrNotUTF8}
	}

	src := CircuitSource{
		Name:     filepath.Base(name),
		Text:     string(data),
		Size:     int64(len(data)),
		LoadedAt: i.now(),
	}

	i.mu.Lock()
	i.current = src
	i.mu.Unlock()

	i.logger.Info("circuit loaded", zap.String("name", src.Name), zap.Int64("bytes", src.Size))
	return src, nil
}

// SubmitPath is the file picker entry point
func (i *Intake) SubmitPath(path string) (CircuitSource, error) {
	if err := i.checkName(path); err != nil {
		return CircuitSource{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return CircuitSource{}, &ReadError{Name: path, Err: err}
	}
	defer f.Close()

	return i.SubmitFile(path, f)
}

// SubmitDrop is the drag-and-drop entry point. Terminals paste a dropped
// file as its path, possibly quoted, shell-escaped or as a file:// URL.
func (i *Intake) SubmitDrop(text string) (CircuitSource, error) {
	path, err := ParseDroppedPath(text)
	if err != nil {
		return CircuitSource{}, err
	}
	return i.SubmitPath(path)
}

func (i *Intake) checkName(name string) error {
	if !strings.HasSuffix(name, i.extension) {
		return &InvalidFileError{Name: filepath.Base(name), Extension: i.extension}
	}
	return nil
}

// ParseDroppedPath turns pasted drop text into a file path
func ParseDroppedPath(text string) (string, error) {
	return parseDroppedPath(text, filepath.Separator)
}

// parseDroppedPath only undoes shell escapes where sep is '/'. On Windows a
// backslash is the separator itself.
func parseDroppedPath(text string, sep rune) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", fmt.Errorf("no file dropped")
	}

	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], nil
	}

	if strings.HasPrefix(s, "file://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("invalid file URL: %w", err)
		}
		return u.Path, nil
	}

	if sep == '/' && strings.Contains(s, `\`) {
		var b strings.Builder
		escaped := false
		for _, r := range s {
			if r == '\\' && !escaped {
				escaped = true
				continue
			}
			escaped = false
			b.WriteRune(r)
		}
		s = b.String()
	}
	return s, nil
}
