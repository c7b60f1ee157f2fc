package batch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"presser/internal/services"
)

const commentMarker = "#"

// Queue is a line-oriented work list persisted as a plain text file. Active
// entries are non-empty lines without the comment marker; processed entries
// stay in the file, disabled by the marker, so the file doubles as an audit
// trail.
type Queue struct {
	path string
}

func NewQueue(path string) *Queue {
	return &Queue{path: path}
}

func (q *Queue) Path() string {
	return q.path
}

// Read returns the active entries in file order. A missing file is an empty
// queue, not an error.
func (q *Queue) Read() ([]string, error) {
	data, err := os.ReadFile(q.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "batch", "read queue", q.path, err)
	}

	var entries []string
	for _, line := range splitKeepEndings(data) {
		entry := strings.TrimSpace(string(trimEnding(line)))
		if entry == "" || strings.HasPrefix(entry, commentMarker) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Contents returns the raw queue file text, comments and all. Callers use it
// to check whether a URL was ever queued, including entries long since marked
// processed. A missing file reads as empty.
func (q *Queue) Contents() (string, error) {
	data, err := os.ReadFile(q.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "batch", "read queue", q.path, err)
	}
	return string(data), nil
}

// MarkProcessed disables the first active line matching entry by prefixing it
// with the comment marker. Every other byte of the file, including line
// endings, is preserved. The rewrite goes through a temporary file in the
// same directory and a rename, so an interrupt never leaves a partial queue.
// Marking an entry that is absent or already disabled changes nothing.
func (q *Queue) MarkProcessed(entry string) error {
	data, err := os.ReadFile(q.path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "batch", "read queue", q.path, err)
	}

	lines := splitKeepEndings(data)
	marked := false
	var out bytes.Buffer
	for _, line := range lines {
		if !marked && strings.TrimSpace(string(trimEnding(line))) == entry {
			out.WriteString(commentMarker + " ")
			marked = true
		}
		out.Write(line)
	}
	if !marked {
		return nil
	}
	return q.replace(out.Bytes())
}

// Append adds new entries to the end of the queue, preceded by a dated
// separator comment. The file is created if it does not exist yet.
func (q *Queue) Append(entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	existing, err := os.ReadFile(q.path)
	if err != nil && !os.IsNotExist(err) {
		return services.Wrap(services.ErrValidation, "batch", "read queue", q.path, err)
	}

	var out bytes.Buffer
	out.Write(existing)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		out.WriteByte('\n')
	}
	fmt.Fprintf(&out, "%s added %s\n", commentMarker, time.Now().Format("2006-01-02"))
	for _, entry := range entries {
		out.WriteString(entry + "\n")
	}
	return q.replace(out.Bytes())
}

func (q *Queue) replace(content []byte) error {
	dir := filepath.Dir(q.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(q.path)+".tmp-*")
	if err != nil {
		return services.Wrap(services.ErrValidation, "batch", "rewrite queue", q.path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return services.Wrap(services.ErrValidation, "batch", "rewrite queue", q.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrValidation, "batch", "rewrite queue", q.path, err)
	}
	if err := os.Rename(tmpPath, q.path); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrValidation, "batch", "rewrite queue", q.path, err)
	}
	return nil
}

// splitKeepEndings splits data into lines with their terminators attached, so
// rewrites reproduce the original line-ending style byte for byte.
func splitKeepEndings(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			lines = append(lines, data)
			break
		}
		lines = append(lines, data[:idx+1])
		data = data[idx+1:]
	}
	return lines
}

func trimEnding(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}
