package editor

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"unicode/utf8"

	"kobi/internal/buffer"
	. "kobi/internal/logger"
)

// FileSystem is the byte-level file access the session delegates to.
// Read must return an error matching fs.ErrNotExist for a missing file.
// Write must replace the whole file or leave it untouched.
type FileSystem interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// Clipboard is the host clipboard. GetData reports false when it is empty.
type Clipboard interface {
	SetData(text string) error
	GetData() (string, bool, error)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load replaces the document with the file at path. A missing file opens an
// empty document under that name. On failure the session is unchanged.
func (s *Session) Load(path string) (Event, error) {
	data, err := s.fs.Read(path)
	isNew := false
	if errors.Is(err, fs.ErrNotExist) {
		data, isNew = nil, true
	} else if err != nil {
		Log.Error("load", path, err.Error())
		return Event{}, ioFailure("load", path, err)
	}

	bom := bytes.HasPrefix(data, utf8BOM)
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		Log.Error("load", path, "invalid utf-8")
		return Event{}, ioFailure("load", path, ErrInvalidUTF8)
	}

	text := string(data)
	s.reset(buffer.New(text))
	s.Filename = path
	s.newline = lineEnding(text)
	s.bom = bom
	s.focus()

	if isNew {
		Log.Info("new file", path)
		return event(EventNewFile, "New file"), nil
	}
	Log.Info("loaded", path)
	return event(EventLoaded, "Loaded %d lines", s.buf.LineCount()), nil
}

// lineEnding is "\r\n" or "\r" when the text uses one of them, "" for "\n".
// Mixed files take "\r\n" if it appears at all.
func lineEnding(text string) string {
	switch {
	case strings.Contains(text, "\r\n"):
		return "\r\n"
	case strings.Contains(text, "\r"):
		return "\r"
	}
	return ""
}

// Save writes the document to Filename with the line endings it was loaded
// with. Nothing is appended to the text. On failure the document stays dirty.
func (s *Session) Save() (Event, error) {
	if s.Filename == "" {
		return Event{}, ioFailure("save", "", ErrNoFileName)
	}

	text := s.buf.Text()
	if s.newline != "" { text = strings.ReplaceAll(text, "\n", s.newline) }
	data := []byte(text)
	if s.bom { data = append(append([]byte{}, utf8BOM...), data...) }

	if err := s.fs.Write(s.Filename, data); err != nil {
		Log.Error("save", s.Filename, err.Error())
		return Event{}, ioFailure("save", s.Filename, err)
	}
	s.history.MarkClean()
	Log.Info("saved", s.Filename)
	return event(EventSaved, "Saved"), nil
}
