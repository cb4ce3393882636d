package clipboard

import (
	. "kobi/internal/logger"

	atotto "github.com/atotto/clipboard"
)

// Memory is a process-local clipboard.
type Memory struct {
	text string
	set  bool
}

func (m *Memory) SetData(text string) error {
	m.text, m.set = text, true
	return nil
}

func (m *Memory) GetData() (string, bool, error) {
	return m.text, m.set && m.text != "", nil
}

// System uses the OS clipboard and falls back to a process-local one when the
// platform has no clipboard tool (headless sessions, ssh without xclip).
type System struct {
	local Memory
}

func (s *System) SetData(text string) error {
	s.local.SetData(text)
	if atotto.Unsupported { return nil }
	if err := atotto.WriteAll(text); err != nil {
		Log.Error("clipboard write:", err.Error())
	}
	return nil
}

func (s *System) GetData() (string, bool, error) {
	if atotto.Unsupported { return s.local.GetData() }
	text, err := atotto.ReadAll()
	if err != nil {
		Log.Error("clipboard read:", err.Error())
		return s.local.GetData()
	}
	return text, text != "", nil
}
