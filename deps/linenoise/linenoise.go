package linenoise

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
)

const clearSeq = "\x1b[H\x1b[2J"

// LineNoise is a line editor with history, backed by liner.
type LineNoise struct {
	*liner.State
	out io.Writer
}

// New takes over the terminal until Close is called.
func New() *LineNoise {
	s := liner.NewLiner()
	s.SetCtrlCAborts(true)
	return &LineNoise{State: s, out: os.Stdout}
}

// HistoryLoad appends the entries stored in filepath to the history. A
// missing file is not an error.
func (ln *LineNoise) HistoryLoad(filepath string) error {
	content, err := os.ReadFile(filepath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = ln.ReadHistory(bytes.NewReader(content))
	return err
}

func (ln *LineNoise) HistorySave(filepath string) error {
	var buf bytes.Buffer
	_, err := ln.WriteHistory(&buf)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, buf.Bytes(), 0644)
}

func (ln *LineNoise) ClearScreen() error {
	_, err := fmt.Fprint(ln.out, clearSeq)
	return err
}
