package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/glamour"
)

// Summary is one emitted result for a (project, day) pair.
type Summary struct {
	Project string `json:"project"`
	Day     string `json:"day"`
	Summary string `json:"summary"`
}

// Emitter writes summaries as they are produced.
type Emitter interface {
	Emit(Summary) error
}

// JSONEmitter writes each summary as its own indented JSON document.
type JSONEmitter struct {
	w io.Writer
}

func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{w: w}
}

func (e *JSONEmitter) Emit(s Summary) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// MarkdownEmitter renders each summary as a small markdown section for
// reading in a terminal.
type MarkdownEmitter struct {
	w        io.Writer
	renderer *glamour.TermRenderer
}

// NewMarkdownEmitter creates a markdown emitter. An empty style selects the
// terminal's light or dark theme automatically.
func NewMarkdownEmitter(w io.Writer, style string, width int) (*MarkdownEmitter, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &MarkdownEmitter{w: w, renderer: renderer}, nil
}

func (e *MarkdownEmitter) Emit(s Summary) error {
	md := fmt.Sprintf("## %s · %s\n\n%s\n\n_%s_\n", s.Day, filepath.Base(s.Project), s.Summary, s.Project)
	out, err := e.renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if _, err := io.WriteString(e.w, out); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
