package hast

import (
	"fmt"
	"strings"
)

// Message is a diagnostic attached to a File.
type Message struct {
	Reason   string
	Position Position
	// Source names the plugin that reported the message.
	Source string
}

func (m Message) String() string {
	var b strings.Builder
	if m.Position.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", m.Position.Line, m.Position.Column)
	}
	b.WriteString(m.Reason)
	if m.Source != "" {
		fmt.Fprintf(&b, " [%s]", m.Source)
	}
	return b.String()
}

// File is the document being compiled and the diagnostics reported on it.
type File struct {
	Path     string
	Value    string
	Messages []Message

	// Data holds values plugins share during one compile.
	Data map[string]any
}

// NewFile returns a File holding value.
func NewFile(path, value string) *File {
	return &File{Path: path, Value: value, Data: make(map[string]any)}
}

// Warn records a diagnostic.
func (f *File) Warn(reason string, pos Position, source string) {
	f.Messages = append(f.Messages, Message{Reason: reason, Position: pos, Source: source})
}

// Plugin transforms the intermediate tree before it is built. Plugins run
// in order and may report diagnostics on the file.
type Plugin interface {
	Name() string
	Transform(root *Node, file *File) error
}

// PluginFunc adapts a function to Plugin.
type PluginFunc struct {
	ID string
	Fn func(root *Node, file *File) error
}

func (p PluginFunc) Name() string { return p.ID }

func (p PluginFunc) Transform(root *Node, file *File) error { return p.Fn(root, file) }
