package main

import (
	"fmt"
	"html"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

type clipboardMsg struct {
	copied int
	err    error
}

type pasteMsg struct {
	text string
	err  error
}

func copyToClipboard(text string) error {
	if text == "" {
		return fmt.Errorf("%w: nothing to copy", ErrEmptyResult)
	}
	return clipboard.WriteAll(text)
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{copied: len(text), err: copyToClipboard(text)}
	}
}

func pasteCmd() tea.Cmd {
	return func() tea.Msg {
		text, err := readClipboardText()
		if err != nil {
			return pasteMsg{err: err}
		}
		return pasteMsg{text: cleanClipboardText(text)}
	}
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") ||
			strings.Contains(t, "<pre") || strings.Contains(t, "<div"))
}

// cleanClipboardText turns rich clipboard content (a JSON document copied
// out of a browser or a word processor) back into plain text.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = stripRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// stripRTF drops groups' braces and control words, keeping literal text.
// \par and \line become newlines, \tab a tab, \'hh the byte it encodes.
func stripRTF(rtf string) string {
	var result strings.Builder
	result.Grow(len(rtf))
	b := []byte(rtf)

	for i := 0; i < len(b); i++ {
		c := b[i]
		switch c {
		case '{', '}', '\r', '\n':
			continue
		case '\\':
		default:
			result.WriteByte(c)
			continue
		}
		if i+1 >= len(b) {
			break
		}
		next := b[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			result.WriteByte(next)
			i++
		case next == '\'' && i+3 < len(b):
			if v, err := strconv.ParseUint(string(b[i+2:i+4]), 16, 8); err == nil {
				result.WriteByte(byte(v))
			}
			i += 3
		case isASCIILetter(next):
			j := i + 1
			for j < len(b) && isASCIILetter(b[j]) {
				j++
			}
			word := string(b[i+1 : j])
			for j < len(b) && (b[j] == '-' || b[j] >= '0' && b[j] <= '9') {
				j++
			}
			if j < len(b) && b[j] == ' ' {
				j++
			}
			switch word {
			case "par", "line":
				result.WriteByte('\n')
			case "tab":
				result.WriteByte('\t')
			}
			i = j - 1
		default:
			i++
		}
	}
	return result.String()
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func extractTextFromHTML(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return html.UnescapeString(result.String())
}
