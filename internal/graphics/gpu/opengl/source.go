package opengl

import (
	"bufio"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

const maxIncludeDepth = 16

// sourceLoader reads GLSL stage files from a file system and expands
// #include "file" directives. Expanded files are cached by name.
type sourceLoader struct {
	fsys  fs.FS
	cache map[string]string
}

func newSourceLoader(fsys fs.FS) *sourceLoader {
	return &sourceLoader{fsys: fsys, cache: make(map[string]string)}
}

// load returns the expanded source of a stage file. The first non-blank
// line of a stage file must be its #version directive.
func (l *sourceLoader) load(name string) (string, error) {
	src, err := l.expand(name, nil)
	if err != nil {
		return "", err
	}
	first := strings.TrimSpace(firstLine(src))
	if !strings.HasPrefix(first, "#version") {
		return "", fmt.Errorf("shader %q: first line must be a #version directive, got %q", name, first)
	}
	return src, nil
}

func (l *sourceLoader) expand(name string, stack []string) (string, error) {
	if cached, ok := l.cache[name]; ok {
		return cached, nil
	}
	for _, s := range stack {
		if s == name {
			return "", fmt.Errorf("shader %q: include cycle %s -> %s", name, strings.Join(stack, " -> "), name)
		}
	}
	if len(stack) >= maxIncludeDepth {
		return "", fmt.Errorf("shader %q: includes nested deeper than %d", name, maxIncludeDepth)
	}

	raw, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return "", fmt.Errorf("could not read shader file: %w", err)
	}

	stack = append(stack, name)
	var out strings.Builder
	sc := bufio.NewScanner(strings.NewReader(string(raw)))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		inc, ok, err := parseInclude(line)
		if err != nil {
			return "", fmt.Errorf("shader %q line %d: %w", name, lineNo, err)
		}
		if !ok {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		body, err := l.expand(path.Join(path.Dir(name), inc), stack)
		if err != nil {
			return "", err
		}
		out.WriteString(body)
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("shader %q: %w", name, err)
	}

	expanded := out.String()
	l.cache[name] = expanded
	return expanded, nil
}

// parseInclude recognises `#include "file"` and `#include <file>`.
func parseInclude(line string) (string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#include") {
		return "", false, nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(trimmed, "#include"))
	if len(arg) < 2 {
		return "", false, fmt.Errorf("malformed #include %q", trimmed)
	}
	open, end := arg[0], arg[len(arg)-1]
	if !(open == '"' && end == '"') && !(open == '<' && end == '>') {
		return "", false, fmt.Errorf("malformed #include %q", trimmed)
	}
	file := arg[1 : len(arg)-1]
	if file == "" {
		return "", false, fmt.Errorf("empty #include")
	}
	return file, true, nil
}

func firstLine(src string) string {
	for _, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
