// Package roster parses monster group files.
//
// Each non-blank line that does not start with '#' describes one monster:
//
//	<type> <id> [<key> <value>]...
//
// Fields are separated by whitespace. type names a monster template, id
// distinguishes the monster in output, and the remaining fields are
// key/value pairs interpreted by the group builder.
package roster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("roster: syntax error")

// Param is one key/value pair of an entry.
type Param struct {
	Key   string
	Value string
}

// Entry is one parsed roster line.
type Entry struct {
	Line   int
	Type   string
	ID     string
	Params []Param
}

// Get returns the value of the last param named key.
func (e Entry) Get(key string) (string, bool) {
	for i := len(e.Params) - 1; i >= 0; i-- {
		if e.Params[i].Key == key {
			return e.Params[i].Value, true
		}
	}
	return "", false
}

// Int returns key's value as an int, or def when the key is absent.
//
// Postcondition: A present but non-integer value returns an error wrapping ErrSyntax.
func (e Entry) Int(key string, def int) (int, error) {
	v, ok := e.Get(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s %q is not an integer", ErrSyntax, e.Line, key, v)
	}
	return n, nil
}

// Parse reads entries from r.
//
// Postcondition: Returns every entry in file order, or the first error.
// A line with a key but no value is an error.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: want \"<type> <id>\", got %q", ErrSyntax, line, text)
		}
		rest := fields[2:]
		if len(rest)%2 != 0 {
			return nil, fmt.Errorf("%w: line %d: key %q has no value", ErrSyntax, line, rest[len(rest)-1])
		}
		e := Entry{Line: line, Type: fields[0], ID: fields[1]}
		for i := 0; i < len(rest); i += 2 {
			e.Params = append(e.Params, Param{Key: rest[i], Value: rest[i+1]})
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("roster: reading: %w", err)
	}
	return entries, nil
}

// ParseFile parses the roster at path.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: opening %q: %w", path, err)
	}
	defer f.Close()
	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
