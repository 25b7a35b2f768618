// Package cmdline answers questions about the kernel command line the way
// dracut's getarg family does.
package cmdline

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/amadigan/teardown/internal/applog"
)

var log = applog.New("cmdline")

// DefaultPath is where the running kernel exposes its command line.
const DefaultPath = "/proc/cmdline"

type arg struct {
	key   string
	value string
	bare  bool
}

type Cmdline struct {
	args []arg
}

func Load(path string) (*Cmdline, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel command line: %w", err)
	}

	return Parse(string(bs)), nil
}

// Parse splits the line the way the kernel does: on whitespace, with double
// quotes grouping and stripped. Backslashes, single quotes and '#' are
// ordinary characters. An unterminated quote runs to the end of the line.
func Parse(line string) *Cmdline {
	words := split(strings.TrimSpace(line))

	c := &Cmdline{args: make([]arg, 0, len(words))}

	for _, word := range words {
		if key, value, ok := strings.Cut(word, "="); ok {
			c.args = append(c.args, arg{key: key, value: value})
		} else {
			c.args = append(c.args, arg{key: word, bare: true})
		}
	}

	return c
}

func split(line string) []string {
	var (
		words  []string
		word   strings.Builder
		quoted bool
		inWord bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inWord = true
		case !quoted && unicode.IsSpace(r):
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}

	if quoted {
		log.Warnf("unterminated quote in command line")
	}

	if inWord {
		words = append(words, word.String())
	}

	return words
}

func normalize(key string) string {
	return strings.TrimSuffix(key, "=")
}

// GetArg returns the value of the last occurrence of key. A bare flag
// reports "1".
func (c *Cmdline) GetArg(key string) (string, bool) {
	key = normalize(key)

	value, found := "", false

	for _, a := range c.args {
		if a.key != key {
			continue
		}

		found = true

		if a.bare {
			value = "1"
		} else {
			value = a.value
		}
	}

	return value, found
}

// GetArgs returns the values of every key=value occurrence, in order.
func (c *Cmdline) GetArgs(key string) []string {
	key = normalize(key)

	var values []string

	for _, a := range c.args {
		if a.key == key && !a.bare {
			values = append(values, a.value)
		}
	}

	return values
}

func (c *Cmdline) Has(key string) bool {
	_, found := c.GetArg(key)

	return found
}

// GetArgBool returns def when key is absent. Only the exact values 0, no
// and off are false, as in dracut's getargbool.
func (c *Cmdline) GetArgBool(def bool, key string) bool {
	value, found := c.GetArg(key)
	if !found {
		return def
	}

	switch value {
	case "0", "no", "off":
		return false
	default:
		return true
	}
}

func (c *Cmdline) String() string {
	parts := make([]string, len(c.args))

	for i, a := range c.args {
		if a.bare {
			parts[i] = a.key
		} else {
			parts[i] = a.key + "=" + a.value
		}
	}

	return strings.Join(parts, " ")
}
