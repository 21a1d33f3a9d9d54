package frontmatter

import (
	"bytes"
	"errors"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the frontmatter syntax found at the top of a document.
type Format int

const (
	// FormatNone means the document carries no frontmatter block.
	FormatNone Format = iota
	// FormatYAML is a `---` delimited YAML block.
	FormatYAML
	// FormatTOML is a `+++` delimited TOML block.
	FormatTOML
)

// String returns the delimiter-independent format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "none"
	}
}

func (f Format) delimiter() string {
	if f == FormatTOML {
		return "+++"
	}
	return "---"
}

// Style captures formatting details needed for stable rewriting.
//
// It focuses on newline/trailing newline shape and the block syntax; it does not
// attempt to preserve original key formatting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
	Format             Format
}

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Split separates frontmatter (`---` YAML or `+++` TOML) from the Markdown body.
//
// If the document does not start with a delimiter, had is false and body is the
// full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	for _, format := range []Format{FormatYAML, FormatTOML} {
		delim := format.delimiter()
		open := []byte(delim + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}
		style.Format = format

		start := len(open)
		closeLine := []byte(delim + nl)
		if bytes.HasPrefix(content[start:], closeLine) {
			return []byte{}, content[start+len(closeLine):], true, style, nil
		}

		closeSeq := []byte(nl + delim + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			// A closing delimiter as the very last line has no trailing newline.
			tail := []byte(nl + delim)
			if bytes.HasSuffix(content, tail) && len(content)-len(tail) >= start {
				end := len(content) - len(tail) + len(nl)
				return content[start:end], []byte{}, true, style, nil
			}
			style.Format = FormatNone
			return nil, nil, false, style, ErrMissingClosingDelimiter
		}

		end := start + idx + len(nl)
		return content[start:end], content[start+idx+len(closeSeq):], true, style, nil
	}

	return nil, content, false, style, nil
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := style.Format.delimiter()

	out := make([]byte, 0, 2*(len(delim)+len(nl))+len(frontmatter)+len(body))
	out = append(out, delim+nl...)
	out = append(out, frontmatter...)
	out = append(out, delim+nl...)
	out = append(out, body...)
	return out
}

// Parse decodes a raw frontmatter block according to format.
func Parse(raw []byte, format Format) (map[string]any, error) {
	switch format {
	case FormatTOML:
		return ParseTOML(raw)
	case FormatYAML:
		return ParseYAML(raw)
	default:
		return map[string]any{}, nil
	}
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ParseTOML parses raw TOML frontmatter (without +++ delimiters) into a map.
func ParseTOML(frontmatter []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return fields, nil
	}
	if err := toml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Read splits a markdown document into frontmatter fields and body.
//
// A document without frontmatter yields an empty, non-nil map.
func Read(content []byte) (fields map[string]any, body []byte, style Style, err error) {
	raw, body, _, style, err := Split(content)
	if err != nil {
		return nil, nil, style, err
	}

	fields, err = Parse(raw, style.Format)
	if err != nil {
		return nil, nil, style, err
	}
	return fields, body, style, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
