// Package frontmatter separates a YAML front matter block from a Markdown body.
package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a parsed Markdown document.
type Document struct {
	Fields map[string]any
	Body   []byte
	Had    bool
}

// Title returns the front matter title, or "". Unquoted scalars such as
// `title: 2024` are returned as written.
func (d Document) Title() string {
	switch v := d.Fields["title"].(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	default:
		return resolve.FirstNonEmpty(v)
	}
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	frontmatterStart := len(open)
	if bytes.HasPrefix(content[frontmatterStart:], open) {
		return []byte{}, content[frontmatterStart+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[frontmatterStart:], closeSeq)
	if idx < 0 {
		// a closing delimiter on the last line without a trailing newline
		if trailing := []byte(nl + "---"); bytes.HasSuffix(content, trailing) {
			end := len(content) - len(trailing)
			return content[frontmatterStart : end+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	frontmatterEnd := frontmatterStart + idx + len(nl)
	bodyStart := frontmatterStart + idx + len(closeSeq)
	return content[frontmatterStart:frontmatterEnd], content[bodyStart:], true, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
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

// Parse splits content and decodes its front matter. Front matter that is not
// valid YAML still yields a title when it has a plain "title:" line; the
// returned error then describes the YAML problem.
func Parse(content []byte) (Document, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return Document{Fields: map[string]any{}, Body: content}, err
	}

	fields, err := ParseYAML(fm)
	if err != nil {
		fields = map[string]any{}
		if title := scanTitle(fm); title != "" {
			fields["title"] = title
		}
		return Document{Fields: fields, Body: body, Had: had}, err
	}
	return Document{Fields: fields, Body: body, Had: had}, nil
}

func scanTitle(fm []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(fm))
	for sc.Scan() {
		line := sc.Text()
		if len(line) >= 6 && strings.EqualFold(line[:6], "title:") {
			return strings.Trim(strings.TrimSpace(line[6:]), `"'`)
		}
	}
	return ""
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
