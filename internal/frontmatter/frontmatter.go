// Package frontmatter splits content documents into a metadata block and a markdown body.
package frontmatter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

var documentRegex = regexp.MustCompile(`^---[ \t]*\r?\n([\s\S]*?)\r?\n---[ \t]*\r?\n([\s\S]*)$`)

// Document is a parsed content document. Field values are strings or bools.
type Document struct {
	Fields map[string]any
	Body   string
}

// Parse splits raw into fields and body. A document without a delimited
// block is returned whole as the body with no fields.
func Parse(raw string) Document {
	matches := documentRegex.FindStringSubmatch(raw)
	if len(matches) != 3 {
		return Document{Fields: map[string]any{}, Body: raw}
	}

	fields, err := decodeYAML(matches[1])
	if err != nil {
		fields = scanLines(matches[1])
	}

	return Document{
		Fields: fields,
		Body:   strings.TrimSpace(matches[2]),
	}
}

func decodeYAML(block string) (map[string]any, error) {
	fields := map[string]any{}
	if strings.TrimSpace(block) == "" {
		return fields, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("block is not a mapping")
	}

	mapping := doc.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			continue
		}
		fields[key.Value] = coerce(value.Value)
	}
	return fields, nil
}

// scanLines reads "key: value" lines for blocks that are not valid YAML.
func scanLines(block string) map[string]any {
	fields := map[string]any{}
	for _, line := range strings.Split(block, "\n") {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		fields[key] = coerce(unquote(value))
	}
	return fields
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func coerce(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

// Build renders fields and body back into a document that Parse accepts.
func Build(fields map[string]any, body string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	if len(fields) > 0 {
		block, err := yaml.Marshal(fields)
		if err != nil {
			return "", fmt.Errorf("encode fields: %w", err)
		}
		buf.Write(block)
	} else {
		buf.WriteString("\n")
	}
	buf.WriteString(delimiter + "\n")
	buf.WriteString(body)
	return buf.String(), nil
}
