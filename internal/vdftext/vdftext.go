// Package vdftext writes Valve's text KeyValues format, as used by Steam
// config files like localconfig.vdf. It is the writing counterpart to the
// github.com/andygrunwald/vdf parser, which is read-only.
package vdftext

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Marshal serializes a parsed KeyValues tree back to text. The tree is the
// map shape produced by the vdf parser: string values and nested
// map[string]any blocks. Keys are emitted in sorted order.
func Marshal(root map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeMap(&buf, root, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMap(buf *bytes.Buffer, m map[string]any, depth int) error {
	indent := strings.Repeat("\t", depth)

	for _, key := range sortedKeys(m) {
		switch v := m[key].(type) {
		case string:
			buf.WriteString(indent)
			buf.WriteString(quote(key))
			buf.WriteString("\t\t")
			buf.WriteString(quote(v))
			buf.WriteString("\n")
		case map[string]any:
			buf.WriteString(indent)
			buf.WriteString(quote(key))
			buf.WriteString("\n")
			buf.WriteString(indent)
			buf.WriteString("{\n")
			if err := writeMap(buf, v, depth+1); err != nil {
				return err
			}
			buf.WriteString(indent)
			buf.WriteString("}\n")
		default:
			return fmt.Errorf("unsupported value type %T for key %q", m[key], key)
		}
	}
	return nil
}

func quote(s string) string {
	escaped := strings.NewReplacer("\\", "\\\\", "\"", "\\\"").Replace(s)
	return "\"" + escaped + "\""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
