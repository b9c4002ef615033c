package vdfbinary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Write serializes a VDF tree back to the binary wire format. The root
// value must be a map. Keys are emitted in a stable order, numeric keys
// sorted numerically so shortcut indices keep their sequence.
func Write(w io.Writer, root Value) error {
	m, ok := root.AsMap()
	if !ok {
		return fmt.Errorf("root value is not a map")
	}

	buf := bufio.NewWriter(w)
	if err := writeMap(buf, m); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush error: %w", err)
	}
	return nil
}

func writeMap(buf *bufio.Writer, m Map) error {
	for _, key := range sortedKeys(m) {
		value := m[key]

		var marker byte
		switch value.v.(type) {
		case Map:
			marker = markerMap
		case string:
			marker = markerString
		case uint32:
			marker = markerNumber
		default:
			return fmt.Errorf("unsupported value type %T for key %q", value.v, key)
		}

		if err := buf.WriteByte(marker); err != nil {
			return fmt.Errorf("write marker error: %w", err)
		}
		if err := writeString(buf, key); err != nil {
			return err
		}

		switch v := value.v.(type) {
		case Map:
			if err := writeMap(buf, v); err != nil {
				return err
			}
		case string:
			if err := writeString(buf, v); err != nil {
				return err
			}
		case uint32:
			var num [4]byte
			binary.LittleEndian.PutUint32(num[:], v)
			if _, err := buf.Write(num[:]); err != nil {
				return fmt.Errorf("write number error: %w", err)
			}
		}
	}

	if err := buf.WriteByte(markerEndOfMap); err != nil {
		return fmt.Errorf("write end of map error: %w", err)
	}
	return nil
}

func writeString(buf *bufio.Writer, s string) error {
	if _, err := buf.WriteString(s); err != nil {
		return fmt.Errorf("write string error: %w", err)
	}
	if err := buf.WriteByte(markerEndOfString); err != nil {
		return fmt.Errorf("write string terminator error: %w", err)
	}
	return nil
}

func sortedKeys(m Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}
