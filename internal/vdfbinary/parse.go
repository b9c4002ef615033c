package vdfbinary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrEmptyVDF     = errors.New("the vdf you are trying to parse appears empty")
	ErrNotBinaryVDF = errors.New("the vdf appears not to be binary, are you sure it is not a text vdf?")
	ErrCorruptedVDF = errors.New("reached the end of the file earlier than expected, your file might be corrupted")
)

func Parse(r io.Reader) (Value, error) {
	buf := bufio.NewReader(r)

	byteArr, err := buf.Peek(1)
	if errors.Is(err, io.EOF) {
		return Value{}, ErrEmptyVDF
	}
	if err != nil {
		return Value{}, fmt.Errorf("peek error: %w", err)
	}

	b := byteArr[0]
	if b != markerMap && b != markerString && b != markerNumber && b != markerEndOfMap {
		return Value{}, ErrNotBinaryVDF
	}

	p, err := parseMap(buf)
	if errors.Is(err, io.EOF) {
		return Value{}, ErrCorruptedVDF
	}
	return p, err
}

func parseMap(buf *bufio.Reader) (Value, error) {
	m := make(Map)

	for {
		b, err := buf.ReadByte()
		if err != nil {
			return Value{}, fmt.Errorf("read byte error: %w", err)
		}

		if b == markerEndOfMap {
			break
		}

		key, err := parseString(buf)
		if err != nil {
			return Value{}, err
		}

		var value Value
		switch b {
		case markerMap:
			value, err = parseMap(buf)
		case markerNumber:
			value, err = parseNumber(buf)
		case markerString:
			value, err = parseStringValue(buf)
		default:
			err = fmt.Errorf("unexpected byte: 0x%02x, your file might be corrupted", b)
		}

		if err != nil {
			return Value{}, err
		}

		m[key] = value
	}

	return NewMap(m), nil
}

func parseNumber(buf *bufio.Reader) (Value, error) {
	bf := make([]byte, 4)

	if _, err := io.ReadFull(buf, bf); err != nil {
		return Value{}, fmt.Errorf("read number error: %w", err)
	}

	return NewUint(binary.LittleEndian.Uint32(bf)), nil
}

func parseString(buf *bufio.Reader) (string, error) {
	s, err := buf.ReadString(markerEndOfString)
	if err == nil {
		return s[:len(s)-1], nil
	}
	return "", fmt.Errorf("read string error: %w", err)
}

func parseStringValue(buf *bufio.Reader) (Value, error) {
	s, err := parseString(buf)
	return NewString(s), err
}
