package table

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"gopnad/domain/core"
)

var columnMagic = []byte("PNADCOL1")

// MarshalColumn encodes a column as: magic, type byte, name, level list,
// row count, then little-endian float64 values (NaN for missing) or
// length-prefixed labels.
func MarshalColumn(c *Column) ([]byte, error) {
	if c.Type != Numeric && c.Type != Categorical {
		return nil, fmt.Errorf("cannot encode column %q of type %d", c.Name, c.Type)
	}
	n := c.Len()
	size := len(columnMagic) + 1 + 4 + len(c.Name) + 4 + 8
	if c.Type == Numeric {
		size += 8 * n
	}
	buf := make([]byte, 0, size)
	buf = append(buf, columnMagic...)
	buf = append(buf, byte(c.Type))
	buf = appendString(buf, c.Name)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(c.Levels)))
	for _, l := range c.Levels {
		buf = appendString(buf, l)
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(n))
	if c.Type == Numeric {
		for _, v := range c.Floats {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		return buf, nil
	}
	for _, l := range c.Labels {
		buf = appendString(buf, l)
	}
	return buf, nil
}

// UnmarshalColumn decodes a payload produced by MarshalColumn.
func UnmarshalColumn(data []byte) (*Column, error) {
	r := bytes.NewReader(data)
	magic := make([]byte, len(columnMagic))
	if _, err := io.ReadFull(r, magic); err != nil || !bytes.Equal(magic, columnMagic) {
		return nil, fmt.Errorf("%w: bad magic", core.ErrCorruptColumn)
	}
	typ, err := r.ReadByte()
	if err != nil {
		return nil, corrupt(err)
	}
	c := &Column{Type: ColumnType(typ)}
	if c.Type != Numeric && c.Type != Categorical {
		return nil, fmt.Errorf("%w: unknown type %d", core.ErrCorruptColumn, typ)
	}
	if c.Name, err = readString(r); err != nil {
		return nil, corrupt(err)
	}
	var nlevels uint32
	if err := binary.Read(r, binary.LittleEndian, &nlevels); err != nil {
		return nil, corrupt(err)
	}
	for i := uint32(0); i < nlevels; i++ {
		l, err := readString(r)
		if err != nil {
			return nil, corrupt(err)
		}
		c.Levels = append(c.Levels, l)
	}
	var rows uint64
	if err := binary.Read(r, binary.LittleEndian, &rows); err != nil {
		return nil, corrupt(err)
	}
	// a row takes at least 8 bytes, or 4 for the length of its label
	width := uint64(4)
	if c.Type == Numeric {
		width = 8
	}
	if rows > uint64(r.Len())/width {
		return nil, fmt.Errorf("%w: %d rows do not fit in %d bytes", core.ErrCorruptColumn, rows, r.Len())
	}
	if c.Type == Numeric {
		if uint64(r.Len()) != 8*rows {
			return nil, fmt.Errorf("%w: expected %d values, have %d bytes", core.ErrCorruptColumn, rows, r.Len())
		}
		c.Floats = make([]float64, rows)
		raw := data[len(data)-r.Len():]
		for i := range c.Floats {
			c.Floats[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
		return c, nil
	}
	c.Labels = make([]string, rows)
	for i := range c.Labels {
		if c.Labels[i], err = readString(r); err != nil {
			return nil, corrupt(err)
		}
	}
	return c, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if int(n) > r.Len() {
		return "", io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", core.ErrCorruptColumn, err)
}
