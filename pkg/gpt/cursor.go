// This file is part of ImageAudit
// Copyright (c) 2022 Confident Security, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package gpt

import "encoding/binary"

// Cursor is a sequential bounds-checked reader over an immutable byte
// buffer. Returned slices alias the backing buffer; consumed bytes are
// never re-read.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Take returns the next n bytes and advances the cursor.
func (c *Cursor) Take(n int) ([]byte, error) {
	if rem := len(c.buf) - c.off; rem < n {
		return nil, &UnderrunError{Need: n, Have: rem}
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// TakeUpTo returns at most n bytes and advances past them. A short or
// empty result means the buffer is exhausted.
func (c *Cursor) TakeUpTo(n int) []byte {
	if rem := len(c.buf) - c.off; rem < n {
		n = rem
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b
}

// Uint32 reads a little-endian 32-bit value.
func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads a little-endian 64-bit value.
func (c *Cursor) Uint64() (uint64, error) {
	b, err := c.Take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Remaining reports the number of unconsumed bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}
