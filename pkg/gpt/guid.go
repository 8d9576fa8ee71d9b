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

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

const guidSize = 16

// DecodeGUID converts a 16-byte GUID in GPT on-disk layout to its canonical
// string form. The first three fields are stored little-endian, the last
// eight bytes as is. Every 16-byte value is a valid GUID.
func DecodeGUID(b []byte) (string, error) {
	if len(b) != guidSize {
		return "", &GUIDLengthError{Len: len(b)}
	}
	return fmt.Sprintf(
		"%08x-%04x-%04x-%x-%x",
		binary.LittleEndian.Uint32(b[0:4]),
		binary.LittleEndian.Uint16(b[4:6]),
		binary.LittleEndian.Uint16(b[6:8]),
		b[8:10],
		b[10:16],
	), nil
}

// EncodeGUID converts a canonical GUID string back to its GPT on-disk
// layout. It is the inverse of DecodeGUID.
func EncodeGUID(s string) ([16]byte, error) {
	var b [16]byte
	u, err := uuid.Parse(s)
	if err != nil {
		return b, fmt.Errorf("unable to parse GUID %v; %w", s, err)
	}
	copy(b[:], u[:])
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	return b, nil
}

func zeroGUID(b []byte) bool {
	for i := range b {
		if b[i] != 0 {
			return false
		}
	}
	return true
}
