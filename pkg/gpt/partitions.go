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
	"io"
	"unicode/utf16"
)

// MinEntrySize is the fixed partition entry layout: two 16-byte GUIDs,
// two LBAs, the attribute flags and the 72-byte name. Entries declared
// larger carry vendor extension space past it, which is ignored.
const MinEntrySize = 128

// Partition is one populated partition entry (LBA 2-33) as per
// specification in
// https://en.wikipedia.org/wiki/GUID_Partition_Table#Partition_entries_(LBA_2%E2%80%9333)
type Partition struct {
	TypeGUID   string
	UniqueGUID string
	FirstLBA   uint64
	LastLBA    uint64
	Flags      uint64
	Name       string
	Index      int
}

// PartitionIter walks the partition entry array lazily. A traversal is
// finite and cannot be restarted mid-sequence; re-reading means
// constructing a new iterator.
type PartitionIter struct {
	cur   *Cursor
	size  int
	total int
	next  int
	err   error
}

// IteratePartitions returns an iterator over the partition entry array
// inside buf, located at PartitionEntryStartLBA * sectorSize. The sector
// size is caller-supplied and never defaulted or validated here; it must
// match the medium the header was captured from. An array offset past the
// end of buf yields the empty sequence.
func IteratePartitions(buf []byte, header *Header, sectorSize uint64) *PartitionIter {
	var tail []byte
	offset := header.PartitionEntryStartLBA * sectorSize
	overflowed := sectorSize != 0 && offset/sectorSize != header.PartitionEntryStartLBA
	if !overflowed && offset <= uint64(len(buf)) {
		tail = buf[offset:]
	}
	return &PartitionIter{
		cur:   NewCursor(tail),
		size:  int(header.PartitionEntrySize),
		total: int(header.NumPartitionEntries),
		next:  1,
	}
}

// Next returns the next populated partition entry. It returns io.EOF once
// the array is exhausted, either after NumPartitionEntries slots or at the
// first entry boundary with no bytes left, which signals that fewer
// entries are present than the header promised. Unused slots (all-zero
// type GUID) are skipped while their index still advances. A non-empty
// entry shorter than MinEntrySize aborts the traversal; the same error is
// returned on every subsequent call.
func (it *PartitionIter) Next() (*Partition, error) {
	if it.err != nil {
		return nil, it.err
	}
	for it.next <= it.total {
		index := it.next
		it.next++

		raw := it.cur.TakeUpTo(it.size)
		if len(raw) == 0 {
			break
		}
		if len(raw) < MinEntrySize {
			it.err = &ShortEntryError{Index: index, Len: len(raw)}
			return nil, it.err
		}
		if zeroGUID(raw[0:16]) {
			// unused slot
			continue
		}

		partition, err := decodeEntry(raw, index)
		if err != nil {
			it.err = err
			return nil, it.err
		}
		return partition, nil
	}
	it.err = io.EOF
	return nil, it.err
}

func decodeEntry(raw []byte, index int) (*Partition, error) {
	typeGUID, err := DecodeGUID(raw[0:16])
	if err != nil {
		return nil, err
	}
	uniqueGUID, err := DecodeGUID(raw[16:32])
	if err != nil {
		return nil, err
	}
	return &Partition{
		TypeGUID:   typeGUID,
		UniqueGUID: uniqueGUID,
		FirstLBA:   binary.LittleEndian.Uint64(raw[32:40]),
		LastLBA:    binary.LittleEndian.Uint64(raw[40:48]),
		Flags:      binary.LittleEndian.Uint64(raw[48:56]),
		Name:       decodeName(raw[56:MinEntrySize]),
		Index:      index,
	}, nil
}

// decodeName decodes the fixed-width UTF-16LE name field, truncated at
// the first NUL code unit.
func decodeName(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		unit := binary.LittleEndian.Uint16(b[i : i+2])
		if unit == 0 {
			break
		}
		units = append(units, unit)
	}
	return string(utf16.Decode(units))
}
