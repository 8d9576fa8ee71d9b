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
	"errors"
	"io"
	"reflect"
	"testing"
	"unicode/utf16"
)

func encodeName(name string) []byte {
	b := make([]byte, 72)
	i := 0
	for _, unit := range utf16.Encode([]rune(name)) {
		binary.LittleEndian.PutUint16(b[i:i+2], unit)
		i += 2
	}
	return b
}

func testEntry(typeGUID, uniqueGUID []byte, firstLBA, lastLBA, flags uint64, name string, size int) []byte {
	buf := make([]byte, 0, size)
	buf = append(buf, typeGUID...)
	buf = append(buf, uniqueGUID...)
	buf = appendUint64(buf, firstLBA)
	buf = appendUint64(buf, lastLBA)
	buf = appendUint64(buf, flags)
	buf = append(buf, encodeName(name)...)
	for len(buf) < size {
		buf = append(buf, 0xEE) // vendor extension space
	}
	return buf
}

// testTable lays out a decoded header and a buffer whose partition array
// starts at LBA 2 with 512-byte sectors.
func testTable(t *testing.T, numEntries, entrySize uint32, entries ...[]byte) (*Header, []byte) {
	t.Helper()
	header, err := DecodeHeader(testHeaderBytes(numEntries, entrySize))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := make([]byte, 2*512)
	for _, entry := range entries {
		buf = append(buf, entry...)
	}
	return header, buf
}

func collect(it *PartitionIter) ([]Partition, error) {
	var partitions []Partition
	for {
		partition, err := it.Next()
		if err == io.EOF {
			return partitions, nil
		}
		if err != nil {
			return partitions, err
		}
		partitions = append(partitions, *partition)
	}
}

func TestIteratePartitions(t *testing.T) {
	header, buf := testTable(t, 4, 128,
		testEntry(efiSystemGUIDBytes, basicDataGUIDBytes, 2048, 4095, 0, "boot", 128),
		testEntry(make([]byte, 16), make([]byte, 16), 0, 0, 0, "", 128),
		testEntry(basicDataGUIDBytes, efiSystemGUIDBytes, 4096, 8191, 4, "data", 128),
		testEntry(make([]byte, 16), make([]byte, 16), 0, 0, 0, "", 128),
	)

	want := []Partition{
		{
			TypeGUID:   "c12a7328-f81f-11d2-ba4b-00a0c93ec93b",
			UniqueGUID: "ebd0a0a2-b9e5-4433-87c0-68b6b72699c7",
			FirstLBA:   2048,
			LastLBA:    4095,
			Name:       "boot",
			Index:      1,
		},
		{
			TypeGUID:   "ebd0a0a2-b9e5-4433-87c0-68b6b72699c7",
			UniqueGUID: "c12a7328-f81f-11d2-ba4b-00a0c93ec93b",
			FirstLBA:   4096,
			LastLBA:    8191,
			Flags:      4,
			Name:       "data",
			Index:      3,
		},
	}

	partitions, err := collect(IteratePartitions(buf, header, 512))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(partitions, want) {
		t.Fatalf("partitions: expected: %+v, got: %+v", want, partitions)
	}

	// a fresh iterator re-reads from the start
	partitions, err = collect(IteratePartitions(buf, header, 512))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(partitions, want) {
		t.Fatalf("partitions: expected: %+v, got: %+v", want, partitions)
	}
}

func TestIteratePartitionsEarlyEnd(t *testing.T) {
	// the header promises 128 entries but the buffer ends cleanly after two
	header, buf := testTable(t, 128, 128,
		testEntry(efiSystemGUIDBytes, basicDataGUIDBytes, 2048, 4095, 0, "boot", 128),
		testEntry(basicDataGUIDBytes, efiSystemGUIDBytes, 4096, 8191, 0, "data", 128),
	)

	it := IteratePartitions(buf, header, 512)
	partitions, err := collect(it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partitions) != 2 {
		t.Fatalf("partitions: expected: 2, got: %v", len(partitions))
	}
	if _, err = it.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got: %v", err)
	}
}

func TestIteratePartitionsShortEntry(t *testing.T) {
	header, buf := testTable(t, 4, 128,
		testEntry(efiSystemGUIDBytes, basicDataGUIDBytes, 2048, 4095, 0, "boot", 128),
		testEntry(basicDataGUIDBytes, efiSystemGUIDBytes, 4096, 8191, 0, "data", 128),
		testEntry(efiSystemGUIDBytes, basicDataGUIDBytes, 8192, 9215, 0, "trunc", 128)[:64],
	)

	it := IteratePartitions(buf, header, 512)
	partitions, err := collect(it)
	if len(partitions) != 2 {
		t.Fatalf("partitions: expected: 2, got: %v", len(partitions))
	}
	var shortErr *ShortEntryError
	if !errors.As(err, &shortErr) {
		t.Fatalf("expected ShortEntryError, got: %v", err)
	}
	if shortErr.Index != 3 || shortErr.Len != 64 {
		t.Fatalf("expected index=3 len=64, got: index=%v len=%v", shortErr.Index, shortErr.Len)
	}

	// the traversal stays failed
	if _, err = it.Next(); !errors.As(err, &shortErr) {
		t.Fatalf("expected ShortEntryError, got: %v", err)
	}
}

func TestIteratePartitionsUnusedSlotFirst(t *testing.T) {
	// num_part_entries 2: slot 1 unused, slot 2 the EFI System partition
	header, buf := testTable(t, 2, 128,
		testEntry(make([]byte, 16), make([]byte, 16), 0, 0, 0, "", 128),
		testEntry(efiSystemGUIDBytes, basicDataGUIDBytes, 2048, 4095, 0, "EFI System", 128),
	)

	partitions, err := collect(IteratePartitions(buf, header, 512))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partitions) != 1 {
		t.Fatalf("partitions: expected: 1, got: %v", len(partitions))
	}
	if partitions[0].Index != 2 {
		t.Fatalf("index: expected: 2, got: %v", partitions[0].Index)
	}
	if partitions[0].Name != "EFI System" {
		t.Fatalf("name: expected: %q, got: %q", "EFI System", partitions[0].Name)
	}
	if TypeName(partitions[0].TypeGUID) != "EFI System" {
		t.Fatalf("type name: expected: %q, got: %q", "EFI System", TypeName(partitions[0].TypeGUID))
	}
}

func TestIteratePartitionsVendorTail(t *testing.T) {
	// 144-byte stride; bytes past the fixed layout are ignored
	header, buf := testTable(t, 2, 144,
		testEntry(efiSystemGUIDBytes, basicDataGUIDBytes, 2048, 4095, 0, "boot", 144),
		testEntry(basicDataGUIDBytes, efiSystemGUIDBytes, 4096, 8191, 0, "data", 144)[:130],
	)

	// the second entry is cut inside its vendor tail; its fixed layout is
	// complete, so it still decodes, and the sequence ends after it
	partitions, err := collect(IteratePartitions(buf, header, 512))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(partitions) != 2 {
		t.Fatalf("partitions: expected: 2, got: %v", len(partitions))
	}
	if partitions[0].Name != "boot" || partitions[1].Name != "data" {
		t.Fatalf("names: expected: [boot data], got: [%v %v]", partitions[0].Name, partitions[1].Name)
	}
}

func TestIteratePartitionsOffsetBeyondBuffer(t *testing.T) {
	header, err := DecodeHeader(testHeaderBytes(128, 128))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	beyond := *header
	beyond.PartitionEntryStartLBA = 1 << 40
	if _, err = IteratePartitions(make([]byte, 4096), &beyond, 512).Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got: %v", err)
	}

	overflowing := *header
	overflowing.PartitionEntryStartLBA = 0xFFFFFFFFFFFFFFFF
	if _, err = IteratePartitions(make([]byte, 4096), &overflowing, 512).Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got: %v", err)
	}
}
