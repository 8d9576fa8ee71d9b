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
	"reflect"
	"testing"
)

func appendUint32(buf []byte, value uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	return append(buf, b[:]...)
}

func appendUint64(buf []byte, value uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	return append(buf, b[:]...)
}

// testHeaderBytes returns a valid 92-byte header with the basic data GUID
// as disk GUID and the partition array declared at LBA 2.
func testHeaderBytes(numEntries, entrySize uint32) []byte {
	buf := make([]byte, 0, MinHeaderSize)
	buf = append(buf, headerSignature...)
	buf = append(buf, 0x00, 0x00, 0x01, 0x00)
	buf = appendUint32(buf, MinHeaderSize)
	buf = appendUint32(buf, 0xAABBCCDD)
	buf = appendUint32(buf, 0) // reserved
	buf = appendUint64(buf, 1)
	buf = appendUint64(buf, 0x1FFFFF)
	buf = appendUint64(buf, 34)
	buf = appendUint64(buf, 0x1FFFDE)
	buf = append(buf, basicDataGUIDBytes...)
	buf = appendUint64(buf, 2)
	buf = appendUint32(buf, numEntries)
	buf = appendUint32(buf, entrySize)
	buf = appendUint32(buf, 0x11223344)
	return buf
}

func TestDecodeHeader(t *testing.T) {
	want := &Header{
		Signature:              [8]byte{'E', 'F', 'I', ' ', 'P', 'A', 'R', 'T'},
		Revision:               [4]byte{0x00, 0x00, 0x01, 0x00},
		HeaderSize:             MinHeaderSize,
		CRC32:                  0xAABBCCDD,
		CurrentLBA:             1,
		BackupLBA:              0x1FFFFF,
		FirstUsableLBA:         34,
		LastUsableLBA:          0x1FFFDE,
		DiskGUID:               "ebd0a0a2-b9e5-4433-87c0-68b6b72699c7",
		PartitionEntryStartLBA: 2,
		NumPartitionEntries:    128,
		PartitionEntrySize:     128,
		PartitionArrayCRC32:    0x11223344,
	}

	header, err := DecodeHeader(testHeaderBytes(128, 128))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(header, want) {
		t.Fatalf("header: expected: %+v, got: %+v", want, header)
	}

	// trailing bytes past the fixed layout must not change the result
	header, err = DecodeHeader(append(testHeaderBytes(128, 128), make([]byte, 420)...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(header, want) {
		t.Fatalf("header: expected: %+v, got: %+v", want, header)
	}
}

func TestDecodeHeaderUnderrun(t *testing.T) {
	buf := testHeaderBytes(128, 128)
	// a truncated header is an underrun even when the truncated prefix
	// carries a bad signature
	copy(buf, "BAD SIGN")

	for i, length := range []int{0, 5, 8, 16, 50, 91} {
		_, err := DecodeHeader(buf[:length])
		var underrunErr *UnderrunError
		if !errors.As(err, &underrunErr) {
			t.Fatalf("case %v: expected UnderrunError, got: %v", i+1, err)
		}
	}
}

func TestDecodeHeaderValidation(t *testing.T) {
	badSignature := testHeaderBytes(128, 128)
	copy(badSignature, "EFI FAKE")

	badRevision := testHeaderBytes(128, 128)
	copy(badRevision[8:12], []byte{0x00, 0x00, 0x02, 0x00})

	badHeaderSize := testHeaderBytes(128, 128)
	binary.LittleEndian.PutUint32(badHeaderSize[12:16], 91)

	_, err := DecodeHeader(badSignature)
	var signatureErr *SignatureError
	if !errors.As(err, &signatureErr) {
		t.Fatalf("expected SignatureError, got: %v", err)
	}
	if string(signatureErr.Actual[:]) != "EFI FAKE" {
		t.Fatalf("actual signature: expected: %q, got: %q", "EFI FAKE", string(signatureErr.Actual[:]))
	}

	_, err = DecodeHeader(badRevision)
	var revisionErr *RevisionError
	if !errors.As(err, &revisionErr) {
		t.Fatalf("expected RevisionError, got: %v", err)
	}
	if revisionErr.Actual != [4]byte{0x00, 0x00, 0x02, 0x00} {
		t.Fatalf("actual revision: expected: [0 0 2 0], got: %v", revisionErr.Actual)
	}

	_, err = DecodeHeader(badHeaderSize)
	var headerSizeErr *HeaderSizeError
	if !errors.As(err, &headerSizeErr) {
		t.Fatalf("expected HeaderSizeError, got: %v", err)
	}
	if headerSizeErr.Actual != 91 {
		t.Fatalf("actual header size: expected: 91, got: %v", headerSizeErr.Actual)
	}
}
