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

// MinHeaderSize is the size of the fixed GPT header layout. Every valid
// header declares at least this many bytes.
const MinHeaderSize = 92

const headerSignature = "EFI PART"

// revision 1.0, stored little-endian.
var headerRevision = [4]byte{0x00, 0x00, 0x01, 0x00}

// Header contains the GPT header in LBA 1 as per specification in
// https://en.wikipedia.org/wiki/GUID_Partition_Table#Partition_table_header_(LBA_1)
// A Header is only ever observed fully validated; DecodeHeader either
// returns a complete record or an error. The header and partition-array
// CRC32 fields are carried but not verified.
type Header struct {
	Signature              [8]byte
	Revision               [4]byte
	HeaderSize             uint32
	CRC32                  uint32
	CurrentLBA             uint64
	BackupLBA              uint64
	FirstUsableLBA         uint64
	LastUsableLBA          uint64
	DiskGUID               string
	PartitionEntryStartLBA uint64
	NumPartitionEntries    uint32
	PartitionEntrySize     uint32
	PartitionArrayCRC32    uint32
}

// DecodeHeader decodes and validates the GPT header at the start of buf.
// The buffer must begin at the header itself; stripping any preceding
// protective MBR sector is the caller's responsibility. Bytes past the
// fixed layout are not consumed.
func DecodeHeader(buf []byte) (*Header, error) {
	var header Header
	var err error

	cur := NewCursor(buf)
	signature, err := cur.Take(8)
	if err != nil {
		return nil, err
	}
	copy(header.Signature[:], signature)
	revision, err := cur.Take(4)
	if err != nil {
		return nil, err
	}
	copy(header.Revision[:], revision)
	if header.HeaderSize, err = cur.Uint32(); err != nil {
		return nil, err
	}
	if header.CRC32, err = cur.Uint32(); err != nil {
		return nil, err
	}
	// 4 reserved bytes, consumed and discarded.
	if _, err = cur.Take(4); err != nil {
		return nil, err
	}
	if header.CurrentLBA, err = cur.Uint64(); err != nil {
		return nil, err
	}
	if header.BackupLBA, err = cur.Uint64(); err != nil {
		return nil, err
	}
	if header.FirstUsableLBA, err = cur.Uint64(); err != nil {
		return nil, err
	}
	if header.LastUsableLBA, err = cur.Uint64(); err != nil {
		return nil, err
	}
	diskGUID, err := cur.Take(guidSize)
	if err != nil {
		return nil, err
	}
	if header.PartitionEntryStartLBA, err = cur.Uint64(); err != nil {
		return nil, err
	}
	if header.NumPartitionEntries, err = cur.Uint32(); err != nil {
		return nil, err
	}
	if header.PartitionEntrySize, err = cur.Uint32(); err != nil {
		return nil, err
	}
	if header.PartitionArrayCRC32, err = cur.Uint32(); err != nil {
		return nil, err
	}

	if string(header.Signature[:]) != headerSignature {
		return nil, &SignatureError{Actual: header.Signature}
	}
	if header.Revision != headerRevision {
		return nil, &RevisionError{Actual: header.Revision}
	}
	if header.HeaderSize < MinHeaderSize {
		return nil, &HeaderSizeError{Actual: header.HeaderSize}
	}
	if header.DiskGUID, err = DecodeGUID(diskGUID); err != nil {
		return nil, err
	}

	return &header, nil
}
