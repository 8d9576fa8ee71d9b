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

import "fmt"

// UnderrunError denotes a buffer shorter than a structurally required region.
type UnderrunError struct {
	Need int
	Have int
}

func (e *UnderrunError) Error() string {
	return fmt.Sprintf("buffer underrun; need %v bytes, have %v", e.Need, e.Have)
}

// SignatureError denotes a header whose signature is not "EFI PART".
type SignatureError struct {
	Actual [8]byte
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid GPT signature %q", string(e.Actual[:]))
}

// RevisionError denotes a header revision other than 1.0.
type RevisionError struct {
	Actual [4]byte
}

func (e *RevisionError) Error() string {
	return fmt.Sprintf("unsupported GPT revision % x", e.Actual)
}

// HeaderSizeError denotes a declared header size below the 92-byte minimum.
type HeaderSizeError struct {
	Actual uint32
}

func (e *HeaderSizeError) Error() string {
	return fmt.Sprintf("declared header size %v below minimum %v", e.Actual, MinHeaderSize)
}

// ShortEntryError denotes a partition entry slice shorter than the fixed
// 128-byte layout. It aborts the whole traversal.
type ShortEntryError struct {
	Index int
	Len   int
}

func (e *ShortEntryError) Error() string {
	return fmt.Sprintf("short partition entry %v; got %v bytes, want %v", e.Index, e.Len, MinEntrySize)
}

// GUIDLengthError denotes a GUID field of unexpected length.
type GUIDLengthError struct {
	Len int
}

func (e *GUIDLengthError) Error() string {
	return fmt.Sprintf("invalid GUID length %v; want %v", e.Len, guidSize)
}
