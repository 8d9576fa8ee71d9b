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
	"bytes"
	"errors"
	"testing"
)

func TestCursorTake(t *testing.T) {
	cur := NewCursor([]byte{1, 2, 3, 4, 5})

	b, err := cur.Take(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(b, []byte{1, 2}) {
		t.Fatalf("expected: [1 2], got: %v", b)
	}
	if cur.Remaining() != 3 {
		t.Fatalf("remaining: expected: 3, got: %v", cur.Remaining())
	}

	b, err = cur.Take(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(b, []byte{3, 4, 5}) {
		t.Fatalf("expected: [3 4 5], got: %v", b)
	}

	if _, err = cur.Take(1); err == nil {
		t.Fatalf("expected underrun error, got nil")
	}
	var underrunErr *UnderrunError
	if !errors.As(err, &underrunErr) {
		t.Fatalf("expected UnderrunError, got: %v", err)
	}
	if underrunErr.Need != 1 || underrunErr.Have != 0 {
		t.Fatalf("expected need=1 have=0, got: need=%v have=%v", underrunErr.Need, underrunErr.Have)
	}
}

func TestCursorTakeUnderrun(t *testing.T) {
	cur := NewCursor([]byte{1, 2, 3})
	_, err := cur.Take(4)
	var underrunErr *UnderrunError
	if !errors.As(err, &underrunErr) {
		t.Fatalf("expected UnderrunError, got: %v", err)
	}
	if underrunErr.Need != 4 || underrunErr.Have != 3 {
		t.Fatalf("expected need=4 have=3, got: need=%v have=%v", underrunErr.Need, underrunErr.Have)
	}
	// a failed read must not advance
	if cur.Remaining() != 3 {
		t.Fatalf("remaining: expected: 3, got: %v", cur.Remaining())
	}
}

func TestCursorTakeUpTo(t *testing.T) {
	cur := NewCursor([]byte{1, 2, 3, 4, 5})
	if b := cur.TakeUpTo(4); !bytes.Equal(b, []byte{1, 2, 3, 4}) {
		t.Fatalf("expected: [1 2 3 4], got: %v", b)
	}
	if b := cur.TakeUpTo(4); !bytes.Equal(b, []byte{5}) {
		t.Fatalf("expected: [5], got: %v", b)
	}
	if b := cur.TakeUpTo(4); len(b) != 0 {
		t.Fatalf("expected empty slice, got: %v", b)
	}
}

func TestCursorUints(t *testing.T) {
	cur := NewCursor([]byte{0x78, 0x56, 0x34, 0x12, 0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01})

	u32, err := cur.Uint32()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u32 != 0x12345678 {
		t.Fatalf("expected: 0x12345678, got: %#x", u32)
	}

	u64, err := cur.Uint64()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u64 != 0x0123456789ABCDEF {
		t.Fatalf("expected: 0x0123456789abcdef, got: %#x", u64)
	}

	if _, err = cur.Uint32(); err == nil {
		t.Fatalf("expected underrun error, got nil")
	}
}
