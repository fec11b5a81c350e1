// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package io

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nanoproc/nanoasm/pkg/util/assert"
)

// Module header preceding the patch region in the destination template.
const testHead = "module ram;\n  // initial memory content\n"

// Layout for a two-line, four-words-per-line region (8 words, 9 hex digits
// per line at nine bits per word).
var testLayout = Layout{
	Offset:       uint(len(testHead)),
	Lines:        2,
	WordsPerLine: 4,
	Prefix:       "  mem[%d] <= 36'h",
	Suffix:       ";",
	Footer:       "endmodule",
}

// Write a fresh destination template holding all-zero words into a temporary
// directory, returning its path.
func writeDestination(t *testing.T, digits string) string {
	var (
		path = filepath.Join(t.TempDir(), "ram.v")
		buf  strings.Builder
	)
	//
	buf.WriteString(testHead)
	//
	for i := uint(0); i < testLayout.Lines; i++ {
		buf.WriteString(testLayout.PrefixAt(i))
		buf.WriteString(digits)
		buf.WriteString(testLayout.SuffixAt(i))
		buf.WriteByte('\n')
	}
	//
	buf.WriteString("endmodule\n")
	//
	assert.Nil(t, os.WriteFile(path, []byte(buf.String()), 0644))
	//
	return path
}

func TestHexPatcher_RoundTrip(t *testing.T) {
	path := writeDestination(t, "000000000")
	//
	patcher, err := NewHexPatcher(path, testLayout, 9)
	assert.Nil(t, err)
	assert.Equal(t, uint(8), patcher.Capacity())
	// Fill the first line exactly.
	for i := 0; i < 4; i++ {
		assert.Nil(t, patcher.WriteWord(511))
	}
	//
	assert.Nil(t, patcher.Flush())
	//
	checkDestination(t, path,
		testHead+
			"  mem[0] <= 36'hFFFFFFFFF;\n"+
			"  mem[1] <= 36'h000000000;\n"+
			"endmodule\n")
}

func TestHexPatcher_PartialLine(t *testing.T) {
	path := writeDestination(t, "000000000")
	//
	patcher, err := NewHexPatcher(path, testLayout, 9)
	assert.Nil(t, err)
	// A single word packs from the high end of the line downward.
	assert.Nil(t, patcher.WriteWord(0b100000000))
	assert.Nil(t, patcher.Flush())
	//
	checkDestination(t, path,
		testHead+
			"  mem[0] <= 36'h800000000;\n"+
			"  mem[1] <= 36'h000000000;\n"+
			"endmodule\n")
}

func TestHexPatcher_OverwritesStaleContent(t *testing.T) {
	// Pre-existing digits are irrelevant; lowercase is accepted.
	path := writeDestination(t, "deadbeef0")
	//
	patcher, err := NewHexPatcher(path, testLayout, 9)
	assert.Nil(t, err)
	assert.Nil(t, patcher.Flush())
	//
	checkDestination(t, path,
		testHead+
			"  mem[0] <= 36'h000000000;\n"+
			"  mem[1] <= 36'h000000000;\n"+
			"endmodule\n")
}

func TestHexPatcher_CapacityExceeded(t *testing.T) {
	path := writeDestination(t, "000000000")
	original, _ := os.ReadFile(path)
	//
	patcher, err := NewHexPatcher(path, testLayout, 9)
	assert.Nil(t, err)
	//
	for i := 0; i < 8; i++ {
		assert.Nil(t, patcher.WriteWord(1))
	}
	// The ninth word does not fit.
	assert.True(t, errors.Is(patcher.WriteWord(1), ErrCapacityExceeded))
	// No Flush occurred, hence the destination is untouched.
	checkDestination(t, path, string(original))
}

func TestHexPatcher_BadDigits(t *testing.T) {
	path := writeDestination(t, "00000000Z")
	//
	_, err := NewHexPatcher(path, testLayout, 9)
	assert.True(t, errors.Is(err, ErrFormatMismatch))
}

func TestHexPatcher_ShortDigits(t *testing.T) {
	path := writeDestination(t, "00000000")
	//
	_, err := NewHexPatcher(path, testLayout, 9)
	assert.True(t, errors.Is(err, ErrFormatMismatch))
}

func TestHexPatcher_WrongPrefix(t *testing.T) {
	var (
		path   = writeDestination(t, "000000000")
		layout = testLayout
	)
	//
	layout.Prefix = "  ram[%d] <= 36'h"
	//
	_, err := NewHexPatcher(path, layout, 9)
	assert.True(t, errors.Is(err, ErrFormatMismatch))
}

func TestHexPatcher_UnexpectedTail(t *testing.T) {
	// Bytes beyond the footer would be destroyed by Flush, hence they fail
	// validation instead.
	path := writeDestination(t, "000000000")
	original, _ := os.ReadFile(path)
	//
	assert.Nil(t, os.WriteFile(path, append(original, []byte("// stray\n")...), 0644))
	//
	_, err := NewHexPatcher(path, testLayout, 9)
	assert.True(t, errors.Is(err, ErrFormatMismatch))
	// The destination is untouched.
	actual, _ := os.ReadFile(path)
	assert.Equal(t, string(original)+"// stray\n", string(actual))
}

func TestHexPatcher_WrongFooter(t *testing.T) {
	var (
		path   = writeDestination(t, "000000000")
		layout = testLayout
	)
	//
	layout.Footer = "endprogram"
	//
	_, err := NewHexPatcher(path, layout, 9)
	assert.True(t, errors.Is(err, ErrFormatMismatch))
}

func TestHexPatcher_ShortFile(t *testing.T) {
	var (
		path   = writeDestination(t, "000000000")
		layout = testLayout
	)
	//
	layout.Offset = 1 << 20
	//
	_, err := NewHexPatcher(path, layout, 9)
	assert.True(t, errors.Is(err, ErrFormatMismatch))
}

func TestHexPatcher_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.v")
	//
	_, err := NewHexPatcher(path, testLayout, 9)
	assert.True(t, err != nil)
}

func TestHexPatcher_InvalidLayout(t *testing.T) {
	var (
		path   = writeDestination(t, "000000000")
		layout = testLayout
	)
	// 27 bits per line is not a whole number of hex digits.
	layout.WordsPerLine = 3
	//
	_, err := NewHexPatcher(path, layout, 9)
	assert.True(t, err != nil)
}

func checkDestination(t *testing.T, path string, expected string) {
	actual, err := os.ReadFile(path)
	//
	assert.Nil(t, err)
	assert.Equal(t, expected, string(actual))
}
