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
	"os"
	"path/filepath"
	"testing"

	"github.com/nanoproc/nanoasm/pkg/util/assert"
)

func TestLayout_Validate(t *testing.T) {
	layout := Layout{Lines: 16, WordsPerLine: 4}
	// 9 * 4 = 36 bits, a whole number of hex digits.
	assert.Nil(t, layout.Validate(9))
	assert.Equal(t, uint(64), layout.Capacity())
	assert.Equal(t, uint(9), layout.HexDigits(9))
}

func TestLayout_ValidateRejects(t *testing.T) {
	checkInvalidLayout(t, Layout{Lines: 0, WordsPerLine: 4}, 9)
	checkInvalidLayout(t, Layout{Lines: 16, WordsPerLine: 0}, 9)
	// 9 * 3 = 27 bits does not divide into hex digits.
	checkInvalidLayout(t, Layout{Lines: 16, WordsPerLine: 3}, 9)
}

func TestLayout_PrefixAt(t *testing.T) {
	layout := Layout{Prefix: "  mem[%d] <= 36'h", Suffix: ";"}
	//
	assert.Equal(t, "  mem[0] <= 36'h", layout.PrefixAt(0))
	assert.Equal(t, "  mem[15] <= 36'h", layout.PrefixAt(15))
	// Formats without a verb are literal.
	assert.Equal(t, ";", layout.SuffixAt(7))
}

func TestReadLayoutFile(t *testing.T) {
	var (
		dir      = t.TempDir()
		filename = filepath.Join(dir, "layout.yaml")
		contents = "offset: 42\n" +
			"lines: 16\n" +
			"words_per_line: 4\n" +
			"prefix: \"  mem[%d] <= 36'h\"\n" +
			"suffix: \";\"\n" +
			"footer: endmodule\n"
	)
	//
	assert.Nil(t, os.WriteFile(filename, []byte(contents), 0644))
	//
	layout, err := ReadLayoutFile(filename)
	assert.Nil(t, err)
	assert.Equal(t, uint(42), layout.Offset)
	assert.Equal(t, uint(16), layout.Lines)
	assert.Equal(t, uint(4), layout.WordsPerLine)
	assert.Equal(t, "  mem[%d] <= 36'h", layout.Prefix)
	assert.Equal(t, ";", layout.Suffix)
	assert.Equal(t, "endmodule", layout.Footer)
}

func TestReadLayoutFile_Malformed(t *testing.T) {
	var (
		dir      = t.TempDir()
		filename = filepath.Join(dir, "layout.yaml")
	)
	//
	assert.Nil(t, os.WriteFile(filename, []byte("lines: [oops\n"), 0644))
	//
	_, err := ReadLayoutFile(filename)
	assert.True(t, err != nil)
}

func TestReadLayoutFile_Missing(t *testing.T) {
	_, err := ReadLayoutFile(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	assert.True(t, err != nil)
}

func checkInvalidLayout(t *testing.T, layout Layout, wordWidth uint) {
	assert.True(t, layout.Validate(wordWidth) != nil,
		"layout %v validated unexpectedly", layout)
}
