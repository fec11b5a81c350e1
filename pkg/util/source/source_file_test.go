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
package source

import (
	"testing"

	"github.com/nanoproc/nanoasm/pkg/util/assert"
)

func TestPosition_Lf(t *testing.T) {
	checkPosition(t, "ab\ncd", 0, 1, 1)
	checkPosition(t, "ab\ncd", 2, 1, 3)
	checkPosition(t, "ab\ncd", 3, 2, 1)
	checkPosition(t, "ab\ncd", 4, 2, 2)
}

func TestPosition_Cr(t *testing.T) {
	// A lone carriage return terminates a line.
	checkPosition(t, "ab\rcd", 3, 2, 1)
	checkPosition(t, "a\rb\rc", 4, 3, 1)
}

func TestPosition_CrLf(t *testing.T) {
	// A carriage return followed by a line feed terminates once.
	checkPosition(t, "ab\r\ncd", 4, 2, 1)
	checkPosition(t, "ab\r\ncd", 5, 2, 2)
}

func TestPosition_TrailingCr(t *testing.T) {
	checkPosition(t, "ab\r", 3, 2, 1)
}

func TestFindFirstEnclosingLine_Cr(t *testing.T) {
	srcfile := NewSourceFile("test.asm", []byte("ab\rcd\ref"))
	//
	line := srcfile.FindFirstEnclosingLine(NewSpan(3, 5))
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, "cd", line.String())
	//
	line = srcfile.FindFirstEnclosingLine(NewSpan(6, 8))
	assert.Equal(t, 3, line.Number())
	assert.Equal(t, "ef", line.String())
}

func TestFindFirstEnclosingLine_CrLf(t *testing.T) {
	srcfile := NewSourceFile("test.asm", []byte("ab\r\ncd"))
	//
	line := srcfile.FindFirstEnclosingLine(NewSpan(4, 6))
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, "cd", line.String())
}

func checkPosition(t *testing.T, input string, index int, line int, column int) {
	srcfile := NewSourceFile("test.asm", []byte(input))
	//
	l, c := srcfile.Position(index)
	assert.Equal(t, line, l, "input %q, index %d: wrong line", input, index)
	assert.Equal(t, column, c, "input %q, index %d: wrong column", input, index)
}
