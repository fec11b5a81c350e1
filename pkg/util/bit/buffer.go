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
package bit

import "fmt"

// Buffer accumulates bits into fixed-width machine words, where the most
// significant bits are written first.  Whenever the buffer fills a complete
// word, that word is returned to the caller and the buffer resets.  Words are
// held least-significant-bit aligned, hence the word width cannot exceed that
// of uint.
type Buffer struct {
	// Width of a single word in bits.
	width uint
	// Bits accumulated towards the current word.
	word uint
	// Number of bits accumulated towards the current word.
	count uint
}

// NewBuffer constructs an empty buffer for words of the given width.
func NewBuffer(width uint) *Buffer {
	if width == 0 || width > 64 {
		panic(fmt.Sprintf("invalid word width %d", width))
	}
	//
	return &Buffer{width, 0, 0}
}

// Width returns the word width (in bits) of this buffer.
func (p *Buffer) Width() uint {
	return p.width
}

// Pending returns the number of bits accumulated towards the next word.
func (p *Buffer) Pending() uint {
	return p.count
}

// Append writes the least significant nbits of value into this buffer, most
// significant bit first, returning any words completed as a result.
func (p *Buffer) Append(value uint, nbits uint) []uint {
	var words []uint
	//
	for i := nbits; i > 0; i-- {
		p.word = (p.word << 1) | ((value >> (i - 1)) & 1)
		p.count++
		// Check whether word boundary reached.
		if p.count == p.width {
			words = append(words, p.word)
			p.word, p.count = 0, 0
		}
	}
	//
	return words
}
