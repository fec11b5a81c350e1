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
	"fmt"
	"os"
	"strings"

	"github.com/nanoproc/nanoasm/pkg/util/bit"
)

// ErrFormatMismatch indicates the pre-existing structure of a destination
// file does not match its declared layout.
var ErrFormatMismatch = errors.New("destination format mismatch")

// ErrCapacityExceeded indicates the program does not fit within the
// destination region.
var ErrCapacityExceeded = errors.New("destination capacity exceeded")

// Hex digits are rendered uppercase.
const hexDigits = "0123456789ABCDEF"

// HexPatcher overwrites the fixed-format hex region of an existing text
// file.  The destination's structure is validated upfront; words are then
// collected in memory and the whole file is rewritten in a single Flush, so
// a failed assembly leaves the destination untouched.
type HexPatcher struct {
	path   string
	layout Layout
	// Width of a single machine word in bits.
	wordWidth uint
	// Bytes preceding the patch region, preserved verbatim.
	head []byte
	// File mode of the original destination.
	mode os.FileMode
	// Words collected so far.
	words []uint
}

// NewHexPatcher validates the structure of an existing destination file
// against a given layout, returning a patcher for it.  No byte of the file
// is modified until Flush.
func NewHexPatcher(path string, layout Layout, wordWidth uint) (*HexPatcher, error) {
	if err := layout.Validate(wordWidth); err != nil {
		return nil, err
	}
	//
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	//
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	//
	if err := validateRegion(string(bytes), layout, wordWidth); err != nil {
		return nil, err
	}
	//
	return &HexPatcher{
		path:      path,
		layout:    layout,
		wordWidth: wordWidth,
		head:      bytes[:layout.Offset],
		mode:      info.Mode(),
	}, nil
}

// Capacity returns the number of words the patch region holds.
func (p *HexPatcher) Capacity() uint {
	return p.layout.Capacity()
}

// WriteWord collects the next word.  Nothing is written to disk yet.
func (p *HexPatcher) WriteWord(word uint) error {
	if uint(len(p.words)) == p.Capacity() {
		return fmt.Errorf("%w: region holds %d words", ErrCapacityExceeded, p.Capacity())
	}
	//
	p.words = append(p.words, word)
	//
	return nil
}

// Flush pads the remaining capacity with zero words and rewrites the whole
// destination: preserved head, then every region line, then the footer.
func (p *HexPatcher) Flush() error {
	var (
		buf    strings.Builder
		hex    = bit.NewBuffer(4)
		layout = p.layout
	)
	// Pad with zero words so the region is always fully rewritten.
	words := append(p.words, make([]uint, p.Capacity()-uint(len(p.words)))...)
	//
	buf.Write(p.head)
	//
	for i := uint(0); i < layout.Lines; i++ {
		buf.WriteString(layout.PrefixAt(i))
		// Words pack from the high end of the line downward.
		for _, word := range words[i*layout.WordsPerLine : (i+1)*layout.WordsPerLine] {
			for _, nibble := range hex.Append(word, p.wordWidth) {
				buf.WriteByte(hexDigits[nibble])
			}
		}
		//
		buf.WriteString(layout.SuffixAt(i))
		buf.WriteByte('\n')
	}
	//
	buf.WriteString(expectedTail(p.layout))
	//
	return os.WriteFile(p.path, []byte(buf.String()), p.mode)
}

// Check that the destination contains exactly the expected region: for each
// line, a byte-for-byte prefix, the right number of hex digits, a
// byte-for-byte suffix and a line terminator.  The region must be followed by
// exactly the footer, since Flush reproduces rather than preserves the tail.
func validateRegion(contents string, layout Layout, wordWidth uint) error {
	var (
		pos    = int(layout.Offset)
		digits = int(layout.HexDigits(wordWidth))
	)
	//
	if pos > len(contents) {
		return fmt.Errorf("%w: file is shorter than region offset %d", ErrFormatMismatch, layout.Offset)
	}
	//
	for i := uint(0); i < layout.Lines; i++ {
		prefix, suffix := layout.PrefixAt(i), layout.SuffixAt(i)
		// Prefix must match byte-for-byte.
		if !strings.HasPrefix(contents[pos:], prefix) {
			return fmt.Errorf("%w: line %d: expected prefix %q", ErrFormatMismatch, i, prefix)
		}
		//
		pos += len(prefix)
		// Exactly the expected number of hex digits.
		for j := 0; j < digits; j++ {
			if pos >= len(contents) || !isHexDigit(contents[pos]) {
				return fmt.Errorf("%w: line %d: expected %d hex digits", ErrFormatMismatch, i, digits)
			}
			//
			pos++
		}
		// Suffix must match byte-for-byte.
		if !strings.HasPrefix(contents[pos:], suffix) {
			return fmt.Errorf("%w: line %d: expected suffix %q", ErrFormatMismatch, i, suffix)
		}
		//
		pos += len(suffix)
		// Line terminator.
		if !strings.HasPrefix(contents[pos:], "\n") {
			return fmt.Errorf("%w: line %d: expected line terminator", ErrFormatMismatch, i)
		}
		//
		pos++
	}
	//
	if contents[pos:] != expectedTail(layout) {
		return fmt.Errorf("%w: expected footer %q after region", ErrFormatMismatch, layout.Footer)
	}
	//
	return nil
}

// The exact bytes Flush writes after the last region line.
func expectedTail(layout Layout) string {
	if layout.Footer == "" || strings.HasSuffix(layout.Footer, "\n") {
		return layout.Footer
	}
	//
	return layout.Footer + "\n"
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}
