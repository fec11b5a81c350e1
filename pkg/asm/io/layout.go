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
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layout describes the fixed-format hex region of a destination file, such
// as the memory-initialisation block of an SRAM module source.  The region
// begins at a fixed byte offset and consists of a fixed number of lines,
// each holding the hex rendering of a fixed number of machine words between
// a prefix and a suffix.
type Layout struct {
	// Byte offset at which the region begins.
	Offset uint `yaml:"offset"`
	// Number of lines in the region.
	Lines uint `yaml:"lines"`
	// Number of machine words packed into each line.
	WordsPerLine uint `yaml:"words_per_line"`
	// Prefix of each line.  May contain a single %d verb, which receives the
	// 0-based line index.
	Prefix string `yaml:"prefix"`
	// Suffix of each line, likewise.
	Suffix string `yaml:"suffix"`
	// Footer appended after the last line of the region.
	Footer string `yaml:"footer"`
}

// ReadLayoutFile reads and parses a YAML layout description.
func ReadLayoutFile(filename string) (Layout, error) {
	var layout Layout
	//
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return layout, err
	}
	//
	if err := yaml.Unmarshal(bytes, &layout); err != nil {
		return layout, fmt.Errorf("malformed layout file %s: %w", filename, err)
	}
	//
	return layout, nil
}

// Validate checks this layout is internally consistent for a given word
// width.  In particular, the bits of one line must divide exactly into hex
// digits.
func (p *Layout) Validate(wordWidth uint) error {
	switch {
	case p.Lines == 0:
		return fmt.Errorf("layout must have at least one line")
	case p.WordsPerLine == 0:
		return fmt.Errorf("layout must pack at least one word per line")
	case (wordWidth*p.WordsPerLine)%4 != 0:
		return fmt.Errorf("layout packs %d bits per line, which is not a whole number of hex digits",
			wordWidth*p.WordsPerLine)
	}
	//
	return nil
}

// Capacity returns the total number of words the region holds.
func (p *Layout) Capacity() uint {
	return p.Lines * p.WordsPerLine
}

// HexDigits returns the number of hex digits each line holds for a given
// word width.
func (p *Layout) HexDigits(wordWidth uint) uint {
	return wordWidth * p.WordsPerLine / 4
}

// PrefixAt instantiates the line prefix for a given 0-based line index.
func (p *Layout) PrefixAt(index uint) string {
	return formatAt(p.Prefix, index)
}

// SuffixAt instantiates the line suffix for a given 0-based line index.
func (p *Layout) SuffixAt(index uint) string {
	return formatAt(p.Suffix, index)
}

// Instantiate a prefix or suffix format for a given line index.  Formats
// without a verb are taken literally.
func formatAt(format string, index uint) string {
	if strings.Contains(format, "%") {
		return fmt.Sprintf(format, index)
	}
	//
	return format
}
