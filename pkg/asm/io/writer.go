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
	stdio "io"
)

// Writer is a destination for assembled machine words.
type Writer interface {
	// WriteWord accepts the next completed machine word.
	WriteWord(word uint) error
	// Flush finalises the destination once all words have been written.
	Flush() error
}

// BoundedWriter is a writer whose destination holds a fixed number of words.
// Destinations implementing this interface are size-checked before any real
// write occurs.
type BoundedWriter interface {
	Writer
	// Capacity returns the number of words the destination can hold.
	Capacity() uint
}

// Discard returns a writer which silently drops every word.  It is used for
// analysis-only passes.
func Discard() Writer {
	return discard{}
}

type discard struct{}

func (discard) WriteWord(uint) error { return nil }

func (discard) Flush() error { return nil }

// WordCounter counts the words written to it, discarding their contents.  It
// is used to validate the emitted program size against the destination
// capacity before any real write.
type WordCounter struct {
	words uint
}

// NewWordCounter constructs a counter with no words recorded.
func NewWordCounter() *WordCounter {
	return &WordCounter{}
}

// WriteWord records one more word.
func (p *WordCounter) WriteWord(uint) error {
	p.words++
	return nil
}

// Flush does nothing.
func (p *WordCounter) Flush() error {
	return nil
}

// Words returns the number of words written so far.
func (p *WordCounter) Words() uint {
	return p.words
}

// DumpWriter renders each word as its binary digits, most significant bit
// first, one word per line.
type DumpWriter struct {
	out   stdio.Writer
	width uint
}

// NewDumpWriter constructs a dump writer for words of a given width.
func NewDumpWriter(out stdio.Writer, width uint) *DumpWriter {
	return &DumpWriter{out, width}
}

// WriteWord renders a single word as a line of '0'/'1' characters.
func (p *DumpWriter) WriteWord(word uint) error {
	_, err := fmt.Fprintf(p.out, "%0*b\n", p.width, word)
	return err
}

// Flush does nothing, as words are written eagerly.
func (p *DumpWriter) Flush() error {
	return nil
}
