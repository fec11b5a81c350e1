package bit

import (
	"testing"

	"github.com/nanoproc/nanoasm/pkg/util/assert"
)

func TestBufferSingleWord(t *testing.T) {
	buf := NewBuffer(9)
	assert.Equal(t, 0, len(buf.Append(0b000, 3)))
	assert.Equal(t, 0, len(buf.Append(0b001, 3)))
	//
	words := buf.Append(0b010, 3)
	assert.Equal(t, 1, len(words))
	assert.Equal(t, uint(0b000001010), words[0])
	assert.Equal(t, uint(0), buf.Pending())
}

func TestBufferFullWidth(t *testing.T) {
	buf := NewBuffer(9)
	words := buf.Append(511, 9)
	assert.Equal(t, 1, len(words))
	assert.Equal(t, uint(511), words[0])
}

func TestBufferMsbFirst(t *testing.T) {
	// 1 followed by 0 must land in the two most significant positions.
	buf := NewBuffer(4)
	assert.Equal(t, 0, len(buf.Append(0b10, 2)))
	words := buf.Append(0b00, 2)
	assert.Equal(t, 1, len(words))
	assert.Equal(t, uint(0b1000), words[0])
}

func TestBufferSpanningAppend(t *testing.T) {
	// A wide append may complete multiple words.
	buf := NewBuffer(3)
	words := buf.Append(0b111000111, 9)
	assert.Equal(t, 3, len(words))
	assert.Equal(t, uint(0b111), words[0])
	assert.Equal(t, uint(0b000), words[1])
	assert.Equal(t, uint(0b111), words[2])
}

func TestBufferPending(t *testing.T) {
	buf := NewBuffer(9)
	buf.Append(0b101, 3)
	assert.Equal(t, uint(3), buf.Pending())
	assert.Equal(t, uint(9), buf.Width())
}
