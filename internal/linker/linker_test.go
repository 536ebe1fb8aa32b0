package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validX86_64Header() []byte {
	h := make([]byte, headerMinLen)
	h[0], h[1], h[2], h[3] = magic0, magic1, magic2, magic3
	h[classOffset] = class64
	h[dataOffset] = dataLittle
	h[machineOffset] = byte(MachineX86_64)
	h[machineOffset+1] = byte(MachineX86_64 >> 8)
	return h
}

func TestValidateAcceptsWellFormedX86_64Header(t *testing.T) {
	hdr, err := Validate(validX86_64Header())
	require.NoError(t, err)
	assert.Equal(t, uint16(MachineX86_64), hdr.Machine)
}

func TestValidateRejectsTooShortInput(t *testing.T) {
	_, err := Validate([]byte{0x7f, 'E', 'L'})
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestValidateRejectsBadMagic(t *testing.T) {
	h := validX86_64Header()
	h[1] = 'X'
	_, err := Validate(h)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestValidateRejects32Bit(t *testing.T) {
	h := validX86_64Header()
	h[classOffset] = 1
	_, err := Validate(h)
	assert.ErrorIs(t, err, ErrNot64Bit)
}

func TestValidateRejectsBigEndian(t *testing.T) {
	h := validX86_64Header()
	h[dataOffset] = 2
	_, err := Validate(h)
	assert.ErrorIs(t, err, ErrNotLittleEndian)
}

func TestValidateRejectsUnsupportedMachine(t *testing.T) {
	h := validX86_64Header()
	h[machineOffset] = 0x28 // ARM
	h[machineOffset+1] = 0
	_, err := Validate(h)
	assert.ErrorIs(t, err, ErrUnsupportedMachine)
}

func TestLinkReportsNotImplementedAfterValidatingInputs(t *testing.T) {
	_, err := Link([][]byte{validX86_64Header()})
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestLinkFailsOnFirstInvalidObjectBeforeReachingNotImplemented(t *testing.T) {
	bad := []byte{0, 0, 0, 0}
	_, err := Link([][]byte{validX86_64Header(), bad})
	assert.ErrorIs(t, err, ErrTooShort)
}
