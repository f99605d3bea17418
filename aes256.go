// Copyright (c) 2023 Paweł Rybak
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package aes256 implements the AES-256 block transform (FIPS 197, 14
// rounds, 256 bit key) behind a small capability set: Init, BlockSize,
// ProcessBlock and Reset. It is the block engine subsystem that the CFB
// driver in src/cfb drives to turn single-block transforms into a stream
// cipher.
package aes256

import (
	"fmt"

	"github.com/jkovacic/cryptocontainer/src/consts"
	"github.com/jkovacic/cryptocontainer/src/cryptoerr"
	g "github.com/jkovacic/cryptocontainer/src/galois"
	"github.com/jkovacic/cryptocontainer/src/key"
	"github.com/jkovacic/cryptocontainer/src/sbox"
)

// Engine holds the round-key schedule derived from a 256 bit key and the
// direction (encryption vs decryption) it was initialized for. The schedule
// is the only mutable state; it must be zeroed on Destroy.
type Engine struct {
	expandedKey   *key.ExpandedKey
	forEncryption bool
	initialized   bool
}

// NewEngine returns an uninitialized engine. Init must be called before
// ProcessBlock.
func NewEngine() *Engine {
	return &Engine{}
}

// Init computes the 15-round key schedule for k (which must be exactly
// consts.KEY_SIZE bytes) and records the direction the engine was
// initialized for. The CFB profile used by this repository always passes
// forEncryption = true, even when driving decryption — see src/cfb's
// package doc for why that is not a mistake.
func (e *Engine) Init(forEncryption bool, k []byte) error {
	if len(k) != consts.KEY_SIZE {
		return fmt.Errorf("%w: AES-256 key must be %d bytes, got %d", cryptoerr.ErrInvalidParameter, consts.KEY_SIZE, len(k))
	}

	xKey, err := key.ExpandKey(k)
	if err != nil {
		e.initialized = false
		return fmt.Errorf("%w: key schedule: %v", cryptoerr.ErrEngineState, err)
	}

	e.expandedKey = xKey
	e.forEncryption = forEncryption
	e.initialized = true
	return nil
}

// BlockSize returns the AES block size in bytes (always 16).
func (e *Engine) BlockSize() int {
	return consts.BLOCK_SIZE
}

// Reset is a semantic no-op: the schedule is immutable once derived and
// does not need to be rewound between blocks. It is kept so callers (the
// CFB driver) can express "start a fresh pass" without depending on engine
// internals.
func (e *Engine) Reset() {}

// Destroy overwrites the round-key schedule with zero bytes and marks the
// engine uninitialized.
func (e *Engine) Destroy() {
	if e.expandedKey != nil {
		for i := range e.expandedKey {
			e.expandedKey[i] = 0x00
		}
	}
	e.initialized = false
}

// ProcessBlock reads 16 bytes at in[inOff:inOff+16] and writes the
// transformed block to out[outOff:outOff+16]. The buffers are not
// alias-checked; the caller must ensure capacity. Returns a
// cryptoerr.ErrEngineState error if the engine has not been initialized.
func (e *Engine) ProcessBlock(in []byte, inOff int, out []byte, outOff int) error {
	if !e.initialized {
		return fmt.Errorf("%w: engine not initialized", cryptoerr.ErrEngineState)
	}

	if inOff+consts.BLOCK_SIZE > len(in) || outOff+consts.BLOCK_SIZE > len(out) {
		return fmt.Errorf("%w: buffer too small for a block", cryptoerr.ErrInvalidParameter)
	}

	state := make([]byte, consts.BLOCK_SIZE)
	copy(state, in[inOff:inOff+consts.BLOCK_SIZE])

	var result []byte
	var err error

	if e.forEncryption {
		result, err = e.encryptBlock(state)
	} else {
		result, err = e.decryptBlock(state)
	}

	if err != nil {
		return fmt.Errorf("%w: %v", cryptoerr.ErrEngineState, err)
	}

	copy(out[outOff:outOff+consts.BLOCK_SIZE], result)
	return nil
}

// subBytes returns a state with every byte replaced with its corresponding
// byte from the S-box.
func (e *Engine) subBytes(state []byte) ([]byte, error) {
	if len(state) != consts.BLOCK_SIZE {
		return nil, fmt.Errorf("state size not matching the block size")
	}

	sb := sbox.InitSBOX()
	subState := make([]byte, len(state))
	for i := range state {
		subState[i] = sb[state[i]]
	}

	return subState, nil
}

// invSubBytes undoes subBytes, allowing decryption.
func (e *Engine) invSubBytes(state []byte) ([]byte, error) {
	if len(state) != consts.BLOCK_SIZE {
		return nil, fmt.Errorf("state size not matching the block size")
	}

	invsbox := sbox.InitInvSBOX(sbox.InitSBOX())
	invSubState := make([]byte, len(state))
	for i := range state {
		invSubState[i] = invsbox[state[i]]
	}

	return invSubState, nil
}

// shiftRows cyclically shifts the last three rows of the state.
func (e *Engine) shiftRows(state []byte) ([]byte, error) {
	if len(state) != consts.BLOCK_SIZE {
		return nil, fmt.Errorf("state size not matching the block size")
	}

	shifted := make([]byte, len(state))
	copy(shifted, state)

	for i := 1; i < 4; i++ {
		j := i
		shifted[i+(4*0)] = state[i+4*((j+0)%4)]
		shifted[i+(4*1)] = state[i+4*((j+1)%4)]
		shifted[i+(4*2)] = state[i+4*((j+2)%4)]
		shifted[i+(4*3)] = state[i+4*((j+3)%4)]
	}

	return shifted, nil
}

// invShiftRows undoes shiftRows, allowing decryption.
func (e *Engine) invShiftRows(state []byte) ([]byte, error) {
	if len(state) != consts.BLOCK_SIZE {
		return nil, fmt.Errorf("state size not matching the block size")
	}

	invShifted := make([]byte, len(state))
	copy(invShifted, state)

	for i := 1; i < 4; i++ {
		j := 4 - i
		invShifted[i+(4*0)] = state[i+4*((j+0)%4)]
		invShifted[i+(4*1)] = state[i+4*((j+1)%4)]
		invShifted[i+(4*2)] = state[i+4*((j+2)%4)]
		invShifted[i+(4*3)] = state[i+4*((j+3)%4)]
	}

	return invShifted, nil
}

// mixColumns performs the MixColumns matrix multiplication in GF(2^8).
func (e *Engine) mixColumns(state []byte) ([]byte, error) {
	if len(state) != consts.BLOCK_SIZE {
		return nil, fmt.Errorf("state size not matching the block size")
	}

	mixed := make([]byte, len(state))
	for i := 0; i < 4; i++ {
		mixed[4*i+0] = g.Gmul(0x02, state[4*i+0]) ^ g.Gmul(0x03, state[4*i+1]) ^ state[4*i+2] ^ state[4*i+3]
		mixed[4*i+1] = state[4*i+0] ^ g.Gmul(0x02, state[4*i+1]) ^ g.Gmul(0x03, state[4*i+2]) ^ state[4*i+3]
		mixed[4*i+2] = state[4*i+0] ^ state[4*i+1] ^ g.Gmul(0x02, state[4*i+2]) ^ g.Gmul(0x03, state[4*i+3])
		mixed[4*i+3] = g.Gmul(0x03, state[4*i+0]) ^ state[4*i+1] ^ state[4*i+2] ^ g.Gmul(0x02, state[4*i+3])
	}

	return mixed, nil
}

// invMixColumns undoes mixColumns, allowing decryption.
func (e *Engine) invMixColumns(state []byte) ([]byte, error) {
	if len(state) != consts.BLOCK_SIZE {
		return nil, fmt.Errorf("state size not matching the block size")
	}

	invMixed := make([]byte, len(state))
	for i := 0; i < 4; i++ {
		invMixed[4*i+0] = g.Gmul(0x0e, state[4*i+0]) ^ g.Gmul(0x0b, state[4*i+1]) ^ g.Gmul(0x0d, state[4*i+2]) ^ g.Gmul(0x09, state[4*i+3])
		invMixed[4*i+1] = g.Gmul(0x09, state[4*i+0]) ^ g.Gmul(0x0e, state[4*i+1]) ^ g.Gmul(0x0b, state[4*i+2]) ^ g.Gmul(0x0d, state[4*i+3])
		invMixed[4*i+2] = g.Gmul(0x0d, state[4*i+0]) ^ g.Gmul(0x09, state[4*i+1]) ^ g.Gmul(0x0e, state[4*i+2]) ^ g.Gmul(0x0b, state[4*i+3])
		invMixed[4*i+3] = g.Gmul(0x0b, state[4*i+0]) ^ g.Gmul(0x0d, state[4*i+1]) ^ g.Gmul(0x09, state[4*i+2]) ^ g.Gmul(0x0e, state[4*i+3])
	}

	return invMixed, nil
}

// addRoundKey XORs state with the round key at roundIdx.
func (e *Engine) addRoundKey(state []byte, roundIdx int) ([]byte, error) {
	if len(state) != consts.BLOCK_SIZE {
		return nil, fmt.Errorf("state size not matching the block size")
	}

	if roundIdx > consts.NR {
		return nil, fmt.Errorf("round index out of range")
	}

	roundKey := e.expandedKey[roundIdx*consts.BLOCK_SIZE : (roundIdx+1)*consts.BLOCK_SIZE]

	newState := make([]byte, len(state))
	for i, b := range state {
		newState[i] = g.Gadd(b, roundKey[i])
	}

	return newState, nil
}

// encryptBlock performs the forward AES-256 transform on one 16 byte block.
func (e *Engine) encryptBlock(state []byte) ([]byte, error) {
	var err error
	cipherText := make([]byte, len(state))
	copy(cipherText, state)

	cipherText, err = e.addRoundKey(cipherText, 0)
	if err != nil {
		return nil, err
	}

	for roundIdx := 1; roundIdx < consts.NR; roundIdx++ {
		cipherText, err = e.subBytes(cipherText)
		if err != nil {
			return nil, err
		}

		cipherText, err = e.shiftRows(cipherText)
		if err != nil {
			return nil, err
		}

		cipherText, err = e.mixColumns(cipherText)
		if err != nil {
			return nil, err
		}

		cipherText, err = e.addRoundKey(cipherText, roundIdx)
		if err != nil {
			return nil, err
		}
	}

	cipherText, err = e.subBytes(cipherText)
	if err != nil {
		return nil, err
	}

	cipherText, err = e.shiftRows(cipherText)
	if err != nil {
		return nil, err
	}

	cipherText, err = e.addRoundKey(cipherText, consts.NR)
	if err != nil {
		return nil, err
	}

	return cipherText, nil
}

// decryptBlock performs the inverse AES-256 transform on one 16 byte block.
// Only used when the engine is explicitly initialized with
// forEncryption = false; the CFB driver never calls this path (see
// src/cfb's package doc).
func (e *Engine) decryptBlock(state []byte) ([]byte, error) {
	var err error
	plainText := make([]byte, len(state))
	copy(plainText, state)

	plainText, err = e.addRoundKey(plainText, consts.NR)
	if err != nil {
		return nil, err
	}

	for roundIdx := consts.NR - 1; roundIdx > 0; roundIdx-- {
		plainText, err = e.invShiftRows(plainText)
		if err != nil {
			return nil, err
		}

		plainText, err = e.invSubBytes(plainText)
		if err != nil {
			return nil, err
		}

		plainText, err = e.addRoundKey(plainText, roundIdx)
		if err != nil {
			return nil, err
		}

		plainText, err = e.invMixColumns(plainText)
		if err != nil {
			return nil, err
		}
	}

	plainText, err = e.invShiftRows(plainText)
	if err != nil {
		return nil, err
	}

	plainText, err = e.invSubBytes(plainText)
	if err != nil {
		return nil, err
	}

	plainText, err = e.addRoundKey(plainText, 0)
	if err != nil {
		return nil, err
	}

	return plainText, nil
}
