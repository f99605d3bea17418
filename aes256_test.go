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

package aes256

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/jkovacic/cryptocontainer/src/cryptoerr"
)

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex literal %q: %v", s, err)
	}
	return b
}

// CFB128VarTxt256 known-answer vector (NIST), driven directly through the
// single-block forward transform since CFB-128's first block is just
// engine.ProcessBlock(iv) XOR plaintext.
func TestEncryptBlockVarTxt256(t *testing.T) {
	key := make([]byte, 32)
	iv := hexBytes(t, "fffe0000000000000000000000000000")
	wantStream := hexBytes(t, "1569859ea6b7206c30bf4fd0cbfac33c")

	e := NewEngine()
	if err := e.Init(true, key); err != nil {
		t.Fatalf("Init: %v", err)
	}

	out := make([]byte, 16)
	if err := e.ProcessBlock(iv, 0, out, 0); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}

	plaintext := make([]byte, 16)
	gotCipher := xor(out, plaintext)
	if !bytes.Equal(gotCipher, wantStream) {
		t.Fatalf("VarTxt256 mismatch: got %x want %x", gotCipher, wantStream)
	}
}

// CFB128KeySbox256 known-answer vector (NIST).
func TestEncryptBlockKeySbox256(t *testing.T) {
	key := hexBytes(t, "b7a5794d52737475d53d5a377200849be0260a67a2b22ced8bbef12882270d07")
	iv := make([]byte, 16)
	wantStream := hexBytes(t, "637c31dc2591a07636f646b72daabbe7")

	e := NewEngine()
	if err := e.Init(true, key); err != nil {
		t.Fatalf("Init: %v", err)
	}

	out := make([]byte, 16)
	if err := e.ProcessBlock(iv, 0, out, 0); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}

	plaintext := make([]byte, 16)
	gotCipher := xor(out, plaintext)
	if !bytes.Equal(gotCipher, wantStream) {
		t.Fatalf("KeySbox256 mismatch: got %x want %x", gotCipher, wantStream)
	}
}

func TestEngineEncryptDecryptRoundTrip(t *testing.T) {
	key := hexBytes(t, "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4")
	plaintext := hexBytes(t, "6bc1bee22e409f96e93d7e117393172a")

	enc := NewEngine()
	if err := enc.Init(true, key); err != nil {
		t.Fatalf("Init(encrypt): %v", err)
	}
	cipherText := make([]byte, 16)
	if err := enc.ProcessBlock(plaintext, 0, cipherText, 0); err != nil {
		t.Fatalf("ProcessBlock(encrypt): %v", err)
	}

	dec := NewEngine()
	if err := dec.Init(false, key); err != nil {
		t.Fatalf("Init(decrypt): %v", err)
	}
	recovered := make([]byte, 16)
	if err := dec.ProcessBlock(cipherText, 0, recovered, 0); err != nil {
		t.Fatalf("ProcessBlock(decrypt): %v", err)
	}

	if !bytes.Equal(recovered, plaintext) {
		t.Fatalf("round trip mismatch: got %x want %x", recovered, plaintext)
	}
}

func TestEngineProcessBlockBeforeInit(t *testing.T) {
	e := NewEngine()
	in := make([]byte, 16)
	out := make([]byte, 16)

	err := e.ProcessBlock(in, 0, out, 0)
	if !errors.Is(err, cryptoerr.ErrEngineState) {
		t.Fatalf("expected ErrEngineState, got %v", err)
	}
}

func TestEngineInitRejectsBadKeySize(t *testing.T) {
	e := NewEngine()
	err := e.Init(true, make([]byte, 10))
	if !errors.Is(err, cryptoerr.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestEngineDestroyZeroesSchedule(t *testing.T) {
	e := NewEngine()
	if err := e.Init(true, make([]byte, 32)); err != nil {
		t.Fatalf("Init: %v", err)
	}

	e.Destroy()

	for _, b := range e.expandedKey {
		if b != 0 {
			t.Fatalf("expandedKey not fully zeroed after Destroy")
		}
	}

	in := make([]byte, 16)
	out := make([]byte, 16)
	if err := e.ProcessBlock(in, 0, out, 0); !errors.Is(err, cryptoerr.ErrEngineState) {
		t.Fatalf("expected ErrEngineState after Destroy, got %v", err)
	}
}

func xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
