// Package cfb implements CFB-128 (Cipher Feedback with a feedback width
// equal to the block size), turning a block engine into a stream-style
// encryptor/decryptor over arbitrary-length payloads, without padding.
//
// The driver is generic over the block engine rather than dispatching
// through an interface value: the AES-256/CFB pairing used by this
// repository is fixed at compile time, so a monomorphized Driver[E] avoids
// an indirect call per block in the hot encrypt/decrypt loop. Dynamic
// dispatch is reserved for places where algorithm agility is a real public
// extension point (there are none in this container format: spec version 0
// fixes AES-256/CFB/HMAC-SHA1).
//
// Deliberately not a typo: Decrypt initializes the underlying engine for
// *encryption*, never for decryption. CFB's feedback register is always run
// through the forward transform; only the final XOR direction differs
// between encrypt and decrypt. An engine initialized "for decryption" would
// run the wrong (inverse) transform and produce garbage.
package cfb

import (
	"fmt"

	"github.com/jkovacic/cryptocontainer/src/cryptoerr"
)

// BlockEngine is the capability set the CFB driver needs from its
// underlying cipher: initialize, report block size, transform one block.
type BlockEngine interface {
	Init(forEncryption bool, key []byte) error
	BlockSize() int
	ProcessBlock(in []byte, inOff int, out []byte, outOff int) error
	Reset()
}

// Driver drives a BlockEngine in CFB-128 mode under a fixed key and IV.
// Neither the key nor the IV is mutated; every top-level Encrypt/Decrypt
// call restarts the feedback register from the IV, so a Driver may be
// reused across independent messages under the same (key, iv) pair (which
// is only safe when the caller is certain the plaintexts differ, since
// reusing an IV for two different plaintexts under the same key leaks the
// XOR of the two plaintexts — the container façade reuses the IV it was
// constructed with for every Encode call).
type Driver[E BlockEngine] struct {
	engine      E
	key         []byte
	iv          []byte
	initialized bool
}

// New constructs a CFB-128 driver over engine, using a defensive copy of
// key and iv. len(key) must be at least 16 bytes and len(iv) must equal
// engine.BlockSize().
func New[E BlockEngine](engine E, key, iv []byte) (*Driver[E], error) {
	if len(key) < 16 {
		return nil, fmt.Errorf("%w: CFB key must be at least 16 bytes, got %d", cryptoerr.ErrInvalidParameter, len(key))
	}

	if len(iv) != engine.BlockSize() {
		return nil, fmt.Errorf("%w: CFB iv must be %d bytes, got %d", cryptoerr.ErrInvalidParameter, engine.BlockSize(), len(iv))
	}

	d := &Driver[E]{
		engine: engine,
		key:    append([]byte(nil), key...),
		iv:     append([]byte(nil), iv...),
	}
	d.initialized = true
	return d, nil
}

// Encrypt returns a ciphertext of length len(plaintext). The last block may
// be short; no padding is added.
func (d *Driver[E]) Encrypt(plaintext []byte) ([]byte, error) {
	if !d.initialized {
		return nil, fmt.Errorf("%w: CFB driver not initialized", cryptoerr.ErrEngineState)
	}

	if len(plaintext) == 0 {
		return nil, fmt.Errorf("%w: no input", cryptoerr.ErrInvalidParameter)
	}

	if err := d.engine.Init(true, d.key); err != nil {
		return nil, fmt.Errorf("%w: encryption failed: %v", cryptoerr.ErrCryptoFailure, err)
	}

	blockSize := d.engine.BlockSize()
	feedback := append([]byte(nil), d.iv...)
	cipherText := make([]byte, len(plaintext))

	stream := make([]byte, blockSize)
	for i := 0; i < len(plaintext); i += blockSize {
		if err := d.engine.ProcessBlock(feedback, 0, stream, 0); err != nil {
			return nil, fmt.Errorf("%w: encryption failed: %v", cryptoerr.ErrCryptoFailure, err)
		}

		m := blockSize
		if len(plaintext)-i < m {
			m = len(plaintext) - i
		}

		for j := 0; j < m; j++ {
			cipherText[i+j] = stream[j] ^ plaintext[i+j]
		}

		copy(feedback[:m], cipherText[i:i+m])
	}

	return cipherText, nil
}

// Decrypt returns a plaintext of length len(ciphertext). The feedback
// register is loaded from the ciphertext, not the recovered plaintext.
func (d *Driver[E]) Decrypt(ciphertext []byte) ([]byte, error) {
	if !d.initialized {
		return nil, fmt.Errorf("%w: CFB driver not initialized", cryptoerr.ErrEngineState)
	}

	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("%w: no input", cryptoerr.ErrInvalidParameter)
	}

	// CFB decryption still runs the engine's forward transform — see the
	// package doc. This Init(true, ...) is deliberate.
	if err := d.engine.Init(true, d.key); err != nil {
		return nil, fmt.Errorf("%w: decryption failed: %v", cryptoerr.ErrCryptoFailure, err)
	}

	blockSize := d.engine.BlockSize()
	feedback := append([]byte(nil), d.iv...)
	plainText := make([]byte, len(ciphertext))

	stream := make([]byte, blockSize)
	for i := 0; i < len(ciphertext); i += blockSize {
		if err := d.engine.ProcessBlock(feedback, 0, stream, 0); err != nil {
			return nil, fmt.Errorf("%w: decryption failed: %v", cryptoerr.ErrCryptoFailure, err)
		}

		m := blockSize
		if len(ciphertext)-i < m {
			m = len(ciphertext) - i
		}

		for j := 0; j < m; j++ {
			plainText[i+j] = stream[j] ^ ciphertext[i+j]
		}

		copy(feedback[:m], ciphertext[i:i+m])
	}

	return plainText, nil
}
