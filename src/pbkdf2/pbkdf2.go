// Package pbkdf2 implements PBKDF2 (PKCS #5 v2.0, RFC 2898) over a generic
// HMAC-based pseudo-random function. It exists as a from-scratch
// implementation rather than a call to golang.org/x/crypto/pbkdf2 because
// PBKDF2 is one of the four subsystems this repository exists to own; the
// HMAC primitive itself (crypto/hmac, parameterized by a hash constructor)
// is the accepted external collaborator.
package pbkdf2

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/jkovacic/cryptocontainer/src/cryptoerr"
)

// defaultSaltBytes is the MD5 digest of the literal string
// "com.jkovacic.cryptoutil.Pbkdf2", preserved bit-for-bit for compatibility
// with containers produced by prior versions of this format.
var defaultSaltBytes = []byte{
	0x79, 0xC0, 0x5B, 0x84, 0xB7, 0xA8, 0x9E, 0x10,
	0x78, 0xDC, 0x35, 0x05, 0xBD, 0x34, 0x6B, 0x23,
}

// Params bundles the PBKDF2 configuration: the HMAC hash constructor, the
// salt, and the iteration count. Params may be reconfigured between
// DeriveKey calls on the same value.
type Params struct {
	NewHash    func() hash.Hash
	Salt       []byte
	Iterations int
}

// DefaultParams returns the container format's documented defaults:
// HMAC-SHA1, 10000 iterations, and the fixed 16 byte salt derived from the
// format's own identifying string. These must stay bit-for-bit stable —
// changing them breaks compatibility with previously encoded containers.
func DefaultParams() Params {
	return Params{
		NewHash:    sha1.New,
		Salt:       append([]byte(nil), defaultSaltBytes...),
		Iterations: 10000,
	}
}

// DeriveKey derives a dkLen-byte key from passphrase using p. It rejects a
// nil/empty passphrase, a non-positive iteration count, an empty salt, and
// a non-positive dkLen with cryptoerr.ErrInvalidParameter, mirroring the
// source's documented null-tolerant failure behavior for bad parameters.
func (p Params) DeriveKey(passphrase []byte, dkLen int) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: passphrase must not be empty", cryptoerr.ErrInvalidParameter)
	}
	if len(p.Salt) == 0 {
		return nil, fmt.Errorf("%w: salt must not be empty", cryptoerr.ErrInvalidParameter)
	}
	if p.Iterations <= 0 {
		return nil, fmt.Errorf("%w: iteration count must be positive", cryptoerr.ErrInvalidParameter)
	}
	if dkLen <= 0 {
		return nil, fmt.Errorf("%w: derived key length must be positive", cryptoerr.ErrInvalidParameter)
	}
	if p.NewHash == nil {
		return nil, fmt.Errorf("%w: no HMAC hash constructor configured", cryptoerr.ErrInvalidParameter)
	}

	prf := hmac.New(p.NewHash, passphrase)
	hLen := prf.Size()

	numBlocks := (dkLen + hLen - 1) / hLen
	dk := make([]byte, 0, numBlocks*hLen)

	indexBuf := make([]byte, 4)
	for i := 1; i <= numBlocks; i++ {
		binary.BigEndian.PutUint32(indexBuf, uint32(i))

		prf.Reset()
		prf.Write(p.Salt)
		prf.Write(indexBuf)
		u := prf.Sum(nil)

		t := append([]byte(nil), u...)
		for j := 2; j <= p.Iterations; j++ {
			prf.Reset()
			prf.Write(u)
			u = prf.Sum(nil)

			for k := range t {
				t[k] ^= u[k]
			}
		}

		dk = append(dk, t...)
	}

	return dk[:dkLen], nil
}
