// Package container implements the encrypt-and-MAC façade described by the
// container wire format: a DER SEQUENCE of { version INTEGER, cipherText
// OCTET STRING, hmac OCTET STRING }, produced from AES-256/CFB-128
// encryption and an HMAC-SHA1 tag computed over the plaintext.
//
// The MAC is computed over the plaintext, not the ciphertext. This is an
// inherited property of the format being preserved for compatibility with
// existing containers, not an endorsement: encrypt-then-MAC-over-ciphertext
// would be the cryptographically preferable composition.
package container

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"fmt"

	aes256 "github.com/jkovacic/cryptocontainer"
	"github.com/jkovacic/cryptocontainer/src/cfb"
	"github.com/jkovacic/cryptocontainer/src/consts"
	"github.com/jkovacic/cryptocontainer/src/cryptoerr"
	"github.com/jkovacic/cryptocontainer/src/der"
)

// Container owns a defensive copy of the key, IV and HMAC salt it was
// constructed with. It is not safe for concurrent use: Encode/Decode build
// a fresh AES engine and CFB driver per call, but share the same key/IV/salt
// state.
type Container struct {
	key  []byte
	iv   []byte
	salt []byte
}

// New constructs a Container from explicit key material. key must be
// consts.KEY_SIZE bytes, iv must be consts.IV_SIZE bytes, and salt must be
// at least 1 byte. Defensive copies are taken; the caller's buffers are
// never retained.
func New(key, iv, salt []byte) (*Container, error) {
	if len(key) != consts.KEY_SIZE {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", cryptoerr.ErrInvalidParameter, consts.KEY_SIZE, len(key))
	}
	if len(iv) != consts.IV_SIZE {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", cryptoerr.ErrInvalidParameter, consts.IV_SIZE, len(iv))
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: hmac salt must not be empty", cryptoerr.ErrInvalidParameter)
	}

	return &Container{
		key:  append([]byte(nil), key...),
		iv:   append([]byte(nil), iv...),
		salt: append([]byte(nil), salt...),
	}, nil
}

// NewFromKeyMaterial carves a single buffer into key, iv and salt:
// [0:32) is the key, [32:48) is the iv, [48:) is the salt (which must be at
// least 1 byte, so keyMaterial must be at least 49 bytes). The scratch copy
// used for carving is zeroed before this function returns; keyMaterial
// itself is left untouched and is the caller's responsibility to wipe.
func NewFromKeyMaterial(keyMaterial []byte) (*Container, error) {
	key, iv, salt, err := carveKeyMaterial(keyMaterial)
	if err != nil {
		return nil, err
	}

	return &Container{key: key, iv: iv, salt: salt}, nil
}

// carveKeyMaterial splits buf into defensive copies of key, iv and salt,
// then zeroes the scratch slice it worked from.
func carveKeyMaterial(buf []byte) (key, iv, salt []byte, err error) {
	if len(buf) < consts.KEY_SIZE+consts.IV_SIZE+1 {
		return nil, nil, nil, fmt.Errorf(
			"%w: key material must be at least %d bytes, got %d",
			cryptoerr.ErrInvalidParameter, consts.KEY_SIZE+consts.IV_SIZE+1, len(buf),
		)
	}

	scratch := append([]byte(nil), buf...)
	defer zero(scratch)

	key = append([]byte(nil), scratch[:consts.KEY_SIZE]...)
	iv = append([]byte(nil), scratch[consts.KEY_SIZE:consts.KEY_SIZE+consts.IV_SIZE]...)
	salt = append([]byte(nil), scratch[consts.KEY_SIZE+consts.IV_SIZE:]...)

	return key, iv, salt, nil
}

// Encode encrypts plaintext with AES-256/CFB-128 under the container's key
// and IV, computes an HMAC-SHA1 tag over plaintext (not ciphertext) keyed
// by the container's salt, and DER-encodes the result as
// SEQUENCE { INTEGER 0, OCTET STRING ciphertext, OCTET STRING tag }.
func (c *Container) Encode(plaintext []byte) ([]byte, error) {
	driver, err := cfb.New(aes256.NewEngine(), c.key, c.iv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoerr.ErrCryptoFailure, err)
	}

	cipherText, err := driver.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	tag := c.computeTag(plaintext)

	enc := der.NewEncoder()
	enc.AppendInt(consts.CONTAINER_VERSION)
	enc.AppendOctetStream(cipherText)
	enc.AppendOctetStream(tag)

	return enc.Encode(), nil
}

// Decode parses blob as a container, verifies its version and HMAC tag, and
// returns the recovered plaintext. No partial output is returned on any
// failure.
func (c *Container) Decode(blob []byte) ([]byte, error) {
	dec := der.NewDecoder(blob)

	seq, err := dec.ParseSequence()
	if err != nil {
		return nil, err
	}
	if seq.Start+seq.Length != len(blob) {
		return nil, fmt.Errorf("%w: trailing bytes after outer SEQUENCE", cryptoerr.ErrMalformedDER)
	}

	verRange, err := dec.ParseInteger()
	if err != nil {
		return nil, err
	}
	version, err := dec.ToInt(verRange)
	if err != nil {
		return nil, err
	}
	if version != consts.CONTAINER_VERSION {
		return nil, fmt.Errorf("%w: unsupported container version %d", cryptoerr.ErrMalformedDER, version)
	}

	cipherRange, err := dec.ParseOctetString()
	if err != nil {
		return nil, err
	}

	tagRange, err := dec.ParseOctetString()
	if err != nil {
		return nil, err
	}

	if dec.Pos() != seq.Start+seq.Length {
		return nil, fmt.Errorf("%w: trailing bytes inside SEQUENCE body", cryptoerr.ErrMalformedDER)
	}

	cipherText := dec.ToByteArray(cipherRange)
	storedTag := dec.ToByteArray(tagRange)

	driver, err := cfb.New(aes256.NewEngine(), c.key, c.iv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoerr.ErrCryptoFailure, err)
	}

	plaintext, err := driver.Decrypt(cipherText)
	if err != nil {
		return nil, err
	}

	computedTag := c.computeTag(plaintext)
	if subtle.ConstantTimeCompare(storedTag, computedTag) != 1 {
		return nil, fmt.Errorf("%w: stored HMAC does not match computed HMAC", cryptoerr.ErrIntegrityFailure)
	}

	return plaintext, nil
}

// computeTag runs a freshly-keyed HMAC-SHA1 over data. A new hash.Hash is
// constructed per call rather than reused across Encode/Decode, which is
// the concrete realization of "reset HMAC" before each tag computation.
func (c *Container) computeTag(data []byte) []byte {
	h := hmac.New(sha1.New, c.salt)
	h.Write(data)
	return h.Sum(nil)
}

// Destroy overwrites the container's key and IV copies with zero bytes.
func (c *Container) Destroy() {
	zero(c.key)
	zero(c.iv)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0x00
	}
}
