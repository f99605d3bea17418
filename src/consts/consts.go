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

// Package consts defines constant values shared by the AES engine, the CFB
// driver, the DER codec and the container façade.
package consts

const (
	// Size of the AES block.
	BLOCK_SIZE = 16

	// Size of the AES key in the 256 bit variant.
	KEY_SIZE = 32

	// Size of the key segments used in key expansion.
	WORD_SIZE = 4

	// Number of words in the key.
	NK = 8

	// Number of AES rounds.
	NR = 14

	// Number of words in key expansion block.
	NB = 4

	// Number of derived keys needed.
	ROUND_KEYS = NR + 1

	// Total size of the expanded key.
	EXP_KEY_SIZE = BLOCK_SIZE * ROUND_KEYS

	// Size of the initializing vector, equal to the block size for CFB-128.
	IV_SIZE = 16
)

const (
	// HMAC-SHA1 digest size, the fixed tag length of the container format.
	HMAC_SHA1_SIZE = 20

	// Recommended minimum salt size for container key material, per the
	// container wire format defaults.
	RECOMMENDED_SALT_SIZE = 24

	// Default PBKDF2 iteration count, the same count pbkdf2.DefaultParams
	// uses.
	DEFAULT_PBKDF2_ITERATIONS = 10000
)

// DER tag bytes for the small ASN.1 profile (SEQUENCE of INTEGER and
// OCTET STRING) implemented by src/der.
const (
	DER_TAG_INTEGER      byte = 0x02
	DER_TAG_OCTET_STRING byte = 0x04
	DER_TAG_SEQUENCE     byte = 0x30
)

// Container version. Only version 0 is defined; anything else is a
// malformed-DER failure at decode time.
const CONTAINER_VERSION = 0
