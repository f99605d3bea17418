// Package der implements a minimal DER (Distinguished Encoding Rules)
// codec for a single ASN.1 profile: a SEQUENCE containing only INTEGER and
// OCTET STRING elements. It exists because the container format needs a
// tiny, auditable, dependency-free wire codec — encoding/asn1 is correct
// but general-purpose; re-deriving the length-of-length rule by hand is
// the point of this package, not a gap to be filled by the standard
// library.
package der

import (
	"fmt"

	"github.com/jkovacic/cryptocontainer/src/consts"
	"github.com/jkovacic/cryptocontainer/src/cryptoerr"
)

// item is one appended (tag, payload) pair, encoded in append order.
type item struct {
	tag     byte
	payload []byte
}

// Encoder accumulates SEQUENCE elements in the order they were appended.
type Encoder struct {
	items []item
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// AppendOctetStream appends an OCTET STRING item holding a copy of b. A nil
// b is silently ignored — this tolerance is part of the wire format's
// documented behavior, not an oversight.
func (e *Encoder) AppendOctetStream(b []byte) {
	if b == nil {
		return
	}
	e.items = append(e.items, item{tag: consts.DER_TAG_OCTET_STRING, payload: append([]byte(nil), b...)})
}

// AppendInt appends an INTEGER item holding the minimal two's-complement
// big-endian encoding of v.
func (e *Encoder) AppendInt(v int32) {
	e.items = append(e.items, item{tag: consts.DER_TAG_INTEGER, payload: encodeInt(v)})
}

// Encode produces a DER SEQUENCE containing every appended item in order.
func (e *Encoder) Encode() []byte {
	var body []byte
	for _, it := range e.items {
		body = append(body, it.tag)
		body = append(body, encodeLength(len(it.payload))...)
		body = append(body, it.payload...)
	}

	out := []byte{consts.DER_TAG_SEQUENCE}
	out = append(out, encodeLength(len(body))...)
	out = append(out, body...)
	return out
}

// encodeInt returns the shortest two's-complement big-endian encoding of v,
// with at most one sign-preserving pad byte prepended.
func encodeInt(v int32) []byte {
	if v == 0 {
		return []byte{0x00}
	}
	if v == -1 {
		return []byte{0xFF}
	}

	full := []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}

	i := 0
	if v > 0 {
		for i < 3 && full[i] == 0x00 && full[i+1]&0x80 == 0 {
			i++
		}
	} else {
		for i < 3 && full[i] == 0xFF && full[i+1]&0x80 != 0 {
			i++
		}
	}

	return full[i:]
}

// encodeLength returns n encoded per the DER length rule: a single byte for
// n <= 127, otherwise a leading 0x80|k byte followed by n in k big-endian
// bytes, where k is minimal.
func encodeLength(n int) []byte {
	if n <= 127 {
		return []byte{byte(n)}
	}

	var lb []byte
	for tmp := n; tmp > 0; tmp >>= 8 {
		lb = append([]byte{byte(tmp)}, lb...)
	}

	return append([]byte{0x80 | byte(len(lb))}, lb...)
}

// Range describes where a parsed payload lies within the decoder's blob.
type Range struct {
	Start  int
	Length int
}

// Decoder parses a DER blob with a cursor that only ever advances.
type Decoder struct {
	blob []byte
	pos  int
}

// NewDecoder returns a decoder over blob with the cursor at 0.
func NewDecoder(blob []byte) *Decoder {
	return &Decoder{blob: blob}
}

// readTagLength reads one tag+length header at the cursor, verifies the tag
// matches expectedTag, and returns the payload's (start, length) without
// moving the cursor past the payload.
func (d *Decoder) readTagLength(expectedTag byte) (int, int, error) {
	if d.pos >= len(d.blob) {
		return 0, 0, fmt.Errorf("%w: truncated tag", cryptoerr.ErrMalformedDER)
	}

	tag := d.blob[d.pos]
	if tag != expectedTag {
		return 0, 0, fmt.Errorf("%w: expected tag 0x%02x, got 0x%02x", cryptoerr.ErrMalformedDER, expectedTag, tag)
	}
	d.pos++

	length, err := d.readLength()
	if err != nil {
		return 0, 0, err
	}

	start := d.pos
	if start+length > len(d.blob) {
		return 0, 0, fmt.Errorf("%w: length %d overruns blob", cryptoerr.ErrMalformedDER, length)
	}

	return start, length, nil
}

// readLength decodes a DER length field at the cursor and advances past it.
func (d *Decoder) readLength() (int, error) {
	if d.pos >= len(d.blob) {
		return 0, fmt.Errorf("%w: truncated length", cryptoerr.ErrMalformedDER)
	}

	b := d.blob[d.pos]
	d.pos++

	if b&0x80 == 0 {
		return int(b), nil
	}

	k := int(b & 0x7f)
	if k == 0 || k > 4 {
		return 0, fmt.Errorf("%w: unsupported length-of-length %d", cryptoerr.ErrMalformedDER, k)
	}
	if d.pos+k > len(d.blob) {
		return 0, fmt.Errorf("%w: truncated long-form length", cryptoerr.ErrMalformedDER)
	}

	length := 0
	for i := 0; i < k; i++ {
		length = length<<8 | int(d.blob[d.pos])
		d.pos++
	}

	return length, nil
}

// ParseSequence expects tag 0x30 at the cursor and advances the cursor to
// the start of the SEQUENCE body, so subsequent parses read its elements.
func (d *Decoder) ParseSequence() (Range, error) {
	start, length, err := d.readTagLength(consts.DER_TAG_SEQUENCE)
	if err != nil {
		return Range{}, err
	}

	d.pos = start
	return Range{Start: start, Length: length}, nil
}

// ParseInteger expects tag 0x02 and advances the cursor past the payload.
func (d *Decoder) ParseInteger() (Range, error) {
	start, length, err := d.readTagLength(consts.DER_TAG_INTEGER)
	if err != nil {
		return Range{}, err
	}

	d.pos = start + length
	return Range{Start: start, Length: length}, nil
}

// ParseOctetString expects tag 0x04 and advances the cursor past the
// payload.
func (d *Decoder) ParseOctetString() (Range, error) {
	start, length, err := d.readTagLength(consts.DER_TAG_OCTET_STRING)
	if err != nil {
		return Range{}, err
	}

	d.pos = start + length
	return Range{Start: start, Length: length}, nil
}

// ToInt interprets r as two's-complement big-endian and returns a signed
// integer. The profile only permits INTEGER payloads up to 4 bytes.
func (d *Decoder) ToInt(r Range) (int32, error) {
	if r.Length == 0 || r.Length > 4 {
		return 0, fmt.Errorf("%w: integer payload of %d bytes exceeds profile", cryptoerr.ErrMalformedDER, r.Length)
	}

	b := d.blob[r.Start : r.Start+r.Length]

	var v int32
	if b[0]&0x80 != 0 {
		v = -1
	}
	for _, by := range b {
		v = v<<8 | int32(by)
	}

	return v, nil
}

// ToByteArray returns a copy of the bytes described by r.
func (d *Decoder) ToByteArray(r Range) []byte {
	return append([]byte(nil), d.blob[r.Start:r.Start+r.Length]...)
}

// Pos returns the cursor's current position.
func (d *Decoder) Pos() int {
	return d.pos
}

// MoreData reports whether the cursor is strictly before the end of the
// blob.
func (d *Decoder) MoreData() bool {
	return d.MoreDataAt(d.pos)
}

// MoreDataAt reports whether pos is strictly before the end of the blob.
func (d *Decoder) MoreDataAt(pos int) bool {
	return pos < len(d.blob)
}
