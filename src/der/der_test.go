package der_test

import (
	"testing"

	"github.com/jkovacic/cryptocontainer/src/cryptoerr"
	"github.com/jkovacic/cryptocontainer/src/der"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendIntEdgeCases(t *testing.T) {
	tests := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x02, 0x01, 0x00}},
		{-1, []byte{0x02, 0x01, 0xFF}},
		{127, []byte{0x02, 0x01, 0x7F}},
		{128, []byte{0x02, 0x02, 0x00, 0x80}},
		{-128, []byte{0x02, 0x01, 0x80}},
		{256, []byte{0x02, 0x02, 0x01, 0x00}},
	}

	for _, tc := range tests {
		e := der.NewEncoder()
		e.AppendInt(tc.v)
		encoded := e.Encode()

		// encoded is SEQUENCE { INTEGER v }; strip the outer SEQUENCE
		// header (tag 0x30, one length byte since the body is short)
		// to compare against the bare INTEGER TLV.
		require.True(t, len(encoded) >= 2)
		got := encoded[2:]
		assert.Equal(t, tc.want, got, "AppendInt(%d)", tc.v)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := der.NewEncoder()
	e.AppendInt(0)
	e.AppendOctetStream([]byte("ciphertext-bytes"))
	e.AppendOctetStream([]byte{0x01, 0x02, 0x03, 0x04})
	blob := e.Encode()

	d := der.NewDecoder(blob)

	seq, err := d.ParseSequence()
	require.NoError(t, err)
	assert.Equal(t, 2, seq.Start)

	verRange, err := d.ParseInteger()
	require.NoError(t, err)
	ver, err := d.ToInt(verRange)
	require.NoError(t, err)
	assert.Equal(t, int32(0), ver)

	octRange, err := d.ParseOctetString()
	require.NoError(t, err)
	assert.Equal(t, []byte("ciphertext-bytes"), d.ToByteArray(octRange))

	octRange2, err := d.ParseOctetString()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, d.ToByteArray(octRange2))

	assert.False(t, d.MoreData())
}

func TestAppendOctetStreamNilIsNoOp(t *testing.T) {
	e := der.NewEncoder()
	e.AppendOctetStream(nil)
	e.AppendInt(5)
	blob := e.Encode()

	d := der.NewDecoder(blob)
	_, err := d.ParseSequence()
	require.NoError(t, err)

	r, err := d.ParseInteger()
	require.NoError(t, err)
	assert.False(t, d.MoreData())

	v, err := d.ToInt(r)
	require.NoError(t, err)
	assert.Equal(t, int32(5), v)
}

func TestParseWrongTagIsMalformed(t *testing.T) {
	blob := []byte{0x04, 0x01, 0x00} // OCTET STRING where a SEQUENCE is expected
	d := der.NewDecoder(blob)
	_, err := d.ParseSequence()
	assert.ErrorIs(t, err, cryptoerr.ErrMalformedDER)
}

func TestParseTruncatedLengthIsMalformed(t *testing.T) {
	blob := []byte{0x30, 0x85} // long-form length claims 5 bytes follow, none present
	d := der.NewDecoder(blob)
	_, err := d.ParseSequence()
	assert.ErrorIs(t, err, cryptoerr.ErrMalformedDER)
}

func TestParseLengthOverrunIsMalformed(t *testing.T) {
	blob := []byte{0x30, 0x7F, 0x00} // claims 127 bytes of body, only 1 present
	d := der.NewDecoder(blob)
	_, err := d.ParseSequence()
	assert.ErrorIs(t, err, cryptoerr.ErrMalformedDER)
}

func TestToIntRejectsOversizedPayload(t *testing.T) {
	e := der.NewEncoder()
	e.AppendOctetStream([]byte{0x01, 0x02, 0x03, 0x04, 0x05}) // 5 bytes, not an int, used to build a fake oversized range
	blob := e.Encode()

	d := der.NewDecoder(blob)
	_, err := d.ParseSequence()
	require.NoError(t, err)

	r, err := d.ParseOctetString()
	require.NoError(t, err)

	_, err = d.ToInt(r)
	assert.ErrorIs(t, err, cryptoerr.ErrMalformedDER)
}

func TestLongFormLength(t *testing.T) {
	payload := make([]byte, 200)
	for i := range payload {
		payload[i] = byte(i)
	}

	e := der.NewEncoder()
	e.AppendOctetStream(payload)
	blob := e.Encode()

	// Outer SEQUENCE body is 203 bytes (1 tag + 2 length + 200 payload for
	// the inner OCTET STRING), also requiring long-form length.
	// blob: 0x30 0x81 0xCB 0x04 0x81 0xC8 <200 bytes>
	assert.Equal(t, byte(0x30), blob[0])
	assert.Equal(t, byte(0x81), blob[1])
	assert.Equal(t, byte(0xCB), blob[2])
	assert.Equal(t, byte(0x04), blob[3])
	assert.Equal(t, byte(0x81), blob[4])
	assert.Equal(t, byte(0xC8), blob[5])

	d := der.NewDecoder(blob)
	_, err := d.ParseSequence()
	require.NoError(t, err)
	r, err := d.ParseOctetString()
	require.NoError(t, err)
	assert.Equal(t, payload, d.ToByteArray(r))
}
