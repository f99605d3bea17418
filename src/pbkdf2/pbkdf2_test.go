package pbkdf2_test

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/jkovacic/cryptocontainer/src/cryptoerr"
	"github.com/jkovacic/cryptocontainer/src/pbkdf2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 6070 vectors 1, 3 and 5.
func TestDeriveKeyRFC6070(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		salt       string
		iterations int
		dkLen      int
		want       string
	}{
		{
			name:       "vector1",
			passphrase: "password",
			salt:       "salt",
			iterations: 1,
			dkLen:      20,
			want:       "0c60c80f961f0e71f3a9b524af6012062fe037a6",
		},
		{
			name:       "vector3",
			passphrase: "password",
			salt:       "salt",
			iterations: 4096,
			dkLen:      20,
			want:       "4b007901b765489abead49d926f721d065a429c1",
		},
		{
			name:       "vector5",
			passphrase: "passwordPASSWORDpassword",
			salt:       "saltSALTsaltSALTsaltSALTsaltSALTsalt",
			iterations: 4096,
			dkLen:      25,
			want:       "3d2eec4fe41c849b80c8d83662c0e44a8b291a964cf2f07038",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := pbkdf2.Params{
				NewHash:    sha1.New,
				Salt:       []byte(tc.salt),
				Iterations: tc.iterations,
			}

			got, err := params.DeriveKey([]byte(tc.passphrase), tc.dkLen)
			require.NoError(t, err)
			assert.Equal(t, tc.want, hex.EncodeToString(got))
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := pbkdf2.DefaultParams()
	assert.Equal(t, 10000, p.Iterations)
	assert.Equal(t, "79c05b84b7a89e1078dc3505bd346b23", hex.EncodeToString(p.Salt))

	dk, err := p.DeriveKey([]byte("a passphrase"), 32)
	require.NoError(t, err)
	assert.Len(t, dk, 32)
}

func TestDeriveKeyRejectsBadParameters(t *testing.T) {
	valid := pbkdf2.Params{NewHash: sha1.New, Salt: []byte("salt"), Iterations: 1}

	_, err := valid.DeriveKey(nil, 20)
	assert.ErrorIs(t, err, cryptoerr.ErrInvalidParameter)

	_, err = valid.DeriveKey([]byte(""), 20)
	assert.ErrorIs(t, err, cryptoerr.ErrInvalidParameter)

	_, err = valid.DeriveKey([]byte("password"), 0)
	assert.ErrorIs(t, err, cryptoerr.ErrInvalidParameter)

	zeroIter := pbkdf2.Params{NewHash: sha1.New, Salt: []byte("salt"), Iterations: 0}
	_, err = zeroIter.DeriveKey([]byte("password"), 20)
	assert.ErrorIs(t, err, cryptoerr.ErrInvalidParameter)

	noSalt := pbkdf2.Params{NewHash: sha1.New, Salt: nil, Iterations: 1}
	_, err = noSalt.DeriveKey([]byte("password"), 20)
	assert.ErrorIs(t, err, cryptoerr.ErrInvalidParameter)
}
