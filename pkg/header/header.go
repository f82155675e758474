// Package header encodes and decodes the 2-byte-plus-salt container header
// and, when given a cipher, binds the raw header bytes as that cipher's
// AAD — the mechanism that cryptographically ties the scheme/difficulty/
// salt-strength metadata byte to every AEAD call made under the resulting
// key (spec.md §4.5).
package header

import (
	"github.com/mqxym/cryptit-go/pkg/aead"
	"github.com/mqxym/cryptit-go/pkg/kdf"
	"github.com/mqxym/cryptit-go/pkg/registry"
)

// StartByte is the format-magic first byte of every container.
const StartByte = 0x01

// Header is the decoded form of a container's fixed-size prefix.
type Header struct {
	Scheme       int
	Difficulty   kdf.Difficulty
	SaltStrength registry.SaltStrength
	Salt         []byte
	HeaderLen    int
}

func difficultyCode(d kdf.Difficulty) (byte, error) {
	switch d {
	case kdf.Low:
		return 0, nil
	case kdf.Middle:
		return 1, nil
	case kdf.High:
		return 2, nil
	default:
		return 0, ErrHeaderDecode
	}
}

func codeToDifficulty(code byte) (kdf.Difficulty, error) {
	switch code {
	case 0:
		return kdf.Low, nil
	case 1:
		return kdf.Middle, nil
	case 2:
		return kdf.High, nil
	default:
		return 0, ErrHeaderDecode
	}
}

// Encode packs scheme, difficulty, saltStrength and salt into a header:
// byte[0]=StartByte, byte[1]=info, bytes[2:]=salt. If cipher is non-nil,
// the raw header bytes are installed as its AAD.
func Encode(scheme int, difficulty kdf.Difficulty, saltStrength registry.SaltStrength, salt []byte, cipher aead.Cipher) ([]byte, error) {
	if scheme < 0 || scheme > 7 {
		return nil, ErrHeaderDecode
	}
	code, err := difficultyCode(difficulty)
	if err != nil {
		return nil, err
	}

	var saltBit byte
	if saltStrength == registry.SaltHigh {
		saltBit = 1
	}

	info := byte(scheme<<5) | (saltBit << 2) | code

	out := make([]byte, 0, 2+len(salt))
	out = append(out, StartByte, info)
	out = append(out, salt...)

	if cipher != nil {
		cipher.SetAAD(out)
	}

	return out, nil
}

// Decode parses a header from the front of data. reg resolves the scheme id
// to its salt-length table, which is the only way to know where the header
// ends. If cipher is non-nil, the raw header bytes (exactly HeaderLen of
// them) are installed as its AAD — used for the streaming decode path,
// where the cipher is only resolved once the scheme id is known.
func Decode(data []byte, reg *registry.Registry, cipher aead.Cipher) (Header, error) {
	if len(data) < 2 {
		return Header{}, ErrInvalidHeader
	}
	if data[0] != StartByte {
		return Header{}, ErrInvalidHeader
	}

	info := data[1]
	scheme := int(info >> 5)
	saltBit := (info >> 2) & 1
	diffCode := info & 0x3

	desc, err := reg.Get(scheme)
	if err != nil {
		return Header{}, ErrHeaderDecode
	}

	ss := registry.SaltLow
	if saltBit == 1 {
		ss = registry.SaltHigh
	}
	saltLen, err := desc.SaltLength(ss)
	if err != nil {
		return Header{}, ErrHeaderDecode
	}

	headerLen := 2 + saltLen
	if len(data) < headerLen {
		return Header{}, ErrInvalidHeader
	}

	difficulty, err := codeToDifficulty(diffCode)
	if err != nil {
		return Header{}, ErrHeaderDecode
	}

	salt := make([]byte, saltLen)
	copy(salt, data[2:headerLen])

	if cipher != nil {
		cipher.SetAAD(data[:headerLen])
	}

	return Header{
		Scheme:       scheme,
		Difficulty:   difficulty,
		SaltStrength: ss,
		Salt:         salt,
		HeaderLen:    headerLen,
	}, nil
}

// PeekHeaderLen returns the header length implied by the first two bytes of
// data without fully decoding it, or an error if data is too short or the
// scheme id is unknown. Used by the streaming header auto-detect state
// machine to know how many bytes to accumulate before calling Decode.
func PeekHeaderLen(data []byte, reg *registry.Registry) (int, error) {
	if len(data) < 2 {
		return 0, ErrInvalidHeader
	}
	if data[0] != StartByte {
		return 0, ErrInvalidHeader
	}
	info := data[1]
	scheme := int(info >> 5)
	saltBit := (info >> 2) & 1

	desc, err := reg.Get(scheme)
	if err != nil {
		return 0, ErrHeaderDecode
	}
	ss := registry.SaltLow
	if saltBit == 1 {
		ss = registry.SaltHigh
	}
	saltLen, err := desc.SaltLength(ss)
	if err != nil {
		return 0, ErrHeaderDecode
	}
	return 2 + saltLen, nil
}
