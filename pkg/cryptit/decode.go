package cryptit

import (
	"encoding/base64"

	"github.com/mqxym/cryptit-go/pkg/frame"
	"github.com/mqxym/cryptit-go/pkg/header"
	"github.com/mqxym/cryptit-go/pkg/kdf"
	"github.com/mqxym/cryptit-go/pkg/registry"
)

// HeaderInfo is the inspectable form of a container header, returned by
// DecodeHeader without deriving any key or touching ciphertext.
type HeaderInfo struct {
	Scheme       int
	Difficulty   kdf.Difficulty
	SaltStrength registry.SaltStrength
	SaltBase64   string
	SaltBytes    []byte
	SaltLength   int
	HeaderLen    int
}

// DataInfo is the result of DecodeData: a structural read of the
// remainder of a container after its header, without decrypting anything.
type DataInfo struct {
	Scheme    int
	HeaderLen int

	// Chunked is true for a file/stream container (one-or-more
	// LEN‖IV‖ciphertext‖tag frames), false for a single-block text
	// container (IV‖ciphertext‖tag).
	Chunked bool

	// Populated when Chunked is true.
	FrameCount        int
	TotalPayloadBytes int64

	// Populated when Chunked is false.
	IV         []byte
	Ciphertext []byte
	Tag        []byte
}

// IsEncrypted reports whether input begins with a structurally valid
// header (magic byte, known scheme, enough bytes for that scheme's salt).
// It never derives a key or inspects ciphertext.
func (f *Facade) IsEncrypted(input []byte) bool {
	_, err := header.Decode(input, f.registry, nil)
	return err == nil
}

// DecodeHeader parses input's header and returns its fields, without
// deriving a key or touching any ciphertext.
func (f *Facade) DecodeHeader(input []byte) (HeaderInfo, error) {
	h, err := header.Decode(input, f.registry, nil)
	if err != nil {
		return HeaderInfo{}, wrapHeader(err)
	}
	return HeaderInfo{
		Scheme:       h.Scheme,
		Difficulty:   h.Difficulty,
		SaltStrength: h.SaltStrength,
		SaltBase64:   base64.StdEncoding.EncodeToString(h.Salt),
		SaltBytes:    h.Salt,
		SaltLength:   len(h.Salt),
		HeaderLen:    h.HeaderLen,
	}, nil
}

// minChunkedFrameLen is the smallest declared frame length spec.md §4.10
// accepts as evidence of a chunked (file/stream) container rather than a
// single-block text container when disambiguating in DecodeData.
const minChunkedFrameLen = 28

// DecodeData inspects (but never decrypts) the bytes following input's
// header: if the first 4-byte length prefix declares a frame that both
// fits within the remaining bytes and is at least 28 bytes long, the
// remainder is treated as one-or-more framed chunks and counted; otherwise
// it is treated as a single IV‖ciphertext‖tag text container.
func (f *Facade) DecodeData(input []byte) (DataInfo, error) {
	h, err := header.Decode(input, f.registry, nil)
	if err != nil {
		return DataInfo{}, wrapHeader(err)
	}

	rest := input[h.HeaderLen:]
	ivLen, tagLen := f.cipherLengths(h.Scheme)

	info := DataInfo{Scheme: h.Scheme, HeaderLen: h.HeaderLen}

	if len(rest) >= frame.LenPrefixSize {
		declared, _ := frame.DecodeLen(rest, 0)
		if int(declared)+frame.LenPrefixSize <= len(rest) && declared >= minChunkedFrameLen {
			info.Chunked = true
			info.FrameCount, info.TotalPayloadBytes = countFrames(rest, ivLen, tagLen)
			return info, nil
		}
	}

	if len(rest) < ivLen+tagLen {
		return DataInfo{}, wrapHeader(header.ErrInvalidHeader)
	}
	info.IV = rest[:ivLen]
	info.Ciphertext = rest[ivLen : len(rest)-tagLen]
	info.Tag = rest[len(rest)-tagLen:]
	return info, nil
}

func countFrames(rest []byte, ivLen, tagLen int) (count int, totalPayload int64) {
	offset := 0
	for offset+frame.LenPrefixSize <= len(rest) {
		declared, err := frame.DecodeLen(rest, offset)
		if err != nil {
			break
		}
		frameLen := frame.LenPrefixSize + int(declared)
		if offset+frameLen > len(rest) {
			break
		}
		payload := int64(declared) - int64(ivLen) - int64(tagLen)
		if payload > 0 {
			totalPayload += payload
		}
		count++
		offset += frameLen
	}
	return count, totalPayload
}

// cipherLengths returns the IV/nonce and tag lengths a scheme's cipher
// uses, by constructing a throwaway, unkeyed instance via the registry's
// constructor. Neither length depends on key material or provider state.
func (f *Facade) cipherLengths(scheme int) (ivLen, tagLen int) {
	desc, err := f.registry.Get(scheme)
	if err != nil {
		return 0, 0
	}
	c := desc.CipherCtor(f.provider)
	return c.IVLength(), c.TagLength()
}
