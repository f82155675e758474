package aead

// PaddingPolicy controls whether the length-hiding padding trailer is
// required, forbidden, or auto-detected for a given chunk.
type PaddingPolicy int

const (
	// Auto resolves to Require if a padding scheme is configured on the
	// cipher, Forbid otherwise.
	Auto PaddingPolicy = iota
	Require
	Forbid
)

func (p PaddingPolicy) String() string {
	switch p {
	case Auto:
		return "auto"
	case Require:
		return "require"
	case Forbid:
		return "forbid"
	default:
		return "unknown"
	}
}

// LegacyFallback configures the retry-with-reduced-AAD path used to read
// ciphertexts produced before the padding-policy AAD was introduced.
// Defaults mirror spec.md: {Enabled: true, Policy: Auto, TryEmptyAAD: false}.
type LegacyFallback struct {
	Enabled     bool
	Policy      PaddingPolicy
	TryEmptyAAD bool
}

// DefaultLegacyFallback returns the documented default configuration.
func DefaultLegacyFallback() LegacyFallback {
	return LegacyFallback{Enabled: true, Policy: Auto, TryEmptyAAD: false}
}

// padAADPrefix and padAADVersion are the fixed leading bytes of the 8-byte
// PAD AAD fragment: "PAD1" || VER(0x01).
var padAADPrefix = [4]byte{'P', 'A', 'D', '1'}

const padAADVersion byte = 0x01

// buildPadAAD renders the 8-byte PAD AAD fragment for an effective
// (already-resolved, never Auto) policy and alignment value.
func buildPadAAD(effective PaddingPolicy, align int) []byte {
	var modeByte byte
	if effective == Forbid {
		modeByte = 1
	}
	out := make([]byte, 0, 8)
	out = append(out, padAADPrefix[:]...)
	out = append(out, padAADVersion, modeByte, byte(align))
	return out
}
