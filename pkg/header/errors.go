package header

import "errors"

// ErrInvalidHeader covers a bad magic byte or a buffer shorter than the
// header this scheme/salt-strength combination requires.
var ErrInvalidHeader = errors.New("header: invalid header")

// ErrHeaderDecode covers a structurally parseable header with semantically
// invalid content: an unknown scheme id or difficulty code.
var ErrHeaderDecode = errors.New("header: unable to decode header")
