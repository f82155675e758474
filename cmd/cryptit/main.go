// cryptit is the command-line driver for the passphrase-based encryption
// library in pkg/cryptit.
//
// Usage:
//
//	cryptit encrypt [-S scheme] [-p pass] [-d difficulty] [-s salt-strength] [-c chunk-size] [-v] [-o out] <src>
//	cryptit decrypt [-p pass] [-v] [-o out] <src>
//	cryptit encrypt-text [-S scheme] [-p pass] [-d difficulty] [-s salt-strength] [-v] [-o out] [text]
//	cryptit decrypt-text [-p pass] [-v] [-o out] [b64]
//	cryptit decode [src]
//
// Flags go before the positional argument: parsing stops at the first
// non-flag argument, and anything after it is not read as a flag.
// "-" means stdin for a source argument, or stdout for -o. Exit code 0 on
// success, 1 on any failure (invalid header, authentication failure, I/O,
// path traversal rejection).
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pion/logging"

	"github.com/mqxym/cryptit-go/internal/pathsafe"
	"github.com/mqxym/cryptit-go/internal/prompt"
	"github.com/mqxym/cryptit-go/internal/secret"
	"github.com/mqxym/cryptit-go/pkg/bytesource"
	"github.com/mqxym/cryptit-go/pkg/cryptit"
	"github.com/mqxym/cryptit-go/pkg/kdf"
	"github.com/mqxym/cryptit-go/pkg/registry"
)

// defaultStdinMaxBytes caps how much of stdin is read when a source
// argument is "-", overridable via CRYPTIT_STDIN_MAX_BYTES.
const defaultStdinMaxBytes = 10 << 30 // 10 GiB

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd string, rest []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)

	scheme := fs.Int("S", registry.Current, "scheme id (0..7)")
	passFlag := fs.String("p", "", "passphrase")
	difficulty := fs.String("d", "middle", "difficulty (low|middle|high)")
	saltStrength := fs.String("s", "high", "salt strength (low|high)")
	chunkSize := fs.Int("c", registry.DefaultChunkSize, "chunk size in bytes")
	out := fs.String("o", "-", "output path, - for stdout")

	verboseCount := 0
	fs.BoolFunc("v", "increase verbosity (repeatable, max 4)", func(string) error {
		if verboseCount < 4 {
			verboseCount++
		}
		return nil
	})

	if err := fs.Parse(rest); err != nil {
		return err
	}

	lf := loggerFactory(verboseCount)
	f := cryptit.New(cryptit.Config{LoggerFactory: lf})

	switch cmd {
	case "encrypt":
		return runFileOp(fs, f, *scheme, *difficulty, *saltStrength, *chunkSize, *passFlag, *out, f.EncryptFile)
	case "decrypt":
		return runDecryptFileOp(fs, f, *passFlag, *out)
	case "encrypt-text":
		return runEncryptText(fs, f, *scheme, *difficulty, *saltStrength, *passFlag, *out)
	case "decrypt-text":
		return runDecryptText(fs, f, *passFlag, *out)
	case "decode":
		return runDecode(fs, f, *out)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

type encryptFileFn func([]byte, *secret.Bytes, ...cryptit.EncryptOption) ([]byte, error)

func runFileOp(fs *flag.FlagSet, f *cryptit.Facade, scheme int, difficulty, saltStrength string, chunkSize int, passFlag, out string, op encryptFileFn) error {
	src := "-"
	if fs.NArg() > 0 {
		src = fs.Arg(0)
	}

	blob, err := readInput(src)
	if err != nil {
		return err
	}

	opts, err := encryptOptions(scheme, difficulty, saltStrength, chunkSize)
	if err != nil {
		return err
	}

	pass, err := readPassphrase(passFlag)
	if err != nil {
		return err
	}

	result, err := op(blob, pass, opts...)
	if err != nil {
		return err
	}
	return writeOutput(out, result)
}

func runDecryptFileOp(fs *flag.FlagSet, f *cryptit.Facade, passFlag, out string) error {
	src := "-"
	if fs.NArg() > 0 {
		src = fs.Arg(0)
	}

	blob, err := readInput(src)
	if err != nil {
		return err
	}

	pass, err := readPassphrase(passFlag)
	if err != nil {
		return err
	}

	plain, err := f.DecryptFile(blob, pass)
	if err != nil {
		return err
	}
	return writeOutput(out, plain)
}

func runEncryptText(fs *flag.FlagSet, f *cryptit.Facade, scheme int, difficulty, saltStrength, passFlag, out string) error {
	var text string
	if fs.NArg() > 0 {
		text = fs.Arg(0)
	} else {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		text = string(raw)
	}

	opts, err := encryptOptions(scheme, difficulty, saltStrength, 0)
	if err != nil {
		return err
	}

	pass, err := readPassphrase(passFlag)
	if err != nil {
		return err
	}

	ct, err := f.EncryptText([]byte(text), pass, opts...)
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(ct)
	return writeOutput(out, []byte(encoded))
}

func runDecryptText(fs *flag.FlagSet, f *cryptit.Facade, passFlag, out string) error {
	var b64 string
	if fs.NArg() > 0 {
		b64 = fs.Arg(0)
	} else {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		b64 = string(raw)
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("%w: %v", cryptit.ErrDecoding, err)
	}

	pass, err := readPassphrase(passFlag)
	if err != nil {
		return err
	}

	plain, err := f.DecryptText(data, pass)
	if err != nil {
		return err
	}
	return writeOutput(out, plain)
}

func runDecode(fs *flag.FlagSet, f *cryptit.Facade, out string) error {
	src := "-"
	if fs.NArg() > 0 {
		src = fs.Arg(0)
	}

	blob, err := readInput(src)
	if err != nil {
		return err
	}

	hdr, err := f.DecodeHeader(blob)
	if err != nil {
		return err
	}
	data, err := f.DecodeData(blob)
	if err != nil {
		return err
	}

	report := fmt.Sprintf(
		"scheme=%d difficulty=%s salt_strength=%v salt=%s header_len=%d chunked=%v frames=%d payload_bytes=%d\n",
		hdr.Scheme, hdr.Difficulty, hdr.SaltStrength, hdr.SaltBase64, hdr.HeaderLen,
		data.Chunked, data.FrameCount, data.TotalPayloadBytes,
	)
	return writeOutput(out, []byte(report))
}

func encryptOptions(scheme int, difficulty, saltStrength string, chunkSize int) ([]cryptit.EncryptOption, error) {
	diff, err := kdf.ParseDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("invalid difficulty %q: %w", difficulty, err)
	}
	ss, err := parseSaltStrength(saltStrength)
	if err != nil {
		return nil, err
	}

	opts := []cryptit.EncryptOption{
		cryptit.WithScheme(scheme),
		cryptit.WithDifficulty(diff),
		cryptit.WithSaltStrength(ss),
	}
	if chunkSize > 0 {
		opts = append(opts, cryptit.WithChunkSize(chunkSize))
	}
	return opts, nil
}

func parseSaltStrength(s string) (registry.SaltStrength, error) {
	switch s {
	case "low":
		return registry.SaltLow, nil
	case "high":
		return registry.SaltHigh, nil
	default:
		return 0, fmt.Errorf("invalid salt strength %q (want low|high)", s)
	}
}

func readPassphrase(flagValue string) (*secret.Bytes, error) {
	raw, err := prompt.Passphrase(flagValue)
	if err != nil {
		return nil, err
	}
	return secret.New(raw), nil
}

// readInput reads a source argument fully into memory: stdin (size-capped)
// or a named file, the latter read through a bytesource.Source so the CLI
// exercises the same random-access abstraction the façade peeks headers
// through, rather than a bare os.ReadFile.
func readInput(src string) ([]byte, error) {
	if src == "-" {
		limit := int64(defaultStdinMaxBytes)
		if env := os.Getenv("CRYPTIT_STDIN_MAX_BYTES"); env != "" {
			if n, err := strconv.ParseInt(env, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		return io.ReadAll(io.LimitReader(os.Stdin, limit))
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := bytesource.FromFile(f).Reader()
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func writeOutput(out string, data []byte) error {
	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	abs, err := pathsafe.Validate(out)
	if err != nil {
		return fmt.Errorf("%w: %v", cryptit.ErrFilesystem, err)
	}
	return os.WriteFile(abs, data, 0o600)
}

func loggerFactory(verboseCount int) logging.LoggerFactory {
	lf := logging.NewDefaultLoggerFactory()
	switch verboseCount {
	case 0:
		lf.DefaultLogLevel = logging.LogLevelError
	case 1:
		lf.DefaultLogLevel = logging.LogLevelWarn
	case 2:
		lf.DefaultLogLevel = logging.LogLevelInfo
	case 3:
		lf.DefaultLogLevel = logging.LogLevelDebug
	default:
		lf.DefaultLogLevel = logging.LogLevelTrace
	}
	return lf
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags] [args]

Commands:
  encrypt <src>         encrypt a file (- for stdin)
  decrypt <src>         decrypt a file (- for stdin)
  encrypt-text [text]   encrypt text (arg or stdin), emits base64
  decrypt-text [b64]    decrypt base64 text (arg or stdin)
  decode [src]          print header/data structure without decrypting

Flags:
  -S scheme (0..7, default 0)
  -p pass
  -d difficulty (low|middle|high, default middle)
  -s salt-strength (low|high, default high)
  -c chunk-size (positive int, default 524288)
  -v verbose (repeatable, max 4)
  -o out (- for stdout)
`, os.Args[0])
}
