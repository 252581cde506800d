package common

import (
	"bufio"
	"encoding/hex"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// DigestPrefix starts the line that records the input digest in generated files.
const DigestPrefix = "// cpp2d:digest "

// digestScanLines bounds how far into a file ReadDigest looks.
const digestScanLines = 16

// Digest fingerprints the translator input together with every option that
// changes the output.
func Digest(input []byte, options ...string) string {
	h, _ := blake2b.New256(nil) // only errors for oversized keys
	_, _ = h.Write(input)
	for _, o := range options {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(o))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ReadDigest extracts the digest recorded near the top of a generated file.
func ReadDigest(r io.Reader) (string, bool, error) {
	sc := bufio.NewScanner(r)
	for i := 0; i < digestScanLines && sc.Scan(); i++ {
		if line := sc.Text(); strings.HasPrefix(line, DigestPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, DigestPrefix)), true, nil
		}
	}
	return "", false, sc.Err()
}
