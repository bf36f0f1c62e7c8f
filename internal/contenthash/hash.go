// Package contenthash computes the content digest that permalinks and change
// detection are derived from.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"github.com/inful/mdfp"
)

// Size is the digest width in bytes.
const Size = sha256.Size

// Digest is a SHA-256 over a document's canonical metadata and rendered body.
type Digest [Size]byte

// Hex returns the full lower-case hex encoding.
func (d Digest) Hex() string { return hex.EncodeToString(d[:]) }

// Short returns the first n hex characters, clamped to [1, 2*Size].
func (d Digest) Short(n int) string {
	h := d.Hex()
	switch {
	case n < 1:
		n = 1
	case n > len(h):
		n = len(h)
	}
	return h[:n]
}

func (d Digest) IsZero() bool { return d == Digest{} }

// Canonical returns the byte representation that Compute hashes. Both parts
// are length-prefixed so no metadata/body split can alias another.
func Canonical(meta frontmatter.Metadata, html []byte) ([]byte, error) {
	fm, err := frontmatter.Canonical(meta)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(fm)+len(html)+32)
	out = append(out, "meta "...)
	out = strconv.AppendInt(out, int64(len(fm)), 10)
	out = append(out, '\n')
	out = append(out, fm...)
	out = append(out, "body "...)
	out = strconv.AppendInt(out, int64(len(html)), 10)
	out = append(out, '\n')
	out = append(out, html...)
	return out, nil
}

// Compute hashes metadata and rendered HTML.
func Compute(meta frontmatter.Metadata, html []byte) (Digest, error) {
	b, err := Canonical(meta, html)
	if err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(b), nil
}

// SourceFingerprint returns the mdfp fingerprint of the unrendered document.
func SourceFingerprint(meta frontmatter.Metadata, body []byte) (string, error) {
	fm, err := frontmatter.Canonical(meta)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), "\n"), string(body)), nil
}
