package permalink

import (
	"cmp"
	"slices"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/contenthash"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"
	"git.home.luguber.info/inful/sitebuilder/internal/util/sets"
)

// Style selects how permalinks are formed from slugs and content hashes.
type Style string

const (
	StyleSlug     Style = "slug"      // bare slug, hash suffix only on collision
	StyleSlugHash Style = "slug-hash" // slug plus hash suffix always
	StyleHash     Style = "hash"      // hash prefix only
)

var styleNormalizer = normalization.NewNormalizer(map[string]Style{
	"slug":      StyleSlug,
	"slug-hash": StyleSlugHash,
	"hash":      StyleHash,
}, StyleSlug)

// ParseStyle validates a configured style name. Blank selects StyleSlug.
func ParseStyle(raw string) (Style, error) {
	return styleNormalizer.Parse("permalink style", raw)
}

const (
	DefaultHashLength = 8
	MinHashLength     = 4
)

// Candidate is one page waiting for a permalink.
type Candidate struct {
	// Key identifies the page, usually its source path.
	Key  string
	Slug string
	Hash contenthash.Digest
	Date time.Time
}

// Assigner assigns permalinks for one build.
type Assigner struct {
	Style      Style
	HashLength int
}

func (a Assigner) hashLength() int {
	switch {
	case a.HashLength == 0:
		return DefaultHashLength
	case a.HashLength < MinHashLength:
		return MinHashLength
	case a.HashLength > 2*contenthash.Size:
		return 2 * contenthash.Size
	default:
		return a.HashLength
	}
}

// Assign returns the permalink for every candidate keyed by Candidate.Key.
//
// Candidates are processed in chronological order (date, then key). With
// StyleSlug the first candidate keeps a bare slug and later candidates with
// the same slug, or any slug equal to a reserved permalink, get a hash
// suffix. Candidates sharing both slug and content hash, and any duplicate
// remaining after suffixing, are a fatal collision error.
func (a Assigner) Assign(cands []Candidate, reserved sets.Set[string]) (map[string]Permalink, error) {
	ordered := slices.Clone(cands)
	slices.SortStableFunc(ordered, func(x, y Candidate) int {
		if c := x.Date.Compare(y.Date); c != 0 {
			return c
		}
		return cmp.Compare(x.Key, y.Key)
	})

	n := a.hashLength()
	claimed := sets.New[string]()
	out := make(map[string]Permalink, len(ordered))
	owner := make(map[Permalink]string, len(ordered))
	// Identical slug and content cannot be told apart by a suffix.
	identity := make(map[string]string, len(ordered))

	for _, c := range ordered {
		short := c.Hash.Short(n)
		var p Permalink
		switch {
		case a.Style == StyleHash || c.Slug == "":
			p = Permalink(short)
		case a.Style == StyleSlugHash:
			p = Permalink(c.Slug + "-" + short)
		case reserved.Has(c.Slug) || claimed.Has(c.Slug):
			p = Permalink(c.Slug + "-" + short)
		default:
			p = Permalink(c.Slug)
			claimed.Add(c.Slug)
		}

		if _, dup := out[c.Key]; dup {
			return nil, ferrors.InternalError("duplicate page key").WithPath(c.Key).Build()
		}
		id := c.Slug + "\x00" + c.Hash.Hex()
		if prev, same := identity[id]; same {
			return nil, ferrors.CollisionError(string(p), prev, c.Key).WithPath(c.Key).Build()
		}
		identity[id] = c.Key
		if prev, taken := owner[p]; taken {
			return nil, ferrors.CollisionError(string(p), prev, c.Key).WithPath(c.Key).Build()
		}
		if reserved.Has(string(p)) {
			return nil, ferrors.CollisionError(string(p), c.Key).WithPath(c.Key).Build()
		}
		owner[p] = c.Key
		out[c.Key] = p
	}
	return out, nil
}
