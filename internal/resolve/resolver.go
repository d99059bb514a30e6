package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/five82/lookout/internal/archive"
)

// ErrUnresolved matches every failed resolution.
var ErrUnresolved = errors.New("image unresolved")

// ErrStale is returned by ResolveFor when a newer request took the slot.
var ErrStale = errors.New("resolution superseded")

// ResolutionError reports the candidates that were tried for an image.
type ResolutionError struct {
	ManifestURL string
	Path        string
	Tried       []string
}

func (e *ResolutionError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("resolve %q for %s: no candidates", e.Path, e.ManifestURL)
	}
	return fmt.Sprintf("resolve %q for %s: none of %d candidates loaded", e.Path, e.ManifestURL, len(e.Tried))
}

// Is reports whether target is ErrUnresolved.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolved
}

// Prober checks that a URL serves a decodable image.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// IsAbsolute reports whether an image value is already a full URL,
// including scheme-relative //host/... values.
func IsAbsolute(v string) bool {
	return absoluteURL.MatchString(v) || strings.HasPrefix(v, "//")
}

// PreferredVariant returns the 1080p variant when the image has one.
func PreferredVariant(img archive.Image) string {
	if img.Src1080 != "" {
		return archive.Variant1080
	}
	return archive.VariantSource
}

type base struct {
	origin string // scheme://host
	folder string // manifest directory with trailing slash
	camera string
}

func parseBase(manifestURL string) (base, bool) {
	u, err := url.Parse(manifestURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return base{}, false
	}
	folder := "/"
	if dir := path.Dir(u.Path); dir != "." && dir != "/" {
		folder = dir + "/"
	}
	return base{
		origin: u.Scheme + "://" + u.Host,
		folder: folder,
		camera: archive.CameraName(manifestURL),
	}, true
}

// Candidates lists the URLs worth probing for an image variant, in order.
// Absolute values are returned unchanged. Only layouts under an html5
// folder are produced; the archive answers 404 for the others.
func Candidates(manifestURL string, img archive.Image, variant string) []string {
	val := img.Path(variant)
	if val == "" {
		return nil
	}
	if IsAbsolute(val) {
		return []string{val}
	}
	b, ok := parseBase(manifestURL)
	if !ok {
		return []string{val}
	}

	prefix := b.origin + b.folder
	var all []string
	if hf := img.HourFolder.String(); hf != "" {
		all = append(all,
			prefix+hf+"/"+val,
			prefix+hf+"/"+b.camera+"/"+val,
			prefix+hf+"/"+b.camera+"/html5/"+val,
			prefix+hf+"/html5/"+val,
		)
	}
	all = append(all,
		prefix+b.camera+"/"+val,
		prefix+b.camera+"/html5/"+val,
		prefix+val,
	)

	out := all[:0]
	for _, c := range all {
		if strings.Contains(c, "/html5/") {
			out = append(out, c)
		}
	}
	return out
}

// Fallback is the unprobed folder-relative URL shown when resolution fails.
func Fallback(manifestURL string, img archive.Image, variant string) string {
	val := img.Path(variant)
	if val == "" || IsAbsolute(val) {
		return val
	}
	b, ok := parseBase(manifestURL)
	if !ok {
		return val
	}
	return b.origin + b.folder + val
}

type memoKey struct {
	manifest   string
	hourFolder string
	path       string
}

// Resolver finds the first working candidate URL for an image and
// remembers it per manifest, hour folder and path.
type Resolver struct {
	prober   Prober
	mu       sync.RWMutex
	memo     map[memoKey]string
	inflight singleflight.Group
}

// New returns a resolver that probes with p.
func New(p Prober) *Resolver {
	return &Resolver{prober: p, memo: make(map[memoKey]string)}
}

// Resolve returns a loadable URL for the image variant.
func (r *Resolver) Resolve(ctx context.Context, manifestURL string, img archive.Image, variant string) (string, error) {
	val := img.Path(variant)
	if val == "" {
		return "", &ResolutionError{ManifestURL: manifestURL, Path: val}
	}
	cands := Candidates(manifestURL, img, variant)
	if len(cands) == 1 && cands[0] == val {
		return val, nil
	}

	key := memoKey{manifest: manifestURL, hourFolder: img.HourFolder.String(), path: val}
	r.mu.RLock()
	hit, ok := r.memo[key]
	r.mu.RUnlock()
	if ok {
		return hit, nil
	}

	v, err, _ := r.inflight.Do(key.manifest+"\x00"+key.hourFolder+"\x00"+key.path, func() (any, error) {
		for _, c := range cands {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			if err := r.prober.Probe(ctx, c); err != nil {
				continue
			}
			r.mu.Lock()
			r.memo[key] = c
			r.mu.Unlock()
			return c, nil
		}
		return "", &ResolutionError{ManifestURL: manifestURL, Path: val, Tried: cands}
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ResolveFor resolves on behalf of a display slot and discards the result
// with ErrStale when a newer request began in the meantime.
func (r *Resolver) ResolveFor(ctx context.Context, slot *Slot, token uint64, manifestURL string, img archive.Image, variant string) (string, error) {
	u, err := r.Resolve(ctx, manifestURL, img, variant)
	if !slot.Current(token) {
		return "", ErrStale
	}
	return u, err
}
