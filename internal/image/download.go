package imagepkg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/youruser/cartridgeicon/internal/util"
)

var (
	ErrEmptyRef       = errors.New("empty image reference")
	ErrUnsupportedRef = errors.New("unsupported image reference")
)

// fetch resolves ref to raw bytes plus a media type hint (possibly empty).
func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return ParseDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return util.GetBytes(ctx, l.client, ref, l.maxBytes)
	case strings.Contains(ref, "://"):
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedRef, ref)
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	b, err := os.ReadFile(l.resolvePath(ref))
	if err != nil {
		return nil, "", err
	}
	if l.maxBytes > 0 && int64(len(b)) > l.maxBytes {
		return nil, "", fmt.Errorf("%s exceeds %d bytes", ref, l.maxBytes)
	}
	return b, "", nil
}

// resolvePath maps a path ref onto the asset root. With a root set, refs are
// treated as rooted web paths ("/systems/icons/nes.png") and cannot climb
// out of it.
func (l *Loader) resolvePath(ref string) string {
	if l.root == "" {
		return ref
	}
	clean := path.Clean("/" + filepath.ToSlash(ref))
	return filepath.Join(l.root, filepath.FromSlash(clean))
}
