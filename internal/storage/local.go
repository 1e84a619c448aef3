package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxDisambiguation bounds the collision-avoidance loop when composing
// new references.
const maxDisambiguation = 999

// LocalStore persists images as files under a root directory. References
// are filenames relative to the root.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage root must not be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: dir}, nil
}

// Root returns the store's root directory.
func (s *LocalStore) Root() string { return s.root }

// Save writes data under the suggested name (or a generated one) and
// returns the reference used. Name collisions get a zero-padded numeric
// disambiguator appended.
func (s *LocalStore) Save(data []byte, ext, suggested string) (string, error) {
	base := sanitizeName(strings.TrimSuffix(suggested, filepath.Ext(suggested)))
	if base == "" {
		base = uuid.NewString()
	}
	ref, err := s.reserve(base, normalizeExt(ext))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(s.path(ref), data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", ref, err)
	}
	return ref, nil
}

// Exists reports whether ref resolves to a regular file under the root.
func (s *LocalStore) Exists(ref string) bool {
	fi, err := os.Stat(s.path(ref))
	return err == nil && fi.Mode().IsRegular()
}

// OpenRead opens the stored image for reading from its start.
func (s *LocalStore) OpenRead(ref string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(ref)) //nolint:gosec // G304: references are store-composed filenames
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	return f, nil
}

// SaveVariant writes data as a derivative of baseRef with the given
// suffix, disambiguating on collision.
func (s *LocalStore) SaveVariant(data []byte, baseRef, suffix, ext string) (string, error) {
	base := strings.TrimSuffix(baseRef, filepath.Ext(baseRef))
	name := base + "_" + suffix
	ref, err := s.reserve(name, normalizeExt(ext))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(s.path(ref), data, 0o600); err != nil {
		return "", fmt.Errorf("write variant %s: %w", ref, err)
	}
	return ref, nil
}

// SaveSidecar writes an artifact file named ref+suffix next to the image
// it describes, overwriting any previous run's output.
func (s *LocalStore) SaveSidecar(data []byte, ref, suffix string) (string, error) {
	name := ref + suffix
	if err := os.WriteFile(s.path(name), data, 0o600); err != nil {
		return "", fmt.Errorf("write sidecar %s: %w", name, err)
	}
	return s.path(name), nil
}

// reserve finds a free reference for base+ext, appending _NNN on collision.
func (s *LocalStore) reserve(base, ext string) (string, error) {
	ref := base + ext
	if !s.Exists(ref) {
		return ref, nil
	}
	for i := 1; i <= maxDisambiguation; i++ {
		ref = fmt.Sprintf("%s_%03d%s", base, i, ext)
		if !s.Exists(ref) {
			return ref, nil
		}
	}
	return "", fmt.Errorf("no free reference for %s%s", base, ext)
}

func (s *LocalStore) path(ref string) string {
	return filepath.Join(s.root, filepath.Base(ref))
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(strings.ToLower(ext))
	if ext == "" {
		return ".png"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// sanitizeName keeps alphanumerics, underscores and hyphens.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
