package texture

import (
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// minSimilarity is the Levenshtein similarity a stem must reach to be
// taken as a misspelt reference.
const minSimilarity = 0.8

// Index maps image references found in a document to files on disk.
// References are tried as paths relative to the document directory first;
// otherwise the lowercase file stem is looked up among the images found
// under the directory, then the closest stem by edit distance. Formats with
// an alpha channel win over JPEG for the same stem.
type Index struct {
	root    string
	entries map[string]string // stem.lower() → full path
}

// extensions maps the indexed file types to their priority for a stem.
var extensions = map[string]int{
	".jpg":  0,
	".jpeg": 0,
	".bmp":  1,
	".gif":  1,
	".tif":  1,
	".tiff": 1,
	".png":  2,
	".tga":  2,
	".webp": 2,
}

// BuildIndex scans root and its subdirectories for image files.
func BuildIndex(root string) *Index {
	idx := &Index{root: root, entries: make(map[string]string)}

	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		prio, ok := extensions[ext]
		if !ok {
			return nil
		}
		stem := stemOf(path)

		existing, exists := idx.entries[stem]
		if !exists || prio > extensions[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for an image reference, or
// ("", false). A reference may be a relative path, an absolute path or a
// file:// URL.
func (idx *Index) ResolvePath(ref string) (string, bool) {
	p := refPath(ref)
	if p == "" {
		return "", false
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(idx.root, p)
	}
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p, true
	}

	stem := stemOf(p)
	if path, ok := idx.entries[stem]; ok {
		return path, true
	}
	return idx.closest(stem)
}

// closest returns the indexed file whose stem is most similar to stem.
// Ties go to the lexically first stem.
func (idx *Index) closest(stem string) (string, bool) {
	stems := make([]string, 0, len(idx.entries))
	for s := range idx.entries {
		stems = append(stems, s)
	}
	sort.Strings(stems)

	lev := metrics.NewLevenshtein()
	best, bestScore := "", 0.0
	for _, s := range stems {
		if score := strutil.Similarity(stem, s, lev); score >= minSimilarity && score > bestScore {
			best, bestScore = s, score
		}
	}
	if best == "" {
		return "", false
	}
	return idx.entries[best], true
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// refPath turns an init_from reference into a slash-normalised file path.
func refPath(ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "file:") {
		u, err := url.Parse(ref)
		if err != nil {
			return ""
		}
		ref = u.Path
		if u.Host != "" && u.Host != "localhost" {
			// file://textures/a.png is taken as relative.
			ref = u.Host + u.Path
		}
		// file:///C:/dir/a.png
		if len(ref) > 2 && ref[0] == '/' && ref[2] == ':' {
			ref = ref[1:]
		}
	} else if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	return filepath.FromSlash(strings.ReplaceAll(ref, "\\", "/"))
}

func stemOf(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
