package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"collada-importer/internal/collada"
	"collada-importer/internal/mathutil"
	"collada-importer/internal/mesh"
	"collada-importer/internal/texture"
)

// Config holds all shared settings for a batch run.
type Config struct {
	TextureDir      string
	ExportTextures  bool
	GenerateNormals bool
	MaxTextureSize  int // 0 keeps the source size
	Workers         int
	Logger          *slog.Logger
}

// Result holds the outcome of importing one document.
type Result struct {
	Path       string
	Version    string
	Geometries int
	Primitives int
	Triangles  int
	Vertices   int // distinct vertices after flattening
	Materials  int
	Bounds     mathutil.AABB
	Textures   []string // exported WebP files
	Missing    []string // image references that could not be loaded
	Success    bool
	Error      string
}

// documentExts are the recognised document suffixes, compressed ones first.
var documentExts = []string{".dae.gz", ".dae.zst", ".dae"}

// IsDocument reports whether path names a COLLADA document.
func IsDocument(path string) bool {
	return docStem(path) != filepath.Base(path)
}

// docStem strips the document suffix from the base name of path.
func docStem(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, ext := range documentExts {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// Discover lists the COLLADA documents under dir, sorted by path.
func Discover(dir string, recursive bool) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if IsDocument(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Run imports all documents using a worker pool. Documents not started
// when ctx is cancelled are reported as failed.
func Run(ctx context.Context, cfg Config, paths []string) []Result {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := max(cfg.Workers, 1)

	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64
	caches := &cacheSet{m: make(map[string]*texture.Cache)}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total,
						"rate", fmt.Sprintf("%.1f/s", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = safeImport(cfg, log, caches, paths[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	sent := 0
send:
	for ; sent < total; sent++ {
		select {
		case jobs <- sent:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)

	wg.Wait()
	close(done)

	for i := sent; i < total; i++ {
		results[i] = Result{Path: paths[i], Error: ctx.Err().Error()}
	}
	log.Info("batch finished", "documents", total, "elapsed", time.Since(start).Round(time.Millisecond))
	return results
}

// cacheSet shares one texture cache per document directory.
type cacheSet struct {
	mu sync.Mutex
	m  map[string]*texture.Cache
}

func (s *cacheSet) get(dir string) *texture.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.m[dir]
	if !ok {
		c = texture.NewCache(texture.BuildIndex(dir))
		s.m[dir] = c
	}
	return c
}

// importDocument is swapped out by tests.
var importDocument = processDocument

// safeImport turns a panic while importing path into a failed Result.
func safeImport(cfg Config, log *slog.Logger, caches *cacheSet, path string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("import panicked", "file", path, "panic", r)
			res = Result{Path: path, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return importDocument(cfg, log, caches, path)
}

func processDocument(cfg Config, log *slog.Logger, caches *cacheSet, path string) Result {
	res := Result{Path: path, Bounds: mathutil.EmptyAABB()}

	doc, err := collada.Open(path)
	if err != nil {
		log.Warn("import failed", "file", path, "err", err)
		res.Error = err.Error()
		return res
	}
	res.Version = doc.Version
	if !collada.SupportedVersion(doc.Version) {
		log.Warn("unsupported COLLADA version", "file", path, "version", doc.Version)
	}
	res.Geometries = len(doc.Geometries)
	res.Materials = len(doc.Materials)

	for _, g := range doc.Geometries {
		meshes, err := mesh.BuildGeometry(g)
		if err != nil {
			log.Warn("flatten failed", "file", path, "geometry", g.ID, "err", err)
			res.Error = err.Error()
			return res
		}
		res.Primitives += len(g.Primitives)
		for _, m := range meshes {
			if cfg.GenerateNormals {
				m.GenerateNormals()
			}
			res.Triangles += m.TriangleCount()
			res.Vertices += m.VertexCount()
			res.Bounds = res.Bounds.Union(m.Bounds())
		}
	}
	log.Debug("imported", "file", path, "geometries", res.Geometries, "triangles", res.Triangles)

	if cfg.ExportTextures {
		if err := exportTextures(cfg, log, caches, doc, &res); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	res.Success = true
	return res
}

func exportTextures(cfg Config, log *slog.Logger, caches *cacheSet, doc *collada.Document, res *Result) error {
	dir := filepath.Dir(doc.Path)
	cache := caches.get(dir)
	stem := docStem(doc.Path)

	for _, img := range doc.TextureImages() {
		tex, err := cache.Load(img.InitFrom)
		if err != nil {
			log.Warn("texture missing", "file", doc.Path, "image", img.ID, "ref", img.InitFrom, "err", err)
			res.Missing = append(res.Missing, img.InitFrom)
			continue
		}
		out := filepath.Join(cfg.TextureDir, stem, texture.WebPName(img.InitFrom))
		if err := texture.WriteWebP(out, texture.Fit(tex, cfg.MaxTextureSize)); err != nil {
			return err
		}
		res.Textures = append(res.Textures, out)
	}
	return nil
}
