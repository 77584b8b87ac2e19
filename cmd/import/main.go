package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"collada-importer/internal/batch"
	"collada-importer/internal/config"
	"collada-importer/internal/logx"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json, .toml or .yaml config file")
	inputDir := flag.String("input", "", "Directory of .dae documents (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/imported)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	recursive := flag.Bool("r", false, "Descend into subdirectories")
	textures := flag.Bool("textures", false, "Export referenced images as WebP")
	maxTexture := flag.Int("max-texture", 0, "Downscale exported textures to at most N pixels per side")
	watch := flag.Bool("watch", false, "Keep running and re-import documents as they change")
	testN := flag.Int("test", 0, "Import only the first N documents")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:       *inputDir,
		OutputDir:      *outputDir,
		Workers:        *workers,
		Recursive:      *recursive,
		ExportTextures: *textures,
		MaxTextureSize: *maxTexture,
		Verbose:        *verbose,
	})
	log := logx.Setup(cfg.Level(), false)

	paths, err := batch.Discover(cfg.InputDir, cfg.Recursive)
	if err != nil {
		log.Error("discover failed", "err", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(paths) {
		paths = paths[:*testN]
	}

	if len(paths) == 0 && !*watch {
		fmt.Println("No documents to import.")
		os.Exit(0)
	}

	fmt.Printf("COLLADA import: %s\n", cfg.InputDir)
	fmt.Printf("Documents: %d, Workers: %d\n", len(paths), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bcfg := batch.Config{
		TextureDir:      cfg.TextureDir,
		ExportTextures:  cfg.ExportTextures,
		GenerateNormals: cfg.GenerateNormals,
		MaxTextureSize:  cfg.MaxTextureSize,
		Workers:         cfg.Workers,
		Logger:          log,
	}

	start := time.Now()
	results := batch.Run(ctx, bcfg, paths)
	failed := summarize(results, time.Since(start))

	// Write manifest
	if err := batch.WriteManifest(cfg.Manifest, results); err != nil {
		log.Warn("manifest write failed", "err", err)
	} else {
		fmt.Printf("Manifest: %s\n", cfg.Manifest)
	}

	if *watch {
		w, err := batch.NewWatcher(cfg.InputDir, cfg.Recursive)
		if err != nil {
			log.Error("watch failed", "err", err)
			os.Exit(1)
		}
		fmt.Printf("Watching %s (Ctrl-C to stop)\n", cfg.InputDir)

		// Later imports replace earlier results for the same document.
		byPath := make(map[string]int, len(results))
		for i, r := range results {
			byPath[r.Path] = i
		}
		err = w.Run(ctx, bcfg, func(batchResults []batch.Result) {
			for _, r := range batchResults {
				if i, ok := byPath[r.Path]; ok {
					results[i] = r
				} else {
					byPath[r.Path] = len(results)
					results = append(results, r)
				}
				if r.Success {
					log.Info("reimported", "file", r.Path, "triangles", r.Triangles)
				} else {
					log.Warn("reimport failed", "file", r.Path, "err", r.Error)
				}
			}
			if err := batch.WriteManifest(cfg.Manifest, results); err != nil {
				log.Warn("manifest write failed", "err", err)
			}
		})
		if err != nil {
			log.Error("watch stopped", "err", err)
			os.Exit(1)
		}
		return
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// summarize prints the import report and returns the number of failures.
func summarize(results []batch.Result, elapsed time.Duration) int {
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	var failed []batch.Result
	triangles, exported := 0, 0
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
			continue
		}
		triangles += r.Triangles
		exported += len(r.Textures)
	}

	fmt.Printf("Imported: %d/%d (%d triangles, %d textures)\n",
		len(results)-len(failed), len(results), triangles, exported)

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, e := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", e.Path, e.Error)
		}
	}
	return len(failed)
}
