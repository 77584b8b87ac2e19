package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"collada-importer/internal/collada"
	"collada-importer/internal/logx"
	"collada-importer/internal/texture"
)

func dumpDocument(path, outDir string, log *slog.Logger) (int, error) {
	doc, err := collada.Open(path)
	if err != nil {
		return 0, err
	}
	idx := texture.BuildIndex(filepath.Dir(path))
	cache := texture.NewCache(idx)
	log.Debug("texture index", "dir", filepath.Dir(path), "files", idx.Len())

	errors := 0
	for _, img := range doc.Images {
		src, err := cache.Load(img.InitFrom)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %s: %v\n", img.ID, err)
			errors++
			continue
		}
		dst := filepath.Join(outDir, texture.WebPName(img.InitFrom))
		if err := texture.WriteWebP(dst, src); err != nil {
			return errors, err
		}
		b := src.Bounds()
		fmt.Printf("OK  %s -> %s  (%dx%d)\n", img.InitFrom, dst, b.Dx(), b.Dy())
	}
	return errors, nil
}

func main() {
	outDir := flag.String("output", ".", "Directory for the .webp files")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()
	log := logx.Setup(slog.LevelInfo, *verbose)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: texdump [-output dir] file.dae...")
		os.Exit(2)
	}

	errors := 0
	for _, path := range flag.Args() {
		n, err := dumpDocument(path, *outDir, log)
		errors += n
		if err != nil {
			log.Error("texdump failed", "file", path, "err", err)
			errors++
		}
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Println("\nDone. All textures extracted.")
}
