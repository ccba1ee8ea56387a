package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"img2csv/internal/ingest"
	"img2csv/internal/processing"
	"img2csv/internal/types"
)

func main() {
	path := flag.String("path", "", "Path to an image file or directory")
	limit := flag.Int("limit", 0, "Max number of files to summarize (0 = all)")
	flag.Parse()

	if *path == "" {
		log.Fatal("missing -path")
	}

	files, err := listFiles(*path)
	if err != nil {
		log.Fatalf("list files: %v", err)
	}

	var decoded int
	var failed int

	for _, file := range files {
		if *limit > 0 && decoded+failed >= *limit {
			break
		}
		raster, format, err := ingest.Load(file, false)
		if err != nil {
			failed++
			log.Printf("decode %s: %v", file, err)
			continue
		}
		decoded++
		fmt.Printf("%s: %s\n", file, describe(raster, format))
	}

	fmt.Printf("summary: decoded=%d failed=%d\n", decoded, failed)
}

func describe(raster *types.Raster, format string) string {
	lo, hi := uint8(255), uint8(0)
	for _, v := range raster.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return fmt.Sprintf("format %s size %dx%d luma min %s max %s",
		format, raster.Width, raster.Height,
		formatLuma(lo), formatLuma(hi))
}

func formatLuma(v uint8) string {
	return fmt.Sprintf("%d (%g)", v, processing.Normalize(v))
}

func listFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ingest.HasKnownExtension(entry.Name()) {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
