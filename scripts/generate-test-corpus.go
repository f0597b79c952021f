//go:build ignore

// Package main generates a synthetic folder tree for benchmarking folder2index.
// Usage: go run scripts/generate-test-corpus.go -files 1000 -output testdata/bench
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numFiles  = flag.Int("files", 1000, "Number of files to generate")
	depth     = flag.Int("depth", 3, "Maximum directory depth")
	htmlRatio = flag.Float64("html", 0.3, "Fraction of HTML files")
	outputDir = flag.String("output", "testdata/bench", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var words = []string{
	"index", "folder", "document", "quarterly", "report", "budget", "archive",
	"meeting", "minutes", "invoice", "summary", "draft", "review", "release",
	"customer", "contract", "schedule", "inventory", "analysis", "forecast",
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<h1>%s</h1>
<p>%s</p>
<p>%s</p>
</body>
</html>
`

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	var txt, html int
	for i := 0; i < *numFiles; i++ {
		dir := randomDir(rng, *outputDir, *depth)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
			os.Exit(1)
		}

		var err error
		if rng.Float64() < *htmlRatio {
			err = writeHTML(rng, filepath.Join(dir, fmt.Sprintf("page_%05d.html", i)))
			html++
		} else {
			err = writeText(rng, filepath.Join(dir, fmt.Sprintf("note_%05d.txt", i)))
			txt++
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Generated %d files in %s (%d txt, %d html)\n", *numFiles, *outputDir, txt, html)
}

func randomDir(rng *rand.Rand, root string, maxDepth int) string {
	parts := []string{root}
	for d := rng.Intn(maxDepth + 1); d > 0; d-- {
		parts = append(parts, fmt.Sprintf("%s_%d", randomWord(rng), rng.Intn(4)))
	}
	return filepath.Join(parts...)
}

func randomWord(rng *rand.Rand) string {
	return words[rng.Intn(len(words))]
}

func sentence(rng *rand.Rand, n int) string {
	s := make([]string, n)
	for i := range s {
		s[i] = randomWord(rng)
	}
	return strings.Join(s, " ") + "."
}

func writeText(rng *rand.Rand, path string) error {
	var b strings.Builder
	for p := 5 + rng.Intn(20); p > 0; p-- {
		b.WriteString(sentence(rng, 8+rng.Intn(12)))
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeHTML(rng *rand.Rand, path string) error {
	title := sentence(rng, 3)
	page := fmt.Sprintf(htmlTemplate, title, title, sentence(rng, 30), sentence(rng, 30))
	return os.WriteFile(path, []byte(page), 0o644)
}
