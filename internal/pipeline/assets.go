package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
	"git.home.luguber.info/inful/knowledgelib/internal/markdown"
	"git.home.luguber.info/inful/knowledgelib/internal/validation"
)

// ImagesDir is the per-document asset folder copied verbatim into the output.
const ImagesDir = "images"

// copyAssets copies the document's images folder and every local image the
// body references from inside the document folder into outDir.
func copyAssets(docDir, outDir string, body []byte) (int, error) {
	count := 0
	images := filepath.Join(docDir, ImagesDir)
	if info, err := os.Stat(images); err == nil && info.IsDir() {
		n, err := fsutil.CopyTree(images, filepath.Join(outDir, ImagesDir))
		if err != nil {
			return count, err
		}
		count += n
	}

	for _, rel := range referencedImages(docDir, body) {
		if fsutil.Within(images, filepath.Join(docDir, rel)) {
			continue // already copied
		}
		if err := fsutil.CopyFile(filepath.Join(docDir, rel), filepath.Join(outDir, rel)); err != nil {
			return count, fmt.Errorf("copy image %s: %w", rel, err)
		}
		count++
	}
	return count, nil
}

// referencedImages lists image targets that are regular files below docDir,
// relative to it.
func referencedImages(docDir string, body []byte) []string {
	var out []string
	for _, link := range markdown.ExtractLinks(body) {
		if link.Kind != markdown.LinkKindImage {
			continue
		}
		target, ok := validation.LocalTarget(link.Destination)
		if !ok || filepath.IsAbs(target) {
			continue
		}
		abs := filepath.Join(docDir, target)
		if abs == docDir || !fsutil.Within(docDir, abs) {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		rel, err := filepath.Rel(docDir, abs)
		if err != nil {
			continue
		}
		out = append(out, rel)
	}
	return out
}
