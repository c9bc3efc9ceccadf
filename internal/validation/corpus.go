package validation

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/knowledgelib/internal/navigation"
	"git.home.luguber.info/inful/knowledgelib/internal/util/sets"
)

// OutputPage is the file each document renders to inside its output folder.
const OutputPage = "index.html"

// CheckCorpus compares the persisted navigation table with the corpus folders
// and checks that every folder has a rendered page under outputDir. An empty
// outputDir skips the page check.
func CheckCorpus(folders []string, nav navigation.Table, outputDir string) Report {
	var rep Report

	folderSet := sets.New(folders...)
	navSet := sets.New(nav.IDs()...)

	for _, id := range sets.Sorted(navSet.Difference(folderSet)) {
		rep.add(KindCorpus, SeverityError, navigation.FileName, "Navigation entry without folder: %s", id)
	}
	for _, id := range sets.Sorted(folderSet.Difference(navSet)) {
		rep.add(KindCorpus, SeverityError, navigation.FileName, "Folder missing from navigation: %s", id)
	}
	for _, id := range nav.IDs() {
		entry := nav[id]
		for _, ref := range []*string{entry.Previous, entry.Next} {
			if ref != nil && !navSet.Has(*ref) {
				rep.add(KindCorpus, SeverityError, navigation.FileName, "Navigation entry %s points to unknown document %s", id, *ref)
			}
		}
	}

	if outputDir != "" {
		for _, id := range folders {
			if _, err := os.Stat(filepath.Join(outputDir, id, OutputPage)); err != nil {
				rep.add(KindCorpus, SeverityError, id, "Missing output page: %s/%s", id, OutputPage)
			}
		}
	}
	return rep
}
