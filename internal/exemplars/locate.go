package exemplars

import (
	"bufio"
	"bytes"
	"embed"
	"path"
	"regexp"
	"slices"
	"strconv"
	"sync"

	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// SourceDir is where exemplar sources live relative to the module root.
// Annotation file names are reported under it.
const SourceDir = "internal/exemplars"

//go:embed *.go
var sources embed.FS

var markerPattern = regexp.MustCompile(`vuln:(source|sink)(?:#(\d+))?`)

var annotationIndex = sync.OnceValue(func() map[string][]models.Annotation {
	index := make(map[string][]models.Annotation)
	entries, err := sources.ReadDir(".")
	if err != nil {
		return index
	}
	for _, entry := range entries {
		content, err := sources.ReadFile(entry.Name())
		if err != nil {
			continue
		}
		if found := scanMarkers(path.Join(SourceDir, entry.Name()), content); len(found) > 0 {
			index[entry.Name()] = found
		}
	}
	return index
})

// locate returns a copy of the annotations found in file
func locate(file string) []models.Annotation {
	return slices.Clone(annotationIndex()[file])
}

// scanMarkers pairs the first source and first sink marker of each ordinal.
// Pairs that would violate the annotation invariant are dropped.
func scanMarkers(file string, content []byte) []models.Annotation {
	sourceAt := map[int]int{}
	sinkAt := map[int]int{}
	var ordinals []int

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for line := 1; scanner.Scan(); line++ {
		for _, m := range markerPattern.FindAllStringSubmatch(scanner.Text(), -1) {
			ordinal := 0
			if m[2] != "" {
				ordinal, _ = strconv.Atoi(m[2])
			}
			if !slices.Contains(ordinals, ordinal) {
				ordinals = append(ordinals, ordinal)
			}
			target := sourceAt
			if m[1] == "sink" {
				target = sinkAt
			}
			if _, seen := target[ordinal]; !seen {
				target[ordinal] = line
			}
		}
	}

	slices.Sort(ordinals)
	var out []models.Annotation
	for _, ordinal := range ordinals {
		src, okSrc := sourceAt[ordinal]
		sink, okSink := sinkAt[ordinal]
		if !okSrc || !okSink {
			continue
		}
		a := models.Annotation{File: file, SourceLine: src, SinkLine: sink, Ordinal: ordinal}
		if a.Validate() == nil {
			out = append(out, a)
		}
	}
	return out
}
