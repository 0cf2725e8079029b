// Package yamlfile loads questionnaire graphs from a directory of editor
// export files (.yaml, .yml or .json), one graph per file.
package yamlfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/verdanta/greenflow/internal/importer"
	"github.com/verdanta/greenflow/pkg/domain"
)

// Source implements ports.GraphSource over a directory.
type Source struct {
	dir string
}

// NewSource creates a source reading from dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Graphs parses every export file in the directory, in filename order.
func (s *Source) Graphs(ctx context.Context) ([]*domain.Graph, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read graph dir %s: %w", s.dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	graphs := make([]*domain.Graph, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read graph file %s: %w", path, err)
		}

		var g *domain.Graph
		if strings.EqualFold(filepath.Ext(name), ".json") {
			g, err = importer.ParseJSON(data)
		} else {
			g, err = importer.ParseYAML(data)
		}
		if err != nil {
			return nil, fmt.Errorf("graph file %s: %w", path, err)
		}

		graphs = append(graphs, g)
	}
	return graphs, nil
}
