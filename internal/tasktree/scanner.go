// Package tasktree implements the filesystem task scanner and the
// roadmap/filesystem task-tree merger.
package tasktree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/skill-docket/skd/internal/model"
)

// ScanTasks discovers NN_<slug> directories and files under projectPath.
func ScanTasks(projectPath string) ([]*model.TaskNode, error) {
	return scanInner(projectPath, "")
}

func scanInner(projectPath string, anchorName string) ([]*model.TaskNode, error) {
	entries, err := os.ReadDir(projectPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", projectPath, err)
	}

	dirNames := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			dirNames[e.Name()] = true
		}
	}

	var tasks []*model.TaskNode
	for _, e := range entries {
		name := e.Name()
		number, title, ok := parseNumberedEntry(name)
		if !ok {
			continue
		}
		path := filepath.Join(projectPath, name)
		if e.IsDir() {
			anchor := filepath.Join(path, name+".md")
			if _, statErr := os.Stat(anchor); statErr != nil {
				continue
			}
			spec := anchor
			task := &model.TaskNode{
				ID:       strconv.Itoa(number),
				Title:    title,
				Source:   model.TaskSourceFilesystem,
				Status:   model.TaskStatusPending,
				SpecPath: &spec,
			}
			if sub, subErr := scanInner(path, name); subErr == nil {
				task.Children = sub
			}
			tasks = append(tasks, task)
			continue
		}
		if strings.HasSuffix(name, ".md") {
			stem := strings.TrimSuffix(name, ".md")
			if anchorName != "" && stem == anchorName {
				continue
			}
			if dirNames[stem] {
				continue
			}
			spec := path
			tasks = append(tasks, &model.TaskNode{
				ID:       strconv.Itoa(number),
				Title:    title,
				Source:   model.TaskSourceFilesystem,
				Status:   model.TaskStatusPending,
				SpecPath: &spec,
			})
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		ai, _ := strconv.Atoi(tasks[i].ID)
		bi, _ := strconv.Atoi(tasks[j].ID)
		return ai < bi
	})
	return tasks, nil
}

// parseNumberedEntry splits a "NN_slug[.md]" name into its numeric
// prefix and a space-separated title. Returns ok=false when the name
// carries no numeric prefix.
func parseNumberedEntry(name string) (number int, title string, ok bool) {
	stem := strings.TrimSuffix(name, ".md")
	idx := strings.Index(stem, "_")
	if idx < 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(stem[:idx])
	if err != nil {
		return 0, "", false
	}
	return n, strings.ReplaceAll(stem[idx+1:], "_", " "), true
}
