package tasktree

import "github.com/skill-docket/skd/internal/model"

// MergeTaskTrees merges filesystemTasks into roadmapTasks in place. The
// merge is recursive and roadmap-preferring: for each filesystem task,
// a roadmap task with a matching id is marked Both, gets its spec_path
// filled only if previously unset, and is recursed into; a filesystem
// task with no roadmap match is appended unchanged. Filesystem-only
// subtrees preserve their order; roadmap-only siblings are never removed.
func MergeTaskTrees(roadmapTasks *[]*model.TaskNode, filesystemTasks []*model.TaskNode) {
	for _, fsTask := range filesystemTasks {
		var match *model.TaskNode
		for _, rmTask := range *roadmapTasks {
			if rmTask.ID == fsTask.ID {
				match = rmTask
				break
			}
		}
		if match != nil {
			match.Source = model.TaskSourceBoth
			if match.SpecPath == nil {
				match.SpecPath = fsTask.SpecPath
			}
			MergeTaskTrees(&match.Children, fsTask.Children)
		} else {
			*roadmapTasks = append(*roadmapTasks, fsTask)
		}
	}
}
