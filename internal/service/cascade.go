package service

import (
	"github.com/samber/lo"

	"task-tracker/internal/repository"
)

// collectTaskTree 返回 rootIDs 及其所有后代任务的 id
func collectTaskTree(store *repository.Store, rootIDs []int64) ([]int64, error) {
	all := lo.Uniq(rootIDs)
	seen := lo.SliceToMap(all, func(id int64) (int64, struct{}) { return id, struct{}{} })

	frontier := all
	for len(frontier) > 0 {
		children, err := store.Tasks.ListSubtaskIDs(frontier)
		if err != nil {
			return nil, err
		}

		next := make([]int64, 0)
		for _, ids := range children {
			for _, id := range ids {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				next = append(next, id)
			}
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// deleteTaskTree 删除任务及其子任务、指派关系和评论，需在事务内调用
func deleteTaskTree(store *repository.Store, rootIDs []int64) (int, error) {
	ids, err := collectTaskTree(store, rootIDs)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := store.Comments.DeleteByTaskIDs(ids); err != nil {
		return 0, err
	}
	if err := store.Tasks.DeleteAssigneesByTaskIDs(ids); err != nil {
		return 0, err
	}
	if err := store.Tasks.DeleteByIDs(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
