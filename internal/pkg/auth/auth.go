package auth

import (
	"strings"

	"github.com/samber/lo"
)

// Role 项目内角色
type Role string

const (
	RoleOwner  Role = "Owner"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "Viewer"
	// RoleAssignee 非成员但被指派到任务的用户，不可存入成员表
	RoleAssignee Role = "Assignee"
	// RoleNone 无任何访问权限
	RoleNone Role = ""
)

// MemberRoles 可写入成员表的角色，顺序即展示顺序
var MemberRoles = []Role{RoleOwner, RoleEditor, RoleViewer}

// IsMemberRole 判断是否为合法的成员角色
func IsMemberRole(r string) bool {
	return lo.Contains(MemberRoles, Role(r))
}

// Permission 内置权限
type Permission string

const (
	PermProjectView     Permission = "project:view"
	PermProjectUpdate   Permission = "project:update"
	PermProjectDelete   Permission = "project:delete"
	PermProjectTransfer Permission = "project:transfer"

	PermMemberView   Permission = "member:view"
	PermMemberCreate Permission = "member:create"
	PermMemberUpdate Permission = "member:update"
	PermMemberDelete Permission = "member:delete"

	PermTaskView     Permission = "task:view"
	PermTaskCreate   Permission = "task:create"
	PermTaskUpdate   Permission = "task:update"
	PermTaskDelete   Permission = "task:delete"
	PermTaskStatus   Permission = "task:status"
	PermTaskAssign   Permission = "task:assign"
	PermTaskReassign Permission = "task:reassign"

	PermCommentView   Permission = "comment:view"
	PermCommentCreate Permission = "comment:create"
	PermCommentDelete Permission = "comment:delete"
)

// RolePermissions 每个角色拥有的权限集合
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		"*",
	},
	RoleEditor: {
		PermProjectView,
		PermProjectUpdate,
		"member:*",
		PermTaskView,
		PermTaskCreate,
		PermTaskUpdate,
		PermTaskDelete,
		PermTaskStatus,
		PermTaskAssign,
		"comment:*",
	},
	RoleViewer: {
		"*:view",
		PermCommentCreate,
	},
	RoleAssignee: {
		PermTaskView,
		PermTaskStatus,
		PermCommentView,
		PermCommentCreate,
	},
}

// Can 判断单个角色是否拥有所需权限
func (r Role) Can(need Permission) bool {
	return Allow([]string{string(r)}, need)
}

// Allow 判断一组角色是否包含所需权限，支持通配符
func Allow(roles []string, need Permission) bool {
	permissions := collectPermissions(roles)

	return len(permissions) > 0 && allow(permissions, need)
}

func collectPermissions(roles []string) []Permission {
	perms := make([]Permission, 0)
	for _, r := range roles {
		if ps, ok := RolePermissions[Role(r)]; ok {
			perms = append(perms, ps...)
		}
	}
	return perms
}

func allow(have []Permission, need Permission) bool {
	reqParts := strings.Split(string(need), ":")
	for _, p := range have {
		if match(strings.Split(string(p), ":"), reqParts) {
			return true
		}
	}
	return false
}

// match 逐段比较, * 匹配单段; 末尾的 * 匹配剩余所有段
func match(allParts, reqParts []string) bool {
	for i, part := range allParts {
		last := i == len(allParts)-1
		if part == "*" && last {
			return len(reqParts) >= i+1
		}
		if i >= len(reqParts) {
			return false
		}
		if part != "*" && part != reqParts[i] {
			return false
		}
	}
	return len(allParts) == len(reqParts)
}
