package apiclient

import (
	"fmt"
	"regexp"
	"strings"
)

// versionedPattern matches paths that already carry a version segment, for
// any version number, so re-normalizing a normalized path is a no-op.
var versionedPattern = regexp.MustCompile(`^/api/v\d+(/|$)`)

// normalizeEndpoint rewrites a caller-supplied path into the versioned
// backend route. Older call sites written against the unversioned convention
// and newer versioned call sites both resolve to the same route:
//
//	/api/v1/projects       -> /api/v1/projects   (already versioned)
//	/api/admin/users       -> /api/admin/users   (admin namespace is unversioned)
//	/api/superadmin/orgs   -> /api/v1/superadmin/orgs
//	/api/projects          -> /api/v1/projects
//	projects/7/tasks       -> /api/v1/projects/7/tasks
//
// Normalization is total: every string input yields a usable path.
func normalizeEndpoint(path string, version int) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	prefix := fmt.Sprintf("/api/v%d", version)

	switch {
	case versionedPattern.MatchString(path):
		return path
	case path == "/api/admin" || strings.HasPrefix(path, "/api/admin/"):
		return path
	case path == "/api/superadmin" || strings.HasPrefix(path, "/api/superadmin/"):
		return prefix + strings.TrimPrefix(path, "/api")
	case strings.HasPrefix(path, "/api/"):
		return prefix + strings.TrimPrefix(path, "/api")
	default:
		return prefix + path
	}
}
