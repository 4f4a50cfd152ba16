// Package classify maps changed file paths to risk surfaces.
//
// Classification is pure and deterministic: every rule is a substring
// or pattern test against the lowercased path, multiple rules may fire
// per path, and the result is the union across all paths.
package classify

import (
	"regexp"
	"strings"

	"github.com/bob-stewart/HardShell/internal/models"
)

// surfaceRule matches a path against one risk surface. Substrings are
// checked first; the pattern, if set, is tried when no substring hits.
type surfaceRule struct {
	surface    models.Surface
	substrings []string
	pattern    *regexp.Regexp
}

var rules = []surfaceRule{
	{
		surface:    models.SurfaceCI,
		substrings: []string{".github/workflows", ".gitlab-ci", ".circleci", "jenkinsfile", "azure-pipelines"},
		pattern:    regexp.MustCompile(`(^|/)ci\.ya?ml$`),
	},
	{
		surface:    models.SurfaceOpsScripts,
		substrings: []string{"scripts/", "/scripts", "bin/", "deploy", "rollout", "runbook"},
		pattern:    regexp.MustCompile(`\.(sh|bash|ps1)$`),
	},
	{
		surface:    models.SurfaceEnvConfig,
		substrings: []string{"environments/", ".env", "env/", "dotenv"},
	},
	{
		surface:    models.SurfaceConfig,
		substrings: []string{"config/", "configs/", "settings", "config."},
		pattern:    regexp.MustCompile(`\.(ini|conf|cnf|properties)$`),
	},
	{
		surface:    models.SurfacePrivilege,
		substrings: []string{"sudo", "rbac", "privilege", "permission", "iam/", "setcap", "acl"},
	},
	{
		surface:    models.SurfaceAuth,
		substrings: []string{"auth", "secret", "token", "key", "credential", "password", "cert", "oauth", "sso"},
	},
	{
		surface:    models.SurfaceNetwork,
		substrings: []string{"firewall", "network", "ingress", "egress", "proxy", "dns", "nginx", "iptables", "listen"},
	},
}

// Path returns every surface a single path touches.
func Path(path string) models.SurfaceSet {
	set := models.NewSurfaceSet()
	lower := strings.ToLower(path)

	for _, r := range rules {
		matched := false
		for _, sub := range r.substrings {
			if strings.Contains(lower, sub) {
				matched = true
				break
			}
		}
		if !matched && r.pattern != nil {
			matched = r.pattern.MatchString(lower)
		}
		if matched {
			set.Add(r.surface)
		}
	}
	return set
}

// Paths returns the union of surfaces across all changed paths. An
// empty path list yields an empty set.
func Paths(paths []string) models.SurfaceSet {
	set := models.NewSurfaceSet()
	for _, p := range paths {
		set = set.Union(Path(p))
	}
	return set
}
