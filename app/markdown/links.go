package markdown

import "strings"

var safeSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

// href returns the link target to emit. Without SafeLinks the target is
// passed through verbatim.
func (r *Renderer) href(target string) string {
	if !r.opts.SafeLinks {
		return target
	}
	if !allowedTarget(target) {
		return "#"
	}
	return strings.ReplaceAll(target, `"`, "&quot;")
}

func allowedTarget(target string) bool {
	// Browsers ignore whitespace and control characters inside a scheme.
	compact := strings.ToLower(strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, target))

	colon := strings.IndexByte(compact, ':')
	if colon < 0 || strings.ContainsAny(compact[:colon], "/?#") {
		// relative reference
		return true
	}
	scheme := compact[:colon]
	if scheme == "data" {
		return strings.HasPrefix(compact, "data:image/") && !strings.HasPrefix(compact, "data:image/svg")
	}
	return safeSchemes[scheme]
}
