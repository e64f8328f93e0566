package copier

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Serenacula/templative/pkg/types"
)

// Rewrite is the link target to write at the destination
type Rewrite struct {
	// Target is what the new link should point at
	Target string
	// Raw is the unresolved target read from the source link
	Raw string
	// Broken is set when the source link does not resolve; Target is Raw
	Broken bool
	// Inside is set when the link resolves within the source root
	Inside bool
}

// RewriteTarget computes the target for recreating srcLink at dstLink.
//
// Relative targets are resolved against the link's parent. A link that
// resolves inside srcRoot stays inside the new tree: relative targets are
// kept verbatim and absolute ones become relative to dstLink's parent. A
// link that resolves outside gets the canonical absolute path. A broken
// link keeps its raw target.
func RewriteTarget(fsys types.FS, srcLink, dstLink, srcRoot, dstRoot string) (Rewrite, error) {
	raw, err := fsys.Readlink(srcLink)
	if err != nil {
		return Rewrite{}, fmt.Errorf("failed to read link %s: %w", srcLink, err)
	}

	abs := raw
	if !filepath.IsAbs(raw) {
		abs = filepath.Join(filepath.Dir(srcLink), raw)
	}

	resolved, err := fsys.EvalSymlinks(abs)
	if err != nil {
		return Rewrite{Target: raw, Raw: raw, Broken: true}, nil
	}

	root, err := fsys.EvalSymlinks(srcRoot)
	if err != nil {
		root = filepath.Clean(srcRoot)
	}

	rel, inside := within(root, resolved)
	if !inside {
		return Rewrite{Target: resolved, Raw: raw}, nil
	}
	if !filepath.IsAbs(raw) {
		return Rewrite{Target: raw, Raw: raw, Inside: true}, nil
	}

	target, err := filepath.Rel(filepath.Dir(dstLink), filepath.Join(dstRoot, rel))
	if err != nil {
		return Rewrite{}, fmt.Errorf("failed to relativize link %s: %w", dstLink, err)
	}
	return Rewrite{Target: target, Raw: raw, Inside: true}, nil
}

// within reports whether p lies in root, returning p relative to root
func within(root, p string) (string, bool) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
