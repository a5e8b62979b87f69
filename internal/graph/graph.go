// Package graph derives the wiki-link graph from the note corpus: a
// node/edge list for the visualization surface and backlink listings for
// the editor. It is a pure function of the persisted markdown; editing
// session state never feeds it.
package graph

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quillmd/quill/internal/store"
	"github.com/quillmd/quill/internal/wikilink"
)

// Node is one graph node. Group integers are stable within one Build call
// only; they are display hints, not persisted identifiers.
type Node struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Group int    `json:"group"`
}

// Link is one directed edge between notes. Value signals existence, not
// link count: repeated links between the same pair collapse to one edge of
// weight 1.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// Graph is the snapshot handed to the external renderer.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// unfiledGroup is the group index for notes outside any folder.
const unfiledGroup = 1

// Build scans every note's content for wiki-links, resolves targets against
// note titles case-insensitively, and produces the deduplicated edge list.
// Self-edges are excluded; unresolvable targets are dropped (Unresolved
// enumerates them separately). Notes in folders matching an ignore glob are
// left out entirely.
func Build(notes []store.Note, folders []store.Folder, ignoreGlobs []string) Graph {
	folderPaths := folderPathIndex(folders)

	groups := make(map[string]int, len(folders))
	for i, f := range folders {
		groups[f.ID] = i + 2
	}

	byTitle := make(map[string]store.Note, len(notes))
	included := make([]store.Note, 0, len(notes))
	for _, n := range notes {
		if ignored(folderPaths[n.FolderID], ignoreGlobs) {
			continue
		}
		included = append(included, n)
		byTitle[strings.ToLower(n.Title)] = n
	}

	g := Graph{Nodes: make([]Node, 0, len(included))}
	for _, n := range included {
		group := unfiledGroup
		if idx, ok := groups[n.FolderID]; ok && n.FolderID != "" {
			group = idx
		}
		g.Nodes = append(g.Nodes, Node{ID: n.ID, Title: n.Title, Group: group})
	}

	seen := make(map[[2]string]struct{})
	for _, n := range included {
		for _, m := range wikilink.FindAll(n.Content) {
			target, ok := byTitle[strings.ToLower(m.Target)]
			if !ok || target.ID == n.ID {
				continue
			}
			key := [2]string{n.ID, target.ID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			g.Links = append(g.Links, Link{Source: n.ID, Target: target.ID, Value: 1})
		}
	}

	sort.Slice(g.Links, func(i, j int) bool {
		if g.Links[i].Source != g.Links[j].Source {
			return g.Links[i].Source < g.Links[j].Source
		}
		return g.Links[i].Target < g.Links[j].Target
	})
	return g
}

// Unresolved returns the distinct wiki-link targets that match no note
// title, sorted. These feed the create-missing-note affordance; they are
// not errors.
func Unresolved(notes []store.Note) []string {
	titles := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		titles[strings.ToLower(n.Title)] = struct{}{}
	}

	missing := make(map[string]string)
	for _, n := range notes {
		for _, m := range wikilink.FindAll(n.Content) {
			key := strings.ToLower(m.Target)
			if _, ok := titles[key]; !ok {
				missing[key] = m.Target
			}
		}
	}

	out := make([]string, 0, len(missing))
	for _, target := range missing {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// Backlinks lists the notes whose content references the given title,
// case-insensitively. It runs the same recognizer as the edge builder, so
// the backlink panel and the graph can never disagree on what counts as a
// link token.
func Backlinks(title string, notes []store.Note) []store.Note {
	var out []store.Note
	for _, n := range notes {
		if strings.EqualFold(n.Title, title) {
			continue
		}
		for _, m := range wikilink.FindAll(n.Content) {
			if strings.EqualFold(m.Target, title) {
				out = append(out, n)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// Outbound resolves the notes the given note links to, in first-mention
// order with repeats collapsed. Unresolvable targets are skipped.
func Outbound(n store.Note, notes []store.Note) []store.Note {
	byTitle := make(map[string]store.Note, len(notes))
	for _, other := range notes {
		byTitle[strings.ToLower(other.Title)] = other
	}

	seen := make(map[string]struct{})
	var out []store.Note
	for _, m := range wikilink.FindAll(n.Content) {
		target, ok := byTitle[strings.ToLower(m.Target)]
		if !ok || target.ID == n.ID {
			continue
		}
		if _, dup := seen[target.ID]; dup {
			continue
		}
		seen[target.ID] = struct{}{}
		out = append(out, target)
	}
	return out
}

// folderPathIndex maps folder ids to their slash-joined name paths, used
// for glob matching.
func folderPathIndex(folders []store.Folder) map[string]string {
	byID := make(map[string]store.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	paths := make(map[string]string, len(folders)+1)
	paths[""] = ""
	var build func(id string, depth int) string
	build = func(id string, depth int) string {
		if p, ok := paths[id]; ok {
			return p
		}
		f, ok := byID[id]
		if !ok || depth > len(folders) {
			return ""
		}
		parent := build(f.ParentID, depth+1)
		p := f.Name
		if parent != "" {
			p = parent + "/" + f.Name
		}
		paths[id] = p
		return p
	}
	for id := range byID {
		build(id, 0)
	}
	return paths
}

func ignored(folderPath string, globs []string) bool {
	if folderPath == "" {
		return false
	}
	for _, pattern := range globs {
		if pattern == "" {
			continue
		}
		if ok, err := doublestar.Match(pattern, folderPath); err == nil && ok {
			return true
		}
	}
	return false
}
