package skills

import "strings"

// aliasTable relates skill names that describe the same technology or a
// close substitute. Lookups treat the relation as bidirectional.
var aliasTable = map[string][]string{
	"go":         {"golang"},
	"javascript": {"js", "ecmascript"},
	"typescript": {"ts"},
	"python":     {"python3", "py"},
	"postgresql": {"postgres", "psql"},
	"kubernetes": {"k8s"},
	"node":       {"nodejs", "node.js"},
	"react":      {"reactjs", "react.js"},
	"vue":        {"vuejs", "vue.js"},
	"angular":    {"angularjs"},
	"docker":     {"containers", "containerization"},
	"aws":        {"amazon web services"},
	"gcp":        {"google cloud", "google cloud platform"},
	"azure":      {"microsoft azure"},
	"ci/cd":      {"cicd", "continuous integration", "continuous delivery"},
	"rest":       {"rest api", "restful"},
	"sql":        {"mysql", "mariadb"},
	"c#":         {"csharp", ".net"},
	"machine learning": {"ml"},
}

// synonymLexicon groups looser, role-level vocabulary. A hit is weaker
// evidence than an alias match and is weighted accordingly.
var synonymLexicon = map[string][]string{
	"frontend": {"front end", "frontend developer", "ui developer"},
	"backend":  {"back end", "server developer", "api developer"},
	"devops":   {"site reliability", "sre", "platform engineering"},
	"designer": {"graphic designer", "ui designer", "visual designer"},
	"data":     {"data engineering", "data analysis", "analytics"},
	"testing":  {"qa", "quality assurance", "test automation"},
}

// relatedIndex maps every normalized name to its full relation group,
// making alias lookups symmetric.
var relatedIndex = buildIndex(aliasTable)

var lexiconIndex = buildIndex(synonymLexicon)

func buildIndex(table map[string][]string) map[string]map[string]bool {
	idx := make(map[string]map[string]bool, len(table))
	add := func(a, b string) {
		a = strings.ToLower(strings.TrimSpace(a))
		b = strings.ToLower(strings.TrimSpace(b))
		if a == "" || b == "" || a == b {
			return
		}
		if idx[a] == nil {
			idx[a] = make(map[string]bool)
		}
		idx[a][b] = true
	}
	for canon, others := range table {
		for _, o := range others {
			add(canon, o)
			add(o, canon)
			for _, sibling := range others {
				add(o, sibling)
			}
		}
	}
	return idx
}

func aliasRelated(a, b string) bool {
	if rel, ok := relatedIndex[a]; ok && rel[b] {
		return true
	}
	return false
}

func lexiconRelated(a, b string) bool {
	if rel, ok := lexiconIndex[a]; ok && rel[b] {
		return true
	}
	return false
}
