package analyzer

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ignoreList matches paths against patterns from a project's .gitignore so
// the walk respects whatever the uploaded project itself excludes.
type ignoreList struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	regex   *regexp.Regexp
	negate  bool
	dirOnly bool
	rooted  bool
}

// loadIgnoreList parses the .gitignore at the project root. A missing file
// yields an empty list.
func loadIgnoreList(root string) *ignoreList {
	list := &ignoreList{}

	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return list
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		list.add(strings.TrimSpace(scanner.Text()))
	}

	return list
}

// add compiles a single gitignore line; invalid patterns are skipped.
func (l *ignoreList) add(line string) {
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	p := ignorePattern{}

	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.rooted = true
		line = line[1:]
	}

	expr := regexp.QuoteMeta(line)
	expr = strings.ReplaceAll(expr, `\*\*`, ".*")
	expr = strings.ReplaceAll(expr, `\*`, "[^/]*")
	expr = strings.ReplaceAll(expr, `\?`, ".")

	regex, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return
	}

	p.regex = regex
	l.patterns = append(l.patterns, p)
}

// ignored checks a slash-separated relative path. Later patterns win, so a
// negation can re-include a previously ignored path.
func (l *ignoreList) ignored(relPath string, isDir bool) bool {
	ignored := false

	for _, p := range l.patterns {
		if p.dirOnly && !isDir {
			continue
		}

		matched := false
		if p.rooted {
			matched = p.regex.MatchString(relPath)
		} else {
			matched = p.regex.MatchString(relPath) || p.regex.MatchString(pathBase(relPath))
		}

		if matched {
			ignored = !p.negate
		}
	}

	return ignored
}

func pathBase(relPath string) string {
	if i := strings.LastIndexByte(relPath, '/'); i >= 0 {
		return relPath[i+1:]
	}
	return relPath
}
