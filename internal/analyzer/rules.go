package analyzer

// Detection heuristics are configuration data, not logic: marker filenames
// and extensions map to named technologies, and a small pattern set flags
// conventional entry-point files. Extend the tables, not the analyzer.

// markerTechnologies maps well-known manifest filenames to an ecosystem.
var markerTechnologies = map[string]string{
	"package.json":       "JavaScript/Node.js",
	"tsconfig.json":      "TypeScript",
	"go.mod":             "Go",
	"requirements.txt":   "Python",
	"pyproject.toml":     "Python",
	"cargo.toml":         "Rust",
	"pom.xml":            "Java",
	"build.gradle":       "Java",
	"gemfile":            "Ruby",
	"composer.json":      "PHP",
	"dockerfile":         "Docker",
	"docker-compose.yml": "Docker",
	"makefile":           "Make",
}

// extensionTechnologies maps source file extensions to a language.
var extensionTechnologies = map[string]string{
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".mjs":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".py":    "Python",
	".go":    "Go",
	".rs":    "Rust",
	".java":  "Java",
	".kt":    "Kotlin",
	".rb":    "Ruby",
	".php":   "PHP",
	".cs":    "C#",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".swift": "Swift",
	".vue":   "Vue",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "CSS",
	".sql":   "SQL",
	".sh":    "Shell",
}

// entryPointPrefixes flag conventionally-named top-level files.
var entryPointPrefixes = []string{"main.", "index.", "app.", "server."}

// ignoredDirectories are pruned from the walk entirely. Dependency and build
// output trees dominate file counts without describing the project.
var ignoredDirectories = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	".git":         true,
	".svn":         true,
	".hg":          true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"target":       true,
	"__pycache__":  true,
	".next":        true,
	".nuxt":        true,
	"coverage":     true,
	".idea":        true,
	".vscode":      true,
	".cache":       true,
}

// searchStopwords are filtered out of search queries; they match too much to
// be useful as file keywords.
var searchStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "what": true,
	"how": true, "why": true, "does": true, "this": true, "that": true,
	"with": true, "from": true, "have": true, "about": true, "where": true,
	"which": true, "please": true, "show": true, "tell": true, "explain": true,
	"code": true, "file": true, "files": true, "project": true,
}
