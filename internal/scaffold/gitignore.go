package scaffold

import (
	"fmt"
	"strings"
)

const (
	customTemplateNameConstant      = "custom"
	gitignoreHeaderTemplateConstant = "# .gitignore for %s projects\n"
	gitignoreIntroTemplateConstant  = "# No files are ignored for %s projects by default\n# Add specific patterns as needed for your project\n\n# Common patterns you might want to add:\n"
	commentedPatternTemplate        = "# %s\n"
)

// CustomTemplates lists the gitignore templates that are synthesized locally instead of
// being requested from the hosting service.
var CustomTemplates = []string{
	"C++",
	"C#",
	"Dart",
	"Go",
	"Java",
	"JavaScript",
	"Kotlin",
	"PHP",
	"R",
	"Ruby",
	"Rust",
	"Scala",
	"Swift",
	"TypeScript",
}

var javaScriptPatterns = []string{
	"node_modules/",
	".env",
	".env.local",
	".env.development.local",
	".env.test.local",
	".env.production.local",
	"npm-debug.log*",
	"yarn-debug.log*",
	"yarn-error.log*",
	".next/",
	".nuxt/",
	"dist/",
	"build/",
}

var languagePatterns = map[string][]string{
	"JavaScript": javaScriptPatterns,
	"TypeScript": append(append([]string{}, javaScriptPatterns...), "*.tsbuildinfo"),
	"Java":       {"target/", "*.class", "*.jar", "*.war", "*.ear", ".gradle/", "build/", "out/", ".idea/", "*.iml"},
	"C++":        {"build/", "bin/", "obj/", "*.o", "*.a", "*.so", "*.dll", "*.exe", "CMakeFiles/", "CMakeCache.txt", "cmake_install.cmake", "Makefile"},
	"C#":         {"bin/", "obj/", "*.user", "*.suo", "*.cache", "*.dll", "*.exe", "*.pdb", "*.log", ".vs/", "packages/"},
	"Go":         {"bin/", "pkg/", "*.exe", "*.exe~", "*.dll", "*.so", "*.dylib", "go.work"},
	"Rust":       {"target/", "Cargo.lock", "*.pdb"},
	"Python": {
		"__pycache__/", "*.py[cod]", "*$py.class", "*.so", ".Python", "build/", "develop-eggs/", "dist/",
		"downloads/", "eggs/", ".eggs/", "lib/", "lib64/", "parts/", "sdist/", "var/", "wheels/",
		"*.egg-info/", ".installed.cfg", "*.egg", "MANIFEST", ".pytest_cache/", ".coverage", ".env",
		".venv", "env/", "venv/", "ENV/", "env.bak/", "venv.bak/",
	},
}

var genericPatterns = []string{"build/", "dist/", ".env", "*.log", ".cache/", ".tmp/"}

// IsCustomTemplate reports whether templateName is synthesized locally.
func IsCustomTemplate(templateName string) bool {
	if strings.EqualFold(templateName, customTemplateNameConstant) {
		return true
	}
	for _, customTemplate := range CustomTemplates {
		if customTemplate == templateName {
			return true
		}
	}
	return false
}

// IsNativeTemplate reports whether templateName can be handed to the hosting service.
func IsNativeTemplate(templateName string) bool {
	return len(strings.TrimSpace(templateName)) > 0 && !IsCustomTemplate(templateName)
}

// CustomGitignoreContent renders the commented starter .gitignore for templateName.
func CustomGitignoreContent(templateName string) string {
	patterns, known := languagePatterns[templateName]
	if !known {
		patterns = genericPatterns
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(gitignoreHeaderTemplateConstant, templateName))
	builder.WriteString(fmt.Sprintf(gitignoreIntroTemplateConstant, templateName))
	for _, pattern := range patterns {
		builder.WriteString(fmt.Sprintf(commentedPatternTemplate, pattern))
	}
	return builder.String()
}
