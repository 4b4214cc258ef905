package parser

import (
	"path/filepath"
	"strings"
)

// extensionToLanguage maps file extensions to the file-type tag stored
// on IndexedDocument.Language.
var extensionToLanguage = map[string]string{
	".md":       "markdown",
	".markdown": "markdown",
	".mdx":      "markdown",
	".go":       "go",
	".py":       "python",
	".pyi":      "python",
	".ts":       "typescript",
	".tsx":      "typescript",
	".mts":      "typescript",
	".js":       "javascript",
	".jsx":      "javascript",
	".mjs":      "javascript",
	".cjs":      "javascript",
	".java":     "java",
	".rs":       "rust",
	".rb":       "ruby",
	".php":      "php",
	".c":        "c",
	".h":        "c",
	".cpp":      "cpp",
	".cc":       "cpp",
	".hpp":      "cpp",
	".cs":       "csharp",
	".kt":       "kotlin",
	".swift":    "swift",
	".sh":       "shell",
	".bash":     "shell",
	".css":      "css",
	".scss":     "css",
	".sass":     "css",
	".less":     "css",
	".yaml":     "yaml",
	".yml":      "yaml",
	".json":     "json",
	".toml":     "toml",
	".sql":      "sql",
	".html":     "html",
	".htm":      "html",
	".txt":      "text",
}

// DetectLanguage returns the file-type tag for a path, or "unknown".
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(path)))
	if lang, ok := extensionToLanguage[ext]; ok {
		return lang
	}
	return "unknown"
}
