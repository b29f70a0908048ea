// Package parser reads inbox Markdown documents: YAML frontmatter, a title,
// the body and the open checklist items that become tasks.
package parser

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var actionRe = regexp.MustCompile(`^\s*[-*]\s+\[ \]\s+(.+?)\s*$`)

// Frontmatter holds the recognised header keys of an inbox document.
type Frontmatter struct {
	Title    string `yaml:"title"`
	Segment  string `yaml:"segment"`
	Folder   string `yaml:"folder"`
	Summary  string `yaml:"summary"`
	Owner    string `yaml:"owner"`
	Deadline string `yaml:"deadline"`
}

// Result holds the output of parsing an inbox document.
type Result struct {
	Frontmatter Frontmatter
	Subject     string
	Body        string
	ActionItems []string
}

// Parse splits frontmatter from body, derives a subject and collects the
// unchecked "- [ ] text" items. name is the file name, used as the subject
// of last resort.
func Parse(name string, data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	return &Result{
		Frontmatter: fm,
		Subject:     deriveSubject(fm, body, name),
		Body:        body,
		ActionItems: extractActionItems(body),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. Without frontmatter the entire content is body.
func splitFrontmatter(data []byte) (Frontmatter, string, error) {
	const delim = "---"
	var fm Frontmatter
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return fm, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return fm, string(data), nil
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Unreadable header: keep the whole document as body.
		return Frontmatter{}, string(data), nil
	}
	return fm, body, nil
}

func extractActionItems(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if m := actionRe.FindStringSubmatch(line); m != nil {
			out = append(out, m[1])
		}
	}
	return out
}

// deriveSubject returns the frontmatter title, else the first H1 heading,
// else the file name without extension.
func deriveSubject(fm Frontmatter, body, name string) string {
	if s := strings.TrimSpace(fm.Title); s != "" {
		return s
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
