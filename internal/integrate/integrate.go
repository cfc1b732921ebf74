// Package integrate detects editor environments (Cursor, Claude, Windsurf)
// in a target directory and writes the personality context into each
// editor's native rules file. Integration is best-effort by contract: the
// pipeline degrades rather than fails when anything here goes wrong.
package integrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kalambet/quirk/internal/profile"
)

// Environment type tags.
const (
	EnvCursor   = "cursor"
	EnvClaude   = "claude"
	EnvWindsurf = "windsurf"
)

// Environment is a detected editor environment at a target path.
type Environment struct {
	Name       string  `json:"name"`
	TypeTag    string  `json:"type_tag"`
	Confidence float64 `json:"confidence"`
	ConfigPath string  `json:"config_path"`
}

// WriteResult reports the outcome of writing a rules file.
type WriteResult struct {
	Success     bool   `json:"success"`
	WrittenPath string `json:"written_path,omitempty"`
	Message     string `json:"message"`
}

// Integrator probes and writes editor configuration. Stateless.
type Integrator struct{}

// New creates an Integrator.
func New() *Integrator {
	return &Integrator{}
}

// markers are the filesystem probes, checked in order. A directory marker
// scores higher than a single file because it is a stronger signal the
// editor is actually configured for the project.
var markers = []struct {
	typeTag    string
	name       string
	relPath    string
	isDir      bool
	confidence float64
}{
	{EnvCursor, "Cursor", ".cursor", true, 0.9},
	{EnvCursor, "Cursor", ".cursorrules", false, 0.7},
	{EnvClaude, "Claude Code", "CLAUDE.md", false, 0.9},
	{EnvClaude, "Claude Code", ".claude", true, 0.8},
	{EnvWindsurf, "Windsurf", ".windsurfrules", false, 0.9},
}

// Detect probes path for known editor environments. An empty result means
// "unknown environment" and is not an error.
func (i *Integrator) Detect(path string) []Environment {
	var envs []Environment
	seen := make(map[string]bool)
	for _, m := range markers {
		if seen[m.typeTag] {
			continue
		}
		full := filepath.Join(path, m.relPath)
		info, err := os.Stat(full)
		if err != nil || info.IsDir() != m.isDir {
			continue
		}
		seen[m.typeTag] = true
		envs = append(envs, Environment{
			Name:       m.name,
			TypeTag:    m.typeTag,
			Confidence: m.confidence,
			ConfigPath: full,
		})
	}
	return envs
}

// Write emits the personality context into the rules file for typeTag under
// path, creating parent directories as needed.
func (i *Integrator) Write(typeTag string, p profile.Profile, context, path string) (WriteResult, error) {
	var target string
	switch typeTag {
	case EnvCursor:
		target = filepath.Join(path, ".cursor", "rules", "personality.mdc")
	case EnvClaude:
		target = filepath.Join(path, "CLAUDE.md")
	case EnvWindsurf:
		target = filepath.Join(path, ".windsurfrules")
	default:
		return WriteResult{Success: false, Message: fmt.Sprintf("unknown environment %q", typeTag)},
			fmt.Errorf("unknown environment %q", typeTag)
	}

	content := fileContent(typeTag, p, context)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return WriteResult{Success: false, Message: err.Error()}, fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return WriteResult{Success: false, Message: err.Error()}, fmt.Errorf("writing %s: %w", target, err)
	}

	return WriteResult{
		Success:     true,
		WrittenPath: target,
		Message:     fmt.Sprintf("wrote %s personality rules for %s", typeTag, p.Name),
	}, nil
}

func fileContent(typeTag string, p profile.Profile, context string) string {
	var b strings.Builder
	if typeTag == EnvCursor {
		// Cursor .mdc rule files carry frontmatter.
		b.WriteString("---\ndescription: Personality configuration\nalwaysApply: true\n---\n\n")
	}
	b.WriteString(context)
	if !strings.HasSuffix(context, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
