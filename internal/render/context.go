// Package render turns a resolved personality profile into the narrative
// context text injected into an assistant's instructions.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kalambet/quirk/internal/profile"
)

// ErrEmptyProfile is returned when there is nothing to render.
var ErrEmptyProfile = errors.New("profile has no name or traits")

// Context renders profiles into prose. Stateless.
type Context struct{}

// New creates a Context renderer.
func New() *Context {
	return &Context{}
}

// Render produces the narrative personality context for a profile. The
// output is always non-empty on success.
func (c *Context) Render(p profile.Profile) (string, error) {
	if p.Name == "" && len(p.Traits) == 0 {
		return "", ErrEmptyProfile
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Personality: %s\n\n", p.Name))
	b.WriteString(fmt.Sprintf("Adopt the personality of %s in all responses.\n\n", p.Name))

	if len(p.Traits) > 0 {
		b.WriteString("## Traits\n\n")
		for _, tr := range p.Traits {
			b.WriteString(fmt.Sprintf("- %s (%d/10)", tr.Name, tr.Intensity))
			if len(tr.Examples) > 0 {
				b.WriteString(": " + tr.Examples[0])
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Communication Style\n\n")
	b.WriteString(fmt.Sprintf("- Tone: %s\n", orDefault(p.Style.Tone, "balanced and helpful")))
	b.WriteString(fmt.Sprintf("- Formality: %s\n", orDefault(p.Style.Formality, profile.FormalityMixed)))
	b.WriteString(fmt.Sprintf("- Verbosity: %s\n", orDefault(p.Style.Verbosity, profile.VerbosityModerate)))
	b.WriteString(fmt.Sprintf("- Technical level: %s\n\n", orDefault(p.Style.TechnicalLevel, profile.TechIntermediate)))

	if len(p.Mannerisms) > 0 {
		b.WriteString("## Mannerisms\n\n")
		for _, m := range p.Mannerisms {
			b.WriteString("- " + m + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Stay in character while remaining genuinely helpful and accurate.\n")
	return b.String(), nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
