// Package prompt renders the layout-generation instruction.
//
// Build is a pure function: no I/O, no clock, no map iteration. Identical
// inputs produce byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/tsukumogami/sitegen/internal/analysis"
	"github.com/tsukumogami/sitegen/internal/brand"
)

// TagFormat is the artifact wrapper the generator is told to emit and the
// parser scans for.
const TagFormat = `<Component name="%s">`

const closeTag = "</Component>"

// componentHints describe what each default component should contain.
var componentHints = map[string]string{
	"Layout":   "Main layout component that composes all sections\nImport and render every section component\nInclude proper TypeScript interfaces",
	"Hero":     "Hero section component based on reference URL pattern\nUse the hero content and branding\nInclude CTA button functionality",
	"About":    "About section component based on reference URL pattern\nUse the about content and branding\nHandle multi-paragraph content properly",
	"Approach": "Approach/Services section based on reference URL pattern\nUse the approach content with its pillars\nCreate visually appealing pillar layout",
	"Contact":  "Contact section component based on reference URL pattern\nUse the contact content\nInclude proper form structure if reference has forms",
}

// Build renders the generation prompt. Nil inputs render as empty segments.
func Build(a *analysis.StructuralAnalysis, c *brand.Content, b *brand.Config) string {
	if a == nil {
		a = &analysis.StructuralAnalysis{}
	}
	if c == nil {
		c = &brand.Content{}
	}
	if b == nil {
		b = &brand.Config{}
	}

	var sb strings.Builder
	sb.WriteString("# Layout Generation Task\n\n")
	sb.WriteString("You are an expert React/TypeScript developer tasked with creating a professional website layout that faithfully recreates the structural patterns from a reference URL while applying specific branding and content.\n\n")

	writeAnalysis(&sb, a)
	writeBrand(&sb, b)
	writeContent(&sb, c)
	writeRequirements(&sb, b)
	writeOutputFormat(&sb, b.ComponentNames())
	writeGuidelines(&sb, b)

	return sb.String()
}

func writeAnalysis(sb *strings.Builder, a *analysis.StructuralAnalysis) {
	sb.WriteString("## Reference URL Analysis\n")
	fmt.Fprintf(sb, "**URL**: %s\n\n", a.URL)

	sb.WriteString("**Structural Sections**:\n")
	for i, s := range a.Sections {
		fmt.Fprintf(sb, "%d. **%s** (Priority %d)\n", i+1, s.Name, s.Hierarchy)
		fmt.Fprintf(sb, "   - Purpose: %s\n", s.Purpose)
		fmt.Fprintf(sb, "   - Elements: %s\n", strings.Join(s.Elements, ", "))
	}

	sb.WriteString("\n**Layout Patterns Identified**:\n")
	for _, p := range a.LayoutPatterns {
		fmt.Fprintf(sb, "- **%s**: %s\n", p.Type, p.Structure)
	}

	sb.WriteString("\n**Visual Style Patterns**:\n")
	fmt.Fprintf(sb, "- Background colors: %s\n", strings.Join(a.ColorUsage.Background, ", "))
	fmt.Fprintf(sb, "- Text colors: %s\n", strings.Join(a.ColorUsage.Text, ", "))
	fmt.Fprintf(sb, "- Accent colors: %s\n\n", strings.Join(a.ColorUsage.Accents, ", "))
}

func writeBrand(sb *strings.Builder, b *brand.Config) {
	fmt.Fprintf(sb, "## %s Brand Requirements\n\n", brandName(b))

	sb.WriteString("**Brand Identity**:\n")
	fmt.Fprintf(sb, "- Company: %s\n", b.Name)
	fmt.Fprintf(sb, "- Tagline: %s\n\n", b.Tagline)

	sb.WriteString("**Color Palette** (USE THESE EXACT VALUES):\n")
	for _, tok := range b.Colors {
		label := tok.Label
		if label == "" {
			label = tok.Name
		}
		fmt.Fprintf(sb, "- %s: %s\n", label, tok.Value)
	}

	sb.WriteString("\n**Typography**:\n")
	fmt.Fprintf(sb, "- Headlines: %s\n", b.Fonts.Serif)
	fmt.Fprintf(sb, "- Body Text: %s\n", b.Fonts.Sans)
	fmt.Fprintf(sb, "- Alternative: %s\n\n", b.Fonts.Alt)
}

func writeContent(sb *strings.Builder, c *brand.Content) {
	sb.WriteString("## Content to Use (EXACT TEXT)\n\n")

	sb.WriteString("**Hero Section**:\n")
	fmt.Fprintf(sb, "- Headline: \"%s\"\n", c.Hero.Headline)
	fmt.Fprintf(sb, "- Subheadline: \"%s\"\n", c.Hero.Subheadline)
	fmt.Fprintf(sb, "- CTA Button: \"%s\" (links to \"%s\")\n\n", c.Hero.CTA.Text, c.Hero.CTA.Link)

	sb.WriteString("**About Section**:\n")
	fmt.Fprintf(sb, "- Headline: \"%s\"\n", c.About.Headline)
	sb.WriteString("- Content:")
	for i, p := range c.About.Body {
		fmt.Fprintf(sb, "\n  Paragraph %d: \"%s\"", i+1, p)
	}
	sb.WriteString("\n\n")

	sb.WriteString("**Approach Section**:\n")
	fmt.Fprintf(sb, "- Headline: \"%s\"\n", c.Approach.Headline)
	fmt.Fprintf(sb, "- Subheadline: \"%s\"\n", c.Approach.Subheadline)
	sb.WriteString("- Pillars:")
	for i, p := range c.Approach.Pillars {
		fmt.Fprintf(sb, "\n  %d. %s: \"%s\"", i+1, p.Title, p.Description)
	}
	sb.WriteString("\n\n")

	sb.WriteString("**Contact Section**:\n")
	fmt.Fprintf(sb, "- Headline: \"%s\"\n", c.Contact.Headline)
	fmt.Fprintf(sb, "- Email: \"%s\"\n\n", c.Contact.Email)
}

func writeRequirements(sb *strings.Builder, b *brand.Config) {
	sb.WriteString(`## Technical Requirements

### React/TypeScript Standards
- Use TypeScript with strict typing
- Define interfaces for all component props
- Use kebab-case for filenames, PascalCase for components
- Prefer functional components with explicit return types
- Use meaningful prop destructuring with default values

### Tailwind CSS Standards
- Use utility-first approach with semantic class names
- Implement mobile-first responsive design
`)
	if tok, ok := primaryColor(b); ok {
		fmt.Fprintf(sb, "- Use exact brand colors via arbitrary value syntax: `bg-[%s]`\n", tok.Value)
	}
	sb.WriteString(`- Follow consistent spacing scale: py-24 px-6 for sections, max-w-4xl mx-auto for containers
- Use semantic HTML5 elements (section, header, main, footer)

### Accessibility Requirements
- Proper heading hierarchy (h1 > h2 > h3)
- ARIA labels for interactive elements
- Semantic HTML structure
- Proper alt text for images (use descriptive placeholders)
- Keyboard navigation support

### Performance Requirements
- No client-side JavaScript (server-rendered components only)
- Optimized for static site generation
- Minimal CSS footprint using Tailwind utilities

`)
}

func writeOutputFormat(sb *strings.Builder, components []string) {
	sb.WriteString("## Output Format\n\n")
	sb.WriteString("Generate a complete layout system with the following components. Wrap each component in XML tags with the component name, exactly as shown. Emit one block per component and never nest blocks:\n\n")

	for _, name := range components {
		fmt.Fprintf(sb, TagFormat+"\n", name)
		hint, ok := componentHints[name]
		if !ok {
			hint = name + " section component based on reference URL pattern"
		}
		for _, line := range strings.Split(hint, "\n") {
			fmt.Fprintf(sb, "// %s\n", line)
		}
		sb.WriteString(closeTag + "\n\n")
	}
}

func writeGuidelines(sb *strings.Builder, b *brand.Config) {
	name := brandName(b)
	sb.WriteString("## Critical Guidelines\n\n")
	sb.WriteString("1. **Faithful Structure Recreation**: Study the reference URL's layout patterns and recreate the STRUCTURE and COMPOSITION, not the visual styling\n")
	fmt.Fprintf(sb, "2. **Brand Consistency**: Apply %s colors, fonts, and content throughout - never use reference URL content\n", name)
	fmt.Fprintf(sb, "3. **Content Accuracy**: Use the exact %s content provided - do not modify headlines, body text, or CTAs\n", name)
	sb.WriteString("4. **Professional Quality**: Generate production-ready code that compiles without errors\n")
	sb.WriteString("5. **Responsive Design**: Ensure components work across mobile, tablet, and desktop viewports\n")
	sb.WriteString("6. **Type Safety**: All components must have proper TypeScript interfaces and type definitions\n\n")

	fg, bg := "#000000", "#FFFFFF"
	if tok, ok := primaryColor(b); ok {
		fg = tok.Value
	}
	if len(b.Colors) > 1 {
		bg = b.Colors[1].Value
	}
	sb.WriteString("## Example Component Structure\n\n```tsx\n")
	sb.WriteString("interface HeroProps {\n  headline: string;\n  subheadline: string;\n  ctaText: string;\n  ctaLink: string;\n}\n\n")
	sb.WriteString("export default function Hero({ headline, subheadline, ctaText, ctaLink }: HeroProps) {\n  return (\n")
	fmt.Fprintf(sb, "    <section className=\"min-h-screen flex items-center justify-center bg-[%s] text-[%s]\">\n", fg, bg)
	sb.WriteString("      {/* Component implementation */}\n    </section>\n  );\n}\n```\n\n")

	fmt.Fprintf(sb, "Generate all components now, ensuring they follow the structural patterns from the reference URL while applying %s branding consistently.", name)
}

func brandName(b *brand.Config) string {
	if b.Name == "" {
		return "Target"
	}
	return b.Name
}

// primaryColor is the first palette entry.
func primaryColor(b *brand.Config) (brand.ColorToken, bool) {
	if len(b.Colors) == 0 {
		return brand.ColorToken{}, false
	}
	return b.Colors[0], true
}
