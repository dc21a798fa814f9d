package artifact

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

const heroBody = `interface HeroProps {
  headline: string;
}

export default function Hero({ headline }: HeroProps) {
  return <section><h1>{headline}</h1></section>;
}`

func block(name, body string) string {
	return fmt.Sprintf(`<Component name="%s">%s</Component>`, name, body)
}

func TestParse_NBlocks(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("%d blocks", n), func(t *testing.T) {
			var sb strings.Builder
			sb.WriteString("Here are your components.\n\n")
			for i := 0; i < n; i++ {
				sb.WriteString(block(fmt.Sprintf("Part%d", i), "\n"+heroBody+"\n"))
				sb.WriteString("\n\nSome commentary between blocks.\n\n")
			}

			res, err := Parse(sb.String())
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(res.Artifacts) != n {
				t.Fatalf("got %d artifacts, want %d", len(res.Artifacts), n)
			}
			for i := 0; i < n; i++ {
				key := fmt.Sprintf("Part%d.tsx", i)
				if res.Artifacts[key] != heroBody {
					t.Errorf("%s body = %q, want trimmed body", key, res.Artifacts[key])
				}
			}
			if len(res.Rejections) != 0 {
				t.Errorf("unexpected rejections: %v", res.Rejections)
			}
		})
	}
}

func TestParse_MixedValidity(t *testing.T) {
	text := block("Layout", heroBody) +
		block("Notes", "I could not produce this component, sorry.") +
		block("Hero", "export default function Hero() { return null }") +
		block("Empty", "   ")

	res, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := res.Artifacts.Names(); strings.Join(got, ",") != "Hero.tsx,Layout.tsx" {
		t.Errorf("Names() = %v", got)
	}

	rejected := map[string]string{}
	for _, r := range res.Rejections {
		rejected[r.Key] = r.Reason
	}
	if len(rejected) != 2 || rejected["Notes.tsx"] != ReasonNotCode || rejected["Empty.tsx"] != ReasonNotCode {
		t.Errorf("Rejections = %v", res.Rejections)
	}
}

func TestParse_NoArtifacts(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		found int
	}{
		{"empty", "", 0},
		{"prose only", "I'm sorry, I cannot help with that.", 0},
		{"wrong case", `<component name="Hero">` + heroBody + `</component>`, 0},
		{"unterminated", `<Component name="Hero">` + heroBody, 0},
		{"only invalid", block("A", "hello") + block("B", "world"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)

			var noArt *NoArtifactsError
			if !errors.As(err, &noArt) {
				t.Fatalf("expected *NoArtifactsError, got %v", err)
			}
			if noArt.Found != tt.found {
				t.Errorf("Found = %d, want %d", noArt.Found, tt.found)
			}
			if noArt.Response != tt.text {
				t.Errorf("Response = %q, want raw text", noArt.Response)
			}
		})
	}
}

func TestParse_NoArtifactsBoundsResponse(t *testing.T) {
	text := strings.Repeat("x", 5000)
	_, err := Parse(text)

	var noArt *NoArtifactsError
	if !errors.As(err, &noArt) {
		t.Fatalf("expected *NoArtifactsError, got %v", err)
	}
	if len(noArt.Response) > maxResponse+len("...") {
		t.Errorf("Response length %d not bounded", len(noArt.Response))
	}
}

func TestParse_AngleBracketsPreserved(t *testing.T) {
	body := `export default function Guard({ a, b, c, d }: Props) {
  if (a > b && c < d) {
    return <p>{a} &lt; {b}</p>;
  }
  return <Fragment><span>x</span></Fragment>;
}`
	text := block("Guard", body) + "\n" + block("Hero", heroBody)

	res, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Artifacts["Guard.tsx"] != body {
		t.Errorf("Guard body altered:\n%s", res.Artifacts["Guard.tsx"])
	}
	if res.Artifacts["Hero.tsx"] != heroBody {
		t.Error("second block boundary lost")
	}
}

func TestParse_DuplicateLastWins(t *testing.T) {
	text := block("Hero", "return 1") + block("Hero", "return 2")

	res, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Artifacts["Hero.tsx"] != "return 2" {
		t.Errorf("Hero.tsx = %q, want last block", res.Artifacts["Hero.tsx"])
	}
	if len(res.Duplicates) != 1 || res.Duplicates[0] != "Hero.tsx" {
		t.Errorf("Duplicates = %v", res.Duplicates)
	}
}

func TestParse_InvalidDuplicateDoesNotReplace(t *testing.T) {
	text := block("Hero", "return 1") + block("Hero", "oops")

	res, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Artifacts["Hero.tsx"] != "return 1" {
		t.Errorf("Hero.tsx = %q, want the valid block", res.Artifacts["Hero.tsx"])
	}
	if len(res.Duplicates) != 0 {
		t.Errorf("Duplicates = %v", res.Duplicates)
	}
}

func TestParser_CustomSuffixAndValidator(t *testing.T) {
	p := &Parser{
		Suffix:    ".vue",
		Validator: ValidatorFunc(func(body string) bool { return strings.HasPrefix(body, "<template>") }),
	}

	res, err := p.Parse(block("Hero", "<template><h1/></template>") + block("About", heroBody))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := res.Artifacts["Hero.vue"]; !ok || len(res.Artifacts) != 1 {
		t.Errorf("Artifacts = %v", res.Artifacts.Names())
	}
}

type fixedScanner []Block

func (f fixedScanner) Scan(string) []Block { return f }

func TestParser_CustomScanner(t *testing.T) {
	p := NewParser()
	p.Scanner = fixedScanner{{Name: "FromJSON", Body: "  return x  "}}

	res, err := p.Parse("ignored")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Artifacts["FromJSON.tsx"] != "return x" {
		t.Errorf("Artifacts = %v", res.Artifacts)
	}
}

func TestMarkerValidator(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"interface Props {}", true},
		{"export default function X() {}", true},
		{"const x = () => { return 1 }", true},
		{"just some prose", false},
		{"", false},
		{"Interface Props", false},
	}
	for _, tt := range tests {
		if got := (MarkerValidator{}).LooksLikeCode(tt.body); got != tt.want {
			t.Errorf("LooksLikeCode(%q) = %v, want %v", tt.body, got, tt.want)
		}
	}

	custom := MarkerValidator{Markers: []string{"<template>"}}
	if custom.LooksLikeCode("return x") {
		t.Error("custom markers should replace the defaults")
	}
}

func TestTagScanner_NonGreedy(t *testing.T) {
	blocks := TagScanner{}.Scan(`<Component name="A">one</Component> mid <Component name="B">two</Component>`)
	if len(blocks) != 2 || blocks[0].Body != "one" || blocks[1].Name != "B" {
		t.Errorf("blocks = %+v", blocks)
	}
}
