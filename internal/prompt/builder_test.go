package prompt

import (
	"strings"
	"testing"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

func sienna() *domain.VirtualModel {
	return &domain.VirtualModel{
		ID:        "sienna_01",
		Name:      "Sienna",
		Gender:    "FEMALE",
		BodyType:  "Athletic",
		Ethnicity: "Mediterranean",
		StyleTags: []string{"Streetwear", "Urban", "Casual"},
	}
}

func TestBuildFromModelTemplate(t *testing.T) {
	got, negative := Build(sienna(), BackgroundWhite, "", "")

	for _, want := range []string{
		"professional fashion photography of Sienna",
		"wearing streetwear, urban, casual clothing",
		"athletic build",
		"mediterranean features",
		"clean white studio background, professional lighting",
		"fashion magazine quality",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
	if negative != defaultNegativePrompt {
		t.Fatalf("negative = %q, want default", negative)
	}
}

func TestBuildIsPure(t *testing.T) {
	first, firstNeg := Build(sienna(), BackgroundIndoorLoft, "", "")
	second, secondNeg := Build(sienna(), BackgroundIndoorLoft, "", "")
	if first != second || firstNeg != secondNeg {
		t.Fatalf("same inputs produced different prompts")
	}
}

func TestBuildCustomPromptBypassesTemplate(t *testing.T) {
	got, _ := Build(sienna(), BackgroundGrey, "model leaning against a concrete wall", "")

	if !strings.HasPrefix(got, "model leaning against a concrete wall") {
		t.Fatalf("custom prompt not used as base: %s", got)
	}
	if strings.Contains(got, "Sienna") {
		t.Fatalf("custom prompt should bypass the model template: %s", got)
	}
	if !strings.Contains(got, "neutral grey studio background") {
		t.Fatalf("background phrase still appended to custom prompt: %s", got)
	}
	if !strings.Contains(got, qualitySuffix) {
		t.Fatalf("quality suffix still appended to custom prompt: %s", got)
	}
}

func TestBuildNegativeOverride(t *testing.T) {
	_, negative := Build(sienna(), BackgroundWhite, "", "text, watermark")
	if negative != "text, watermark" {
		t.Fatalf("negative = %q, want override", negative)
	}
}

func TestBuildBackgroundPhrases(t *testing.T) {
	cases := []struct {
		background Background
		want       string
	}{
		{BackgroundWhite, "clean white studio background"},
		{BackgroundGrey, "neutral grey studio background"},
		{BackgroundBeige, "warm beige studio background"},
		{BackgroundStreetwear, "urban street background"},
		{BackgroundIndoorLoft, "modern loft interior"},
		{Background("garden"), "clean white studio background"},
	}
	for _, tc := range cases {
		got, _ := Build(sienna(), tc.background, "", "")
		if !strings.Contains(got, tc.want) {
			t.Fatalf("background %q: prompt missing %q:\n%s", tc.background, tc.want, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want Background
	}{
		{"white", BackgroundWhite},
		{" STREETWEAR ", BackgroundStreetwear},
		{"Indoor_Loft", BackgroundIndoorLoft},
		{"garden", BackgroundWhite},
		{"", BackgroundWhite},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
