// Package prompt assembles synthesis prompt pairs from virtual model
// attributes. Everything here is pure: same inputs, same strings, no I/O.
package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ainaphakhruddin/airchives/internal/domain"
)

// Background enumerates the supported studio settings.
type Background string

const (
	BackgroundWhite      Background = "white"
	BackgroundGrey       Background = "grey"
	BackgroundBeige      Background = "beige"
	BackgroundStreetwear Background = "streetwear"
	BackgroundIndoorLoft Background = "indoor_loft"
)

// DefaultBackground is used when the request leaves the setting unset.
const DefaultBackground = BackgroundWhite

var backgroundPhrases = map[Background]string{
	BackgroundWhite:      "clean white studio background, professional lighting",
	BackgroundGrey:       "neutral grey studio background, soft lighting",
	BackgroundBeige:      "warm beige studio background, natural lighting",
	BackgroundStreetwear: "urban street background, city setting, natural lighting",
	BackgroundIndoorLoft: "modern loft interior, warm lighting, lifestyle setting",
}

const qualitySuffix = "ultra realistic, 8k, detailed textures, professional photography, fashion magazine quality"

const defaultNegativePrompt = "blurry, low quality, distorted, deformed, disfigured, bad anatomy, " +
	"extra limbs, missing limbs, floating limbs, disconnected limbs, mutation, mutated, ugly, " +
	"disgusting, amputation, low resolution, jpeg artifacts, compression artifacts, noise, grain, " +
	"film grain, out of focus, poorly drawn, bad art, beginner, amateur, distorted face"

var lower = cases.Lower(language.English)

// Valid reports whether the background is one of the supported settings.
func (b Background) Valid() bool {
	_, ok := backgroundPhrases[b]
	return ok
}

// Normalize folds free-form input onto the supported set, falling back to the
// default setting for anything unrecognized.
func Normalize(background string) Background {
	b := Background(lower.String(strings.TrimSpace(background)))
	if b.Valid() {
		return b
	}
	return DefaultBackground
}

// Build assembles the prompt pair for one generation. A custom prompt bypasses
// the model template entirely; the background phrase and quality suffix are
// always appended. The negative prompt defaults to the fixed artifact list
// unless the caller overrides it.
func Build(model *domain.VirtualModel, background Background, custom, negativeOverride string) (string, string) {
	base := strings.TrimSpace(custom)
	if base == "" {
		base = fmt.Sprintf(
			"professional fashion photography of %s wearing %s clothing, %s build, %s features, high fashion, editorial style",
			model.Name,
			lower.String(strings.Join(model.StyleTags, ", ")),
			lower.String(model.BodyType),
			lower.String(model.Ethnicity),
		)
	}

	phrase, ok := backgroundPhrases[background]
	if !ok {
		phrase = backgroundPhrases[DefaultBackground]
	}
	full := fmt.Sprintf("%s, %s, %s", base, phrase, qualitySuffix)

	negative := strings.TrimSpace(negativeOverride)
	if negative == "" {
		negative = defaultNegativePrompt
	}
	return full, negative
}
