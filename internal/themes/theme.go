package themes

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme colors back buttons and headers, not body text, so we use the AA large-text threshold.
const wcagAAMinContrastRatio = 3.0
const wcagAAContrastNote = "WCAG AA for large text/UI components"
const maxThemeNameLength = 100
const darkTextColor = "#000000"
const lightTextColor = "#FFFFFF"

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
var hexStopRegex = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)
var themeIDRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
var gradientRegex = regexp.MustCompile(`^(linear|radial|conic)-gradient\([#0-9A-Za-z%.,\s-]+\)$`)

func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

type Colors struct {
	Primary  string `yaml:"primary" json:"primary"`
	Gradient string `yaml:"gradient" json:"gradient"`
}

// Theme is an immutable catalogue entry. The ID doubles as the persisted
// preference and the value of the data-theme attribute.
type Theme struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Icon   string `yaml:"icon" json:"icon"`
	Colors Colors `yaml:"colors" json:"colors"`
	IsDark bool   `yaml:"is_dark" json:"isDark"`
}

func (t Theme) Validate() error {
	if !themeIDRegex.MatchString(t.ID) {
		return fmt.Errorf("id %q must be lowercase letters, digits, and hyphens", t.ID)
	}

	trimmedName := strings.TrimSpace(t.Name)
	if trimmedName == "" {
		return fmt.Errorf("name is required")
	}
	if trimmedName != t.Name {
		return fmt.Errorf("name must not have leading or trailing whitespace")
	}
	if len(trimmedName) > maxThemeNameLength {
		return fmt.Errorf("name must be %d characters or fewer", maxThemeNameLength)
	}
	if strings.TrimSpace(t.Icon) == "" {
		return fmt.Errorf("icon is required")
	}

	if !hexColorRegex.MatchString(t.Colors.Primary) {
		return fmt.Errorf("primary color must be a 6-digit hex color like #AABBCC")
	}
	if err := validateTextContrast("primary color", t.Colors.Primary); err != nil {
		return err
	}
	if !gradientRegex.MatchString(t.Colors.Gradient) {
		return fmt.Errorf("gradient %q is not a CSS gradient expression", t.Colors.Gradient)
	}

	return nil
}

// SecondaryColor is the second hex stop of the gradient, or the primary color
// when the gradient has fewer than two.
func (t Theme) SecondaryColor() string {
	stops := hexStopRegex.FindAllString(t.Colors.Gradient, -1)
	if len(stops) < 2 {
		return t.Colors.Primary
	}
	return stops[1]
}

// TextColor returns black or white, whichever reads better on the primary color.
func (t Theme) TextColor() string {
	dark, err := contrastRatio(darkTextColor, t.Colors.Primary)
	if err != nil {
		return lightTextColor
	}
	light, err := contrastRatio(lightTextColor, t.Colors.Primary)
	if err != nil || dark >= light {
		return darkTextColor
	}
	return lightTextColor
}

// CSSVars renders the theme as custom properties on :root.
func (t Theme) CSSVars() string {
	return fmt.Sprintf(
		":root{--theme-primary:%s;--theme-secondary:%s;--theme-gradient:%s;--theme-on-primary:%s;}",
		t.Colors.Primary,
		t.SecondaryColor(),
		t.Colors.Gradient,
		t.TextColor(),
	)
}

func validateTextContrast(colorName, backgroundColor string) error {
	textColors := []string{darkTextColor, lightTextColor}
	bestRatio := 0.0
	bestText := ""
	for _, textColor := range textColors {
		ratio, err := contrastRatio(textColor, backgroundColor)
		if err != nil {
			return err
		}
		if ratio > bestRatio {
			bestRatio = ratio
			bestText = textColor
		}
	}
	if bestRatio < wcagAAMinContrastRatio {
		return fmt.Errorf(
			"%s must have contrast ratio >= %.1f with #000000 or #FFFFFF text (%s); best is %s at %.2f",
			colorName,
			wcagAAMinContrastRatio,
			wcagAAContrastNote,
			bestText,
			bestRatio,
		)
	}
	return nil
}

func contrastRatio(textColor, backgroundColor string) (float64, error) {
	textL, err := relativeLuminance(textColor)
	if err != nil {
		return 0, err
	}
	backgroundL, err := relativeLuminance(backgroundColor)
	if err != nil {
		return 0, err
	}
	lightest := math.Max(textL, backgroundL)
	darkest := math.Min(textL, backgroundL)
	return (lightest + 0.05) / (darkest + 0.05), nil
}

func relativeLuminance(hexColor string) (float64, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return 0, err
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b), nil
}

func parseHexColor(hexColor string) (float64, float64, float64, error) {
	if !hexColorRegex.MatchString(hexColor) {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}

	value, err := strconv.ParseUint(strings.TrimPrefix(hexColor, "#"), 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}

	r := float64((value >> 16) & 0xFF)
	g := float64((value >> 8) & 0xFF)
	b := float64(value & 0xFF)
	return r / 255, g / 255, b / 255, nil
}

func srgbToLinear(value float64) float64 {
	if value <= 0.03928 {
		return value / 12.92
	}
	return math.Pow((value+0.055)/1.055, 2.4)
}

// Lighten mixes a hex color toward white by amount (0..1). Invalid input is
// returned unchanged.
func Lighten(hexColor string, amount float64) string {
	if !hexColorRegex.MatchString(hexColor) {
		return hexColor
	}
	c, err := colorful.Hex(hexColor)
	if err != nil {
		return hexColor
	}
	amount = math.Max(0, math.Min(1, amount))
	return c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, amount).Clamped().Hex()
}
