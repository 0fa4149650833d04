package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/foxxcyber/stock-sync/internal/models"
)

// specRule maps a pattern to the value it implies. Rule tables are tested in
// order and the first match wins.
type specRule struct {
	pattern *regexp.Regexp
	value   string
}

// firstMatch returns the value of the first rule whose pattern matches s
func firstMatch(rules []specRule, s string) string {
	for _, rule := range rules {
		if rule.pattern.MatchString(s) {
			return rule.value
		}
	}
	return ""
}

// nameSubstitutions is applied in order after lowercasing
var nameSubstitutions = []struct {
	from string
	to   string
}{
	{"nb ", "notebook "},
	{" nb ", " notebook "},
	{"pc ", "computadora "},
	{" ram", " memoria"},
	{" ssd", " disco_ssd"},
	{" hdd", " disco_hdd"},
	{" emmc", " almacenamiento_emmc"},
	{" ufs", " almacenamiento_ufs"},
	{"pantalla", "display"},
	{"tela", "display"},
	{"full hd", "fhd"},
	{"quad hd", "qhd"},
	{"ultra hd", "uhd"},
	{"4k", "uhd"},
	{"gaming", "gamer"},
	{"inglés", ""},
	{"ingles", ""},
	{"español", ""},
	{"portugués", ""},
	{"português", ""},
	{"english", ""},
	{"spanish", ""},
	{"portuguese", ""},
}

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	multiSpaceRegex      = regexp.MustCompile(`\s+`)
)

// maxSubstitutionPasses bounds the rewrite loop; removals can expose a new
// abbreviation ("nenglishb " -> "nb ") so one pass is not always enough.
const maxSubstitutionPasses = 8

// NormalizeProductName lowercases a product name, expands abbreviations, drops
// language noise and strips everything except letters, digits, underscores and
// single spaces. NormalizeProductName(NormalizeProductName(x)) == NormalizeProductName(x).
func NormalizeProductName(name string) string {
	normalized := strings.ToLower(name)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, " ")

	normalized = collapseSpaces(normalized)

	for pass := 0; pass < maxSubstitutionPasses; pass++ {
		before := normalized
		for _, sub := range nameSubstitutions {
			normalized = strings.ReplaceAll(normalized, sub.from, sub.to)
		}
		// Removed words leave gaps that can join into a new phrase ("full  hd")
		normalized = collapseSpaces(normalized)
		if normalized == before {
			break
		}
	}

	return normalized
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(s, " "))
}

// Brand detection, in priority order. Sub-brands map to their maker.
var brandRules = []specRule{
	{regexp.MustCompile(`\b(hp|victus|omen|pavilion|envy|omnibook)\b`), "HP"},
	{regexp.MustCompile(`\b(lenovo|ideapad|thinkpad|yoga|loq|legion)\b`), "Lenovo"},
	{regexp.MustCompile(`\b(dell|inspiron|xps|latitude|vostro)\b`), "Dell"},
	{regexp.MustCompile(`\b(asus|vivobook|rog|tuf|zenbook|proart)\b`), "ASUS"},
	{regexp.MustCompile(`\b(acer|aspire|nitro|predator|swift)\b`), "Acer"},
	{regexp.MustCompile(`\b(apple|macbook|imac|mac)\b`), "Apple"},
	{regexp.MustCompile(`\b(msi|katana|vector|cyborg|thin|gaming)\b`), "MSI"},
	{regexp.MustCompile(`\balienware\b`), "Alienware"},
	{regexp.MustCompile(`\b(samsung|galaxy)\b`), "Samsung"},
	{regexp.MustCompile(`\blg\b`), "LG"},
	{regexp.MustCompile(`\b(razer|blade)\b`), "Razer"},
}

var (
	intelFamilyRegex = regexp.MustCompile(`intel|core`)
	amdFamilyRegex   = regexp.MustCompile(`amd|ryzen`)
)

// Intel tiers are only consulted when the name mentions intel or core
var intelRules = []specRule{
	{regexp.MustCompile(`core\s+ultra`), "Intel Core Ultra"},
	{regexp.MustCompile(`i9`), "Intel i9"},
	{regexp.MustCompile(`i7`), "Intel i7"},
	{regexp.MustCompile(`i5`), "Intel i5"},
	{regexp.MustCompile(`i3`), "Intel i3"},
	{regexp.MustCompile(`celeron`), "Intel Celeron"},
	{regexp.MustCompile(`pentium`), "Intel Pentium"},
}

// AMD tiers are only consulted when the name mentions amd or ryzen
var amdRules = []specRule{
	{regexp.MustCompile(`ryzen\s+ai\s+9`), "AMD Ryzen AI 9"},
	{regexp.MustCompile(`ryzen\s+ai\s+7`), "AMD Ryzen AI 7"},
	{regexp.MustCompile(`ryzen\s+ai\s+5`), "AMD Ryzen AI 5"},
	{regexp.MustCompile(`ryzen\s+9`), "AMD Ryzen 9"},
	{regexp.MustCompile(`ryzen\s+7`), "AMD Ryzen 7"},
	{regexp.MustCompile(`ryzen\s+5`), "AMD Ryzen 5"},
	{regexp.MustCompile(`ryzen\s+3`), "AMD Ryzen 3"},
}

// Fallbacks when neither Intel nor AMD produced a tier
var otherProcessorRules = []specRule{
	{regexp.MustCompile(`m[1-4]`), "Apple Silicon"},
	{regexp.MustCompile(`snapdragon`), "Snapdragon"},
}

var (
	ramRegex        = regexp.MustCompile(`(\d+)\s*gb.*?ram|ram.*?(\d+)\s*gb|/\s*(\d+)gb\s*de\s*ram`)
	storageRegex    = regexp.MustCompile(`(\d+)\s*(gb|tb)\s*(ssd|hdd|emmc|ufs)`)
	screenSizeRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)["”]`)
	gpuRegex        = regexp.MustCompile(`(rtx|gtx|radeon|vega|iris)\s*(\w+)`)
	gamingRegex     = regexp.MustCompile(`gaming|gamer|rog|tuf|nitro|victus|omen|alienware|msi|predator`)
)

// ExtractSpecs pulls the technical specification bundle out of a product name.
// Every attribute is optional.
func ExtractSpecs(name string) models.Specs {
	lower := strings.ToLower(name)

	return models.Specs{
		Brand:      ExtractBrand(lower),
		Processor:  ExtractProcessor(lower),
		RAM:        extractRAM(lower),
		Storage:    extractStorage(lower),
		ScreenSize: extractScreenSize(lower),
		GPU:        extractGPU(lower),
		IsGaming:   gamingRegex.MatchString(lower),
	}
}

// ExtractBrand returns the canonical brand for a name, or "" when none is recognized
func ExtractBrand(name string) string {
	return firstMatch(brandRules, strings.ToLower(name))
}

// ExtractProcessor returns the processor tier for a name, or "" when none is recognized
func ExtractProcessor(name string) string {
	lower := strings.ToLower(name)

	if intelFamilyRegex.MatchString(lower) {
		if p := firstMatch(intelRules, lower); p != "" {
			return p
		}
	}
	if amdFamilyRegex.MatchString(lower) {
		if p := firstMatch(amdRules, lower); p != "" {
			return p
		}
	}
	return firstMatch(otherProcessorRules, lower)
}

func extractRAM(name string) string {
	m := ramRegex.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	for _, size := range m[1:] {
		if size != "" {
			return size + "GB"
		}
	}
	return ""
}

func extractStorage(name string) string {
	m := storageRegex.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s%s %s", m[1], strings.ToUpper(m[2]), strings.ToUpper(m[3]))
}

func extractScreenSize(name string) string {
	m := screenSizeRegex.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1] + `"`
}

func extractGPU(name string) string {
	m := gpuRegex.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1] + " " + m[2]
}
