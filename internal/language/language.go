package language

import (
	"strings"

	xlang "golang.org/x/text/language"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	if base := baseFromTag(code); base != "" && base != code {
		return lookup(base)
	}
	return nil
}

// baseFromTag extracts the primary language subtag from a region or script
// qualified BCP-47 tag such as "en-US" or "pt_BR".
func baseFromTag(code string) string {
	if !strings.ContainsAny(code, "-_") {
		return ""
	}
	tag, err := xlang.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == xlang.No {
		return ""
	}
	return base.String()
}

// ToISO2 converts any recognized language code or word to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input.
// If the input is already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Tesseract selections such as "eng+deu" are named per part and joined with
// " + ". Returns "Unknown" for empty input, or the uppercased code for
// unrecognized input.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	parts := strings.Split(code, "+")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if e := lookup(part); e != nil {
			names = append(names, e.display)
			continue
		}
		names = append(names, strings.ToUpper(part))
	}
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, " + ")
}

// tesseractOverrides maps ISO 639-1 codes whose traineddata name is not
// the ISO 639-2 code.
var tesseractOverrides = map[string]string{
	"zh": "chi_sim",
}

// TesseractCode normalizes an OCR language selection to tesseract traineddata
// names. Multi-language selections joined with "+" are normalized per part.
// Script-qualified names such as "chi_tra" and unknown codes pass through.
func TesseractCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	parts := strings.Split(code, "+")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, tesseractPart(part))
	}
	return strings.Join(out, "+")
}

func tesseractPart(part string) string {
	if strings.Contains(part, "_") {
		return part
	}
	e := lookup(part)
	if e == nil {
		return part
	}
	if override, ok := tesseractOverrides[e.code2]; ok {
		return override
	}
	return e.code3
}
