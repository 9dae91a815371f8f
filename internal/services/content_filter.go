package services

import (
	"regexp"
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno",
	"scammer", "phishing", "malware",
}

// ContentFilter rejects blog and comment text containing banned words or
// obvious spam. A disabled filter accepts everything.
type ContentFilter struct {
	enabled             bool
	bannedWordRegexps   []*regexp.Regexp
	repeatedCharPattern *regexp.Regexp
}

func NewContentFilter(enabled bool) *ContentFilter {
	f := &ContentFilter{enabled: enabled}
	if !enabled {
		return f
	}

	f.bannedWordRegexps = make([]*regexp.Regexp, 0, len(BannedWords))
	for _, word := range BannedWords {
		f.bannedWordRegexps = append(f.bannedWordRegexps, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	// Same character 12+ times in a row; RE2 has no backreferences.
	f.repeatedCharPattern = regexp.MustCompile(`(?i)(a{12,}|e{12,}|h{12,}|i{12,}|l{12,}|o{12,}|u{12,}|z{12,}|!{12,}|\?{12,})`)
	return f
}

// FilterContent returns false and a reason code when text is rejected.
func (f *ContentFilter) FilterContent(text string) (bool, string) {
	if f == nil || !f.enabled || text == "" {
		return true, ""
	}
	for _, re := range f.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if f.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	return true, ""
}

// Check runs FilterContent over every text and converts the first rejection
// into an ErrValidation.
func (f *ContentFilter) Check(texts ...string) error {
	for _, text := range texts {
		if ok, reason := f.FilterContent(text); !ok {
			return invalid("%s", rejectionMessage(reason))
		}
	}
	return nil
}

func rejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language": "content contains inappropriate language",
		"spam_detected":          "content appears to be spam",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "content does not meet our guidelines"
}
