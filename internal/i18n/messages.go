// Package i18n holds the UI strings that the core itself produces, in both
// display languages.
package i18n

import "github.com/developia-II/langobridge/internal/models"

const (
	KeyPleaseFillFields = "pleaseFillFields"
	KeyInvalidEmail     = "invalidEmail"
	KeyInvalidBangla    = "invalidBangla"
	KeyInvalidKorean    = "invalidKorean"
	KeyRequestSubmitted = "requestSubmitted"
	KeyNoWordsFound     = "noWordsFound"
)

var catalog = map[models.Language]map[string]string{
	models.LanguageBangla: {
		KeyPleaseFillFields: "অনুগ্রহ করে সব ক্ষেত্র পূরণ করুন",
		KeyInvalidEmail:     "অনুগ্রহ করে একটি বৈধ ইমেইল ঠিকানা দিন",
		KeyInvalidBangla:    "বাংলা শব্দে বাংলা লিপির অক্ষর থাকতে হবে",
		KeyInvalidKorean:    "কোরিয়ান শব্দে হাঙ্গুল অক্ষর থাকতে হবে",
		KeyNoWordsFound:     "কোন শব্দ পাওয়া যায়নি",
	},
	models.LanguageKorean: {
		KeyPleaseFillFields: "모든 필드를 채워주세요",
		KeyInvalidEmail:     "유효한 이메일 주소를 입력해주세요",
		KeyInvalidBangla:    "방글라 단어는 방글라 문자를 포함해야 합니다",
		KeyInvalidKorean:    "한국어 단어는 한글을 포함해야 합니다",
		KeyNoWordsFound:     "단어를 찾을 수 없습니다",
	},
}

var fallback = map[string]string{
	KeyPleaseFillFields: "Please fill in all fields",
	KeyInvalidEmail:     "Please enter a valid email address",
	KeyInvalidBangla:    "Bangla word must contain Bangla script characters",
	KeyInvalidKorean:    "Korean word must contain Hangul characters",
	KeyRequestSubmitted: "Word pair request submitted successfully!",
	KeyNoWordsFound:     "No words found",
}

// T looks key up for lang, then in English, then returns the key itself.
func T(lang models.Language, key string) string {
	if s, ok := catalog[lang][key]; ok {
		return s
	}
	if s, ok := fallback[key]; ok {
		return s
	}
	return key
}
