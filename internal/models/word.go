package models

// PartOfSpeech values accepted on a WordPair. Empty means absent.
const (
	PartNoun         = "noun"
	PartVerb         = "verb"
	PartAdjective    = "adjective"
	PartAdverb       = "adverb"
	PartPronoun      = "pronoun"
	PartPreposition  = "preposition"
	PartConjunction  = "conjunction"
	PartInterjection = "interjection"
	PartExpression   = "expression"
)

// Source tags where a WordPair came from.
type Source string

const (
	SourceLocal       Source = "local"
	SourceGoogle      Source = "google"
	SourceAI          Source = "ai"
	SourceServer      Source = "server"
	SourceUserRequest Source = "user-request"
)

// Status separates records the backend has confirmed from local-only copies.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
)

// Language is the display language of the UI and the sort key of the word list.
type Language string

const (
	LanguageBangla Language = "bangla"
	LanguageKorean Language = "korean"
)

type Example struct {
	Bangla string `json:"bangla"`
	Korean string `json:"korean"`
}

type WordPair struct {
	ID           string    `json:"id"`
	Bangla       string    `json:"bangla" validate:"required_without=Korean"`
	Korean       string    `json:"korean" validate:"required_without=Bangla"`
	PartOfSpeech string    `json:"partOfSpeech,omitempty" validate:"omitempty,oneof=noun verb adjective adverb pronoun preposition conjunction interjection expression"`
	Examples     []Example `json:"examples"`
	Source       Source    `json:"source,omitempty"`
	Status       Status    `json:"status,omitempty"`
}

// Field returns the text shown for the given display language.
func (w WordPair) Field(lang Language) string {
	if lang == LanguageKorean {
		return w.Korean
	}
	return w.Bangla
}

// Persisted reports whether the backend has confirmed the record.
func (w WordPair) Persisted() bool {
	return w.Status != StatusPending && w.Source != SourceAI
}

type WordPage struct {
	Data  []WordPair `json:"data"`
	Total int        `json:"total"`
}

type ListQuery struct {
	Page   int
	Limit  int
	Search string
}
