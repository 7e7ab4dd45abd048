package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for error codes.
// data provides optional values substituted into "{name}" placeholders (for
// example "expected", "got" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalog = map[string]map[string]string{
	"en": {
		"unsupported_type":    "unsupported type {type}",
		"invalid_type":        "invalid type: {got}, expected {expected}",
		"incorrect_length":    "expected sequence of length {expected}, got {got}",
		"invalid_char_length": "expected a string of length 1",
		"invalid_union":       "invalid union representation: {detail}",
		"non_text_key":        "mapping key is not a string",
		"extraction_failed":   "{cause}",
		"overflow":            "integer {got} out of range for {expected}",
		"missing_field":       "missing field `{field}`",
		"unknown_field":       "unknown field `{field}`, expected {expected}",
		"duplicate_field":     "duplicate field `{field}`",
		"unknown_variant":     "unknown variant `{variant}`, expected {expected}",
		"invalid_value":       "invalid value: {got}, expected {expected}",
		"invalid_length":      "invalid length {got}, expected {expected}",
		"depth_exceeded":      "max depth {max} exceeded",
	},
	"ja": {
		"unsupported_type":    "サポートされていない型です: {type}",
		"invalid_type":        "型が不正です: {got} (期待値: {expected})",
		"incorrect_length":    "シーケンスの長さが不正です: {got} (期待値: {expected})",
		"invalid_char_length": "長さ1の文字列が必要です",
		"invalid_union":       "ユニオンの表現が不正です: {detail}",
		"non_text_key":        "マッピングのキーが文字列ではありません",
		"extraction_failed":   "{cause}",
		"overflow":            "整数 {got} は {expected} の範囲外です",
		"missing_field":       "必須フィールド `{field}` がありません",
		"unknown_field":       "未知のフィールド `{field}` です (期待値: {expected})",
		"duplicate_field":     "フィールド `{field}` が重複しています",
		"unknown_variant":     "未知のバリアント `{variant}` です (期待値: {expected})",
		"invalid_value":       "値が不正です: {got} (期待値: {expected})",
		"invalid_length":      "長さ {got} は不正です (期待値: {expected})",
		"depth_exceeded":      "最大深さ {max} を超えました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := catalog[t.lang][code]
	if !ok {
		tmpl, ok = catalog["en"][code]
	}
	if !ok {
		return code
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
