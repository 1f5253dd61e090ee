package i18n

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Translator retrieves localized messages for failure codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "min"); placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalogue = map[string]map[string]string{
	"en": {
		"required":       "required property missing",
		"invalid_type":   "invalid type, expected {expected}",
		"overflow":       "number is too large for {expected}",
		"validation":     "invalid value",
		"not_found":      "schema {name} was not found",
		"ambiguous_name": "multiple schemas named {name}; use a fully-qualified name ({candidates})",
		"invalid_schema": "invalid schema definition",
		"too_small":      "must be {op} {min}",
		"too_big":        "must be {op} {max}",
		"out_of_range":   "must be {min_op} {min} and {max_op} {max}",
		"too_short":      "shorter than minimum length {min}",
		"too_long":       "longer than maximum length {max}",
		"length_between": "length must be between {min} and {max}",
		"length_equal":   "length must be {equal}",
		"one_of":         "must be one of: {choices}",
		"none_of":        "must not be one of: {values}",
		"pattern":        "does not match expected pattern",
		"email":          "must be a valid email",
		"url":            "must be a valid url",
		"uuid":           "must be a valid uuid",
		"password":       "weak password: {problems}",
		"expr":           "does not satisfy {expr}",
		"datetime":       "invalid {expected} value",
	},
	"ja": {
		"required":       "必須プロパティが不足しています",
		"invalid_type":   "型が不正です（期待値: {expected}）",
		"overflow":       "数値が大きすぎます（{expected}）",
		"validation":     "値が不正です",
		"not_found":      "スキーマ {name} が見つかりません",
		"ambiguous_name": "同名のスキーマ {name} が複数あります。完全修飾名を使用してください（{candidates}）",
		"invalid_schema": "スキーマ定義が不正です",
		"too_small":      "{min} {op} である必要があります",
		"too_big":        "{max} {op} である必要があります",
		"out_of_range":   "{min} {min_op} かつ {max} {max_op} である必要があります",
		"too_short":      "短すぎます（最小 {min}）",
		"too_long":       "長すぎます（最大 {max}）",
		"length_between": "長さは {min} から {max} の間である必要があります",
		"length_equal":   "長さは {equal} である必要があります",
		"one_of":         "次のいずれかである必要があります: {choices}",
		"none_of":        "次の値は使用できません: {values}",
		"pattern":        "パターンに一致しません",
		"email":          "メールアドレスが不正です",
		"url":            "URL が不正です",
		"uuid":           "UUID が不正です",
		"password":       "パスワードが弱すぎます: {problems}",
		"expr":           "{expr} を満たしていません",
		"datetime":       "{expected} の値が不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalogue[t.lang][code]
	if !ok {
		msg, ok = catalogue["en"][code]
	}
	if !ok {
		return code
	}
	return interpolate(msg, data)
}

// interpolate replaces {key} placeholders. An unknown placeholder is dropped
// together with the clause that introduces it: an open bracket and its
// closing partner, or else the text back to the last comma or colon. A
// trailing connective is dropped when there is no such clause, so
// "invalid type, expected {expected}" degrades to "invalid type" and
// "number is too large for {expected}" to "number is too large".
func interpolate(msg string, data map[string]string) string {
	var b strings.Builder
	for {
		i := strings.IndexByte(msg, '{')
		if i < 0 {
			b.WriteString(msg)
			break
		}
		j := strings.IndexByte(msg[i:], '}')
		if j < 0 {
			b.WriteString(msg)
			break
		}
		key := msg[i+1 : i+j]
		head, rest := msg[:i], msg[i+j+1:]
		if v, ok := data[key]; ok {
			b.WriteString(head)
			b.WriteString(v)
		} else {
			head, rest = dropClause(head, rest)
			b.WriteString(head)
		}
		msg = rest
	}
	return strings.TrimSpace(b.String())
}

var connectives = map[string]bool{"for": true, "of": true, "to": true, "than": true}

func dropClause(head, rest string) (string, string) {
	if k := strings.LastIndexAny(head, "(（"); k >= 0 && !strings.ContainsAny(head[k:], ")）") {
		if c := strings.IndexAny(rest, ")）"); c >= 0 {
			_, size := utf8.DecodeRuneInString(rest[c:])
			rest = rest[c+size:]
		}
		return strings.TrimRight(head[:k], " "), rest
	}
	if k := strings.LastIndexAny(head, ",:"); k >= 0 {
		return head[:k], rest
	}
	head = strings.TrimRight(head, " ")
	if strings.TrimSpace(rest) == "" {
		if k := strings.LastIndexByte(head, ' '); k >= 0 && connectives[head[k+1:]] {
			head = head[:k]
		}
	}
	return head, rest
}

var (
	mu                sync.RWMutex
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
