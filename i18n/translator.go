package i18n

import (
	"fmt"

	hed "github.com/hedstd/hed"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "unit" or "name").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "unmatched_open_paren":
			return "閉じられていない括弧があります"
		case "unmatched_close_paren":
			return "対応する開き括弧がありません"
		case "invalid_character":
			return "使用できない文字です"
		case "empty_tag":
			return "区切り文字の間にタグがありません"
		case "no_valid_tag":
			return "スキーマに存在しないタグです"
		case "invalid_parent":
			return "タグの親がスキーマと一致しません"
		case "units_invalid":
			return "単位が不正です"
		case "units_missing":
			return "単位が省略されたため既定の単位を適用します"
		case "value_invalid":
			return "値が不正です"
		case "duplicate_unique_tag":
			return "一意タグが重複しています"
		case "required_missing":
			return "必須タグが不足しています"
		case "duplicate_definition":
			return "定義が重複しています"
		case "undefined_def":
			return "未定義の定義への参照です"
		case "placeholder_missing":
			return "プレースホルダー値が不足しています"
		case "placeholder_extra":
			return "プレースホルダー値は不要です"
		case "unmatched_offset":
			return "対応するオンセットのないオフセットです"
		case "unmatched_onset":
			return "閉じられていないオンセットです"
		case "mutation_failed":
			return "木の書き換えに失敗しました"
		}
	default: // "en"
		switch code {
		case "unmatched_open_paren":
			return "group is never closed"
		case "unmatched_close_paren":
			return "closing parenthesis with no open group"
		case "invalid_character":
			return "character is not allowed"
		case "empty_tag":
			return "empty tag between delimiters"
		case "no_valid_tag":
			return "tag is not in the schema"
		case "invalid_parent":
			return "tag parent disagrees with the schema"
		case "units_invalid":
			return "invalid unit"
		case "units_missing":
			return "no unit given; default units assumed"
		case "value_invalid":
			return "invalid value"
		case "duplicate_unique_tag":
			return "unique tag appears more than once"
		case "required_missing":
			return "required tag missing"
		case "duplicate_definition":
			return "duplicate definition"
		case "undefined_def":
			return "reference to an undefined definition"
		case "placeholder_missing":
			return "placeholder value missing"
		case "placeholder_extra":
			return "placeholder value not allowed"
		case "unmatched_offset":
			return "offset with no matching onset"
		case "unmatched_onset":
			return "onset is never closed"
		case "mutation_failed":
			return "tree rewrite failed"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

// Localize returns a copy of the issues with each Message rendered by the
// current Translator from the issue's code and params. The input is left
// unchanged; codes, severities and spans carry over as is.
func Localize(iss hed.Issues) hed.Issues {
	if len(iss) == 0 {
		return iss
	}
	out := make(hed.Issues, len(iss))
	for i, it := range iss {
		var data map[string]string
		if len(it.Params) > 0 {
			data = make(map[string]string, len(it.Params))
			for k, v := range it.Params {
				data[k] = fmt.Sprint(v)
			}
		}
		it.Message = T(it.Code, data)
		out[i] = it
	}
	return out
}
