package deck

import "strings"

// Built-in group names.
const (
	GroupGojuon  = "gojuon"
	GroupDakuten = "dakuten"
	GroupYoon    = "yoon"
)

type kanaRow struct {
	group string
	pairs []string // glyph, then romaji separated by "/"
}

var hiraganaRows = []kanaRow{
	{GroupGojuon, []string{
		"あ", "a", "い", "i", "う", "u", "え", "e", "お", "o",
		"か", "ka", "き", "ki", "く", "ku", "け", "ke", "こ", "ko",
		"さ", "sa", "し", "shi/si", "す", "su", "せ", "se", "そ", "so",
		"た", "ta", "ち", "chi/ti", "つ", "tsu/tu", "て", "te", "と", "to",
		"な", "na", "に", "ni", "ぬ", "nu", "ね", "ne", "の", "no",
		"は", "ha", "ひ", "hi", "ふ", "fu/hu", "へ", "he", "ほ", "ho",
		"ま", "ma", "み", "mi", "む", "mu", "め", "me", "も", "mo",
		"や", "ya", "ゆ", "yu", "よ", "yo",
		"ら", "ra", "り", "ri", "る", "ru", "れ", "re", "ろ", "ro",
		"わ", "wa", "を", "wo/o", "ん", "n/nn",
	}},
	{GroupDakuten, []string{
		"が", "ga", "ぎ", "gi", "ぐ", "gu", "げ", "ge", "ご", "go",
		"ざ", "za", "じ", "ji/zi", "ず", "zu", "ぜ", "ze", "ぞ", "zo",
		"だ", "da", "ぢ", "ji/di", "づ", "zu/du", "で", "de", "ど", "do",
		"ば", "ba", "び", "bi", "ぶ", "bu", "べ", "be", "ぼ", "bo",
		"ぱ", "pa", "ぴ", "pi", "ぷ", "pu", "ぺ", "pe", "ぽ", "po",
	}},
	{GroupYoon, []string{
		"きゃ", "kya", "きゅ", "kyu", "きょ", "kyo",
		"しゃ", "sha/sya", "しゅ", "shu/syu", "しょ", "sho/syo",
		"ちゃ", "cha/tya", "ちゅ", "chu/tyu", "ちょ", "cho/tyo",
		"にゃ", "nya", "にゅ", "nyu", "にょ", "nyo",
		"ひゃ", "hya", "ひゅ", "hyu", "ひょ", "hyo",
		"みゃ", "mya", "みゅ", "myu", "みょ", "myo",
		"りゃ", "rya", "りゅ", "ryu", "りょ", "ryo",
		"ぎゃ", "gya", "ぎゅ", "gyu", "ぎょ", "gyo",
		"じゃ", "ja/jya/zya", "じゅ", "ju/jyu/zyu", "じょ", "jo/jyo/zyo",
		"びゃ", "bya", "びゅ", "byu", "びょ", "byo",
		"ぴゃ", "pya", "ぴゅ", "pyu", "ぴょ", "pyo",
	}},
}

var builtins = map[string]func() Deck{
	"hiragana": func() Deck { return kanaDeck("hiragana", false) },
	"katakana": func() Deck { return kanaDeck("katakana", true) },
}

// Builtin returns a built-in deck by name.
func Builtin(name string) (Deck, bool) {
	build, ok := builtins[strings.ToLower(name)]
	if !ok {
		return Deck{}, false
	}
	return build(), true
}

// BuiltinNames lists built-in decks in display order.
func BuiltinNames() []string {
	return []string{"hiragana", "katakana"}
}

func kanaDeck(name string, katakana bool) Deck {
	d := Deck{Name: name}
	for _, row := range hiraganaRows {
		for i := 0; i+1 < len(row.pairs); i += 2 {
			key := row.pairs[i]
			if katakana {
				key = toKatakana(key)
			}
			d.Cards = append(d.Cards, Card{
				Key:     key,
				Answers: strings.Split(row.pairs[i+1], "/"),
				Group:   row.group,
			})
		}
	}
	return d
}

// toKatakana shifts hiragana code points into the katakana block.
func toKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'ぁ' && r <= 'ゖ' {
			runes[i] = r + 0x60
		}
	}
	return string(runes)
}
