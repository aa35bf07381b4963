package kana

import "strings"

// romajiTable maps romaji syllables (Hepburn plus common IME spellings)
// to hiragana. Keys are at most four bytes long.
var romajiTable = map[string]string{
	"a": "あ", "i": "い", "u": "う", "e": "え", "o": "お",

	"ka": "か", "ki": "き", "ku": "く", "ke": "け", "ko": "こ",
	"kya": "きゃ", "kyu": "きゅ", "kyo": "きょ",
	"ga": "が", "gi": "ぎ", "gu": "ぐ", "ge": "げ", "go": "ご",
	"gya": "ぎゃ", "gyu": "ぎゅ", "gyo": "ぎょ",

	"sa": "さ", "shi": "し", "si": "し", "su": "す", "se": "せ", "so": "そ",
	"sha": "しゃ", "shu": "しゅ", "sho": "しょ", "she": "しぇ",
	"sya": "しゃ", "syu": "しゅ", "syo": "しょ",
	"za": "ざ", "ji": "じ", "zi": "じ", "zu": "ず", "ze": "ぜ", "zo": "ぞ",
	"ja": "じゃ", "ju": "じゅ", "jo": "じょ", "je": "じぇ",
	"jya": "じゃ", "jyu": "じゅ", "jyo": "じょ",
	"zya": "じゃ", "zyu": "じゅ", "zyo": "じょ",

	"ta": "た", "chi": "ち", "ti": "ち", "tsu": "つ", "tu": "つ", "te": "て", "to": "と",
	"cha": "ちゃ", "chu": "ちゅ", "cho": "ちょ", "che": "ちぇ",
	"cya": "ちゃ", "cyu": "ちゅ", "cyo": "ちょ",
	"tya": "ちゃ", "tyu": "ちゅ", "tyo": "ちょ",
	"da": "だ", "di": "ぢ", "du": "づ", "de": "で", "do": "ど",
	"dya": "ぢゃ", "dyu": "ぢゅ", "dyo": "ぢょ",

	"na": "な", "ni": "に", "nu": "ぬ", "ne": "ね", "no": "の",
	"nya": "にゃ", "nyu": "にゅ", "nyo": "にょ",

	"ha": "は", "hi": "ひ", "fu": "ふ", "hu": "ふ", "he": "へ", "ho": "ほ",
	"hya": "ひゃ", "hyu": "ひゅ", "hyo": "ひょ",
	"fa": "ふぁ", "fi": "ふぃ", "fe": "ふぇ", "fo": "ふぉ",
	"ba": "ば", "bi": "び", "bu": "ぶ", "be": "べ", "bo": "ぼ",
	"bya": "びゃ", "byu": "びゅ", "byo": "びょ",
	"pa": "ぱ", "pi": "ぴ", "pu": "ぷ", "pe": "ぺ", "po": "ぽ",
	"pya": "ぴゃ", "pyu": "ぴゅ", "pyo": "ぴょ",

	"ma": "ま", "mi": "み", "mu": "む", "me": "め", "mo": "も",
	"mya": "みゃ", "myu": "みゅ", "myo": "みょ",

	"ya": "や", "yu": "ゆ", "yo": "よ",

	"ra": "ら", "ri": "り", "ru": "る", "re": "れ", "ro": "ろ",
	"rya": "りゃ", "ryu": "りゅ", "ryo": "りょ",

	"wa": "わ", "wo": "を", "wi": "うぃ", "we": "うぇ",
	"vu": "ゔ",

	"xa": "ぁ", "xi": "ぃ", "xu": "ぅ", "xe": "ぇ", "xo": "ぉ",
	"la": "ぁ", "li": "ぃ", "lu": "ぅ", "le": "ぇ", "lo": "ぉ",
	"xya": "ゃ", "xyu": "ゅ", "xyo": "ょ",
	"lya": "ゃ", "lyu": "ゅ", "lyo": "ょ",
	"xtu": "っ", "xtsu": "っ", "ltu": "っ", "ltsu": "っ",
	"xwa": "ゎ", "lwa": "ゎ",

	"-": "ー",
}

const maxRomajiLen = 4

// RomajiToHiragana transliterates lower-case romaji in s to hiragana.
// Characters that are not romaji (kana, kanji, digits) pass through. ok
// is false when some Latin letters could not be converted.
func RomajiToHiragana(s string) (out string, ok bool) {
	ok = true
	var b strings.Builder
	b.Grow(len(s) * 2)

	for i := 0; i < len(s); {
		c := s[i]

		if c == 'n' {
			n := syllabicN(s, i)
			if n > 0 {
				b.WriteString("ん")
				i += n
				continue
			}
		}

		// Doubled consonant (and "tch") is a small tsu.
		if i+1 < len(s) && isGeminate(c) && (s[i+1] == c || (c == 't' && s[i+1] == 'c')) {
			b.WriteString("っ")
			i++
			continue
		}

		if kana, n := matchSyllable(s[i:]); n > 0 {
			b.WriteString(kana)
			i += n
			continue
		}

		if c >= 'a' && c <= 'z' {
			ok = false
		}
		// Copy the whole (possibly multi-byte) rune untouched.
		j := i + 1
		for j < len(s) && s[j]&0xC0 == 0x80 {
			j++
		}
		b.WriteString(s[i:j])
		i = j
	}
	return b.String(), ok
}

// syllabicN reports how many bytes starting at s[i] ('n') form a
// standalone ん, or 0 if the n begins a syllable such as "na" or "nya".
func syllabicN(s string, i int) int {
	if i+1 >= len(s) {
		return 1
	}
	next := s[i+1]
	switch {
	case next == '\'':
		return 2
	case isVowel(next) || next == 'y':
		return 0
	case next == 'n':
		// "onna": the second n starts a syllable. "sennsei", "honn": both
		// letters are consumed.
		if i+2 < len(s) && (isVowel(s[i+2]) || s[i+2] == 'y') {
			return 1
		}
		return 2
	default:
		return 1
	}
}

func matchSyllable(s string) (string, int) {
	for n := min(maxRomajiLen, len(s)); n > 0; n-- {
		if kana, ok := romajiTable[s[:n]]; ok {
			return kana, n
		}
	}
	return "", 0
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'i', 'u', 'e', 'o':
		return true
	}
	return false
}

// isGeminate reports whether a doubled c is written with a small tsu.
func isGeminate(c byte) bool {
	return strings.IndexByte("kgsztdhbpmrwfjcv", c) >= 0
}
