package kana

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hiragana unchanged", "ねこ", "ねこ"},
		{"katakana to hiragana", "ネコ", "ねこ"},
		{"whitespace stripped", " ね こ\t", "ねこ"},
		{"ideographic space", "ね　こ", "ねこ"},
		{"punctuation stripped", "ねこ。", "ねこ"},
		{"half-width katakana", "ﾈｺ", "ねこ"},
		{"long vowel mark kept", "コーヒー", "こーひー"},
		{"full-width latin", "ＡＢＣ", "abc"},
		{"kanji unchanged", "日本語", "日本語"},
		{"empty", "", ""},
		{"only whitespace", "  \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"ねこ", "ネコ", " ﾈｺ ", "日本語！", "ＡＢＣ def", "コーヒー", "がっこう", "ヴァイオリン", "",
		"か ゙", "か・゙", "Ａ・́", "は゜", "ｳﾞ ｧ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeComposesAcrossSeparators(t *testing.T) {
	separators := []string{"", " ", "\t", "　", "・", "。", "、", "-"}
	marks := []string{"\u3099", "゛", "ﾞ"}
	bases := []string{"か", "カ", "ｶ"}

	for _, sep := range separators {
		for _, mark := range marks {
			for _, base := range bases {
				in := base + sep + mark
				once := Normalize(in)
				if once != "が" {
					t.Errorf("Normalize(%q) = %q (%U), want が", in, once, []rune(once))
				}
				if twice := Normalize(once); twice != once {
					t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
				}
			}
		}
	}

	if got := Normalize("Ａ・\u0301"); got != "á" {
		t.Errorf("Normalize(Ａ・◌́) = %q, want á", got)
	}
}

func TestNormalizeTyped(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"nihongo", "にほんご"},
		{"NIHONGO", "にほんご"},
		{"にほんご", "にほんご"},
		{"ニホンゴ", "にほんご"},
		{" neko ", "ねこ"},
		{"ｎｅｋｏ", "ねこ"},
		{"ko-hi-", "こーひー"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTyped(tt.in); got != tt.want {
			t.Errorf("NormalizeTyped(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsKana(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ねこ", true},
		{"ネコ", true},
		{"コーヒー", true},
		{"猫", false},
		{"neko", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsKana(tt.in); got != tt.want {
			t.Errorf("IsKana(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
