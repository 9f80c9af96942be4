package value

import (
	"errors"
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
		text  []string
	}{
		{
			name:  "date",
			input: "3/4/2023",
			want:  []Kind{KindNumber, KindSeparator, KindNumber, KindSeparator, KindNumber},
			text:  []string{"3", "/", "4", "/", "2023"},
		},
		{
			name:  "time with period",
			input: "3:00 pm",
			want:  []Kind{KindNumber, KindColon, KindNumber, KindPeriod},
			text:  []string{"3", ":", "00", "pm"},
		},
		{
			name:  "period adjacent to number",
			input: "3PM",
			want:  []Kind{KindNumber, KindPeriod},
			text:  []string{"3", "PM"},
		},
		{
			name:  "word starting with am is a month word",
			input: "amber",
			want:  []Kind{KindMonthWord},
			text:  []string{"amber"},
		},
		{
			name:  "currency in parentheses",
			input: "($1,234.50)%",
			want: []Kind{
				KindParen, KindCurrency, KindNumber, KindComma,
				KindNumber, KindParen, KindPercent,
			},
			text: []string{"(", "$", "1", ",", "234.50", ")", "%"},
		},
		{
			name:  "exponent",
			input: "1.5e-3",
			want:  []Kind{KindNumber},
			text:  []string{"1.5e-3"},
		},
		{
			name:  "month word then number",
			input: "Dec3",
			want:  []Kind{KindMonthWord, KindNumber},
			text:  []string{"Dec", "3"},
		},
		{
			name:  "surrounding whitespace",
			input: "\t 4 Mar \n",
			want:  []Kind{KindNumber, KindMonthWord},
			text:  []string{"4", "Mar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.input, err)
			}

			if n := len(toks); n != len(tt.want)+1 {
				t.Fatalf("Lex(%q) = %d tokens, want %d", tt.input, n, len(tt.want)+1)
			}

			for i, k := range tt.want {
				if toks[i].Kind != k || toks[i].Text != tt.text[i] {
					t.Errorf("token[%d] = %v, want %v %q", i, toks[i], k, tt.text[i])
				}
			}

			if last := toks[len(toks)-1]; last.Kind != KindEOF {
				t.Errorf("last token = %v, want end of input", last)
			}
		})
	}
}

func TestLex_Positions(t *testing.T) {
	toks, err := Lex("  Mar 4")
	if err != nil {
		t.Fatal(err)
	}

	if got := toks[0].Pos; got.Offset != 2 || got.Column != 3 {
		t.Errorf("Mar at %+v, want offset 2 column 3", got)
	}

	if got := toks[1].Pos; got.Offset != 6 {
		t.Errorf("4 at offset %d, want 6", got.Offset)
	}
}

func TestLex_Mismatch(t *testing.T) {
	for _, input := range []string{"#", "1;2", "3 @ 4", "é"} {
		_, err := Lex(input)
		if !errors.Is(err, ErrLexicalMismatch) {
			t.Errorf("Lex(%q) error = %v, want %v", input, err, ErrLexicalMismatch)
		}
	}
}

func TestKind_String(t *testing.T) {
	seen := map[string]Kind{}

	for k := KindEOF; k <= KindMonthWord; k++ {
		s := k.String()
		if prev, dup := seen[s]; dup {
			t.Errorf("%v and %v share name %q", prev, k, s)
		}

		seen[s] = k
	}

	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}
