package usecase

import "testing"

func TestPreprocessorCleanTable(t *testing.T) {
	pre := NewPreprocessor()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "glued quantity splits",
			in:   "부르고뉴샤도6",
			want: "부르고뉴샤도 6",
		},
		{
			name: "glued year splits",
			in:   "2024팝콘",
			want: "2024 팝콘",
		},
		{
			name: "courtesy phrases stripped",
			in:   "안녕하세요 샤또마르고 2병 부탁드립니다",
			want: "샤또마르고 2 병",
		},
		{
			name: "slash and comma become line breaks",
			in:   "샤또마르고 2병/루이로드레 3병,모엣샹동 1병",
			want: "샤또마르고 2 병\n루이로드레 3 병\n모엣샹동 1 병",
		},
		{
			name: "latin producer comma is preserved",
			in:   "Christophe Pitois, Grand Cru 2병",
			want: "Christophe Pitois, Grand Cru 2 병",
		},
		{
			name: "sentence terminators break lines",
			in:   "샤도3! 몬다비2?",
			want: "샤도 3\n몬다비 2",
		},
		{
			name: "latin abbreviation period survives",
			in:   "St. Emilion 3병",
			want: "St. Emilion 3 병",
		},
		{
			name: "trailing request phrase stripped",
			in:   "샤르도네 3병 가능할까요?",
			want: "샤르도네 3 병",
		},
		{
			name: "empty lines dropped",
			in:   "\n\n스시소라\n\n샤도 3병\n",
			want: "스시소라\n샤도 3 병",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pre.Clean(tc.in)
			if got != tc.want {
				t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPreprocessorIsIdempotent(t *testing.T) {
	pre := NewPreprocessor()

	inputs := []string{
		"안녕하세요 스시소라입니다/샤또마르고2병, 루이로드레 3병 부탁드립니다!",
		"부르고뉴샤도6",
		"Christophe Pitois, Grand Cru 2병",
		"2023 로버트 몬다비 1병 가능할까요",
		"내일 배송 부탁드립니다. 주소는 그대로입니다.",
	}

	for _, in := range inputs {
		once := pre.Clean(in)
		twice := pre.Clean(once)
		if once != twice {
			t.Fatalf("Clean not idempotent for %q:\nonce  = %q\ntwice = %q", in, once, twice)
		}
	}
}
