package heading

import "testing"

func TestParseNumeral(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"二十三", 23},
		{"一百零五", 105},
		{"十", 10},
		{"九十九", 99},
		{"十一", 11},
		{"一百一十", 110},
		{"百", 100},
		{"八", 8},
		{"〇", 0},
		{"42", 42},
		{"二零二三", 2023},
		{"", 0},
		{"abc", 0},
		{"第四", 0},
		{"九九九九九九九九九九九九九九九九九九九九", 0},
		{"99999999999999999999", 0},
	}
	for _, tt := range tests {
		if got := ParseNumeral(tt.in); got != tt.want {
			t.Errorf("ParseNumeral(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestParseNumeral_AllTwoDigitForms(t *testing.T) {
	digits := []string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九"}
	for tens := 1; tens <= 9; tens++ {
		for ones := 0; ones <= 9; ones++ {
			s := digits[tens] + "十" + digits[ones]
			if tens == 1 && ones == 0 {
				s = "十"
			}
			want := tens*10 + ones
			if got := ParseNumeral(s); got != want {
				t.Errorf("ParseNumeral(%q): expected %d, got %d", s, want, got)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"第八章 方案详细说明及施工组织设计", "8.方案详细说明及施工组织设计"},
		{"第二节：施工组织设计", "2.施工组织设计"},
		{"1.1 优化提升改造部分详细方案说明", "1.1优化提升改造部分详细方案说明"},
		{"施工方法及主要技术措施（施工方案）", "施工方法及主要技术措施施工方案"},
		{"二、施工组织设计", "2.施工组织设计"},
		{"**Section A**", "sectiona"},
		{"第 十 章", "10."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"第八章 方案详细说明及施工组织设计",
		"（第四章）技术规格书",
		"*第四章* 技术规格书",
		"1.2 尘源点捕集罩方案详细说明",
		"第一章第二节 总则",
		"【附件】投标函。",
		"第第四章",
		"ＡＢＣ１２３：目录",
		"2.2 需投标人配合停机时间的详细组织设计",
		"一百零五、其他",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		style   Style
		level   int
		title   string
		chapter int
		subject string
	}{
		{"markup", "## 投标函", StyleMarkup, 2, "投标函", 0, ""},
		{"markup chapter", "# 第四章 技术规格书", StyleMarkup, 1, "第四章 技术规格书", 4, "技术规格书"},
		{"markup no space", "###施工方案", StyleMarkup, 3, "施工方案", 0, ""},
		{"chapter", "第八章 方案详细说明及施工组织设计", StyleChapter, 6, "第八章 方案详细说明及施工组织设计", 8, "方案详细说明及施工组织设计"},
		{"chapter colon", "第二章：投标人须知", StyleChapter, 2, "第二章：投标人须知", 2, "投标人须知"},
		{"chapter bold", "**第三章 评标办法**", StyleChapter, 3, "第三章 评标办法", 3, "评标办法"},
		{"chapter digits", "第5章 投标文件格式", StyleChapter, 5, "第5章 投标文件格式", 5, "投标文件格式"},
		{"chapter bare title", "第一章", StyleChapter, 1, "第一章", 1, ""},
		{"bare chapter", "四章 技术规格书", StyleBareChapter, 4, "四章 技术规格书", 4, "技术规格书"},
		{"bold", "**招标文件第四章技术规格书**", StyleBold, 4, "招标文件第四章技术规格书", 4, "技术规格书"},
		{"plain", "本项目位于厂区内。", StyleNone, 0, "", 0, ""},
		{"too many markers", "####### x", StyleNone, 0, "", 0, ""},
		{"empty", "   ", StyleNone, 0, "", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Detect(tt.line)
			if h.Style != tt.style {
				t.Fatalf("expected style %v, got %v", tt.style, h.Style)
			}
			if h.Level != tt.level {
				t.Errorf("expected level %d, got %d", tt.level, h.Level)
			}
			if h.Title != tt.title {
				t.Errorf("expected title %q, got %q", tt.title, h.Title)
			}
			if h.Chapter != tt.chapter {
				t.Errorf("expected chapter %d, got %d", tt.chapter, h.Chapter)
			}
			if h.Subject != tt.subject {
				t.Errorf("expected subject %q, got %q", tt.subject, h.Subject)
			}
		})
	}
}

func TestDetect_SectionUnitIsNotChapter(t *testing.T) {
	h := Detect("第二节 施工组织设计")
	if !h.IsHeading() {
		t.Fatal("expected heading")
	}
	if h.Unit != "节" {
		t.Errorf("expected unit 节, got %q", h.Unit)
	}
	if h.IsChapter() {
		t.Error("expected 第X节 not to count as a chapter")
	}
}

func TestIsTOCLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"[第四章 技术规格书](#_Toc12345)", true},
		{"**[第一章 招标公告](#第一章)**", true},
		{"[投标函](投标函.md)", true},
		{"目录 ........ 1", true},
		{"第四章 技术规格书 .............. 45", true},
		{"第四章 技术规格书……………12", true},
		{"# 第四章 技术规格书", false},
		{"目录", false},
		{"1.2 版本号 3", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsTOCLine(tt.line); got != tt.want {
			t.Errorf("IsTOCLine(%q): expected %v, got %v", tt.line, tt.want, got)
		}
	}
}
