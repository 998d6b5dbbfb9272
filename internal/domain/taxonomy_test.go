package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"
)

func TestMatchTags(t *testing.T) {
	cases := []struct {
		raw  string
		want []Tag
	}{
		{"음식점 > 한식 > 국밥", []Tag{TagKorean, TagRice, TagSoup}},
		{"음식점 > 일식 > 초밥,롤", []Tag{TagJapanese}},
		{"음식점 > 중식 > 짬뽕", []Tag{TagChinese, TagNoodle}},
		{"음식점 > 양식 > 피자", []Tag{TagWestern}},
		{"음식점 > 한식 > 육류,고기요리 > 삼겹살", []Tag{TagKorean, TagMeat}},
		{"카페 > 커피전문점", []Tag{TagCafe}},
		{"여행 > 관광,명소", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := MatchTags(tc.raw)
		if len(got) != len(tc.want) {
			t.Errorf("MatchTags(%q) = %v, want %v", tc.raw, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("MatchTags(%q) = %v, want %v", tc.raw, got, tc.want)
				break
			}
		}
	}
}

func TestMatchTags_NoDuplicates(t *testing.T) {
	// "국수" appears under both noodle keyword lists; a single tag must not
	// repeat even when multiple of its keywords match.
	got := MatchTags("국수 칼국수 잔치국수")
	seen := map[Tag]bool{}
	for _, tag := range got {
		if seen[tag] {
			t.Fatalf("duplicate tag %s in %v", tag, got)
		}
		seen[tag] = true
	}
}

func TestSearchKeyword(t *testing.T) {
	if kw := SearchKeyword(TagJapanese); kw != "일식" {
		t.Fatalf("SearchKeyword(JAPANESE) = %q", kw)
	}
	if kw := SearchKeyword(Tag("BOGUS")); kw != "" {
		t.Fatalf("unknown tag should map to empty keyword, got %q", kw)
	}
}

func TestDeriveKey(t *testing.T) {
	withID := RawPlace{Provider: "kakao", ProviderID: "10332413"}
	if key := DeriveKey(withID); key != "kakao:10332413" {
		t.Fatalf("key = %q", key)
	}

	noProvider := RawPlace{ProviderID: "77"}
	if key := DeriveKey(noProvider); key != "place:77" {
		t.Fatalf("key = %q", key)
	}

	anon := RawPlace{Name: "순남시래기", Address: "서울 강남구 테헤란로 501"}
	sum := sha1.Sum([]byte("순남시래기|서울 강남구 테헤란로 501"))
	want := "derived:" + hex.EncodeToString(sum[:])
	if key := DeriveKey(anon); key != want {
		t.Fatalf("key = %q, want %q", key, want)
	}

	// Same name at a different address is a different place.
	if DeriveKey(anon) == DeriveKey(RawPlace{Name: "순남시래기", Address: "서울 송파구"}) {
		t.Fatal("distinct addresses must derive distinct keys")
	}
}
