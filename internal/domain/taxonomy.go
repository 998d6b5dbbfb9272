package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

/********** taxonomy keyword table (single source of truth) **********/

// tagKeywords maps each taxonomy tag to the substrings that mark it in a
// provider's free-text category string. A raw category may match zero, one,
// or several tags.
var tagKeywords = []struct {
	tag      Tag
	keywords []string
}{
	{TagKorean, []string{"한식", "국밥", "찌개", "백반", "분식", "비빔밥", "국수", "냉면"}},
	{TagJapanese, []string{"일식", "스시", "초밥", "라멘", "우동", "돈카츠", "소바", "덮밥"}},
	{TagChinese, []string{"중식", "짜장", "짬뽕", "탕수육", "마라"}},
	{TagWestern, []string{"양식", "파스타", "피자", "버거", "스테이크", "브런치"}},
	{TagMeat, []string{"고기", "구이", "삼겹", "갈비", "정육", "솥뚜껑"}},
	{TagNoodle, []string{"국수", "라면", "라멘", "우동", "소바", "짜장", "짬뽕"}},
	{TagRice, []string{"덮밥", "비빔밥", "백반", "카레", "김밥", "국밥"}},
	{TagSoup, []string{"국", "탕", "찌개", "전골"}},
	{TagCafe, []string{"카페", "디저트", "빵", "베이커리"}},
}

// searchKeywords maps a tag to the keyword used for a free-text provider
// search when the caller prefers that tag.
var searchKeywords = map[Tag]string{
	TagKorean:   "한식",
	TagJapanese: "일식",
	TagChinese:  "중식",
	TagWestern:  "양식",
	TagMeat:     "고기",
	TagNoodle:   "국수",
	TagRice:     "덮밥",
	TagSoup:     "찌개",
	TagCafe:     "카페",
}

// MatchTags maps a provider's raw category string onto the fixed taxonomy
// by substring containment. The result preserves table order and holds no
// duplicates; it is empty when nothing matches.
func MatchTags(rawCategory string) []Tag {
	if rawCategory == "" {
		return nil
	}
	var tags []Tag
	for _, entry := range tagKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(rawCategory, kw) {
				tags = append(tags, entry.tag)
				break
			}
		}
	}
	return tags
}

// SearchKeyword returns the free-text query for a tag, or "" for an
// unknown tag.
func SearchKeyword(t Tag) string { return searchKeywords[t] }

// DeriveKey returns the stable identity for a raw place: the provider id
// when present, otherwise a digest of name and address.
func DeriveKey(p RawPlace) string {
	if p.ProviderID != "" {
		provider := p.Provider
		if provider == "" {
			provider = "place"
		}
		return provider + ":" + p.ProviderID
	}
	sum := sha1.Sum([]byte(p.Name + "|" + p.Address))
	return "derived:" + hex.EncodeToString(sum[:])
}
