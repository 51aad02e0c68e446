package rtf

import (
	"golang.org/x/text/language"
)

// defaultLCID is US English.
const defaultLCID = 1033

var lcids = []struct {
	tag  language.Tag
	lcid int
}{
	{language.AmericanEnglish, 1033},
	{language.BritishEnglish, 2057},
	{language.MustParse("de-DE"), 1031},
	{language.MustParse("fr-FR"), 1036},
	{language.MustParse("es-ES"), 3082},
	{language.MustParse("it-IT"), 1040},
	{language.MustParse("ru-RU"), 1049},
	{language.MustParse("ja-JP"), 1041},
	{language.MustParse("zh-CN"), 2052},
	{language.MustParse("pt-BR"), 1046},
	{language.MustParse("nl-NL"), 1043},
	{language.MustParse("pl-PL"), 1045},
	{language.MustParse("uk-UA"), 1058},
}

var lcidMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(lcids))
	for i, l := range lcids {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// LCID returns Windows language identifier closest to BCP 47 tag.
func LCID(tag string) int {
	if tag == "" {
		return defaultLCID
	}
	t, err := language.Parse(tag)
	if err != nil {
		return defaultLCID
	}
	_, idx, conf := lcidMatcher.Match(t)
	if conf == language.No {
		return defaultLCID
	}
	return lcids[idx].lcid
}
