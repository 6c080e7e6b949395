package localization

import (
	"strings"
	"testing"

	"OrtPrepBot/internal/models/domain"
)

func TestResolveKnownLanguages(t *testing.T) {
	table := New()

	ru := table.Resolve(ChooseMethod, domain.LangRU)
	kg := table.Resolve(ChooseMethod, domain.LangKG)
	if ru == "" || kg == "" {
		t.Fatal("Resolve returned an empty message for a known key")
	}
	if ru == kg {
		t.Error("ru and kg variants of choose_method are identical")
	}
}

func TestResolveFallsBackToRussian(t *testing.T) {
	table := New()

	got := table.Resolve(EnterScore, "en")
	want := table.Resolve(EnterScore, domain.LangRU)
	if got != want {
		t.Errorf("Resolve(EnterScore, en) = %q, want the Russian fallback %q", got, want)
	}
}

func TestResolveUnknownKey(t *testing.T) {
	table := New()

	got := table.Resolve(Key("no_such_key"), domain.LangRU)
	if !strings.Contains(got, "no_such_key") {
		t.Errorf("Resolve(unknown) = %q, want a placeholder naming the key", got)
	}
}

func TestEveryKeyHasBothLanguages(t *testing.T) {
	for key, byLang := range messages {
		if _, ok := byLang[domain.LangRU]; !ok {
			t.Errorf("key %q has no Russian message", key)
		}
		if _, ok := byLang[domain.LangKG]; !ok {
			t.Errorf("key %q has no Kyrgyz message", key)
		}
	}
}

func TestResultTemplatesHaveFourVerbs(t *testing.T) {
	table := New()

	for _, key := range []Key{ResultPercentage, ResultCorrect} {
		for _, lang := range []string{domain.LangRU, domain.LangKG} {
			msg := table.Resolve(key, lang)
			if got := strings.Count(msg, "%d"); got != 4 {
				t.Errorf("%s/%s has %d %%d verbs, want 4", key, lang, got)
			}
		}
	}
}
