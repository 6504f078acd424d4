package prompt

import (
	"strings"
	"testing"

	"github.com/vocalab/speech-coach/internal/drills"
	"github.com/vocalab/speech-coach/internal/types"
)

func TestCompileGeneric(t *testing.T) {
	for _, id := range []int{0, -1, 99} {
		got := Compile(id)

		if !strings.HasPrefix(got, "You are a speech analysis API") {
			t.Errorf("Compile(%d) missing base instruction block", id)
		}
		if !strings.HasSuffix(got, "RESPOND WITH ONLY THE JSON ARRAY. NO OTHER TEXT.") {
			t.Errorf("Compile(%d) missing closing reminder", id)
		}
		if strings.Contains(got, "specific speaking drill") {
			t.Errorf("Compile(%d) contains a drill section for an unknown drill", id)
		}
	}
}

func TestCompileEnumeratesAllCategories(t *testing.T) {
	got := Compile(0)
	for _, category := range types.CanonicalCategories {
		if !strings.Contains(got, `"category": "`+category+`"`) {
			t.Errorf("base prompt missing category %q", category)
		}
	}
}

func TestCompileKnownDrills(t *testing.T) {
	for _, profile := range drills.All() {
		got := Compile(profile.ID)

		if !strings.Contains(got, profile.Emphasis) {
			t.Errorf("Compile(%d) missing emphasis text", profile.ID)
		}
		if !strings.Contains(got, "focused on "+profile.Focus) {
			t.Errorf("Compile(%d) missing focus %q", profile.ID, profile.Focus)
		}
		wantList := strings.Join(profile.Categories, ", ")
		if !strings.Contains(got, "give extra weight and detailed analysis to these categories: "+wantList) {
			t.Errorf("Compile(%d) missing weighted category list %q", profile.ID, wantList)
		}
		if !strings.HasSuffix(got, "RESPOND WITH ONLY THE JSON ARRAY. NO OTHER TEXT.") {
			t.Errorf("Compile(%d) missing closing reminder", profile.ID)
		}
	}
}

func TestCompileDeterministic(t *testing.T) {
	for _, id := range []int{0, 1, 10} {
		if Compile(id) != Compile(id) {
			t.Errorf("Compile(%d) is not deterministic", id)
		}
	}
}
