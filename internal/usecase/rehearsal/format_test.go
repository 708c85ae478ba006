package rehearsal

import (
	"testing"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

func TestFormatScene(t *testing.T) {
	scene := entities.Scene{Title: "S", Lines: []entities.Line{
		line("one", "A"),
		line("two", "A"),
		line("three", "A", "B"),
		line("four", "B", "A"),
		line("five", "B"),
	}}
	out := FormatScene(scene, "B")

	wantHeader := []bool{true, false, true, false, true}
	wantEnsemble := []bool{false, false, true, true, false}
	wantOwn := []bool{false, false, true, true, true}
	for i, dl := range out {
		if dl.ShowHeader != wantHeader[i] {
			t.Fatalf("line %d: header=%v want %v", i, dl.ShowHeader, wantHeader[i])
		}
		if dl.Ensemble != wantEnsemble[i] {
			t.Fatalf("line %d: ensemble=%v want %v", i, dl.Ensemble, wantEnsemble[i])
		}
		if dl.Own != wantOwn[i] {
			t.Fatalf("line %d: own=%v want %v", i, dl.Own, wantOwn[i])
		}
		if dl.Index != i {
			t.Fatalf("line %d: index %d", i, dl.Index)
		}
	}
}
