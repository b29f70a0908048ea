package checksum

import (
	"testing"

	"github.com/starford/noteflow/internal/models"
)

func TestSum_KnownValue(t *testing.T) {
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestNote_SensitiveToEditableFields(t *testing.T) {
	base := models.Note{ID: "n", Subject: "ab", Body: "c"}
	moved := models.Note{ID: "n", Subject: "a", Body: "bc"}
	if Note(base) == Note(moved) {
		t.Error("moving text between fields must change the checksum")
	}
	other := base
	other.ID = "other"
	if Note(base) != Note(other) {
		t.Error("id is not an editable field")
	}
	folder := base
	folder.FolderID = "f"
	if Note(base) == Note(folder) {
		t.Error("folder change must change the checksum")
	}
}
