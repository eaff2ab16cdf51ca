package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Class of 2012", "Class of 2012"},
		{"strips tags", "<b>Dhaka</b> College", "Dhaka College"},
		{"drops script content", "<script>alert('x')</script>hello", "hello"},
		{"keeps apostrophes", "O'Brien & Sons", "O'Brien & Sons"},
		{"encoded markup", "&lt;i&gt;quiet&lt;/i&gt;", "quiet"},
		{"trims", "  spaced  ", "spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestOptionalText(t *testing.T) {
	assert.Nil(t, OptionalText(nil))

	blank := "<p> </p>"
	assert.Nil(t, OptionalText(&blank))

	value := "<em>Engineer</em>"
	got := OptionalText(&value)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Engineer", *got)
	}
}

func TestLines(t *testing.T) {
	got := Lines([]string{"<b>Priority seating</b>", "", "<br>", "Newsletter"})
	assert.Equal(t, []string{"Priority seating", "Newsletter"}, got)
}
