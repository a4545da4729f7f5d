package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Title(t *testing.T) {
	v := NewValidator(DefaultLimits())

	got, err := v.Title("  The Witcher 3  ")
	require.NoError(t, err)
	assert.Equal(t, "The Witcher 3", got)

	_, err = v.Title("   ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = v.Title(strings.Repeat("x", 201))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	// The cap counts characters, not bytes: 200 three-byte runes fit.
	wide := strings.Repeat("游", 200)
	got, err = v.Title(wide)
	require.NoError(t, err)
	assert.Equal(t, wide, got)

	_, err = v.Title(strings.Repeat("游", 201))
	require.ErrorAs(t, err, &verr)
}

func TestValidator_Platform(t *testing.T) {
	v := NewValidator(DefaultLimits())

	tests := []struct {
		name    string
		raw     string
		mt      MediaType
		want    string
		wantErr bool
	}{
		{name: "empty is absent", raw: "  ", mt: MediaTypeGame, want: ""},
		{name: "game exact", raw: "PC", mt: MediaTypeGame, want: "PC"},
		{name: "game invalid", raw: "Netflix", mt: MediaTypeGame, wantErr: true},
		{name: "movie exact", raw: "Netflix", mt: MediaTypeMovie, want: "Netflix"},
		{name: "movie alias amazon", raw: "amazon", mt: MediaTypeMovie, want: "Amazon Prime"},
		{name: "movie alias bluray", raw: "bluray", mt: MediaTypeMovie, want: "Blu-ray"},
		{name: "movie alias hbo", raw: "hbo", mt: MediaTypeMovie, want: "HBO Max"},
		{name: "movie invalid", raw: "PC", mt: MediaTypeMovie, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Platform(tt.raw, tt.mt)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "platform", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidator_CoverURL(t *testing.T) {
	v := NewValidator(DefaultLimits())

	valid := []string{
		"https://example.com/cover.jpg",
		"http://example.com",
		"https://cdn.example.co.uk/a/b?c=d",
		"http://localhost:8080/img.png",
		"https://192.168.1.10/cover.jpg",
		"HTTPS://EXAMPLE.COM/COVER.JPG",
	}
	for _, u := range valid {
		got, err := v.CoverURL(u)
		require.NoError(t, err, "url %q", u)
		assert.Equal(t, u, got)
	}

	invalid := []string{
		"ftp://example.com/cover.jpg",
		"example.com/cover.jpg",
		"https://",
		"not a url",
	}
	for _, u := range invalid {
		_, err := v.CoverURL(u)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "url %q", u)
		assert.Equal(t, "coverUrl", verr.Field)
	}

	got, err := v.CoverURL("   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidator_Tags(t *testing.T) {
	v := NewValidator(Limits{MaxTags: 3, MaxTagLength: 10})

	got := v.Tags([]string{" RPG ", "rpg", "Action", "", "this-tag-is-way-too-long", "indie", "extra"})
	assert.Equal(t, []string{"rpg", "action", "indie"}, got)

	assert.Empty(t, v.Tags(nil))

	// Ten three-byte runes are within a ten-character cap.
	assert.Equal(t, []string{strings.Repeat("게", 10)}, v.Tags([]string{strings.Repeat("게", 10)}))
	assert.Empty(t, v.Tags([]string{strings.Repeat("게", 11)}))
}

func TestParseEnums(t *testing.T) {
	mt, err := ParseMediaType("game")
	require.NoError(t, err)
	assert.Equal(t, MediaTypeGame, mt)

	_, err = ParseMediaType("book")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	st, err := ParseStatus("archived")
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, st)

	_, err = ParseStatus("paused")
	require.ErrorAs(t, err, &verr)
}
