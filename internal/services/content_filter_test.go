package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentFilter_CleanTextPasses(t *testing.T) {
	f := NewContentFilter()

	for _, text := range []string{
		"",
		"Amazing drift dive along the wall",
		"Saw a turtle and two reef sharks",
		"Classic conditions at the point", // contains a banned substring but not the word
	} {
		ok, reason := f.Check(text)
		assert.True(t, ok, "text %q rejected with %q", text, reason)
	}
}

func TestContentFilter_BannedWords(t *testing.T) {
	f := NewContentFilter()

	ok, reason := f.Check("this site is shit")
	assert.False(t, ok)
	assert.Equal(t, "inappropriate_language", reason)

	// Case-insensitive, word-boundary match.
	ok, _ = f.Check("ABSOLUTE BULLSHIT")
	assert.False(t, ok)
}

func TestContentFilter_URLsAndEmails(t *testing.T) {
	f := NewContentFilter()

	ok, reason := f.Check("book via https://dive.example/deals")
	assert.False(t, ok)
	assert.Equal(t, "contains_url", reason)

	ok, reason = f.Check("see www.dive.example for rates")
	assert.False(t, ok)
	assert.Equal(t, "contains_url", reason)

	ok, reason = f.Check("mail me at diver@example.com")
	assert.False(t, ok)
	assert.Equal(t, "contains_email", reason)
}

func TestContentFilter_CheckName(t *testing.T) {
	f := NewContentFilter()

	ok, _ := f.CheckName("Ocean Explorer")
	assert.True(t, ok)

	ok, _ = f.CheckName("www.spam.example")
	assert.False(t, ok)

	ok, reason := f.CheckName("diver@example.com")
	assert.False(t, ok)
	assert.Equal(t, "contains_email", reason)
}
