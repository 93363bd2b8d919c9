package media

import (
	"regexp"
	"testing"
	"time"
)

var sanitizedCharset = regexp.MustCompile(`^[a-z0-9._-]*$`)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"My Holiday Photo.JPG", "my_holiday_photo.jpg"},
		{"weird  \t spacing.png", "weird_spacing.png"},
		{"款待 house.png", "_house.png"},
		{"semi;colon&amp.png", "semicolonamp.png"},
		{"UPPER-case_Name.webp", "upper-case_name.webp"},
		{"", ""},
	}

	for _, tc := range cases {
		got := Sanitize(tc.in)
		if got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeProducesSafeCharset(t *testing.T) {
	inputs := []string{
		"photo.jpg",
		"My Holiday Photo.JPG",
		"sp a c e s everywhere .gif",
		"emoji💥file.png",
		"path/../traversal.png",
		"quotes\"and'such.mp4",
	}

	for _, in := range inputs {
		got := Sanitize(in)
		if !sanitizedCharset.MatchString(got) {
			t.Errorf("Sanitize(%q) = %q contains characters outside [a-z0-9._-]", in, got)
		}
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"My Holiday Photo.JPG",
		"already_clean.png",
		"123 456.mp4",
		"ümläut straße.jpeg",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStorageKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	got := StorageKey("homes", "Front Door.JPG", now)
	want := "homes/1700000000000-front_door.jpg"
	if got != want {
		t.Errorf("StorageKey = %q, want %q", got, want)
	}
}
