package media

import "testing"

func TestThumbnailKey(t *testing.T) {
	tests := []struct {
		folder    string
		storedKey string
		tier      Tier
		want      string
	}{
		{
			folder:    "homes",
			storedKey: "homes/1700000000000-front_door.jpg",
			tier:      thumbnailTiers[0],
			want:      "homes/thumbnails/1700000000000-front_door_thumb_sm.jpg",
		},
		{
			folder:    "homes",
			storedKey: "homes/1700000000000-front_door.png",
			tier:      thumbnailTiers[1],
			want:      "homes/thumbnails/1700000000000-front_door_thumb_md.jpg",
		},
		{
			// extensionless originals still get the .jpg derivative suffix
			folder:    "users",
			storedKey: "users/1700000000000-avatar",
			tier:      thumbnailTiers[2],
			want:      "users/thumbnails/1700000000000-avatar_thumb_lg.jpg",
		},
	}

	for _, tt := range tests {
		if got := thumbnailKey(tt.folder, tt.storedKey, tt.tier); got != tt.want {
			t.Errorf("thumbnailKey(%q, %q, %s) = %q, want %q", tt.folder, tt.storedKey, tt.tier.Name, got, tt.want)
		}
	}
}

func TestTierDefinitions(t *testing.T) {
	if len(thumbnailTiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(thumbnailTiers))
	}

	wantOrder := []string{"small", "medium", "large"}
	for i, tier := range thumbnailTiers {
		if tier.Name != wantOrder[i] {
			t.Errorf("tier %d name = %s, want %s", i, tier.Name, wantOrder[i])
		}
		if tier.Width != tier.Height {
			t.Errorf("tier %s is not square: %dx%d", tier.Name, tier.Width, tier.Height)
		}
	}

	if thumbnailTiers[0].Width != 150 || thumbnailTiers[1].Width != 300 || thumbnailTiers[2].Width != 600 {
		t.Error("tier sizes must be 150, 300, 600")
	}
	if thumbnailTiers[0].Quality != 80 || thumbnailTiers[1].Quality != 85 || thumbnailTiers[2].Quality != 90 {
		t.Error("tier qualities must be 80, 85, 90")
	}
}
