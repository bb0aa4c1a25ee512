package adcopy

import "testing"

func TestDisplayHashtags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{name: "bare tags", tags: []string{"skincare", "vegan"}, want: "#skincare #vegan"},
		{name: "already prefixed", tags: []string{"#skincare", "vegan"}, want: "#skincare #vegan"},
		{name: "blank entries skipped", tags: []string{"", " glow "}, want: "#glow"},
		{name: "empty", tags: nil, want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := AdResponse{Hashtags: tc.tags}
			if got := res.DisplayHashtags(); got != tc.want {
				t.Fatalf("DisplayHashtags() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDisplayHashtagsLeavesStoredTagsAlone(t *testing.T) {
	res := AdResponse{Hashtags: []string{"skincare"}}
	_ = res.DisplayHashtags()
	if res.Hashtags[0] != "skincare" {
		t.Fatalf("stored hashtag mutated to %q", res.Hashtags[0])
	}
}

func TestPlainText(t *testing.T) {
	res := AdResponse{
		Headline:     "Glow Naturally",
		Body:         "Meet your new ritual.",
		CallToAction: "Shop Now",
		Hashtags:     []string{"skincare"},
	}
	want := "Glow Naturally\n\nMeet your new ritual.\n\nShop Now\n\n#skincare"
	if got := res.PlainText(); got != want {
		t.Fatalf("PlainText() = %q, want %q", got, want)
	}
	res.Hashtags = nil
	if got := res.PlainText(); got != "Glow Naturally\n\nMeet your new ritual.\n\nShop Now" {
		t.Fatalf("PlainText() without tags = %q", got)
	}
}
