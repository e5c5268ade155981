package models

import "testing"

func TestMergeNonEmptyWins(t *testing.T) {
	base := &BookRecord{
		ID:            "1342",
		Title:         "Pride and Prejudice",
		Author:        "Austen, Jane",
		Description:   "Catalog summary.",
		DownloadCount: 50000,
		Subjects:      []string{"England -- Fiction"},
	}
	incoming := &BookRecord{
		Description: "Richer review-source description.",
		Rating:      4.26,
		RatingCount: 4000000,
		Genres:      []string{"Classics", "Romance"},
	}

	base.Merge(incoming)

	if base.Description != "Richer review-source description." {
		t.Errorf("Description = %q, non-empty incoming should overwrite", base.Description)
	}
	if base.Rating != 4.26 {
		t.Errorf("Rating = %v", base.Rating)
	}
	// untouched by empty incoming fields
	if base.Title != "Pride and Prejudice" || base.Author != "Austen, Jane" {
		t.Errorf("identity fields clobbered: %+v", base)
	}
	if base.DownloadCount != 50000 {
		t.Errorf("DownloadCount = %d", base.DownloadCount)
	}
	if len(base.Subjects) != 1 {
		t.Errorf("Subjects = %v", base.Subjects)
	}
}

func TestMergeNil(t *testing.T) {
	base := &BookRecord{Title: "Dracula"}
	if got := base.Merge(nil); got.Title != "Dracula" {
		t.Errorf("Merge(nil) changed the record: %+v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	base := &BookRecord{
		Title:         "Dracula",
		Subjects:      []string{"Horror"},
		DownloadLinks: map[string]string{"text/html": "u"},
	}
	cp := base.Clone()
	cp.Subjects[0] = "changed"
	cp.DownloadLinks["text/html"] = "changed"

	if base.Subjects[0] != "Horror" {
		t.Error("Subjects slice aliased")
	}
	if base.DownloadLinks["text/html"] != "u" {
		t.Error("DownloadLinks map aliased")
	}
	if (*BookRecord)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestRedditDataItemCount(t *testing.T) {
	d := RedditData{
		Recommendations: make([]DiscussionItem, 2),
		Reviews:         make([]DiscussionItem, 3),
		Trending:        make([]TrendingMention, 1),
	}
	if got := d.ItemCount(); got != 6 {
		t.Errorf("ItemCount = %d, want 6", got)
	}
}
