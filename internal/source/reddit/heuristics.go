package reddit

import (
	"regexp"
	"sort"
	"strings"

	"bookcrawl/pkg/models"
)

var recommendationKeywords = []string{
	"recommend", "suggestion", "looking for", "similar to",
	"book like", "what to read", "need help finding",
	"any books", "book recommendations",
}

var reviewKeywords = []string{
	"review", "thoughts", "finished", "just read",
	"opinion", "thoughts on", "what did you think",
}

func isRecommendationPost(title string) bool {
	return containsAny(strings.ToLower(title), recommendationKeywords)
}

func isReviewPost(title string) bool {
	return containsAny(strings.ToLower(title), reviewKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var quotedText = regexp.MustCompile(`"([^"]*)"`)

// extractBookMentions treats quoted phrases of plausible title length in a
// post's title and body as book mentions. Deliberately a substring
// heuristic, not NLP.
func extractBookMentions(post submission) []models.TrendingMention {
	text := strings.ToLower(post.Title + " " + post.Selftext)

	var mentions []models.TrendingMention
	for _, match := range quotedText.FindAllStringSubmatch(text, -1) {
		quote := match[1]
		if len(quote) <= 5 || len(quote) >= 100 {
			continue
		}
		mentions = append(mentions, models.TrendingMention{
			Title:          quote,
			MentionedIn:    post.ID,
			Context:        "reddit_discussion",
			RedditScore:    post.Score,
			RedditComments: post.NumComments,
		})
	}
	return mentions
}

func sortMentions(mentions []models.TrendingMention) {
	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].RedditScore > mentions[j].RedditScore
	})
}
