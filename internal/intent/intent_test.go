package intent

import "testing"

var testSites = map[string]string{
	"google":    "https://google.com",
	"youtube":   "https://youtube.com",
	"instagram": "https://instagram.com",
	"linkedin":  "https://linkedin.com",
	"facebook":  "https://facebook.com",
	"twitter":   "https://twitter.com",
	"reddit":    "https://reddit.com",
}

var testMusic = map[string]string{
	"skyfall":         "spotify:skyfall",
	"faded":           "spotify:faded",
	"shape of you":    "spotify:shape-of-you",
	"blinding lights": "spotify:blinding-lights",
}

var testExitWords = []string{"goodbye", "stop", "quit", "exit"}

func newTestClassifier() *Classifier {
	return NewClassifier(testSites, testMusic, testExitWords)
}

func TestClassify_Policy(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      Classification
	}{
		{
			name:      "exit keyword",
			utterance: "goodbye",
			want:      Classification{Intent: Exit},
		},
		{
			name:      "exit wins over other words",
			utterance: "open youtube and then goodbye",
			want:      Classification{Intent: Exit},
		},
		{
			name:      "exit substring stop",
			utterance: "please stop now",
			want:      Classification{Intent: Exit},
		},
		{
			name:      "open site",
			utterance: "open youtube",
			want:      Classification{Intent: OpenSite, Site: "youtube"},
		},
		{
			name:      "open site case insensitive",
			utterance: "Open REDDIT please",
			want:      Classification{Intent: OpenSite, Site: "reddit"},
		},
		{
			name:      "open with unknown site falls through to converse",
			utterance: "open the pod bay doors",
			want:      Classification{Intent: Converse, Prompt: "open the pod bay doors"},
		},
		{
			name:      "play song",
			utterance: "play faded",
			want:      Classification{Intent: PlayMusic, Song: "faded"},
		},
		{
			name:      "play multi word song",
			utterance: "play shape of you",
			want:      Classification{Intent: PlayMusic, Song: "shape of you"},
		},
		{
			name:      "play with unknown song falls through to converse",
			utterance: "play something energetic",
			want:      Classification{Intent: Converse, Prompt: "play something energetic"},
		},
		{
			name:      "news without category",
			utterance: "news",
			want:      Classification{Intent: GetNews, Category: "general"},
		},
		{
			name:      "tech news",
			utterance: "tech news",
			want:      Classification{Intent: GetNews, Category: "technology"},
		},
		{
			name:      "technology news long form",
			utterance: "give me the technology news",
			want:      Classification{Intent: GetNews, Category: "technology"},
		},
		{
			name:      "sports news",
			utterance: "any sports news today",
			want:      Classification{Intent: GetNews, Category: "sports"},
		},
		{
			name:      "business news",
			utterance: "business news",
			want:      Classification{Intent: GetNews, Category: "business"},
		},
		{
			name:      "entertainment news",
			utterance: "entertainment news",
			want:      Classification{Intent: GetNews, Category: "entertainment"},
		},
		{
			name:      "time query",
			utterance: "what time is it",
			want:      Classification{Intent: GetTime},
		},
		{
			name:      "date query",
			utterance: "what is the date today",
			want:      Classification{Intent: GetDate},
		},
		{
			name:      "time wins over date",
			utterance: "time and date please",
			want:      Classification{Intent: GetTime},
		},
		{
			name:      "converse fallback",
			utterance: "explain quantum physics",
			want:      Classification{Intent: Converse, Prompt: "explain quantum physics"},
		},
		{
			name:      "converse normalizes case",
			utterance: "Explain Quantum Physics",
			want:      Classification{Intent: Converse, Prompt: "explain quantum physics"},
		},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.utterance)
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestClassify_EverySiteKey(t *testing.T) {
	c := newTestClassifier()
	for key := range testSites {
		got := c.Classify("open " + key)
		if got.Intent != OpenSite || got.Site != key {
			t.Errorf("Classify(%q) = %+v, want OpenSite with site %q", "open "+key, got, key)
		}
	}
}

func TestClassify_EverySongKey(t *testing.T) {
	c := newTestClassifier()
	for key := range testMusic {
		got := c.Classify("play " + key)
		if got.Intent != PlayMusic || got.Song != key {
			t.Errorf("Classify(%q) = %+v, want PlayMusic with song %q", "play "+key, got, key)
		}
	}
}

func TestClassify_NeverExitWithoutKeyword(t *testing.T) {
	c := newTestClassifier()
	utterances := []string{
		"open youtube",
		"play faded",
		"what time is it",
		"tell me a story",
		"",
	}
	for _, u := range utterances {
		if got := c.Classify(u); got.Intent == Exit || got.Intent == Unrecognized {
			t.Errorf("Classify(%q) = %v, want a non-exit, recognized intent", u, got.Intent)
		}
	}
}

func TestLongestKeyMatch(t *testing.T) {
	// Overlapping keys: the longer key must win regardless of map order.
	music := map[string]string{
		"light":           "spotify:light",
		"blinding lights": "spotify:blinding-lights",
	}
	c := NewClassifier(testSites, music, testExitWords)

	got := c.Classify("play blinding lights")
	if got.Song != "blinding lights" {
		t.Errorf("longest match: got song %q, want %q", got.Song, "blinding lights")
	}

	// Equal-length candidates tie-break lexicographically.
	sites := map[string]string{
		"abc": "https://abc.example",
		"abd": "https://abd.example",
	}
	key := longestKeyMatch("open abc abd", sites)
	if key != "abc" {
		t.Errorf("tie-break: got %q, want %q", key, "abc")
	}
}
