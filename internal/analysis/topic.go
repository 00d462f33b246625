package analysis

import (
	"regexp"
	"strings"
)

// UndefinedTopic is assigned to tests whose title carries no quoted topic.
const UndefinedTopic = "undefined topic"

var quotedTopicPattern = regexp.MustCompile("[\"'«»“”„‟‚‘’`](.+?)[\"'«»“”„‟‚‘’`]")

// ExtractTopic returns the first quoted fragment of a test title, trimmed.
// Any quote-like character may open or close the fragment.
func ExtractTopic(testName string) string {
	m := quotedTopicPattern.FindStringSubmatch(testName)
	if m == nil {
		return UndefinedTopic
	}
	return strings.TrimSpace(m[1])
}

// topicOf handles test names that are NULL in the store.
func topicOf(testName *string) string {
	if testName == nil {
		return UndefinedTopic
	}
	return ExtractTopic(*testName)
}

// TopicIndex assigns small integer ids to topics in first-appearance order.
// Ids are only meaningful within the population the index was built from.
type TopicIndex struct {
	ids    map[string]int
	topics []string
}

// NewTopicIndex builds the index from topics in population order
func NewTopicIndex(topics []string) *TopicIndex {
	idx := &TopicIndex{ids: make(map[string]int)}
	for _, t := range topics {
		if _, ok := idx.ids[t]; ok {
			continue
		}
		idx.ids[t] = len(idx.topics)
		idx.topics = append(idx.topics, t)
	}
	return idx
}

// ID returns the id of a topic and whether the topic is known
func (idx *TopicIndex) ID(topic string) (int, bool) {
	id, ok := idx.ids[topic]
	return id, ok
}

// Topic returns the topic for an id
func (idx *TopicIndex) Topic(id int) (string, bool) {
	if id < 0 || id >= len(idx.topics) {
		return "", false
	}
	return idx.topics[id], true
}

// Len returns the number of distinct topics
func (idx *TopicIndex) Len() int {
	return len(idx.topics)
}
