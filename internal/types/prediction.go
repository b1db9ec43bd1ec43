package types

// PredictionExamples accumulates observations merged into one cache
// entry over time. Descriptions are deduplicated, insertion ordered and
// capped at 10; TagNames is a snapshot of the first 5 tag names at the
// most recent write.
type PredictionExamples struct {
	Descriptions []string `json:"descriptions"`
	TagNames     []string `json:"tag_combinations"`
}

// PredictionEntry is one prediction_cache document, keyed by the
// normalized primary label. CreatedAt is write-once; every later save
// to the same key merges instead of replacing.
type PredictionEntry struct {
	Topic                string             `json:"topic"`
	CacheKey             string             `json:"cache_key"`
	PrimaryLabel         string             `json:"primary_label"`
	DescriptionSample    string             `json:"description_sample"`
	Tags                 []Tag              `json:"tags"`
	AllTopics            []string           `json:"all_topics"`
	TopicCount           int                `json:"topic_count"`
	CreatedAt            string             `json:"created_at"`
	LastAccessed         string             `json:"last_accessed"`
	AccessCount          int64              `json:"access_count"`
	Examples             PredictionExamples `json:"examples"`
	DomainTopics         *DomainTopics      `json:"domain_topics,omitempty"`
	HasStructuredDomains bool               `json:"has_structured_domains"`
}

// TopicSummary is one row of the cache statistics rankings.
type TopicSummary struct {
	Topic       string `json:"topic"`
	AccessCount int64  `json:"access_count"`
	TopicCount  int    `json:"topic_count"`
	CreatedAt   string `json:"created_at"`
}

// CacheStats aggregates across every cache entry. Averages are zero
// when the cache is empty.
type CacheStats struct {
	TotalCachedTopics    int            `json:"total_cached_topics"`
	TotalGeneratedTopics int            `json:"total_generated_topics"`
	TotalCacheHits       int64          `json:"total_cache_hits"`
	MostPopularTopics    []TopicSummary `json:"most_popular_topics"`
	RecentTopics         []TopicSummary `json:"recent_topics"`
	AvgTopicsPerEntry    float64        `json:"average_topics_per_cache"`
	AvgAccessPerTopic    float64        `json:"average_access_per_topic"`
}
