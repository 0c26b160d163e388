package model

import "time"

// TopicMastery is a per-user rolling skill estimate for one topic
type TopicMastery struct {
	UserID    string    `json:"userId"`
	Topic     string    `json:"topic"`
	Score     float64   `json:"score"` // EMA of final scores, 0-10
	BestScore float64   `json:"bestScore"`
	Attempts  int       `json:"attempts"`
	LastSeen  time.Time `json:"lastSeen"`
}

// TopicSummary is a per-topic line in a session report
type TopicSummary struct {
	Topic        string  `json:"topic" bson:"topic"`
	Answers      int     `json:"answers" bson:"answers"`
	AverageScore float64 `json:"averageScore" bson:"averageScore"`
}

// SessionReport is the summary built when a session reaches a terminal state
type SessionReport struct {
	SessionID         string         `json:"sessionId" bson:"sessionId"`
	UserID            string         `json:"userId" bson:"userId"`
	Domain            string         `json:"domain" bson:"domain"`
	Status            SessionStatus  `json:"status" bson:"status"`
	QuestionsAnswered int            `json:"questionsAnswered" bson:"questionsAnswered"`
	FollowUpsAsked    int            `json:"followUpsAsked" bson:"followUpsAsked"`
	AverageScore      float64        `json:"averageScore" bson:"averageScore"`
	OverallGrade      string         `json:"overallGrade" bson:"overallGrade"`
	GradeCounts       map[string]int `json:"gradeCounts" bson:"gradeCounts"`
	Topics            []TopicSummary `json:"topics" bson:"topics"`
	StrongestTopic    string         `json:"strongestTopic,omitempty" bson:"strongestTopic,omitempty"`
	WeakestTopic      string         `json:"weakestTopic,omitempty" bson:"weakestTopic,omitempty"`
	MissedPoints      []string       `json:"missedPoints" bson:"missedPoints"`
	FinalDifficulty   Difficulty     `json:"finalDifficulty" bson:"finalDifficulty"`
	EndReason         string         `json:"endReason" bson:"endReason"`
	DegradedAnswers   int            `json:"degradedAnswers" bson:"degradedAnswers"`
	CreatedAt         time.Time      `json:"createdAt" bson:"createdAt"`
}

// LeaderboardEntry is one row of a domain leaderboard
type LeaderboardEntry struct {
	UserID string  `json:"userId"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
}
