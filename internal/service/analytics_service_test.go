package service

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestRecordScoreMovingAverage(t *testing.T) {
	svc := NewAnalyticsService(newFakeAnalyticsCache())
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	steps := []struct {
		score    float64
		wantEMA  float64
		wantBest float64
	}{
		{score: 4, wantEMA: 4, wantBest: 4},
		{score: 10, wantEMA: 5.8, wantBest: 10},
		{score: 0, wantEMA: 4.06, wantBest: 10},
	}
	for i, s := range steps {
		m, err := svc.RecordScore(ctx, "u1", "databases", s.score)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if math.Abs(m.Score-s.wantEMA) > 1e-9 || m.BestScore != s.wantBest || m.Attempts != i+1 {
			t.Errorf("step %d: mastery = %+v", i, m)
		}
		if !m.LastSeen.Equal(now) {
			t.Errorf("step %d: last seen = %v", i, m.LastSeen)
		}
	}

	if _, err := svc.RecordScore(ctx, "u1", "caching", 9); err != nil {
		t.Fatal(err)
	}
	scores, err := svc.TopicScores(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 || scores["caching"] != 9 {
		t.Errorf("topic scores = %v", scores)
	}
	list, _ := svc.Mastery(ctx, "u1")
	if len(list) != 2 || list[0].Topic != "caching" {
		t.Errorf("mastery list = %+v", list)
	}
}
