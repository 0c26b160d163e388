package main

import "interviewcoach/internal/model"

// defaultBank is a starter backend question bank
func defaultBank() []*model.Question {
	return []*model.Question{
		{
			Domain:     "backend",
			Topic:      "databases",
			Difficulty: model.DifficultyEasy,
			Prompt:     "What is a database index and when would you add one?",
			Rubric: model.Rubric{
				MustHave: []string{
					"An index is a separate structure that speeds up lookups",
					"Indexes are usually implemented as B-trees",
					"Indexes slow down writes and use extra storage",
				},
				GoodToHave: []string{"Composite index column order matters"},
				RedFlags:   []string{"Indexes make every query faster"},
			},
		},
		{
			Domain:     "backend",
			Topic:      "databases",
			Difficulty: model.DifficultyMedium,
			Prompt:     "Explain transaction isolation levels and the anomalies each one prevents.",
			Rubric: model.Rubric{
				MustHave: []string{
					"Read committed prevents dirty reads",
					"Repeatable read prevents non-repeatable reads",
					"Serializable prevents phantom reads",
				},
				GoodToHave: []string{
					"Stronger isolation reduces concurrency",
					"Postgres implements snapshot isolation with MVCC",
				},
				RedFlags: []string{"Serializable has no performance cost"},
			},
		},
		{
			Domain:     "backend",
			Topic:      "databases",
			Difficulty: model.DifficultyHard,
			Prompt:     "How would you shard a large table, and what problems does sharding introduce?",
			Rubric: model.Rubric{
				MustHave: []string{
					"Choose a shard key with even distribution",
					"Cross shard queries and joins become expensive",
					"Resharding requires moving data between nodes",
				},
				GoodToHave: []string{"Consistent hashing limits data movement"},
				RedFlags:   []string{"Sharding keeps transactions global for free"},
			},
		},
		{
			Domain:     "backend",
			Topic:      "caching",
			Difficulty: model.DifficultyEasy,
			Prompt:     "What is the cache-aside pattern?",
			Rubric: model.Rubric{
				MustHave: []string{
					"The application reads the cache first",
					"On a miss the application loads from the database",
					"The loaded value is written back into the cache",
				},
				GoodToHave: []string{"Entries expire with a TTL"},
			},
		},
		{
			Domain:     "backend",
			Topic:      "caching",
			Difficulty: model.DifficultyMedium,
			Prompt:     "How do you keep a cache consistent with the database when data changes?",
			Rubric: model.Rubric{
				MustHave: []string{
					"Invalidate or update the cache entry on write",
					"Race conditions can leave stale values",
					"TTL bounds how long stale data survives",
				},
				GoodToHave: []string{"Write through caches update both stores together"},
				RedFlags:   []string{"Caches never return stale data"},
			},
		},
		{
			Domain:     "backend",
			Topic:      "caching",
			Difficulty: model.DifficultyHard,
			Prompt:     "What is a cache stampede and how do you prevent it?",
			Rubric: model.Rubric{
				MustHave: []string{
					"Many requests miss the same key at once",
					"The database is overloaded by duplicate loads",
					"Request coalescing or locking lets one caller refill the key",
				},
				GoodToHave: []string{
					"Jittered expiry spreads out refreshes",
					"Serving stale values while refreshing",
				},
			},
		},
		{
			Domain:     "backend",
			Topic:      "concurrency",
			Difficulty: model.DifficultyEasy,
			Prompt:     "What is the difference between a process and a thread?",
			Rubric: model.Rubric{
				MustHave: []string{
					"Processes have separate memory spaces",
					"Threads share memory within a process",
					"Context switching between threads is cheaper",
				},
				RedFlags: []string{"Threads cannot run in parallel"},
			},
		},
		{
			Domain:     "backend",
			Topic:      "concurrency",
			Difficulty: model.DifficultyMedium,
			Prompt:     "What is a deadlock and how can you avoid one?",
			Rubric: model.Rubric{
				MustHave: []string{
					"Two or more tasks wait on locks held by each other",
					"Acquire locks in a consistent global order",
					"Timeouts let a task give up and retry",
				},
				GoodToHave: []string{"Mutual exclusion, hold and wait, no preemption and circular wait are required"},
			},
		},
		{
			Domain:     "backend",
			Topic:      "api-design",
			Difficulty: model.DifficultyEasy,
			Prompt:     "What makes an HTTP method idempotent, and which methods are?",
			Rubric: model.Rubric{
				MustHave: []string{
					"Repeating the request has the same effect as sending it once",
					"GET, PUT and DELETE are idempotent",
					"POST is not idempotent",
				},
				GoodToHave: []string{"Idempotency keys make retries of POST safe"},
			},
		},
		{
			Domain:     "backend",
			Topic:      "api-design",
			Difficulty: model.DifficultyMedium,
			Prompt:     "How would you design rate limiting for a public API?",
			Rubric: model.Rubric{
				MustHave: []string{
					"Use a token bucket or sliding window algorithm",
					"Limit per client key or IP address",
					"Return 429 with a retry hint when the limit is hit",
				},
				GoodToHave: []string{"Keep counters in a shared store like Redis"},
				RedFlags:   []string{"Rate limits only need to be enforced in the client"},
			},
		},
		{
			Domain:     "backend",
			Topic:      "distributed-systems",
			Difficulty: model.DifficultyHard,
			Prompt:     "Explain the CAP theorem and how it shapes the design of a distributed store.",
			Rubric: model.Rubric{
				MustHave: []string{
					"Consistency, availability and partition tolerance cannot all be guaranteed",
					"Partitions are unavoidable so the choice is between consistency and availability",
					"Systems pick a tradeoff per operation or per store",
				},
				GoodToHave: []string{"PACELC adds the latency versus consistency tradeoff"},
				RedFlags:   []string{"You can choose to drop partition tolerance"},
			},
		},
	}
}
