package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"interviewcoach/internal/app"
	"interviewcoach/internal/config"
	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/logger"
	"interviewcoach/internal/model"
	"interviewcoach/internal/repository"
	"interviewcoach/internal/service"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile  string
	bankFile string

	rootCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load interview questions into the question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed()
		},
	}
)

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "a config file")
	rootCmd.Flags().StringVarP(&bankFile, "file", "f", "", "JSON or YAML file with a list of questions (default is the built-in backend bank)")
	rootCmd.Flags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.Flags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.Flags().Lookup("json"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func seed() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.JSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	questions, err := loadBank(bankFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := app.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.Mongo.Database)
	repository.EnsureIndexes(ctx, db, log)
	svc := service.NewQuestionService(repository.NewQuestionRepo(db), nil, log)

	// prompts already in the bank are skipped so the seed can be rerun
	existing := make(map[string]bool)
	all, err := svc.List(ctx, model.QuestionFilter{})
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	for _, q := range all {
		existing[bankKey(q)] = true
	}

	created, skipped := 0, 0
	for _, q := range questions {
		if existing[bankKey(q)] {
			skipped++
			continue
		}
		q.Active = true
		if _, err := svc.Create(ctx, q); err != nil {
			var verr *evaluation.ValidationError
			if errors.As(err, &verr) || errors.Is(err, service.ErrInvalidInput) {
				log.Warn("skipping invalid question", zap.String("prompt", q.Prompt), zap.Error(err))
				skipped++
				continue
			}
			return fmt.Errorf("create question: %w", err)
		}
		existing[bankKey(q)] = true
		created++
	}
	log.Info("seed finished", zap.Int("created", created), zap.Int("skipped", skipped))
	return nil
}

// bankEntry is one question in a bank file
type bankEntry struct {
	Domain     string `json:"domain" yaml:"domain"`
	Topic      string `json:"topic" yaml:"topic"`
	Difficulty string `json:"difficulty" yaml:"difficulty"`
	Prompt     string `json:"prompt" yaml:"prompt"`
	Rubric     struct {
		MustHave   []string `json:"mustHave" yaml:"mustHave"`
		GoodToHave []string `json:"goodToHave" yaml:"goodToHave"`
		RedFlags   []string `json:"redFlags" yaml:"redFlags"`
	} `json:"rubric" yaml:"rubric"`
}

// loadBank reads a JSON or YAML bank file, or returns the built-in bank
func loadBank(path string) ([]*model.Question, error) {
	if path == "" {
		return defaultBank(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	return parseBank(data, filepath.Ext(path))
}

func parseBank(data []byte, ext string) ([]*model.Question, error) {
	var entries []bankEntry
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse question file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse question file: %w", err)
		}
	}

	questions := make([]*model.Question, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, &model.Question{
			Domain:     e.Domain,
			Topic:      e.Topic,
			Difficulty: model.Difficulty(e.Difficulty),
			Prompt:     e.Prompt,
			Rubric: model.Rubric{
				MustHave:   e.Rubric.MustHave,
				GoodToHave: e.Rubric.GoodToHave,
				RedFlags:   e.Rubric.RedFlags,
			},
		})
	}
	return questions, nil
}

func bankKey(q *model.Question) string {
	return strings.ToLower(strings.TrimSpace(q.Domain)) + "|" + strings.TrimSpace(q.Prompt)
}
