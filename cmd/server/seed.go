package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/prepdash/internal/db"
	"github.com/vytor/prepdash/internal/models"
	"github.com/vytor/prepdash/internal/repository/sqlite"
	"github.com/vytor/prepdash/internal/services"
)

func newSeedCmd(loadConfig configLoader) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import questions from a JSON file into the question bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			questions, err := readQuestions(file)
			if err != nil {
				log.Error("failed to read %s: %v", file, err)
				return err
			}

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				log.Error("failed to open database: %v", err)
				return err
			}
			defer database.Close()

			svc := services.NewQuestionService(sqlite.NewQuestionRepository(database.DB), nil)
			result, err := svc.Import(context.Background(), questions)
			if err != nil {
				log.Error("seed failed: %v", err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "received=%d inserted=%d skipped=%d\n", result.Received, result.Inserted, result.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding an array of questions")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readQuestions(path string) ([]models.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var questions []models.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}
