package cli

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/postgres"
	"trivia-quiz-service/internal/sheets"
)

const questionFileSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["id", "question", "options", "correctAnswer", "weightage"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "question": {"type": "string", "minLength": 1},
      "options": {
        "type": "array",
        "minItems": 2,
        "items": {"type": "string", "minLength": 1}
      },
      "correctAnswer": {"type": "integer", "minimum": 0},
      "weightage": {"type": "integer", "minimum": 1}
    }
  }
}`

// NewImportCmd loads questions into Postgres from a file or the configured spreadsheet.
func NewImportCmd(configPath *string) *cobra.Command {
	var (
		file       string
		fromSheets bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import questions into Postgres from a JSON/YAML file or the spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == !fromSheets {
				return errors.New("pass exactly one of --file or --sheets")
			}
			return runImport(cmd.Context(), *configPath, file, fromSheets)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "question file (JSON or YAML)")
	cmd.Flags().BoolVar(&fromSheets, "sheets", false, "copy questions from the configured spreadsheet")
	return cmd
}

func runImport(ctx context.Context, configPath, file string, fromSheets bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	var questions []domain.Question
	if fromSheets {
		questions, err = sheetQuestions(ctx, cfg)
	} else {
		var data []byte
		data, err = os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "read %s", file)
		}
		questions, err = parseQuestionFile(data)
	}
	if err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return errors.Wrap(err, "connect postgres")
	}
	defer pool.Close()

	if err := postgres.UpsertQuestions(ctx, pool, questions); err != nil {
		return err
	}
	glog.Infof("imported %d questions", len(questions))
	return nil
}

func sheetQuestions(ctx context.Context, cfg config.Config) ([]domain.Question, error) {
	if !cfg.SheetsConfigured() {
		return nil, errors.New("spreadsheet id not configured")
	}
	client, err := newSheetsClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	set, err := sheets.NewLoader(client, cfg.Sheets.Range).LoadQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return set.Questions, nil
}

// parseQuestionFile reads a JSON or YAML array of questions and checks it against
// the question schema. JSON input parses as YAML.
func parseQuestionFile(data []byte) ([]domain.Question, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse question file")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(questionFileSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, errors.Wrap(err, "validate question file")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.Errorf("invalid question file: %s", strings.Join(msgs, "; "))
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "re-encode question file")
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, errors.Wrap(err, "decode questions")
	}

	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if !q.Valid() {
			return nil, errors.Errorf("question %d: correct answer %d out of range", q.ID, q.CorrectIndex)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, errors.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return questions, nil
}
