package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-session-service/internal/validator"
	"gopkg.in/yaml.v3"
)

// Bank is the YAML layout of a question bank file:
//
//	categories:
//	  - name: Science
//	    description: Physics and chemistry
//	    questions:
//	      - text: What is H2O?
//	        options: [Water, Salt, Sugar, Sand]
//	        correct_option: Option1
//	        difficulty: Easy
//	        image: images/h2o.png
type Bank struct {
	Categories []CategoryEntry `yaml:"categories"`
}

type CategoryEntry struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Questions   []QuestionEntry `yaml:"questions"`
}

type QuestionEntry struct {
	Text             string   `yaml:"text"`
	Options          []string `yaml:"options"`
	CorrectOption    string   `yaml:"correct_option"`
	Difficulty       string   `yaml:"difficulty"`
	Image            string   `yaml:"image,omitempty"`
	ImageContentType string   `yaml:"image_content_type,omitempty"`
}

type Stats struct {
	CategoriesCreated int
	QuestionsCreated  int
	QuestionsSkipped  int
}

// Parse decodes a bank from r. Unknown keys are rejected.
func Parse(r io.Reader) (*Bank, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var bank Bank
	if err := decoder.Decode(&bank); err != nil {
		return nil, fmt.Errorf("failed to decode question bank: %w", err)
	}
	return &bank, nil
}

type Seeder struct {
	categories repositories.CategoryRepository
	questions  repositories.QuestionRepository
	validator  *validator.Validator
	logger     *slog.Logger

	// Relative image paths resolve against baseDir
	baseDir string
}

func NewSeeder(categories repositories.CategoryRepository, questions repositories.QuestionRepository, v *validator.Validator, logger *slog.Logger) *Seeder {
	return &Seeder{
		categories: categories,
		questions:  questions,
		validator:  v,
		logger:     logger,
		baseDir:    ".",
	}
}

// SeedFile loads the bank at path and seeds it; images resolve relative to the file.
func (s *Seeder) SeedFile(ctx context.Context, path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bank, err := Parse(f)
	if err != nil {
		return nil, err
	}
	s.baseDir = filepath.Dir(path)
	return s.Seed(ctx, bank)
}

// Seed creates missing categories and questions. A question whose text already
// exists in its category is skipped, so seeding the same file twice is a no-op.
func (s *Seeder) Seed(ctx context.Context, bank *Bank) (*Stats, error) {
	stats := &Stats{}

	for _, entry := range bank.Categories {
		category, created, err := s.ensureCategory(ctx, entry)
		if err != nil {
			return stats, err
		}
		if created {
			stats.CategoriesCreated++
		}

		existing, err := s.questions.List(ctx, repositories.QuestionFilters{CategoryIDs: []uint{category.ID}})
		if err != nil {
			return stats, fmt.Errorf("failed to list questions of %q: %w", category.Name, err)
		}
		known := make(map[string]bool, len(existing))
		for _, q := range existing {
			known[normalize(q.Text)] = true
		}

		for i, qe := range entry.Questions {
			if known[normalize(qe.Text)] {
				stats.QuestionsSkipped++
				continue
			}

			question, err := s.buildQuestion(category.ID, qe)
			if err != nil {
				return stats, fmt.Errorf("category %q question %d: %w", category.Name, i+1, err)
			}
			if err := s.validator.Question().ValidateQuestion(question); err != nil {
				return stats, fmt.Errorf("category %q question %d: %w", category.Name, i+1, err)
			}
			if err := s.questions.Create(ctx, question); err != nil {
				return stats, fmt.Errorf("failed to create question: %w", err)
			}
			known[normalize(qe.Text)] = true
			stats.QuestionsCreated++
		}
	}

	s.logger.Info("Question bank seeded",
		"categories_created", stats.CategoriesCreated,
		"questions_created", stats.QuestionsCreated,
		"questions_skipped", stats.QuestionsSkipped)
	return stats, nil
}

func (s *Seeder) ensureCategory(ctx context.Context, entry CategoryEntry) (*models.Category, bool, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil, false, fmt.Errorf("category name is required")
	}

	category, err := s.categories.GetByName(ctx, name)
	if err == nil {
		return category, false, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, false, fmt.Errorf("failed to look up category %q: %w", name, err)
	}

	category = &models.Category{Name: name, Description: entry.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, false, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	return category, true, nil
}

func (s *Seeder) buildQuestion(categoryID uint, entry QuestionEntry) (*models.Question, error) {
	if len(entry.Options) != 4 {
		return nil, fmt.Errorf("exactly 4 options required, got %d", len(entry.Options))
	}

	question := &models.Question{
		CategoryID:    categoryID,
		Text:          entry.Text,
		Option1:       entry.Options[0],
		Option2:       entry.Options[1],
		Option3:       entry.Options[2],
		Option4:       entry.Options[3],
		CorrectOption: models.OptionTag(entry.CorrectOption),
		Difficulty:    models.DifficultyLevel(entry.Difficulty),
	}

	if entry.Image != "" {
		path := entry.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		question.Image = data

		contentType := entry.ImageContentType
		if contentType == "" {
			contentType = contentTypeFor(path)
		}
		question.ImageContentType = &contentType
	}

	return question, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return models.DefaultImageContentType
	}
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
