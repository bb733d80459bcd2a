package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCatalogService_ListCategories(t *testing.T) {
	f := newFixture(t, 4)

	categories, err := f.services.Catalog().ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1, "categories without questions are hidden")
	assert.Equal(t, "Science", categories[0].Name)
	assert.Equal(t, int64(4), categories[0].QuestionCount)
}

func TestCatalogService_GetQuestionImage(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	png := "image/png"
	withImage := &models.Question{
		CategoryID: f.science.ID, Text: "Which planet?", Option1: "a", Option2: "b", Option3: "c", Option4: "d",
		CorrectOption: models.Option2, Difficulty: models.DifficultyEasy,
		Image: []byte{0x89, 0x50, 0x4e, 0x47}, ImageContentType: &png,
	}
	require.NoError(t, f.store.Questions().Create(ctx, withImage))

	untyped := &models.Question{
		CategoryID: f.science.ID, Text: "Which moon?", Option1: "a", Option2: "b", Option3: "c", Option4: "d",
		CorrectOption: models.Option1, Difficulty: models.DifficultyEasy,
		Image: []byte{0xff, 0xd8},
	}
	require.NoError(t, f.store.Questions().Create(ctx, untyped))

	image, err := f.services.Catalog().GetQuestionImage(ctx, withImage.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", image.ContentType)
	assert.Equal(t, withImage.Image, image.Data)

	image, err = f.services.Catalog().GetQuestionImage(ctx, untyped.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultImageContentType, image.ContentType)

	for id := range f.questions {
		_, err = f.services.Catalog().GetQuestionImage(ctx, id)
		assert.ErrorIs(t, err, ErrImageNotFound)
	}

	_, err = f.services.Catalog().GetQuestionImage(ctx, 99999)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestFetchQuestion_ImageURL(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	q := &models.Question{
		CategoryID: f.science.ID, Text: "Which planet?", Option1: "a", Option2: "b", Option3: "c", Option4: "d",
		CorrectOption: models.Option2, Difficulty: models.DifficultyEasy, Image: []byte{1, 2, 3},
	}
	require.NoError(t, f.store.Questions().Create(ctx, q))

	session := f.createSession(t, alice, 1, 5)
	view, err := f.services.Session().FetchQuestion(ctx, alice, session.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, view.Question.ImageURL)
	assert.Equal(t, QuestionImageURL(q.ID), *view.Question.ImageURL)
}

func TestExportService_ExportResult(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	session := f.createSession(t, alice, 4, 10)
	ids := f.sequenceOf(t, alice, session.ID)
	answerSession(t, f, alice, session.ID, ids, []bool{true, false, true})
	_, err := f.services.Session().CompleteSession(ctx, alice, session.ID)
	require.NoError(t, err)

	buf, err := f.services.Export().ExportResult(ctx, alice, session.ID)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"Summary", "Breakdown"}, book.GetSheetList())

	rows, err := book.GetRows("Breakdown")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Question", rows[0][1])
	assert.Equal(t, "Correct", rows[1][6])
	assert.Equal(t, "Wrong", rows[2][6])
	assert.Equal(t, "Unanswered", rows[4][6])

	percentage, err := book.GetCellValue("Summary", "B10")
	require.NoError(t, err)
	assert.Equal(t, "50", percentage)

	_, err = f.services.Export().ExportResult(ctx, bob, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
