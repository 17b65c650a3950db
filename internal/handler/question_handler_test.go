package handler_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eq-test-api/internal/dto"
	"github.com/noah-isme/eq-test-api/internal/repository"
	"github.com/noah-isme/eq-test-api/internal/seed"
	"github.com/noah-isme/eq-test-api/internal/service"
)

func TestQuestionHandler_ListSeededCatalog(t *testing.T) {
	stack := newTestStack(t, stackOptions{})
	seeder := service.NewSeedService(repository.NewQuestionRepository(stack.db), nil, zerolog.New(io.Discard))
	inserted, err := seeder.EnsureCatalog(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, len(seed.DefaultQuestions()), inserted)

	resp := get(t, stack.app, "/api/questions")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var questions []dto.QuestionResponse
	env := decodeEnvelope(t, resp, &questions)
	require.True(t, env.Success)
	require.Len(t, questions, 20)
	for _, question := range questions {
		require.Len(t, question.Options, 4)
		require.Len(t, question.Weights, len(question.Options))
	}
	require.Equal(t, "自我意识", questions[0].Category)
}

func TestQuestionHandler_Categories(t *testing.T) {
	stack := newTestStack(t, stackOptions{})
	insertQuestion(t, stack.db, "关系管理", 1, 2, 3, 4)
	insertQuestion(t, stack.db, "自我意识", 1, 2, 3, 4)
	insertQuestion(t, stack.db, "关系管理", 4, 3, 2, 1)

	resp := get(t, stack.app, "/api/questions/categories")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []dto.CategoryResponse
	decodeEnvelope(t, resp, &categories)
	require.Equal(t, []dto.CategoryResponse{
		{Category: "关系管理", Count: 2},
		{Category: "自我意识", Count: 1},
	}, categories)
}

func TestQuestionHandler_CatalogUnavailable(t *testing.T) {
	stack := newTestStack(t, stackOptions{})
	sqlDB, err := stack.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp := get(t, stack.app, "/api/questions")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	env := decodeEnvelope(t, resp, nil)
	require.False(t, env.Success)
	require.Equal(t, "catalog_unavailable", env.Code)
}
