package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/eq-test-api/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Question{}, &models.TestResult{}))
	return db
}

func createQuestion(t *testing.T, db *gorm.DB, category string, weights []int) models.Question {
	t.Helper()
	question := models.Question{Category: category, Question: "prompt for " + category}
	options := make([]string, len(weights))
	for i := range options {
		options[i] = fmt.Sprintf("choice-%d", i)
	}
	require.NoError(t, question.SetOptions(options))
	require.NoError(t, question.SetWeights(weights))
	require.NoError(t, db.Create(&question).Error)
	return question
}
