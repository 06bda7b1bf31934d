package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"BEGINNER", Beginner},
		{"intermediate", Intermediate},
		{" Advanced ", Advanced},
		{"", Beginner},
		{"expert", Beginner},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelIsValid(t *testing.T) {
	for _, l := range Levels {
		assert.True(t, l.IsValid(), l)
	}
	assert.False(t, Level("EXPERT").IsValid())
}

func TestProgressPercentage(t *testing.T) {
	assert.Equal(t, 0.0, User{}.ProgressPercentage())
	assert.Equal(t, 0.75, User{CorrectAnswers: 3, TotalAnswers: 4}.ProgressPercentage())
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		result TestResult
		want   float64
	}{
		{"empty test", TestResult{}, 0},
		{"all correct", TestResult{CorrectAnswers: 5, TotalQuestions: 5}, 1},
		{"partial", TestResult{CorrectAnswers: 3, TotalQuestions: 5}, 0.6},
		{"inconsistent counters are clamped", TestResult{CorrectAnswers: 7, TotalQuestions: 5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := tt.result.Score()
			assert.InDelta(t, tt.want, score, 1e-9)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}
