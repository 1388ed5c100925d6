package repository

import (
	"context"
	"testing"

	"ideahub/internal/models"
	"ideahub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func problemIDs(problems []models.Problem) []uint {
	var ids []uint
	for _, p := range problems {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProblemRepository_ListAndCount(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	email := testutil.CreateProblem(t, db, models.Problem{
		Title: "Email automation is too complex", Category: "marketing",
		SeverityScore: 8.5, MentionCount: 15, Keywords: []string{"email", "Automation"},
	})
	invoices := testutil.CreateProblem(t, db, models.Problem{
		Title: "Invoices take manual work", Category: "finance", Source: "hackernews",
		SeverityScore: 8.5, MentionCount: 18, Keywords: []string{"invoice", "automation"},
	})
	clinic := testutil.CreateProblem(t, db, models.Problem{
		Title: "Clinic reminders", Description: "Staff phone every patient about the 100% booked day",
		Category: "healthcare", SeverityScore: 6.4, MentionCount: 9, Keywords: []string{"sms"},
	})

	tests := []struct {
		name    string
		filter  ProblemFilter
		wantIDs []uint
	}{
		{"severity then mentions", ProblemFilter{}, []uint{invoices.ID, email.ID, clinic.ID}},
		{"category", ProblemFilter{Category: "finance"}, []uint{invoices.ID}},
		{"min severity", ProblemFilter{MinSeverity: 7}, []uint{invoices.ID, email.ID}},
		{"min mentions", ProblemFilter{MinMentions: 16}, []uint{invoices.ID}},
		{"any keyword, any case", ProblemFilter{Keywords: []string{"AUTOMATION"}}, []uint{invoices.ID, email.ID}},
		{"keywords are alternatives", ProblemFilter{Keywords: []string{"sms", "invoice"}}, []uint{invoices.ID, clinic.ID}},
		{"search title", ProblemFilter{Search: "EMAIL"}, []uint{email.ID}},
		{"search description, literal percent", ProblemFilter{Search: "100%"}, []uint{clinic.ID}},
		{"combined", ProblemFilter{Category: "marketing", Keywords: []string{"invoice"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter, 0)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tt.wantIDs, problemIDs(got))

			total, err := repo.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.wantIDs)), total)
		})
	}

	capped, err := repo.List(ctx, ProblemFilter{}, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{invoices.ID}, problemIDs(capped))
}

func TestProblemRepository_Trending(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	// Scores: 9.0*10=90, 7.0*20=140, 9.5*4 excluded by mentions, 5.0*50 excluded by severity.
	severe := testutil.CreateProblem(t, db, models.Problem{Title: "Severe", SeverityScore: 9, MentionCount: 10})
	common := testutil.CreateProblem(t, db, models.Problem{Title: "Common", SeverityScore: 7, MentionCount: 20})
	testutil.CreateProblem(t, db, models.Problem{Title: "Rare", SeverityScore: 9.5, MentionCount: 4})
	testutil.CreateProblem(t, db, models.Problem{Title: "Mild", SeverityScore: 5, MentionCount: 50})

	got, err := repo.Trending(ctx, ProblemFilter{MinSeverity: 7, MinMentions: 5}, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{common.ID, severe.ID}, problemIDs(got))
	assert.Greater(t, got[0].TrendScore(), got[1].TrendScore())
}

func TestProblemRepository_GetByIDAndCategories(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProblemRepository(db)
	ctx := context.Background()

	p := testutil.CreateProblem(t, db, models.Problem{Title: "A", Category: "finance", Keywords: []string{"x"}})
	testutil.CreateProblem(t, db, models.Problem{Title: "B", Category: "finance"})
	testutil.CreateProblem(t, db, models.Problem{Title: "C", Category: "analytics"})

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, []string(got.Keywords))

	_, err = repo.GetByID(ctx, 9999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	counts, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{{"analytics", 1}, {"finance", 2}}, counts)
}

func TestProblemRepository_SourceTitleIsUnique(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateProblem(t, db, models.Problem{Title: "Same", Source: "g2"})

	err := db.Create(&models.Problem{Title: "Same", Source: "g2", Description: "d", Category: "general", Keywords: []string{}}).Error
	assert.True(t, isUniqueConstraintError(err))
	require.NoError(t, db.Create(&models.Problem{Title: "Same", Source: "reddit", Description: "d", Category: "general", Keywords: []string{}}).Error)
}
