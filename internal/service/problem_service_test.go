package service

import (
	"context"
	"strings"
	"testing"

	"ideahub/internal/cache"
	"ideahub/internal/models"
	"ideahub/internal/repository"
	"ideahub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProblemCatalog(t *testing.T) (*ProblemService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	testutil.CreateProblem(t, db, models.Problem{
		Title: "Support tools cost too much", Category: "customer-support", Source: "g2",
		SeverityScore: 9.2, MentionCount: 31, Keywords: []string{"helpdesk", "pricing"},
	})
	testutil.CreateProblem(t, db, models.Problem{
		Title: "Remote project tracking", Category: "productivity", Source: "hackernews",
		SeverityScore: 7.8, MentionCount: 23, Keywords: []string{"remote", "time tracking"},
	})
	testutil.CreateProblem(t, db, models.Problem{
		Title: "Flaky CI", Category: "developer-tools", Source: "hackernews",
		SeverityScore: 7.9, MentionCount: 4, Keywords: []string{"flaky tests"},
	})
	return NewProblemService(repository.NewProblemRepository(db)), db
}

func TestProblemService_ListProblems(t *testing.T) {
	svc, _ := newProblemCatalog(t)
	ctx := context.Background()

	list, err := svc.ListProblems(ctx, ListProblemsInput{Keywords: " Remote, ,remote,FLAKY "})
	require.NoError(t, err)
	assert.Equal(t, []string{"remote", "flaky"}, list.Filters.Keywords)
	require.Len(t, list.Problems, 2)
	assert.Equal(t, "Flaky CI", list.Problems[0].Title)
	assert.EqualValues(t, 2, list.Total)

	list, err = svc.ListProblems(ctx, ListProblemsInput{MinSeverity: 7.85, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
	assert.EqualValues(t, 2, list.Total)

	list, err = svc.ListProblems(ctx, ListProblemsInput{Category: " Customer-Support "})
	require.NoError(t, err)
	assert.Equal(t, "customer-support", list.Filters.Category)
	assert.Len(t, list.Problems, 1)

	bad := []ListProblemsInput{
		{Category: "crypto"},
		{MinSeverity: -1},
		{MinSeverity: 10.5},
		{Keywords: "a,b,c,d,e,f,g,h,i,j,k"},
	}
	for _, in := range bad {
		_, err := svc.ListProblems(ctx, in)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err), "%+v", in)
	}
}

func TestProblemService_Search(t *testing.T) {
	svc, _ := newProblemCatalog(t)
	ctx := context.Background()

	res, err := svc.Search(ctx, "  REMOTE ", 0)
	require.NoError(t, err)
	assert.Equal(t, "REMOTE", res.Query)
	assert.Equal(t, 1, res.Count)

	res, err = svc.Search(ctx, "nothing like this", 5)
	require.NoError(t, err)
	assert.NotNil(t, res.Problems)
	assert.Zero(t, res.Count)

	for _, q := range []string{"", "   ", strings.Repeat("q", 201)} {
		_, err := svc.Search(ctx, q, 0)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	}
}

func TestProblemService_TrendingAndCategoriesAreCached(t *testing.T) {
	svc, db := newProblemCatalog(t)
	mr, _ := testutil.NewTestRedis(t)
	ctx := context.Background()

	trending, err := svc.Trending(ctx)
	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, "Support tools cost too much", trending[0].Title)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, len(models.ProblemCategories))
	assert.Equal(t, CategorySummary{Name: "e-commerce", Problems: 0}, categories[0])
	assert.True(t, mr.Exists(cache.ProblemTrendingKey))
	assert.True(t, mr.Exists(cache.ProblemCategoriesKey))

	testutil.CreateProblem(t, db, models.Problem{
		Title: "New pain", Category: "productivity", SeverityScore: 10, MentionCount: 100,
	})
	testutil.CreateProblem(t, db, models.Problem{Title: "Legacy", Category: "legacy-category"})

	cached, err := svc.Trending(ctx)
	require.NoError(t, err)
	assert.Equal(t, trending[0].ID, cached[0].ID)

	mr.FastForward(cache.ProblemsTTL)
	fresh, err := svc.Trending(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New pain", fresh[0].Title)

	categories, err = svc.Categories(ctx)
	require.NoError(t, err)
	last := categories[len(categories)-1]
	assert.Equal(t, CategorySummary{Name: "legacy-category", Problems: 1}, last)
	for _, c := range categories {
		if c.Name == "productivity" {
			assert.EqualValues(t, 2, c.Problems)
		}
	}
}

func TestProblemService_TrendingWithoutRedis(t *testing.T) {
	svc := NewProblemService(repository.NewProblemRepository(testutil.NewTestDB(t)))

	trending, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, trending)
	assert.Empty(t, trending)

	_, err = svc.GetProblem(context.Background(), 1)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
