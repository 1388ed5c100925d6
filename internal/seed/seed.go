// Package seed loads demo accounts and ideas for development environments.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/repository"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "Demo123!"

//go:embed data/demo.yaml
var demoYAML []byte

// Options configures a seeding run.
type Options struct {
	// FakeIdeas adds generated ideas owned by random developers.
	FakeIdeas int
	// FakeUsers adds generated REGULAR accounts.
	FakeUsers int
	// Clean removes all users, ideas, favorites and problems first.
	Clean     bool
	FastHash  bool
	BatchSize int
	MaxDays   int
	RandSeed  int64
}

// DemoUser is an account in the embedded dataset.
type DemoUser struct {
	Name  string      `yaml:"name"`
	Email string      `yaml:"email"`
	Role  models.Role `yaml:"role"`
	Image string      `yaml:"image"`
}

// DemoIdea is an idea in the embedded dataset, owned by the user with the
// matching email.
type DemoIdea struct {
	Title       string   `yaml:"title"`
	Owner       string   `yaml:"owner"`
	Description string   `yaml:"description"`
	Screenshots []string `yaml:"screenshots"`
	Views       int64    `yaml:"views"`
}

// DemoProblem is a catalog problem in the embedded dataset.
type DemoProblem struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Source       string   `yaml:"source"`
	SourceURL    string   `yaml:"source_url"`
	Category     string   `yaml:"category"`
	Severity     float64  `yaml:"severity"`
	MentionCount int64    `yaml:"mentions"`
	Keywords     []string `yaml:"keywords"`
}

// Dataset is the decoded demo data.
type Dataset struct {
	Users    []DemoUser    `yaml:"users"`
	Ideas    []DemoIdea    `yaml:"ideas"`
	Problems []DemoProblem `yaml:"problems"`
}

// Summary reports what a run wrote.
type Summary struct {
	Users     int
	Ideas     int
	Favorites int
	Problems  int
}

// LoadDataset decodes raw YAML and checks its references.
func LoadDataset(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode demo dataset: %w", err)
	}

	emails := make(map[string]struct{}, len(ds.Users))
	for i, u := range ds.Users {
		if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
			return nil, fmt.Errorf("user %d: name and email are required", i)
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("user %s: invalid role %q", u.Email, u.Role)
		}
		emails[strings.ToLower(u.Email)] = struct{}{}
	}
	for _, idea := range ds.Ideas {
		if _, ok := emails[strings.ToLower(idea.Owner)]; !ok {
			return nil, fmt.Errorf("idea %q: unknown owner %s", idea.Title, idea.Owner)
		}
	}
	for _, p := range ds.Problems {
		switch {
		case strings.TrimSpace(p.Title) == "":
			return nil, errors.New("problem: title is required")
		case !models.IsProblemSource(p.Source):
			return nil, fmt.Errorf("problem %q: unknown source %q", p.Title, p.Source)
		case !models.IsProblemCategory(p.Category):
			return nil, fmt.Errorf("problem %q: unknown category %q", p.Title, p.Category)
		case p.Severity < 0 || p.Severity > models.MaxSeverity:
			return nil, fmt.Errorf("problem %q: severity %.1f outside 0-10", p.Title, p.Severity)
		}
	}
	return &ds, nil
}

// DemoDataset returns the embedded dataset.
func DemoDataset() (*Dataset, error) {
	return LoadDataset(demoYAML)
}

// Seeder writes the demo dataset plus optional generated content.
type Seeder struct {
	db        *gorm.DB
	opts      Options
	factory   *Factory
	favorites repository.FavoriteRepository
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:        db,
		opts:      opts,
		factory:   NewFactory(db, opts),
		favorites: repository.NewFavoriteRepository(db),
	}
}

// Run seeds the database. Demo users and ideas are upserted, so repeated runs
// leave a single copy of each.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	ds, err := DemoDataset()
	if err != nil {
		return nil, err
	}

	if s.opts.Clean {
		if err := s.clean(ctx); err != nil {
			return nil, err
		}
	}

	sum := &Summary{}
	users, err := s.upsertUsers(ctx, ds.Users)
	if err != nil {
		return nil, err
	}
	sum.Users = len(users)

	ideas, err := s.upsertIdeas(ctx, ds.Ideas, users)
	if err != nil {
		return nil, err
	}
	sum.Ideas = len(ideas)

	if sum.Problems, err = s.upsertProblems(ctx, ds.Problems); err != nil {
		return nil, err
	}

	var developers, regulars []*models.User
	for _, u := range users {
		if u.Role == models.RoleDeveloper {
			developers = append(developers, u)
		} else {
			regulars = append(regulars, u)
		}
	}

	for i := 0; i < s.opts.FakeUsers; i++ {
		u, err := s.factory.CreateUser(models.RoleRegular)
		if err != nil {
			return nil, fmt.Errorf("create fake user: %w", err)
		}
		regulars = append(regulars, u)
		sum.Users++
	}

	if s.opts.FakeIdeas > 0 && len(developers) > 0 {
		batch := make([]*models.Idea, 0, s.opts.FakeIdeas)
		for i := 0; i < s.opts.FakeIdeas; i++ {
			owner := developers[s.factory.Between(0, len(developers)-1)]
			batch = append(batch, s.factory.BuildIdea(owner))
		}
		if err := s.factory.CreateIdeasBatch(batch); err != nil {
			return nil, fmt.Errorf("create fake ideas: %w", err)
		}
		for _, idea := range batch {
			ideas = append(ideas, *idea)
		}
		sum.Ideas += len(batch)
	}

	// Regular users favorite two to four ideas each.
	for _, u := range regulars {
		for _, idea := range s.factory.Pick(ideas, s.factory.Between(2, 4)) {
			if _, _, err := s.favorites.Add(ctx, u.ID, idea.ID); err != nil {
				if models.IsCode(err, models.CodeConflict) {
					continue
				}
				return nil, fmt.Errorf("favorite idea %d for user %d: %w", idea.ID, u.ID, err)
			}
			sum.Favorites++
		}
	}

	if err := s.reconcileLikes(ctx); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		slog.Int("users", sum.Users), slog.Int("ideas", sum.Ideas),
		slog.Int("favorites", sum.Favorites), slog.Int("problems", sum.Problems))
	return sum, nil
}

// reconcileLikes sets every idea's like counter to its favorite count.
// Databases seeded by older datasets carried fixed counts with no rows behind them.
func (s *Seeder) reconcileLikes(ctx context.Context) error {
	res := s.db.WithContext(ctx).Exec(`UPDATE ideas SET likes = (
		SELECT COUNT(*) FROM favorites WHERE favorites.idea_id = ideas.id
	) WHERE likes <> (
		SELECT COUNT(*) FROM favorites WHERE favorites.idea_id = ideas.id
	)`)
	if res.Error != nil {
		return fmt.Errorf("reconcile like counters: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		middleware.Logger.WarnContext(ctx, "like counters reconciled", slog.Int64("ideas", res.RowsAffected))
	}
	return nil
}

func (s *Seeder) clean(ctx context.Context) error {
	middleware.Logger.WarnContext(ctx, "clearing users, ideas, favorites and problems")
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&models.Favorite{}, &models.Idea{}, &models.User{}, &models.Problem{}} {
			if err := all.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

func (s *Seeder) upsertUsers(ctx context.Context, demo []DemoUser) (map[string]*models.User, error) {
	hash, err := s.factory.passwordHash()
	if err != nil {
		return nil, err
	}

	out := make(map[string]*models.User, len(demo))
	for _, d := range demo {
		email := strings.ToLower(d.Email)
		user := &models.User{}
		err := s.db.WithContext(ctx).
			Where(models.User{Email: email}).
			Attrs(models.User{
				Name:             d.Name,
				Password:         hash,
				Image:            d.Image,
				Role:             d.Role,
				SubscriptionTier: "FREE",
				IsPublic:         true,
			}).
			FirstOrCreate(user).Error
		if err != nil {
			return nil, fmt.Errorf("upsert user %s: %w", email, err)
		}
		out[email] = user
	}
	return out, nil
}

func (s *Seeder) upsertIdeas(ctx context.Context, demo []DemoIdea, owners map[string]*models.User) ([]models.Idea, error) {
	ideas := make([]models.Idea, 0, len(demo))
	for _, d := range demo {
		owner := owners[strings.ToLower(d.Owner)]
		if owner == nil {
			return nil, errors.New("unknown owner " + d.Owner)
		}

		idea := models.Idea{}
		err := s.db.WithContext(ctx).
			Where(&models.Idea{OwnerID: owner.ID, Title: d.Title}).
			Attrs(models.Idea{
				Description: strings.TrimSpace(d.Description),
				Screenshots: d.Screenshots,
				Views:       d.Views,
			}).
			FirstOrCreate(&idea).Error
		if err != nil {
			return nil, fmt.Errorf("upsert idea %q: %w", d.Title, err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

// upsertProblems keys catalog entries on source and title. Existing rows take
// the dataset's current scores.
func (s *Seeder) upsertProblems(ctx context.Context, demo []DemoProblem) (int, error) {
	for _, d := range demo {
		p := models.Problem{}
		err := s.db.WithContext(ctx).
			Where(&models.Problem{Source: d.Source, Title: d.Title}).
			Assign(models.Problem{
				Description:   strings.TrimSpace(d.Description),
				SourceURL:     d.SourceURL,
				Category:      d.Category,
				SeverityScore: d.Severity,
				MentionCount:  d.MentionCount,
				Keywords:      d.Keywords,
			}).
			FirstOrCreate(&p).Error
		if err != nil {
			return 0, fmt.Errorf("upsert problem %q: %w", d.Title, err)
		}
	}
	return len(demo), nil
}
