package seed

import (
	"fmt"
	"strings"
	"time"

	"ideahub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds marketplace entities with realistic fake content and
// persists them.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	hash  string
}

// NewFactory creates a Factory bound to db. A zero Options.RandSeed seeds
// from the clock.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed)}
}

// passwordHash returns the bcrypt hash of DemoPassword, computed once.
func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.FastHash {
		cost = bcrypt.MinCost
	}
	raw, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash demo password: %w", err)
	}
	f.hash = string(raw)
	return f.hash, nil
}

// BuildUser returns an unsaved user with fake identity fields.
func (f *Factory) BuildUser(role models.Role, overrides ...func(*models.User)) *models.User {
	name := f.faker.Name()
	handle := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	bio := f.faker.HipsterSentence(12)
	website := "https://" + f.faker.DomainName()

	user := &models.User{
		Name:             name,
		Email:            fmt.Sprintf("%s.%d@example.com", handle, f.faker.Number(100, 9999)),
		Image:            fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		Role:             role,
		SubscriptionTier: "FREE",
		Bio:              &bio,
		Website:          &website,
		IsPublic:         true,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser persists a fake user whose password is DemoPassword.
func (f *Factory) CreateUser(role models.Role, overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	user := f.BuildUser(role, overrides...)
	user.Password = hash
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildIdea returns an unsaved idea for owner with a pitch, screenshots and
// a created_at spread over the last MaxDays days.
func (f *Factory) BuildIdea(owner *models.User, overrides ...func(*models.Idea)) *models.Idea {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	end := time.Now()
	start := end.Add(-time.Duration(maxDays) * 24 * time.Hour)

	shots := make([]string, f.faker.Number(0, 3))
	for i := range shots {
		shots[i] = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID())
	}

	idea := &models.Idea{
		Title:       fmt.Sprintf("%s: %s for %s", f.faker.AppName(), f.faker.BuzzWord(), strings.ToLower(f.faker.JobTitle())),
		Description: f.faker.Paragraph(2, 4, 12, "\n\n"),
		Screenshots: shots,
		Views:       int64(f.faker.Number(0, 5000)),
		OwnerID:     owner.ID,
		CreatedAt:   f.faker.DateRange(start, end),
	}
	if len(idea.Title) > 200 {
		idea.Title = idea.Title[:200]
	}
	for _, override := range overrides {
		override(idea)
	}
	return idea
}

// CreateIdeasBatch persists ideas in batches of Options.BatchSize.
func (f *Factory) CreateIdeasBatch(ideas []*models.Idea) error {
	if len(ideas) == 0 {
		return nil
	}
	size := f.opts.BatchSize
	if size <= 0 {
		size = 100
	}
	return f.db.CreateInBatches(ideas, size).Error
}

// Pick returns up to n distinct items of ideas in random order.
func (f *Factory) Pick(ideas []models.Idea, n int) []models.Idea {
	shuffled := append([]models.Idea(nil), ideas...)
	f.faker.ShuffleAnySlice(shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// Between returns a random int in [lo, hi].
func (f *Factory) Between(lo, hi int) int {
	return f.faker.Number(lo, hi)
}
