// Package seed generates demo data for development databases. It is not used by the
// request path.
package seed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result summarizes what a seed run created.
type Result struct {
	Users   []models.User
	Groups  []models.Group
	Posts   int
	Follows int
}

// Seeder writes generated users, groups, posts and follows.
type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewSeeder returns a seeder whose generated content is fully determined by seed.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{db: db, faker: gofakeit.New(seed), now: time.Now}
}

// ClearAll deletes every row the seeder can create, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{&models.Comment{}, &models.Follow{}, &models.Post{}, &models.Group{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	log.Println("seed: cleared existing data")
	return nil
}

// Run applies preset p.
func (s *Seeder) Run(ctx context.Context, p *Preset) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	res := &Result{}
	res.Users = s.buildUsers(p.Users, string(hashed))
	if len(res.Users) > 0 {
		if err := db.CreateInBatches(&res.Users, 100).Error; err != nil {
			return nil, fmt.Errorf("seed users: %w", err)
		}
	}

	for _, gp := range p.Groups {
		res.Groups = append(res.Groups, models.Group{
			Slug:        gp.Slug,
			Title:       gp.Title,
			Description: gp.Description,
		})
	}
	if len(res.Groups) > 0 {
		if err := db.CreateInBatches(&res.Groups, 100).Error; err != nil {
			return nil, fmt.Errorf("seed groups: %w", err)
		}
	}

	posts := s.buildPosts(res.Users, res.Groups, p.PostsPerUser, p.MaxDays)
	if len(posts) > 0 {
		if err := db.CreateInBatches(&posts, 200).Error; err != nil {
			return nil, fmt.Errorf("seed posts: %w", err)
		}
	}
	res.Posts = len(posts)

	follows := s.buildFollows(res.Users, p.FollowsPerUser)
	if len(follows) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&follows, 200).Error; err != nil {
			return nil, fmt.Errorf("seed follows: %w", err)
		}
	}
	res.Follows = len(follows)

	log.Printf("seed: %d users, %d groups, %d posts, %d follows", len(res.Users), len(res.Groups), res.Posts, res.Follows)
	return res, nil
}

func (s *Seeder) buildUsers(n int, password string) []models.User {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		base := strings.ToLower(strings.ReplaceAll(s.faker.Username(), " ", ""))
		users = append(users, models.User{
			Username:    fmt.Sprintf("%s_%d", base, i+1),
			DisplayName: s.faker.Name(),
			Password:    password,
		})
	}
	return users
}

// buildPosts spreads CreatedAt over the last maxDays; about half the posts get a group.
func (s *Seeder) buildPosts(users []models.User, groups []models.Group, perUser, maxDays int) []models.Post {
	now := s.now().UTC()
	span := time.Duration(maxDays) * 24 * time.Hour

	posts := make([]models.Post, 0, len(users)*perUser)
	for _, u := range users {
		for i := 0; i < perUser; i++ {
			post := models.Post{
				Text:      s.faker.Paragraph(1, s.faker.Number(1, 3), 12, " "),
				AuthorID:  u.ID,
				CreatedAt: now.Add(-time.Duration(s.faker.Rand.Int63n(int64(span) + 1))),
			}
			if len(groups) > 0 && s.faker.Bool() {
				id := groups[s.faker.Number(0, len(groups)-1)].ID
				post.GroupID = &id
			}
			if s.faker.Number(1, 5) == 1 {
				post.Image = fmt.Sprintf("posts/%s.jpg", s.faker.UUID())
			}
			posts = append(posts, post)
		}
	}
	return posts
}

// buildFollows gives every user up to perUser distinct authors other than themselves.
func (s *Seeder) buildFollows(users []models.User, perUser int) []models.Follow {
	var follows []models.Follow
	for i, u := range users {
		picked := 0
		for _, j := range s.faker.Rand.Perm(len(users)) {
			if picked >= perUser {
				break
			}
			if j == i {
				continue
			}
			follows = append(follows, models.Follow{UserID: u.ID, AuthorID: users[j].ID})
			picked++
		}
	}
	return follows
}
