// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"scribe/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much demo data Run creates.
type Options struct {
	Users        int
	PostsPerUser int
	// Password is assigned to every seeded user (hashed). Defaults to "password".
	Password string
}

// Run populates the database with fake users, posts and likes.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.Users <= 0 {
		opts.Users = 5
	}
	if opts.PostsPerUser <= 0 {
		opts.PostsPerUser = 3
	}
	if opts.Password == "" {
		opts.Password = "password"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Username: gofakeit.Username(),
			Name:     gofakeit.Name(),
			Age:      gofakeit.Number(18, 80),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("create seed user: %w", err)
		}
		users = append(users, user)
	}

	var posts []*models.Post
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post := &models.Post{
				UserID:  user.ID,
				Content: gofakeit.Sentence(r.Intn(12) + 3),
			}
			if err := db.Create(post).Error; err != nil {
				return fmt.Errorf("create seed post: %w", err)
			}
			posts = append(posts, post)
		}
	}

	// Sprinkle likes: each user likes roughly a third of everyone's posts.
	for _, user := range users {
		for _, post := range posts {
			if r.Intn(3) != 0 {
				continue
			}
			like := models.Like{UserID: user.ID, PostID: post.ID}
			if err := db.Create(&like).Error; err != nil {
				return fmt.Errorf("create seed like: %w", err)
			}
		}
	}

	return nil
}
