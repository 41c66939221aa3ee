// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Seeder orchestrates populating the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
	}
}

// ClearAll removes all seeded rows. Tables stay in place; only data goes.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	// Hard delete, including soft-deleted rows. Comments first, then posts,
	// then users, to respect foreign keys on engines that enforce them.
	for _, model := range []interface{}{
		&models.Comment{}, &models.Post{}, &models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedBlog creates numUsers users and numPosts posts with comments, replies
// and like tallies spread across them.
func (s *Seeder) SeedBlog(numUsers, numPosts int) error {
	log.Printf("Seeding %d users and %d posts...", numUsers, numPosts)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	//nolint:gosec // weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[r.Intn(len(users))]
		posts = append(posts, s.factory.BuildPost(author))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	commentCount := 0
	for _, post := range posts {
		n := r.Intn(6)
		var roots []*models.Comment
		for j := 0; j < n; j++ {
			commenter := users[r.Intn(len(users))]
			comment, err := s.factory.CreateComment(commenter, post)
			if err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			roots = append(roots, comment)
			commentCount++
		}

		// A few replies to keep threads interesting
		for _, root := range roots {
			if r.Intn(3) != 0 {
				continue
			}
			replier := users[r.Intn(len(users))]
			if _, err := s.factory.CreateReply(replier, post, root); err != nil {
				return fmt.Errorf("failed to create reply: %w", err)
			}
			commentCount++
		}

		if err := s.factory.AddLikes(post, r.Intn(40)); err != nil {
			return fmt.Errorf("failed to add likes: %w", err)
		}
	}
	log.Printf("created %d comments", commentCount)

	return nil
}
