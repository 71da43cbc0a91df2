package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

// UserService handles user profiles and author subscriptions.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// IsSubscribed reports whether userID follows authorID. Always false for
// userID == 0 (anonymous).
func (s *UserService) IsSubscribed(userID, authorID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// Subscribe creates a Follow row. Self-subscription and duplicates are
// rejected as validation errors; a missing author is a not-found.
func (s *UserService) Subscribe(userID, authorID uint) (*models.User, error) {
	var author models.User
	if err := s.db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if userID == authorID {
		return nil, NewValidationError("author", "cannot subscribe to yourself")
	}

	var existing models.Follow
	err := s.db.Where("user_id = ? AND author_id = ?", userID, authorID).First(&existing).Error
	if err == nil {
		return nil, NewValidationError("author", "already subscribed to this author")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.Create(&follow).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (s *UserService) Unsubscribe(userID, authorID uint) error {
	result := s.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AuthorSubscription is a followed author together with an (optionally
// truncated) slice of their recipes and the true total.
type AuthorSubscription struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// Subscriptions returns every author the user follows. recipesLimit < 0
// means no truncation of the embedded recipe lists.
func (s *UserService) Subscriptions(userID uint, recipesLimit int) ([]AuthorSubscription, error) {
	var authors []models.User
	err := s.db.
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("users.id").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	subs := make([]AuthorSubscription, 0, len(authors))
	for _, author := range authors {
		sub, err := s.authorSubscription(author, recipesLimit)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, nil
}

// AuthorWithRecipes builds the enriched representation for a single author.
func (s *UserService) AuthorWithRecipes(authorID uint, recipesLimit int) (*AuthorSubscription, error) {
	var author models.User
	if err := s.db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.authorSubscription(author, recipesLimit)
}

func (s *UserService) authorSubscription(author models.User, recipesLimit int) (*AuthorSubscription, error) {
	var count int64
	if err := s.db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
		return nil, err
	}

	query := s.db.Where("author_id = ?", author.ID).Order("id")
	if recipesLimit >= 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	return &AuthorSubscription{
		Author:       author,
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}
