package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

// CatalogService serves the read-only reference data: tags and ingredients.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) GetTag(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// ListIngredients returns ingredients, optionally filtered by name prefix.
func (s *CatalogService) ListIngredients(namePrefix string) ([]models.Ingredient, error) {
	query := s.db.Order("name")
	if namePrefix != "" {
		query = query.Where("name LIKE ?", namePrefix+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// ImportIngredientsCSV loads "name,measurement_unit" rows into the ingredients
// table. Rows already present are skipped, so re-running the loader is safe.
func (s *CatalogService) ImportIngredientsCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) < 2 {
			return imported, fmt.Errorf("malformed CSV record: %v", record)
		}

		ingredient := models.Ingredient{Name: record[0], MeasurementUnit: record[1]}
		result := s.db.Where(models.Ingredient{
			Name:            ingredient.Name,
			MeasurementUnit: ingredient.MeasurementUnit,
		}).FirstOrCreate(&ingredient)
		if result.Error != nil {
			return imported, result.Error
		}
		if result.RowsAffected > 0 {
			imported++
		}
	}
	return imported, nil
}
