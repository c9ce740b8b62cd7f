package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"menuthenu/internal/extract"
	"menuthenu/internal/models"
	"menuthenu/internal/store"
)

var errItemName = errors.New("item name is required")

// flexPrice accepts 12.5, "12.5" and "$12.50".
type flexPrice float64

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*p = 0
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*p = flexPrice(extract.ParsePrice(raw))
		return nil
	}
	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*p = flexPrice(value)
	return nil
}

// ItemInput is the JSON shape clients send for new items.
type ItemInput struct {
	Name         string            `json:"name"`
	Price        flexPrice         `json:"price"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	IsVegetarian bool              `json:"isVegetarian"`
	Image        string            `json:"image"`
	Ingredients  models.StringList `json:"ingredients"`
	Nutrition    *models.Nutrition `json:"nutrition"`
}

func (in ItemInput) toModel() (models.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.MenuItem{}, errItemName
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.UncategorizedCategory
	}
	return models.MenuItem{
		Name:         name,
		Price:        float64(in.Price),
		Description:  strings.TrimSpace(in.Description),
		Category:     category,
		IsVegetarian: in.IsVegetarian,
		Image:        strings.TrimSpace(in.Image),
		Ingredients:  in.Ingredients,
		Nutrition:    in.Nutrition,
	}, nil
}

func itemsFromInputs(inputs []ItemInput) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := in.toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// decodeItemBatch accepts {"items": [...]}, a bare array, or one item object.
func decodeItemBatch(body []byte) ([]ItemInput, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("request body is required")
	}

	if trimmed[0] == '[' {
		var list []ItemInput
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var wrapper struct {
		Items *[]ItemInput `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Items != nil {
		return *wrapper.Items, nil
	}

	var single ItemInput
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return []ItemInput{single}, nil
}

// ItemUpdateRequest carries optional fields; absent keys stay untouched.
type ItemUpdateRequest struct {
	Name         *string            `json:"name"`
	Price        *flexPrice         `json:"price"`
	Description  *string            `json:"description"`
	Category     *string            `json:"category"`
	IsVegetarian *bool              `json:"isVegetarian"`
	Image        *string            `json:"image"`
	Ingredients  *models.StringList `json:"ingredients"`
	Nutrition    *models.Nutrition  `json:"nutrition"`
}

func (r ItemUpdateRequest) toPatch() (store.ItemPatch, error) {
	patch := store.ItemPatch{
		Description:  r.Description,
		IsVegetarian: r.IsVegetarian,
		Image:        r.Image,
		Ingredients:  r.Ingredients,
		Nutrition:    r.Nutrition,
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return store.ItemPatch{}, errItemName
		}
		patch.Name = &name
	}
	if r.Price != nil {
		price := float64(*r.Price)
		patch.Price = &price
	}
	if r.Category != nil {
		category := strings.TrimSpace(*r.Category)
		if category == "" {
			category = models.UncategorizedCategory
		}
		patch.Category = &category
	}
	return patch, nil
}
