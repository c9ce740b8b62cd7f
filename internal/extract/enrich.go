package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"menuthenu/internal/models"
)

const (
	PlaceholderImage      = "/images/placeholder-food.svg"
	PlaceholderIngredient = "Information not available"
)

var errNotConfigured = errors.New("api key not configured")

// FoodData is what the food-data endpoint and enrichment return for a dish.
type FoodData struct {
	Image       string           `json:"image"`
	Ingredients []string         `json:"ingredients"`
	Nutrition   models.Nutrition `json:"nutrition"`
}

// Recipe is the subset of a recipe lookup the menu cares about.
type Recipe struct {
	Ingredients []string
	Nutrition   models.Nutrition
}

// ImageSearcher finds a picture for a dish name.
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// RecipeFinder finds ingredients and macros for a dish name.
type RecipeFinder interface {
	FindRecipe(ctx context.Context, query string) (Recipe, error)
}

// Enricher decorates items with data from the external collaborators.
// Calls are made one at a time and every failure degrades to placeholders.
type Enricher struct {
	images  ImageSearcher
	recipes RecipeFinder
	logger  zerolog.Logger
}

func NewEnricher(images ImageSearcher, recipes RecipeFinder, logger zerolog.Logger) *Enricher {
	return &Enricher{
		images:  images,
		recipes: recipes,
		logger:  logger.With().Str("component", "enricher").Logger(),
	}
}

// Lookup never fails: missing pieces are filled with placeholder values.
func (e *Enricher) Lookup(ctx context.Context, name string) FoodData {
	data := FoodData{
		Image:       PlaceholderImage,
		Ingredients: []string{PlaceholderIngredient},
	}

	if image, err := e.images.SearchImage(ctx, name); err != nil {
		e.logger.Warn().Err(err).Str("dish", name).Msg("image search failed, using placeholder")
	} else if image != "" {
		data.Image = image
	}

	if recipe, err := e.recipes.FindRecipe(ctx, name); err != nil {
		e.logger.Warn().Err(err).Str("dish", name).Msg("recipe lookup failed, using placeholder")
	} else {
		if len(recipe.Ingredients) > 0 {
			data.Ingredients = recipe.Ingredients
		}
		data.Nutrition = recipe.Nutrition
	}

	return data
}

// EnrichAll runs Lookup for every item sequentially. Items that already
// carry an image keep it.
func (e *Enricher) EnrichAll(ctx context.Context, items []models.MenuItem) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			out = append(out, item)
			continue
		}
		data := e.Lookup(ctx, item.Name)
		if item.Image == "" {
			item.Image = data.Image
		}
		item.Ingredients = models.StringList(data.Ingredients)
		nutrition := data.Nutrition
		item.Nutrition = &nutrition
		out = append(out, item)
	}
	return out
}

// PexelsClient searches the Pexels photo API.
type PexelsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewPexelsClient(baseURL, apiKey string, timeout time.Duration) *PexelsClient {
	return &PexelsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type pexelsResponse struct {
	Photos []struct {
		Src struct {
			Medium   string `json:"medium"`
			Original string `json:"original"`
		} `json:"src"`
	} `json:"photos"`
}

func (p *PexelsClient) SearchImage(ctx context.Context, query string) (string, error) {
	if p.apiKey == "" {
		return "", errNotConfigured
	}

	params := url.Values{}
	params.Set("query", query+" food")
	params.Set("per_page", "1")

	var body pexelsResponse
	headers := map[string]string{"Authorization": p.apiKey}
	if err := getJSON(ctx, p.client, p.baseURL+"?"+params.Encode(), headers, &body); err != nil {
		return "", err
	}
	if len(body.Photos) == 0 {
		return "", fmt.Errorf("no image found for %q", query)
	}
	if src := body.Photos[0].Src.Medium; src != "" {
		return src, nil
	}
	return body.Photos[0].Src.Original, nil
}

// SpoonacularClient queries the Spoonacular recipe search with nutrition.
type SpoonacularClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewSpoonacularClient(baseURL, apiKey string, timeout time.Duration) *SpoonacularClient {
	return &SpoonacularClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type spoonacularResponse struct {
	Results []struct {
		ExtendedIngredients []struct {
			Name string `json:"name"`
		} `json:"extendedIngredients"`
		Nutrition struct {
			Nutrients []struct {
				Name   string  `json:"name"`
				Amount float64 `json:"amount"`
			} `json:"nutrients"`
			Ingredients []struct {
				Name string `json:"name"`
			} `json:"ingredients"`
		} `json:"nutrition"`
	} `json:"results"`
}

func (s *SpoonacularClient) FindRecipe(ctx context.Context, query string) (Recipe, error) {
	if s.apiKey == "" {
		return Recipe{}, errNotConfigured
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("number", "1")
	params.Set("addRecipeNutrition", "true")
	params.Set("fillIngredients", "true")

	var body spoonacularResponse
	headers := map[string]string{"x-api-key": s.apiKey}
	if err := getJSON(ctx, s.client, s.baseURL+"?"+params.Encode(), headers, &body); err != nil {
		return Recipe{}, err
	}
	if len(body.Results) == 0 {
		return Recipe{}, fmt.Errorf("no recipe found for %q", query)
	}

	result := body.Results[0]
	recipe := Recipe{Ingredients: make([]string, 0)}
	for _, ing := range result.ExtendedIngredients {
		if name := strings.TrimSpace(ing.Name); name != "" {
			recipe.Ingredients = append(recipe.Ingredients, name)
		}
	}
	if len(recipe.Ingredients) == 0 {
		for _, ing := range result.Nutrition.Ingredients {
			if name := strings.TrimSpace(ing.Name); name != "" {
				recipe.Ingredients = append(recipe.Ingredients, name)
			}
		}
	}
	for _, n := range result.Nutrition.Nutrients {
		switch strings.ToLower(n.Name) {
		case "calories":
			recipe.Nutrition.Calories = n.Amount
		case "protein":
			recipe.Nutrition.Protein = n.Amount
		case "carbohydrates":
			recipe.Nutrition.Carbs = n.Amount
		case "fat":
			recipe.Nutrition.Fat = n.Amount
		case "fiber":
			recipe.Nutrition.Fiber = n.Amount
		}
	}
	return recipe, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status code: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
