package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const UncategorizedCategory = "Uncategorized"

// Nutrition is the macro-nutrient breakdown of a dish.
type Nutrition struct {
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fat      float64 `bson:"fat" json:"fat"`
	Fiber    float64 `bson:"fiber" json:"fiber"`
}

// MenuItem is a single priced entry stored in its menu's own collection.
type MenuItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"`
	IsVegetarian bool               `bson:"isVegetarian" json:"isVegetarian"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	Ingredients  StringList         `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Nutrition    *Nutrition         `bson:"nutrition,omitempty" json:"nutrition,omitempty"`
	MenuID       primitive.ObjectID `bson:"menuId" json:"menuId"`
	Position     int64              `bson:"position" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
