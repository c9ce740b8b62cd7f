package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultFont               = "sans-serif"
	DefaultBackgroundColor    = "#ffffff"
	DefaultTextColor          = "#000000"
	DefaultAccentColor        = "#3b82f6"
	DefaultSecondaryTextColor = "#666666"

	BackgroundNone       = "none"
	BackgroundTile       = "tile"
	BackgroundFullscreen = "fullscreen"
)

// ColorScheme holds the four colors a menu page is painted with.
type ColorScheme struct {
	Background    string `bson:"background" json:"background"`
	Text          string `bson:"text" json:"text"`
	Accent        string `bson:"accent" json:"accent"`
	SecondaryText string `bson:"secondaryText" json:"secondaryText"`
}

// BackgroundImage describes an optional page background.
type BackgroundImage struct {
	URL     string  `bson:"url" json:"url"`
	Display string  `bson:"display" json:"display"`
	Opacity float64 `bson:"opacity" json:"opacity"`
}

// Customization is the set of visual parameters applied when rendering a menu.
type Customization struct {
	Font            string          `bson:"font" json:"font"`
	Color           ColorScheme     `bson:"color" json:"color"`
	BackgroundImage BackgroundImage `bson:"backgroundImage" json:"backgroundImage"`
}

// WithDefaults fills every empty field with the editor defaults.
func (c Customization) WithDefaults() Customization {
	if c.Font == "" {
		c.Font = DefaultFont
	}
	if c.Color.Background == "" {
		c.Color.Background = DefaultBackgroundColor
	}
	if c.Color.Text == "" {
		c.Color.Text = DefaultTextColor
	}
	if c.Color.Accent == "" {
		c.Color.Accent = DefaultAccentColor
	}
	if c.Color.SecondaryText == "" {
		c.Color.SecondaryText = DefaultSecondaryTextColor
	}
	switch c.BackgroundImage.Display {
	case BackgroundTile, BackgroundFullscreen:
	default:
		c.BackgroundImage.Display = BackgroundNone
	}
	if c.BackgroundImage.Opacity <= 0 || c.BackgroundImage.Opacity > 1 {
		c.BackgroundImage.Opacity = 1
	}
	return c
}

// Menu is a named collection of items plus presentation settings. Items live
// in the dedicated collection named by CollectionName.
type Menu struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name           string              `bson:"name" json:"name"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	Template       string              `bson:"template" json:"template"`
	UserID         *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	CollectionName string              `bson:"collectionName" json:"collectionName"`
	Subdomain      *string             `bson:"subdomain,omitempty" json:"subdomain,omitempty"`
	IsPublished    bool                `bson:"isPublished" json:"isPublished"`
	Customization  Customization       `bson:"customization" json:"customization"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SubdomainValue returns the assigned subdomain or "".
func (m Menu) SubdomainValue() string {
	if m.Subdomain == nil {
		return ""
	}
	return *m.Subdomain
}

// OwnedBy reports whether the menu belongs to userID.
func (m Menu) OwnedBy(userID primitive.ObjectID) bool {
	return m.UserID != nil && *m.UserID == userID
}
