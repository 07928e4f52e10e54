package catalog

import (
	"strings"

	"cloud.google.com/go/firestore"
)

// Kind names one of the site's content collections as it appears in URLs.
type Kind string

const (
	KindProducts       Kind = "products"
	KindAdvertisements Kind = "advertisements"
	KindChampionships  Kind = "championships"
	KindTrainingCards  Kind = "training-cards"
)

// Item is a document of any catalog kind.
type Item interface {
	ItemID() string
	setID(id string)
	normalize()
}

type kindInfo struct {
	collection string
	orderBy    string
	dir        firestore.Direction
	newItem    func() Item
	// fields lists the document keys an update may touch.
	fields []string
}

var kinds = map[Kind]kindInfo{
	KindProducts: {
		collection: "products",
		orderBy:    "name",
		dir:        firestore.Asc,
		newItem:    func() Item { return &Product{} },
		fields:     []string{"name", "price", "image", "description"},
	},
	KindAdvertisements: {
		collection: "advertisements",
		newItem:    func() Item { return &Advertisement{} },
		fields:     []string{"image", "title", "description", "link"},
	},
	KindChampionships: {
		collection: "championships",
		orderBy:    "date",
		dir:        firestore.Desc,
		newItem:    func() Item { return &Championship{} },
		fields:     []string{"title", "description", "date", "time", "registrationEnabled", "image", "teams"},
	},
	KindTrainingCards: {
		collection: "training_cards",
		newItem:    func() Item { return &TrainingCard{} },
		fields:     []string{"title", "description", "image", "price", "link"},
	},
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kinds[k]; !ok {
		return "", ErrUnknownKind
	}
	return k, nil
}

// New returns an empty item of kind k, ready to be decoded into.
func New(k Kind) (Item, error) {
	info, ok := kinds[k]
	if !ok {
		return nil, ErrUnknownKind
	}
	return info.newItem(), nil
}

type Product struct {
	ID          string  `firestore:"-" json:"id"`
	Name        string  `firestore:"name" json:"name" validate:"required,max=120"`
	Price       float64 `firestore:"price" json:"price" validate:"gte=0"`
	Image       string  `firestore:"image" json:"image" validate:"omitempty,url"`
	Description string  `firestore:"description" json:"description" validate:"max=2000"`
}

func (p *Product) ItemID() string  { return p.ID }
func (p *Product) setID(id string) { p.ID = id }
func (p *Product) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Image = strings.TrimSpace(p.Image)
	p.Description = strings.TrimSpace(p.Description)
}

type Advertisement struct {
	ID          string `firestore:"-" json:"id"`
	Image       string `firestore:"image" json:"image" validate:"required,url"`
	Title       string `firestore:"title" json:"title" validate:"max=200"`
	Description string `firestore:"description" json:"description" validate:"max=2000"`
	Link        string `firestore:"link" json:"link" validate:"omitempty,url"`
}

func (a *Advertisement) ItemID() string  { return a.ID }
func (a *Advertisement) setID(id string) { a.ID = id }
func (a *Advertisement) normalize() {
	a.Image = strings.TrimSpace(a.Image)
	a.Title = strings.TrimSpace(a.Title)
	a.Description = strings.TrimSpace(a.Description)
	a.Link = strings.TrimSpace(a.Link)
}

// Match is one pairing on a championship draw.
type Match struct {
	TeamA string `firestore:"teamA" json:"teamA" validate:"required,max=100"`
	TeamB string `firestore:"teamB" json:"teamB" validate:"required,max=100"`
}

type Championship struct {
	ID                  string  `firestore:"-" json:"id"`
	Title               string  `firestore:"title" json:"title" validate:"required,max=200"`
	Description         string  `firestore:"description" json:"description" validate:"max=4000"`
	Date                string  `firestore:"date" json:"date" validate:"required,isodate"`
	Time                string  `firestore:"time" json:"time" validate:"max=20"`
	RegistrationEnabled bool    `firestore:"registrationEnabled" json:"registrationEnabled"`
	Image               string  `firestore:"image" json:"image" validate:"omitempty,url"`
	Teams               []Match `firestore:"teams" json:"teams" validate:"dive"`
}

func (c *Championship) ItemID() string  { return c.ID }
func (c *Championship) setID(id string) { c.ID = id }
func (c *Championship) normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Date = strings.TrimSpace(c.Date)
	c.Time = strings.TrimSpace(c.Time)
	c.Image = strings.TrimSpace(c.Image)
	for i := range c.Teams {
		c.Teams[i].TeamA = strings.TrimSpace(c.Teams[i].TeamA)
		c.Teams[i].TeamB = strings.TrimSpace(c.Teams[i].TeamB)
	}
	if c.Teams == nil {
		c.Teams = []Match{}
	}
}

type TrainingCard struct {
	ID          string  `firestore:"-" json:"id"`
	Title       string  `firestore:"title" json:"title" validate:"required,max=200"`
	Description string  `firestore:"description" json:"description" validate:"max=2000"`
	Image       string  `firestore:"image" json:"image" validate:"omitempty,url"`
	Price       float64 `firestore:"price" json:"price" validate:"gte=0"`
	Link        string  `firestore:"link" json:"link" validate:"omitempty,url"`
}

func (c *TrainingCard) ItemID() string  { return c.ID }
func (c *TrainingCard) setID(id string) { c.ID = id }
func (c *TrainingCard) normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Image = strings.TrimSpace(c.Image)
	c.Link = strings.TrimSpace(c.Link)
}
